package fetch

import (
	"time"

	"github.com/tanbq/tweetpdf/internal/app/models"
)

const (
	defaultMaxAttempts = 4
	defaultBaseDelay   = time.Second
)

// RetryPolicy bounds attempts per task and computes the backoff between them.
// The delay starts at BaseDelay and doubles on every retryable failure; it
// applies only between attempts of the same task.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: defaultMaxAttempts,
		BaseDelay:   defaultBaseDelay,
	}
}

// ShouldRetry decides whether another attempt is allowed after outcome and how
// long to back off first. attempt is the 1-based number of the attempt that
// just finished. Only retryable outcomes are ever retried.
func (p RetryPolicy) ShouldRetry(outcome models.FetchOutcome, attempt int) (bool, time.Duration) {
	if outcome.Kind != models.FetchRetryable {
		return false, 0
	}
	if attempt >= p.MaxAttempts {
		return false, 0
	}

	return true, p.BaseDelay << (attempt - 1)
}
