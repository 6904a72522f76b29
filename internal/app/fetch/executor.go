package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/tanbq/tweetpdf/internal/app/models"
	"github.com/tanbq/tweetpdf/internal/utils/logger"
	"go.uber.org/zap"
)

const userAgent = "tweetpdf/1.0"

// transientStatus is the set of HTTP statuses worth another attempt.
var transientStatus = map[int]struct{}{
	http.StatusTooManyRequests:     {},
	http.StatusInternalServerError: {},
	http.StatusBadGateway:          {},
	http.StatusServiceUnavailable:  {},
	http.StatusGatewayTimeout:      {},
}

// HTTPFetcher performs single retrieval attempts over HTTP. It implements
// app.Fetcher.
type HTTPFetcher struct {
	client *http.Client
}

func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{
		client: &http.Client{Timeout: timeout},
	}
}

// Attempt issues one request for the task and classifies the outcome. A 2xx
// response with a non-empty body of at most maxBytes is written to task.Dest
// atomically (temp file plus rename) so a reader never observes a truncated
// file. An oversize body is discarded and skipped rather than retried.
func (f *HTTPFetcher) Attempt(ctx context.Context, task models.FetchTask, maxBytes int64) models.FetchOutcome {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, task.URL, nil)
	if err != nil {
		return models.FetchOutcome{
			Kind:   models.FetchPermanent,
			Reason: fmt.Sprintf("build request: %v", err),
		}
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return cancelledOutcome()
		}
		return models.FetchOutcome{
			Kind:   models.FetchRetryable,
			Reason: fmt.Sprintf("request failed: %v", err),
		}
	}
	defer resp.Body.Close()

	if _, transient := transientStatus[resp.StatusCode]; transient {
		return models.FetchOutcome{
			Kind:       models.FetchRetryable,
			Reason:     fmt.Sprintf("http %d", resp.StatusCode),
			StatusCode: resp.StatusCode,
		}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return models.FetchOutcome{
			Kind:       models.FetchPermanent,
			Reason:     fmt.Sprintf("http %d", resp.StatusCode),
			StatusCode: resp.StatusCode,
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes+1))
	if err != nil {
		if ctx.Err() != nil {
			return cancelledOutcome()
		}
		return models.FetchOutcome{
			Kind:   models.FetchRetryable,
			Reason: fmt.Sprintf("read body: %v", err),
		}
	}
	if int64(len(body)) > maxBytes {
		logger.Warn("payload exceeds size ceiling",
			zap.String("url", task.URL),
			zap.Int64("max_bytes", maxBytes),
		)
		return models.FetchOutcome{
			Kind:       models.FetchSkipped,
			Reason:     "oversize body",
			StatusCode: resp.StatusCode,
		}
	}
	if len(body) == 0 {
		return models.FetchOutcome{
			Kind:       models.FetchPermanent,
			Reason:     "empty body",
			StatusCode: resp.StatusCode,
		}
	}

	if err := writeAtomic(task.Dest, body); err != nil {
		return models.FetchOutcome{
			Kind:   models.FetchPermanent,
			Reason: fmt.Sprintf("write %s: %v", task.Dest, err),
		}
	}

	return models.FetchOutcome{
		Kind:         models.FetchSuccess,
		StatusCode:   resp.StatusCode,
		BytesWritten: int64(len(body)),
	}
}

// writeAtomic writes body to a temp file next to dest and renames it into
// place. Rename within one directory is atomic on POSIX filesystems.
func writeAtomic(dest string, body []byte) error {
	tmp := dest + ".tmp-" + uuid.NewString()
	if err := os.WriteFile(tmp, body, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, dest); err != nil {
		_ = os.Remove(tmp)
		return err
	}

	return nil
}

func cancelledOutcome() models.FetchOutcome {
	return models.FetchOutcome{
		Kind:   models.FetchCancelled,
		Reason: "cancelled",
	}
}
