package validate

import (
	"fmt"
	"strings"
	"time"

	"github.com/tanbq/tweetpdf/internal/utils/errs"
)

const dateLayout = "2006-01-02"

func ValidateConcurrency(concurrency int) error {
	if concurrency < 1 {
		return fmt.Errorf("%w: got %d", errs.ErrInvalidConcurrency, concurrency)
	}

	return nil
}

func ValidateAllowedHosts(hosts []string) error {
	for _, host := range hosts {
		if strings.TrimSpace(host) != "" {
			return nil
		}
	}

	return errs.ErrNoAllowedHosts
}

// ValidateDateRange parses an optional start/end pair in YYYY-MM-DD form.
// Both must be given or both omitted; ok reports whether filtering is enabled.
func ValidateDateRange(startRaw, endRaw string) (start, end time.Time, ok bool, err error) {
	if (startRaw == "") != (endRaw == "") {
		return time.Time{}, time.Time{}, false, errs.ErrIncompleteDateRange
	}
	if startRaw == "" {
		return time.Time{}, time.Time{}, false, nil
	}

	start, err = time.Parse(dateLayout, startRaw)
	if err != nil {
		return time.Time{}, time.Time{}, false, fmt.Errorf("invalid start date %q: %w", startRaw, err)
	}
	end, err = time.Parse(dateLayout, endRaw)
	if err != nil {
		return time.Time{}, time.Time{}, false, fmt.Errorf("invalid end date %q: %w", endRaw, err)
	}
	if start.After(end) {
		return time.Time{}, time.Time{}, false, errs.ErrInvalidDateRange
	}

	return start, end, true, nil
}
