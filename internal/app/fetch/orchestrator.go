package fetch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tanbq/tweetpdf/internal/app"
	"github.com/tanbq/tweetpdf/internal/app/models"
	"github.com/tanbq/tweetpdf/internal/utils/errs"
	"github.com/tanbq/tweetpdf/internal/utils/logger"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Options configures one orchestrator run.
type Options struct {
	AllowedHosts []string
	Concurrency  int
	MaxBytes     int64

	// Required escalates any recorded failure to a returned error once the
	// full report has been built. Used by the font bootstrap, where the
	// resources are preconditions rather than optional enrichments.
	Required bool

	// OnTaskDone, when set, is called exactly once per task reaching a
	// terminal outcome, including allowlist rejections and cache hits. It may
	// be called from multiple goroutines.
	OnTaskDone func()
}

// Orchestrator drives a batch of fetch tasks to terminal outcomes: allowlist
// filtering, cache short-circuiting, bounded-concurrency dispatch, and a
// per-task retry loop. An individual task failure never aborts the batch.
type Orchestrator struct {
	fetcher app.Fetcher
	retry   RetryPolicy

	// sleep is the cancellable backoff wait, replaceable in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

func NewOrchestrator(fetcher app.Fetcher, retry RetryPolicy) *Orchestrator {
	return &Orchestrator{
		fetcher: fetcher,
		retry:   retry,
		sleep:   sleepCtx,
	}
}

// Run resolves every task to a terminal outcome and returns the aggregate
// report. It fails fatally only on invalid concurrency or an uncreatable
// destination directory. A cancelled context is returned as an error alongside
// the complete report, so callers stop instead of continuing on partial
// results; with opts.Required set, any recorded failure is also escalated to a
// returned error.
func (o *Orchestrator) Run(ctx context.Context, tasks []models.FetchTask, opts Options) (*models.FetchReport, error) {
	const funcName = "Orchestrator.Run"

	if opts.Concurrency < 1 {
		return nil, fmt.Errorf("%w: got %d", errs.ErrInvalidConcurrency, opts.Concurrency)
	}
	if err := ensureDestDirs(tasks); err != nil {
		return nil, err
	}

	results := make([]models.FetchResult, len(tasks))
	pending := make([]int, 0, len(tasks))
	for i, task := range tasks {
		switch {
		case !HostAllowed(task.URL, opts.AllowedHosts):
			results[i] = models.FetchResult{
				Task: task,
				Outcome: models.FetchOutcome{
					Kind:   models.FetchSkipped,
					Reason: "host not allowed",
				},
			}
			taskDone(opts)
		case CacheHit(task.Dest):
			results[i] = models.FetchResult{
				Task: task,
				Outcome: models.FetchOutcome{
					Kind:   models.FetchSuccess,
					Cached: true,
				},
			}
			taskDone(opts)
		default:
			pending = append(pending, i)
		}
	}

	// Each worker owns its result slot, so the slice needs no locking; the
	// aggregate is built single-threaded after Wait.
	group := new(errgroup.Group)
	group.SetLimit(opts.Concurrency)
	for _, i := range pending {
		i := i
		group.Go(func() error {
			results[i] = o.resolve(ctx, tasks[i], opts.MaxBytes)
			taskDone(opts)
			return nil
		})
	}
	_ = group.Wait()

	report := buildReport(results)
	logger.Info("acquisition finished",
		zap.String("function", funcName),
		zap.Int("total", report.Total),
		zap.Int("succeeded", report.Succeeded),
		zap.Int("skipped", report.Skipped),
		zap.Int("failed", report.Failed),
	)

	if err := ctx.Err(); err != nil {
		return report, fmt.Errorf("acquisition cancelled: %w", err)
	}
	if opts.Required && report.Failed > 0 {
		return report, fmt.Errorf("%w: %d of %d", errs.ErrRequiredFetchFailed, report.Failed, report.Total)
	}

	return report, nil
}

// resolve drives the retry loop for one task. Attempts are strictly
// sequential; the backoff sleep between them is cancellable. When the attempt
// cap exhausts a retryable failure, the final outcome is reported as
// permanent with the last failure's reason.
func (o *Orchestrator) resolve(ctx context.Context, task models.FetchTask, maxBytes int64) models.FetchResult {
	result := models.FetchResult{Task: task}

	for {
		if ctx.Err() != nil {
			result.Outcome = cancelledOutcome()
			return result
		}

		result.Attempts++
		result.Outcome = o.fetcher.Attempt(ctx, task, maxBytes)

		retry, delay := o.retry.ShouldRetry(result.Outcome, result.Attempts)
		if !retry {
			if result.Outcome.Kind == models.FetchRetryable {
				result.Outcome.Kind = models.FetchPermanent
				result.Outcome.Reason = "retries exhausted: " + result.Outcome.Reason
			}
			return result
		}

		logger.Debug("retrying fetch",
			zap.String("url", task.URL),
			zap.Int("attempt", result.Attempts),
			zap.Duration("backoff", delay),
			zap.String("reason", result.Outcome.Reason),
		)
		if err := o.sleep(ctx, delay); err != nil {
			result.Outcome = cancelledOutcome()
			return result
		}
	}
}

func buildReport(results []models.FetchResult) *models.FetchReport {
	report := &models.FetchReport{
		Total:   len(results),
		Results: results,
	}
	for _, result := range results {
		switch result.Outcome.Kind {
		case models.FetchSuccess:
			report.Succeeded++
		case models.FetchSkipped, models.FetchCancelled:
			report.Skipped++
		default:
			report.Failed++
		}
	}

	return report
}

func ensureDestDirs(tasks []models.FetchTask) error {
	seen := make(map[string]struct{})
	for _, task := range tasks {
		dir := filepath.Dir(task.Dest)
		if _, ok := seen[dir]; ok {
			continue
		}
		seen[dir] = struct{}{}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create destination directory %s: %w", dir, err)
		}
	}

	return nil
}

func taskDone(opts Options) {
	if opts.OnTaskDone != nil {
		opts.OnTaskDone()
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
