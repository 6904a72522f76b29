package app

import (
	"context"

	"github.com/tanbq/tweetpdf/internal/app/models"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mock.go

// Fetcher performs one network retrieval attempt for a task and classifies
// its outcome. Implementations must honor ctx cancellation.
type Fetcher interface {
	Attempt(ctx context.Context, task models.FetchTask, maxBytes int64) models.FetchOutcome
}
