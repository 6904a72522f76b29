package models

import "time"

// Post is one tweet row read from the export CSV. MediaFiles is populated
// after acquisition with file URIs for every media attachment that was
// materialized locally.
type Post struct {
	ID         string
	CreatedAt  time.Time
	Text       string
	URL        string
	MediaURLs  []string
	MediaFiles []string
}

// FontSpec describes one required font resource.
type FontSpec struct {
	Family     string
	Filename   string
	FormatHint string
	URL        string
}

// FontFace is the template-facing form of a locally available font.
type FontFace struct {
	Family string
	Src    string
	Format string
}

type FetchKind string

const (
	FetchSuccess   FetchKind = "success"
	FetchRetryable FetchKind = "retryable_failure"
	FetchPermanent FetchKind = "permanent_failure"
	FetchSkipped   FetchKind = "skipped"
	FetchCancelled FetchKind = "cancelled"
)

// FetchTask is one unit of acquisition work: resolve URL into a local file at
// Dest. OwnerID attributes the result back to the record (or font) that asked
// for it. Tasks are immutable once built.
type FetchTask struct {
	OwnerID string
	URL     string
	Dest    string
}

// FetchOutcome is the classified result of a single attempt (or of a cache
// hit). StatusCode is set for HTTP-level outcomes so callers can assert on the
// failure kind, not just its presence.
type FetchOutcome struct {
	Kind         FetchKind
	Reason       string
	StatusCode   int
	BytesWritten int64
	Cached       bool
}

// FetchResult is a task's terminal state together with how many attempts it
// took to get there. Cache hits and allowlist rejections record zero attempts.
type FetchResult struct {
	Task     FetchTask
	Outcome  FetchOutcome
	Attempts int
}

// FetchReport is the aggregate over one orchestrator run. Cancelled tasks are
// counted under Skipped; the four counters always sum to Total.
type FetchReport struct {
	Total     int
	Succeeded int
	Skipped   int
	Failed    int
	Results   []FetchResult
}
