package errs

import "errors"

var (
	ErrInvalidConcurrency  = errors.New("concurrency must be >= 1")
	ErrNoAllowedHosts      = errors.New("allowed hosts list is empty")
	ErrMissingColumns      = errors.New("required CSV columns not found")
	ErrIncompleteDateRange = errors.New("date filter requires both start and end")
	ErrInvalidDateRange    = errors.New("start date cannot be later than end date")
	ErrRequiredFetchFailed = errors.New("required resources could not be fetched")
)
