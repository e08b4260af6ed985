package model

import (
	"errors"
	"fmt"
)

// Error taxonomy. Every failure an orchestrator run can hit maps to
// one of these so callers can branch with errors.Is / errors.As.
var (
	// ErrJobNotFound is returned by registry lookups for unknown job IDs.
	ErrJobNotFound = errors.New("job not found")

	// ErrStaleRun is returned when an update carries a run token that
	// has been superseded by a resubmission of the same job ID.
	ErrStaleRun = errors.New("job run superseded")

	// ErrInputNotFound means a local video path resolved to nothing.
	ErrInputNotFound = errors.New("video file not found")

	// ErrAnalysisFailed wraps any failure of the external analyzer.
	ErrAnalysisFailed = errors.New("analysis failed")

	// ErrMalformedOutput means the analyzer's output is missing
	// required keys.
	ErrMalformedOutput = errors.New("malformed analyzer output")

	// ErrUnsupportedFormat rejects uploads with a disallowed extension.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrQueueFull signals backpressure: the job queue has no capacity
	// for another submission.
	ErrQueueFull = errors.New("job queue is full")

	// ErrNotCompleted is returned when a result is requested for a job
	// that has not reached the completed state.
	ErrNotCompleted = errors.New("analysis not completed yet")
)

// DownloadError reports a failed remote acquisition, carrying the
// upstream HTTP status when one was received.
type DownloadError struct {
	URL        string
	StatusCode int
	Status     string
	Err        error
}

func (e *DownloadError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("failed to download video from %s: upstream returned %s", e.URL, e.Status)
	}
	return fmt.Sprintf("failed to download video from %s: %v", e.URL, e.Err)
}

func (e *DownloadError) Unwrap() error {
	return e.Err
}
