package pipeline

import "errors"

// Sentinel errors returned by Pipeline.Run. Callers should use errors.Is
// to classify a failure rather than matching on message text.
var (
	// ErrCancelled indicates the run's context was cancelled explicitly
	// (context.Canceled), as opposed to exceeding its time budget.
	ErrCancelled = errors.New("pipeline: cancelled")

	// ErrTimeout indicates the run exceeded the configured time budget
	// (context.DeadlineExceeded).
	ErrTimeout = errors.New("pipeline: generation timeout")

	// ErrTypeMismatch indicates one pass's declared output type does not
	// match the next pass's declared input type. This is a wiring bug,
	// caught at pipeline construction rather than at run time.
	ErrTypeMismatch = errors.New("pipeline: pass type mismatch")
)

// PassError wraps a failure from a specific pass, preserving its ID and
// position in the pipeline for diagnostics.
type PassError struct {
	PassID string
	Index  int
	Err    error
}

func (e *PassError) Error() string {
	return "pipeline: pass " + e.PassID + " failed: " + e.Err.Error()
}

func (e *PassError) Unwrap() error { return e.Err }
