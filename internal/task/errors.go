package task

import (
	"errors"
	"fmt"
)

// Sentinel errors for conditions that never reach the network.
var (
	// ErrClassificationRejected means the input failed URL classification.
	ErrClassificationRejected = errors.New("unsupported or invalid URL")

	// ErrTaskActive means a submission was attempted while a task is live.
	ErrTaskActive = errors.New("a task is already active")

	// ErrCancelled marks user-initiated cancellation; not a failure.
	ErrCancelled = errors.New("cancelled by user")
)

// PreviewFetchError wraps a failed metadata lookup. Transient: it is
// surfaced as a notice and never blocks task submission.
type PreviewFetchError struct {
	Err error
}

func (e *PreviewFetchError) Error() string {
	return fmt.Sprintf("preview fetch failed: %v", e.Err)
}

func (e *PreviewFetchError) Unwrap() error { return e.Err }

// SubmissionError wraps a failed job-creation request. Fatal to the
// attempt; the orchestrator becomes retry-eligible.
type SubmissionError struct {
	Err error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("submission failed: %v", e.Err)
}

func (e *SubmissionError) Unwrap() error { return e.Err }

// ConnectionLostError is raised after too many consecutive failed or
// malformed poll responses.
type ConnectionLostError struct {
	Failures int
}

func (e *ConnectionLostError) Error() string {
	return fmt.Sprintf("connection lost after %d consecutive poll failures", e.Failures)
}

// RemoteReportedError carries a failure the backend itself reported.
type RemoteReportedError struct {
	Message string
}

func (e *RemoteReportedError) Error() string { return e.Message }

// UserMessage renders any task error as a single human-readable line.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var remote *RemoteReportedError
	if errors.As(err, &remote) && remote.Message != "" {
		return remote.Message
	}
	var lost *ConnectionLostError
	if errors.As(err, &lost) {
		return "Connection to the conversion server was lost. Please try again."
	}
	var sub *SubmissionError
	if errors.As(err, &sub) {
		return "Could not start the conversion. Please try again."
	}
	var prev *PreviewFetchError
	if errors.As(err, &prev) {
		return "Could not fetch video info."
	}
	if errors.Is(err, ErrClassificationRejected) {
		return "This link is not supported."
	}
	if errors.Is(err, ErrCancelled) {
		return "Download cancelled."
	}
	return "Something went wrong. Please try again."
}
