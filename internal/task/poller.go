package task

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/bugtijamal/vidoe-downloader-and-converter/internal/api"
)

const (
	// PollInterval is the fixed cadence of status queries. A single
	// constant: the interval never adapts.
	PollInterval = 2500 * time.Millisecond

	// MaxConsecutiveFailures is how many failed or malformed poll
	// responses in a row are tolerated before the task errors out.
	MaxConsecutiveFailures = 5
)

// StatusFetcher retrieves one status payload for a task. *api.Client
// satisfies it; tests substitute fakes.
type StatusFetcher interface {
	Progress(ctx context.Context, taskID string) (api.StatusPayload, error)
}

// Poller repeatedly queries task status on a fixed interval. Ticks are
// strictly sequential: the next request is not issued until the
// previous response (or its failure) has been processed.
type Poller struct {
	Fetch       StatusFetcher
	Interval    time.Duration // defaults to PollInterval
	MaxFailures int           // defaults to MaxConsecutiveFailures
	Log         *slog.Logger
}

// Run polls until a terminal status is observed, ctx is cancelled, or
// the consecutive-failure threshold is exceeded. apply is invoked for
// every well-formed payload, including the terminal one.
//
// Returns nil when the backend reported completed, ctx.Err() on
// cancellation (any response in flight at that point is discarded),
// *ConnectionLostError after too many failures, and
// *RemoteReportedError when the backend reported an error status.
func (p *Poller) Run(ctx context.Context, taskID string, apply func(api.StatusPayload)) error {
	interval := p.Interval
	if interval <= 0 {
		interval = PollInterval
	}
	maxFailures := p.MaxFailures
	if maxFailures <= 0 {
		maxFailures = MaxConsecutiveFailures
	}
	log := p.Log
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	timer := time.NewTimer(interval)
	defer timer.Stop()

	failures := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}

		payload, err := p.Fetch.Progress(ctx, taskID)

		// Cancellation races the in-flight request: a response that
		// arrives after cancellation must not be applied.
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if err != nil || payload.Malformed() {
			failures++
			log.Warn("poll tick failed", "task", taskID, "failures", failures, "err", err)
			if failures >= maxFailures {
				return &ConnectionLostError{Failures: failures}
			}
			timer.Reset(interval)
			continue
		}
		failures = 0

		apply(payload)

		switch payload.Status {
		case "completed":
			return nil
		case "error":
			msg := payload.Message
			if msg == "" {
				msg = "Conversion failed. Please try again."
			}
			return &RemoteReportedError{Message: msg}
		case "cancelled":
			// This client did not request it (a local cancel stops the
			// loop before the backend could answer), so treat it as a
			// remote termination.
			return &RemoteReportedError{Message: "Download cancelled by the server."}
		}

		timer.Reset(interval)
	}
}
