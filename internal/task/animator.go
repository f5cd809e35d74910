package task

import (
	"context"
	"math"
	"time"
)

const (
	// AnimationDuration is how long the terminal percent sweep takes.
	AnimationDuration = 1200 * time.Millisecond

	// FrameInterval is the animation tick granularity.
	FrameInterval = 50 * time.Millisecond
)

// Animator interpolates the displayed percent from its last polled
// value to 100 once the backend reports completion, using an ease-out
// cubic curve. The zero value uses the package defaults.
type Animator struct {
	Duration time.Duration
	Frame    time.Duration
}

// Run drives percent from `from` to 100, calling tick once per frame
// with a non-decreasing value. It blocks until the sweep finishes and
// returns true, or until ctx is cancelled and returns false without
// having reached the end. When from is already >= 100 it emits a single
// tick(100) and returns immediately.
func (a *Animator) Run(ctx context.Context, from int, tick func(percent int)) bool {
	duration := a.Duration
	if duration <= 0 {
		duration = AnimationDuration
	}
	frame := a.Frame
	if frame <= 0 {
		frame = FrameInterval
	}
	if from < 0 {
		from = 0
	}
	if from >= 100 {
		tick(100)
		return true
	}

	start := time.Now()
	ticker := time.NewTicker(frame)
	defer ticker.Stop()

	span := float64(100 - from)
	for {
		select {
		case <-ctx.Done():
			return false
		case now := <-ticker.C:
			t := float64(now.Sub(start)) / float64(duration)
			if t >= 1 {
				tick(100)
				return true
			}
			eased := 1 - math.Pow(1-t, 3)
			tick(from + int(math.Round(eased*span)))
		}
	}
}
