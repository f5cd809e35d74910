package progress

// Stage identifies a coarse phase of backend work as reported by polling.
type Stage string

const (
	StageInitializing Stage = "initializing"
	StageConnecting   Stage = "connecting"
	StageStarting     Stage = "starting"
	StageDownloading  Stage = "downloading"
	StageProcessing   Stage = "processing"
	StageEmbedding    Stage = "embedding"
	StageComplete     Stage = "complete"

	// Side states. StageRetrying may be entered from and exited to any
	// non-terminal stage; StageError is terminal and reachable from anywhere.
	StageRetrying Stage = "retrying"
	StageError    Stage = "error"
)

// Order is the forward sequence of regular stages, used for rendering
// the step list and for enforcing forward-only transitions.
var Order = []Stage{
	StageInitializing,
	StageConnecting,
	StageStarting,
	StageDownloading,
	StageProcessing,
	StageEmbedding,
	StageComplete,
}

// Terminal reports whether no further transitions are possible from s.
func (s Stage) Terminal() bool {
	return s == StageComplete || s == StageError
}

func rank(s Stage) int {
	for i, st := range Order {
		if st == s {
			return i
		}
	}
	return -1
}

// ForStatus maps a backend-reported status string to a stage.
// The backend reports "converting" and "processing" interchangeably.
// Unknown strings yield ok=false and must cause no transition.
func ForStatus(status string) (Stage, bool) {
	switch status {
	case "initializing":
		return StageInitializing, true
	case "connecting":
		return StageConnecting, true
	case "starting":
		return StageStarting, true
	case "downloading":
		return StageDownloading, true
	case "processing", "converting":
		return StageProcessing, true
	case "embedding":
		return StageEmbedding, true
	case "completed":
		return StageComplete, true
	case "retrying":
		return StageRetrying, true
	case "error":
		return StageError, true
	}
	return "", false
}

// Tracker drives the stage state machine for one task. Transitions move
// forward only along Order; StageRetrying is the sole exception and may
// be entered from and left to any non-terminal stage; StageError is
// reachable unconditionally. Re-reporting the current stage is a no-op.
type Tracker struct {
	current Stage
	done    map[Stage]bool
}

// NewTracker starts at StageInitializing with nothing closed out.
func NewTracker() *Tracker {
	return &Tracker{
		current: StageInitializing,
		done:    make(map[Stage]bool, len(Order)),
	}
}

// Current returns the active stage.
func (t *Tracker) Current() Stage { return t.current }

// Done reports whether stage s has been closed out.
func (t *Tracker) Done(s Stage) bool { return t.done[s] }

// Apply maps a reported status string onto the machine and returns
// whether the active stage changed. Unknown statuses are ignored.
func (t *Tracker) Apply(status string) bool {
	next, ok := ForStatus(status)
	if !ok {
		return false
	}
	return t.advance(next)
}

func (t *Tracker) advance(next Stage) bool {
	if next == t.current || t.current.Terminal() {
		return false
	}
	switch {
	case next == StageError:
		t.current = StageError
		return true
	case next == StageRetrying:
		t.current = StageRetrying
		return true
	case t.current == StageRetrying:
		// Resume into whatever stage the backend reports next.
		t.closeBefore(next)
		t.current = next
		return true
	default:
		if rank(next) <= rank(t.current) {
			return false
		}
		t.closeBefore(next)
		t.current = next
		return true
	}
}

// Complete force-closes the machine into StageComplete. Used by the
// completion animator when it finalizes.
func (t *Tracker) Complete() {
	t.closeBefore(StageComplete)
	t.current = StageComplete
	t.done[StageComplete] = true
}

func (t *Tracker) closeBefore(s Stage) {
	r := rank(s)
	if r < 0 {
		return
	}
	for i := 0; i < r; i++ {
		t.done[Order[i]] = true
	}
}
