package task

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/bugtijamal/vidoe-downloader-and-converter/internal/api"
	"github.com/bugtijamal/vidoe-downloader-and-converter/internal/model"
	"github.com/bugtijamal/vidoe-downloader-and-converter/internal/progress"
	"github.com/bugtijamal/vidoe-downloader-and-converter/internal/util"
)

// cancelGraceDelay lets any in-flight UI feedback display before the
// input affordances reset after a cancellation.
const cancelGraceDelay = time.Second

// Backend is the slice of the API client the orchestrator needs.
type Backend interface {
	Convert(ctx context.Context, req api.ConvertRequest) (string, error)
	Progress(ctx context.Context, taskID string) (api.StatusPayload, error)
	Cancel(ctx context.Context, taskID string) error
	DownloadURL(taskID, title string) string
}

// Params are the user's final choices for one submission.
type Params struct {
	URL     string
	Kind    model.OutputKind
	Codec   model.AudioCodec
	Quality model.VideoQuality
}

// Orchestrator coordinates one task's lifecycle end to end:
//
//	idle → submitting → polling → {completed | errored | cancelling → idle}
//
// Exactly one task is live at a time; all task mutation happens under a
// single mutex, and observers receive immutable snapshots. The poller,
// animator and cancellation path are mutually exclusive by construction:
// the poller has returned before the animator starts, and Cancel is a
// no-op while the animator runs.
type Orchestrator struct {
	backend  Backend
	log      *slog.Logger
	poller   Poller
	animator Animator
	grace    time.Duration

	mu         sync.Mutex
	lifecycle  model.LifecycleStatus
	task       *model.Task
	tracker    *progress.Tracker
	err        error
	last       Params
	gen        int
	animating  bool
	pollCancel context.CancelFunc

	snapshots chan model.Snapshot
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger attaches a logger for lifecycle diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) { o.log = l }
}

// WithPollInterval overrides the poll cadence. Tests use short values.
func WithPollInterval(d time.Duration) Option {
	return func(o *Orchestrator) { o.poller.Interval = d }
}

// WithMaxPollFailures overrides the consecutive-failure threshold.
func WithMaxPollFailures(n int) Option {
	return func(o *Orchestrator) { o.poller.MaxFailures = n }
}

// WithAnimation overrides the completion sweep timing.
func WithAnimation(duration, frame time.Duration) Option {
	return func(o *Orchestrator) {
		o.animator.Duration = duration
		o.animator.Frame = frame
	}
}

// WithCancelGrace overrides the post-cancel grace delay.
func WithCancelGrace(d time.Duration) Option {
	return func(o *Orchestrator) { o.grace = d }
}

// New creates an idle orchestrator over the given backend.
func New(backend Backend, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		backend:   backend,
		log:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		lifecycle: model.LifecycleIdle,
		grace:     cancelGraceDelay,
		snapshots: make(chan model.Snapshot, 64),
	}
	o.poller.Fetch = backend
	for _, opt := range opts {
		opt(o)
	}
	o.poller.Log = o.log
	return o
}

// Snapshots is the stream of state snapshots. The channel is never
// closed; when the buffer fills, the oldest snapshot is dropped so the
// latest state always gets through.
func (o *Orchestrator) Snapshots() <-chan model.Snapshot {
	return o.snapshots
}

// Snapshot returns the current state.
func (o *Orchestrator) Snapshot() model.Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.snapshotLocked()
}

// Submit starts a new task. It fails fast with ErrTaskActive unless the
// orchestrator is idle, and with ErrClassificationRejected when the URL
// fails classification; neither reaches the network. On success the
// submission proceeds asynchronously and progress is observable via
// Snapshots.
func (o *Orchestrator) Submit(ctx context.Context, p Params) error {
	o.mu.Lock()
	if o.lifecycle != model.LifecycleIdle {
		o.mu.Unlock()
		return ErrTaskActive
	}
	raw := strings.TrimSpace(p.URL)
	if !util.IsSupportedMediaURL(raw) {
		o.mu.Unlock()
		return ErrClassificationRejected
	}
	ref := util.NormalizeYouTubeURL(raw)

	kind := p.Kind
	if kind != model.OutputVideo {
		kind = model.OutputAudio
	}
	codec := p.Codec
	if !codec.Valid() {
		codec = model.CodecMP3
	}
	quality := p.Quality
	if !quality.Valid() {
		quality = model.QualityBest
	}

	o.task = model.NewTask(ref, kind, codec, quality)
	o.task.Message = "Preparing download..."
	o.tracker = progress.NewTracker()
	o.err = nil
	o.last = Params{URL: ref, Kind: kind, Codec: codec, Quality: quality}
	o.gen++
	gen := o.gen
	o.lifecycle = model.LifecycleSubmitting
	o.publishLocked()
	o.mu.Unlock()

	go o.submit(ctx, gen)
	return nil
}

func (o *Orchestrator) submit(ctx context.Context, gen int) {
	o.mu.Lock()
	req := api.ConvertRequest{
		URL:         o.task.InputReference,
		Format:      string(o.task.Kind),
		Quality:     string(o.task.Quality),
		AudioFormat: string(o.task.Codec),
	}
	o.mu.Unlock()

	id, err := o.backend.Convert(ctx, req)

	o.mu.Lock()
	if gen != o.gen || o.lifecycle != model.LifecycleSubmitting {
		// Superseded or cancelled while in flight; discard the result.
		o.mu.Unlock()
		return
	}
	if err != nil {
		o.log.Warn("submission failed", "err", err)
		o.failLocked(&SubmissionError{Err: err})
		o.mu.Unlock()
		return
	}

	o.task.ID = id
	o.lifecycle = model.LifecyclePolling
	pollCtx, cancel := context.WithCancel(ctx)
	o.pollCancel = cancel
	o.log.Info("task submitted", "task", id)
	o.publishLocked()
	o.mu.Unlock()

	perr := o.poller.Run(pollCtx, id, func(payload api.StatusPayload) {
		o.applyTick(gen, payload)
	})
	o.onPollDone(ctx, gen, perr)
}

// applyTick folds one poll payload into the task under the
// monotonic-percent rule: a percent below the current value is
// discarded while the tick's other fields still apply.
func (o *Orchestrator) applyTick(gen int, p api.StatusPayload) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if gen != o.gen || o.lifecycle != model.LifecyclePolling {
		return
	}

	t := o.task
	if p.Title != "" {
		t.Title = p.Title
	}
	if p.Message != "" {
		t.Message = p.Message
	}
	if p.Speed != nil {
		t.Rate = *p.Speed
	}
	if p.ETA != nil {
		t.ETASeconds = int(*p.ETA)
	}
	if p.DownloadedBytes != nil {
		t.DownloadedBytes = *p.DownloadedBytes
	}
	if p.TotalBytes != nil {
		t.TotalBytes = *p.TotalBytes
	}
	if p.HasThumbnail != nil {
		t.HasThumbnail = *p.HasThumbnail
	}
	if p.FileSize != nil {
		t.FinalSizeBytes = *p.FileSize
	}
	if p.Filename != "" {
		t.Filename = p.Filename
	}
	if p.Percent != nil {
		if pv := int(*p.Percent); pv > t.Percent {
			t.Percent = pv
		}
	}

	o.tracker.Apply(p.Status)
	t.Stage = o.tracker.Current()
	o.publishLocked()
}

func (o *Orchestrator) onPollDone(ctx context.Context, gen int, perr error) {
	if perr == nil {
		o.animateCompletion(ctx, gen)
		return
	}
	if errors.Is(perr, context.Canceled) || errors.Is(perr, context.DeadlineExceeded) {
		// Cancellation owns the state transition.
		return
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if gen != o.gen || o.lifecycle != model.LifecyclePolling {
		return
	}
	o.log.Warn("polling ended in failure", "task", o.task.ID, "err", perr)
	o.failLocked(perr)
}

func (o *Orchestrator) animateCompletion(ctx context.Context, gen int) {
	o.mu.Lock()
	if gen != o.gen || o.lifecycle != model.LifecyclePolling {
		o.mu.Unlock()
		return
	}
	from := o.task.Percent
	o.animating = true
	o.mu.Unlock()

	finished := o.animator.Run(ctx, from, func(percent int) {
		o.setAnimatedPercent(gen, percent)
	})

	o.mu.Lock()
	defer o.mu.Unlock()
	o.animating = false
	if gen != o.gen || !finished {
		return
	}
	o.finalizeLocked()
}

func (o *Orchestrator) setAnimatedPercent(gen int, percent int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if gen != o.gen || o.task == nil {
		return
	}
	if percent > o.task.Percent {
		o.task.Percent = percent
		o.publishLocked()
	}
}

// finalizeLocked marks the task done. Guarded against double
// finalization: a second call is a no-op.
func (o *Orchestrator) finalizeLocked() {
	if o.lifecycle == model.LifecycleCompleted {
		return
	}
	o.tracker.Complete()
	o.task.Stage = progress.StageComplete
	o.task.Percent = 100
	o.lifecycle = model.LifecycleCompleted
	o.log.Info("task completed", "task", o.task.ID, "title", o.task.DisplayTitle())
	o.publishLocked()
}

func (o *Orchestrator) failLocked(err error) {
	o.err = err
	o.lifecycle = model.LifecycleErrored
	if o.tracker != nil {
		o.tracker.Apply("error")
		o.task.Stage = o.tracker.Current()
	}
	o.task.Message = UserMessage(err)
	o.publishLocked()
}

// Cancel terminates the live task. Valid only while submitting or
// polling; re-entrant calls and calls during the completion animation
// are no-ops. The local timer stops immediately, one best-effort remote
// cancellation is fired (its outcome ignored), and after a short grace
// delay the orchestrator resets to idle.
func (o *Orchestrator) Cancel() {
	o.mu.Lock()
	if o.animating ||
		(o.lifecycle != model.LifecycleSubmitting && o.lifecycle != model.LifecyclePolling) {
		o.mu.Unlock()
		return
	}
	o.lifecycle = model.LifecycleCancelling
	if o.pollCancel != nil {
		o.pollCancel()
		o.pollCancel = nil
	}
	gen := o.gen
	var id string
	if o.task != nil {
		id = o.task.ID
		o.task.Message = "Cancelling..."
	}
	o.log.Info("task cancelled", "task", id)
	o.publishLocked()
	o.mu.Unlock()

	go func() {
		if id != "" {
			cctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = o.backend.Cancel(cctx, id)
		}
		time.Sleep(o.grace)

		o.mu.Lock()
		defer o.mu.Unlock()
		if gen != o.gen || o.lifecycle != model.LifecycleCancelling {
			return
		}
		o.resetLocked()
	}()
}

// Retry re-submits the last-chosen parameters after a failure.
func (o *Orchestrator) Retry(ctx context.Context) error {
	o.mu.Lock()
	if o.lifecycle != model.LifecycleErrored {
		o.mu.Unlock()
		return errors.New("nothing to retry")
	}
	p := o.last
	o.resetLocked()
	o.mu.Unlock()
	return o.Submit(ctx, p)
}

// Reset discards a finished task and returns to idle.
func (o *Orchestrator) Reset() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.lifecycle.Finished() {
		return errors.New("no finished task to discard")
	}
	o.resetLocked()
	return nil
}

func (o *Orchestrator) resetLocked() {
	o.lifecycle = model.LifecycleIdle
	o.task = nil
	o.tracker = nil
	o.err = nil
	o.publishLocked()
}

func (o *Orchestrator) snapshotLocked() model.Snapshot {
	s := model.Snapshot{
		Lifecycle:  o.lifecycle,
		ETASeconds: -1,
		Err:        o.err,
	}
	if o.task == nil {
		return s
	}
	t := o.task
	s.TaskID = t.ID
	s.Title = t.DisplayTitle()
	s.Stage = t.Stage
	s.Percent = t.Percent
	s.Message = t.Message
	s.DownloadedBytes = t.DownloadedBytes
	s.TotalBytes = t.TotalBytes
	s.Rate = t.Rate
	s.ETASeconds = t.ETASeconds
	s.HasThumbnail = t.HasThumbnail
	s.FinalSizeBytes = t.FinalSizeBytes
	s.Filename = t.Filename
	if o.tracker != nil {
		for _, st := range progress.Order {
			s.Stages = append(s.Stages, model.StageView{
				Stage:  st,
				Active: st == o.tracker.Current(),
				Done:   o.tracker.Done(st),
			})
		}
	}
	if o.lifecycle == model.LifecycleCompleted {
		s.DownloadURL = o.backend.DownloadURL(t.ID, t.DisplayTitle())
	}
	return s
}

// publishLocked emits the current snapshot without ever blocking: when
// the buffer is full the oldest entry is dropped in favor of the new one.
func (o *Orchestrator) publishLocked() {
	s := o.snapshotLocked()
	for {
		select {
		case o.snapshots <- s:
			return
		default:
		}
		select {
		case <-o.snapshots:
		default:
		}
	}
}
