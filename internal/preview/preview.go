// Package preview resolves metadata for a candidate URL while the user
// is still typing. Lookups are debounced and sequence-numbered so that
// only the response matching the latest input is ever shown; preview
// failures are advisory and never block submission.
package preview

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/bugtijamal/vidoe-downloader-and-converter/internal/model"
	"github.com/bugtijamal/vidoe-downloader-and-converter/internal/task"
	"github.com/bugtijamal/vidoe-downloader-and-converter/internal/util"
)

const (
	// SettleDelay is how long the input must be stable before a lookup
	// is issued.
	SettleDelay = 800 * time.Millisecond

	// FetchTimeout bounds a single metadata lookup.
	FetchTimeout = 20 * time.Second
)

// Fetcher resolves metadata for one URL. *api.Client satisfies it via
// its VideoInfo method.
type Fetcher interface {
	VideoInfo(ctx context.Context, url string) (model.PreviewInfo, error)
}

// EventKind discriminates Watcher events.
type EventKind int

const (
	// EventResolved carries fresh metadata in Info.
	EventResolved EventKind = iota
	// EventCleared means the panel should empty (input blank or changed).
	EventCleared
	// EventFailed means the lookup failed; Err holds the cause. The
	// input may still be submitted.
	EventFailed
)

// Event is one preview outcome, tagged with the input that produced it.
type Event struct {
	Kind EventKind
	URL  string
	Info model.PreviewInfo
	Err  error
}

// Watcher debounces input changes into at most one in-flight metadata
// lookup, discarding responses that no longer match the latest input.
type Watcher struct {
	fetch   Fetcher
	log     *slog.Logger
	delay   time.Duration
	timeout time.Duration
	events  chan Event

	mu    sync.Mutex
	timer *time.Timer
	seq   int
	last  string // last URL a lookup was scheduled for
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithLogger attaches a logger.
func WithLogger(l *slog.Logger) Option {
	return func(w *Watcher) { w.log = l }
}

// WithSettleDelay overrides the debounce window. Tests use short values.
func WithSettleDelay(d time.Duration) Option {
	return func(w *Watcher) { w.delay = d }
}

// WithFetchTimeout overrides the per-lookup timeout.
func WithFetchTimeout(d time.Duration) Option {
	return func(w *Watcher) { w.timeout = d }
}

// NewWatcher creates a watcher over the given fetcher.
func NewWatcher(fetch Fetcher, opts ...Option) *Watcher {
	w := &Watcher{
		fetch:   fetch,
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		delay:   SettleDelay,
		timeout: FetchTimeout,
		events:  make(chan Event, 16),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Events is the stream of preview outcomes.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Update reports the input's current value. Each call cancels any
// pending lookup; a new one is scheduled only after the input has been
// stable for the settle delay, and only for classifiable URLs. A blank
// value clears the panel once the delay elapses; an unsupported value
// leaves the previous preview untouched.
func (w *Watcher) Update(value string) {
	url := strings.TrimSpace(value)

	w.mu.Lock()
	defer w.mu.Unlock()

	// Unchanged input must not restart the debounce window.
	if url == w.last {
		return
	}

	w.seq++
	seq := w.seq
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}

	if url == "" {
		// Clearing waits out the settle delay like a lookup does, so a
		// momentarily empty field (select-all, retype) never flickers.
		w.last = ""
		w.timer = time.AfterFunc(w.delay, func() {
			w.mu.Lock()
			defer w.mu.Unlock()
			if seq != w.seq {
				return
			}
			w.emit(Event{Kind: EventCleared})
		})
		return
	}
	if !util.IsSupportedMediaURL(url) {
		w.last = url
		return
	}

	w.last = url
	normalized := util.NormalizeYouTubeURL(url)
	w.timer = time.AfterFunc(w.delay, func() {
		w.lookup(seq, url, normalized)
	})
}

// Close cancels any pending lookup. In-flight responses are still
// discarded by the sequence check.
func (w *Watcher) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.seq++
}

func (w *Watcher) lookup(seq int, url, normalized string) {
	w.mu.Lock()
	if seq != w.seq {
		w.mu.Unlock()
		return
	}
	w.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()
	info, err := w.fetch.VideoInfo(ctx, normalized)

	w.mu.Lock()
	defer w.mu.Unlock()
	// The input moved on while the request was in flight.
	if seq != w.seq {
		return
	}
	if err != nil {
		w.log.Warn("preview lookup failed", "url", url, "err", err)
		w.emit(Event{Kind: EventFailed, URL: url, Err: &task.PreviewFetchError{Err: err}})
		return
	}
	w.emit(Event{Kind: EventResolved, URL: url, Info: info})
}

func (w *Watcher) emit(e Event) {
	for {
		select {
		case w.events <- e:
			return
		default:
		}
		select {
		case <-w.events:
		default:
		}
	}
}
