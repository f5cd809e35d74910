package preview

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/bugtijamal/vidoe-downloader-and-converter/internal/model"
	"github.com/bugtijamal/vidoe-downloader-and-converter/internal/task"
)

type fakeFetcher struct {
	mu    sync.Mutex
	calls []string
	info  model.PreviewInfo
	err   error
	delay time.Duration
}

func (f *fakeFetcher) VideoInfo(ctx context.Context, url string) (model.PreviewInfo, error) {
	f.mu.Lock()
	f.calls = append(f.calls, url)
	info, err, delay := f.info, f.err, f.delay
	f.mu.Unlock()
	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return model.PreviewInfo{}, ctx.Err()
		}
	}
	return info, err
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeFetcher) lastCall() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		return ""
	}
	return f.calls[len(f.calls)-1]
}

func waitEvent(t *testing.T, w *Watcher) Event {
	t.Helper()
	select {
	case e := <-w.Events():
		return e
	case <-time.After(2 * time.Second):
		t.Fatal("no event arrived")
		return Event{}
	}
}

func TestWatcherResolvesAfterSettle(t *testing.T) {
	f := &fakeFetcher{info: model.PreviewInfo{Title: "A Song", Platform: "YouTube"}}
	w := NewWatcher(f, WithSettleDelay(5*time.Millisecond))
	defer w.Close()

	w.Update("https://youtu.be/abc")
	e := waitEvent(t, w)
	if e.Kind != EventResolved {
		t.Fatalf("event kind = %v, want resolved", e.Kind)
	}
	if e.Info.Title != "A Song" {
		t.Errorf("Title = %q", e.Info.Title)
	}
	// The short link is normalized before it hits the backend.
	if f.lastCall() != "https://www.youtube.com/watch?v=abc" {
		t.Errorf("fetched %q, want normalized watch URL", f.lastCall())
	}
}

func TestWatcherDebouncesRapidTyping(t *testing.T) {
	f := &fakeFetcher{info: model.PreviewInfo{Title: "Final"}}
	w := NewWatcher(f, WithSettleDelay(20*time.Millisecond))
	defer w.Close()

	// Ten rapid edits: only the final settled value may be fetched.
	base := "https://www.youtube.com/watch?v=abcde"
	for i := 0; i < 10; i++ {
		w.Update(base + string(rune('0'+i)))
		time.Sleep(time.Millisecond)
	}

	e := waitEvent(t, w)
	if e.Kind != EventResolved {
		t.Fatalf("event kind = %v, want resolved", e.Kind)
	}
	if got := f.callCount(); got != 1 {
		t.Errorf("fetch calls = %d, want 1", got)
	}
	if f.lastCall() != base+"9" {
		t.Errorf("fetched %q, want the final input", f.lastCall())
	}
}

func TestWatcherUnchangedInputDoesNotRefetch(t *testing.T) {
	f := &fakeFetcher{info: model.PreviewInfo{Title: "Once"}}
	w := NewWatcher(f, WithSettleDelay(5*time.Millisecond))
	defer w.Close()

	w.Update("https://youtu.be/abc")
	waitEvent(t, w)
	w.Update("https://youtu.be/abc")
	time.Sleep(30 * time.Millisecond)

	if got := f.callCount(); got != 1 {
		t.Errorf("fetch calls = %d, want 1 for unchanged input", got)
	}
}

func TestWatcherClearsOnBlankOrUnsupported(t *testing.T) {
	f := &fakeFetcher{info: model.PreviewInfo{Title: "X"}}
	w := NewWatcher(f, WithSettleDelay(5*time.Millisecond))
	defer w.Close()

	w.Update("https://youtu.be/abc")
	waitEvent(t, w)

	// The clear is debounced like a lookup: nothing fires before the
	// settle delay elapses.
	w.Update("")
	select {
	case e := <-w.Events():
		t.Fatalf("clear fired before the settle delay: %+v", e)
	default:
	}
	e := waitEvent(t, w)
	if e.Kind != EventCleared {
		t.Fatalf("event kind = %v, want cleared", e.Kind)
	}

	// An unsupported value neither schedules a lookup nor clears the
	// previous preview.
	w.Update("https://example.com/page")
	time.Sleep(30 * time.Millisecond)
	if got := f.callCount(); got != 1 {
		t.Errorf("fetch calls = %d, want 1", got)
	}
	select {
	case e := <-w.Events():
		t.Errorf("unexpected event for unsupported input: %+v", e)
	default:
	}
}

func TestWatcherRetypingCancelsPendingClear(t *testing.T) {
	f := &fakeFetcher{info: model.PreviewInfo{Title: "Back"}}
	w := NewWatcher(f, WithSettleDelay(20*time.Millisecond))
	defer w.Close()

	w.Update("https://youtu.be/abc")
	waitEvent(t, w)

	// Blank then a fresh URL within the settle window: the pending
	// clear must be dropped, leaving only the new resolution.
	w.Update("")
	w.Update("https://youtu.be/xyz")

	e := waitEvent(t, w)
	if e.Kind == EventCleared {
		t.Fatal("superseded clear still fired")
	}
	if e.Kind != EventResolved || e.URL != "https://youtu.be/xyz" {
		t.Fatalf("event = %+v, want resolution of the retyped URL", e)
	}
	select {
	case extra := <-w.Events():
		t.Errorf("unexpected trailing event: %+v", extra)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestWatcherDiscardsStaleResponse(t *testing.T) {
	f := &fakeFetcher{
		info:  model.PreviewInfo{Title: "Stale"},
		delay: 30 * time.Millisecond,
	}
	w := NewWatcher(f, WithSettleDelay(time.Millisecond))
	defer w.Close()

	w.Update("https://youtu.be/old")
	time.Sleep(10 * time.Millisecond) // lookup now in flight
	w.Update("https://youtu.be/new")

	e := waitEvent(t, w)
	if e.URL != "https://youtu.be/new" {
		t.Errorf("event for %q, want the latest input only", e.URL)
	}
	select {
	case extra := <-w.Events():
		t.Errorf("stale event leaked: %+v", extra)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestWatcherFailureIsAdvisory(t *testing.T) {
	f := &fakeFetcher{err: errors.New("metadata service down")}
	w := NewWatcher(f, WithSettleDelay(time.Millisecond))
	defer w.Close()

	w.Update("https://youtu.be/abc")
	e := waitEvent(t, w)
	if e.Kind != EventFailed {
		t.Fatalf("event kind = %v, want failed", e.Kind)
	}
	var pf *task.PreviewFetchError
	if !errors.As(e.Err, &pf) {
		t.Errorf("Err = %v, want *task.PreviewFetchError", e.Err)
	}
}
