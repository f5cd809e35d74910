package task

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/bugtijamal/vidoe-downloader-and-converter/internal/api"
)

// scriptedFetcher returns canned results in order, repeating the last
// one once the script runs out.
type scriptedFetcher struct {
	mu      sync.Mutex
	script  []fetchResult
	calls   int
	blockOn int                // when > 0, the Nth call waits for release
	release chan struct{}      // closed to unblock
	onCall  func(n int)        // optional hook, called before returning
	ctxErr  map[int]chan error // optional per-call cancellation observer
}

type fetchResult struct {
	payload api.StatusPayload
	err     error
}

func (f *scriptedFetcher) Progress(ctx context.Context, taskID string) (api.StatusPayload, error) {
	f.mu.Lock()
	f.calls++
	n := f.calls
	idx := n - 1
	if idx >= len(f.script) {
		idx = len(f.script) - 1
	}
	res := f.script[idx]
	block := f.blockOn == n
	hook := f.onCall
	f.mu.Unlock()

	if hook != nil {
		hook(n)
	}
	if block {
		<-f.release
	}
	return res.payload, res.err
}

func (f *scriptedFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func statusPayload(status string, percent float64) api.StatusPayload {
	return api.StatusPayload{Status: status, Percent: &percent}
}

func TestPollerCompletes(t *testing.T) {
	fetcher := &scriptedFetcher{script: []fetchResult{
		{payload: statusPayload("downloading", 30)},
		{payload: statusPayload("processing", 80)},
		{payload: statusPayload("completed", 100)},
	}}
	p := &Poller{Fetch: fetcher, Interval: time.Millisecond}

	var applied []string
	err := p.Run(context.Background(), "t-1", func(payload api.StatusPayload) {
		applied = append(applied, payload.Status)
	})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	want := []string{"downloading", "processing", "completed"}
	if len(applied) != len(want) {
		t.Fatalf("applied %v, want %v", applied, want)
	}
	for i := range want {
		if applied[i] != want[i] {
			t.Errorf("applied[%d] = %q, want %q", i, applied[i], want[i])
		}
	}
}

func TestPollerConnectionLostAfterConsecutiveFailures(t *testing.T) {
	fetcher := &scriptedFetcher{script: []fetchResult{
		{err: errors.New("dial refused")},
	}}
	p := &Poller{Fetch: fetcher, Interval: time.Millisecond, MaxFailures: 5}

	err := p.Run(context.Background(), "t-1", func(api.StatusPayload) {
		t.Error("apply must not be called for failed ticks")
	})
	var lost *ConnectionLostError
	if !errors.As(err, &lost) {
		t.Fatalf("Run() = %v, want *ConnectionLostError", err)
	}
	if lost.Failures != 5 {
		t.Errorf("Failures = %d, want 5", lost.Failures)
	}
	if fetcher.callCount() != 5 {
		t.Errorf("fetch calls = %d, want exactly 5", fetcher.callCount())
	}
}

func TestPollerSuccessResetsFailureCount(t *testing.T) {
	fetcher := &scriptedFetcher{script: []fetchResult{
		{err: errors.New("blip")},
		{err: errors.New("blip")},
		{err: errors.New("blip")},
		{err: errors.New("blip")},
		{payload: statusPayload("downloading", 10)}, // resets the count
		{err: errors.New("blip")},
		{err: errors.New("blip")},
		{payload: statusPayload("completed", 100)},
	}}
	p := &Poller{Fetch: fetcher, Interval: time.Millisecond, MaxFailures: 5}

	if err := p.Run(context.Background(), "t-1", func(api.StatusPayload) {}); err != nil {
		t.Fatalf("Run() error: %v, want completion (count reset by success)", err)
	}
}

func TestPollerMalformedPayloadCountsAsFailure(t *testing.T) {
	fetcher := &scriptedFetcher{script: []fetchResult{
		{payload: api.StatusPayload{Status: "unknown"}},
	}}
	p := &Poller{Fetch: fetcher, Interval: time.Millisecond, MaxFailures: 2}

	err := p.Run(context.Background(), "t-1", func(api.StatusPayload) {
		t.Error("malformed payloads must not reach apply")
	})
	var lost *ConnectionLostError
	if !errors.As(err, &lost) {
		t.Fatalf("Run() = %v, want *ConnectionLostError", err)
	}
}

func TestPollerRemoteError(t *testing.T) {
	fetcher := &scriptedFetcher{script: []fetchResult{
		{payload: api.StatusPayload{Status: "error", Message: "Video unavailable"}},
	}}
	p := &Poller{Fetch: fetcher, Interval: time.Millisecond}

	err := p.Run(context.Background(), "t-1", func(api.StatusPayload) {})
	var remote *RemoteReportedError
	if !errors.As(err, &remote) {
		t.Fatalf("Run() = %v, want *RemoteReportedError", err)
	}
	if remote.Message != "Video unavailable" {
		t.Errorf("Message = %q", remote.Message)
	}
}

func TestPollerRemoteCancelled(t *testing.T) {
	fetcher := &scriptedFetcher{script: []fetchResult{
		{payload: api.StatusPayload{Status: "cancelled"}},
	}}
	p := &Poller{Fetch: fetcher, Interval: time.Millisecond}

	err := p.Run(context.Background(), "t-1", func(api.StatusPayload) {})
	var remote *RemoteReportedError
	if !errors.As(err, &remote) {
		t.Fatalf("Run() = %v, want *RemoteReportedError", err)
	}
}

func TestPollerDiscardsResponseAfterCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	fetcher := &scriptedFetcher{
		script: []fetchResult{
			{payload: statusPayload("downloading", 50)},
		},
		blockOn: 1,
		release: make(chan struct{}),
	}
	// Cancel while the first request is in flight, then let it return.
	fetcher.onCall = func(n int) {
		if n == 1 {
			cancel()
			close(fetcher.release)
		}
	}
	p := &Poller{Fetch: fetcher, Interval: time.Millisecond}

	err := p.Run(ctx, "t-1", func(api.StatusPayload) {
		t.Error("a response arriving after cancellation must be discarded")
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() = %v, want context.Canceled", err)
	}
}
