package ui

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/bugtijamal/vidoe-downloader-and-converter/internal/api"
	"github.com/bugtijamal/vidoe-downloader-and-converter/internal/model"
	"github.com/bugtijamal/vidoe-downloader-and-converter/internal/preview"
	"github.com/bugtijamal/vidoe-downloader-and-converter/internal/task"
)

type recordingBackend struct {
	mu        sync.Mutex
	converted []api.ConvertRequest
}

func (b *recordingBackend) Convert(ctx context.Context, req api.ConvertRequest) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.converted = append(b.converted, req)
	return "t-1", nil
}

func (b *recordingBackend) Progress(ctx context.Context, taskID string) (api.StatusPayload, error) {
	p := 100.0
	return api.StatusPayload{Status: "completed", Percent: &p}, nil
}

func (b *recordingBackend) Cancel(ctx context.Context, taskID string) error { return nil }

func (b *recordingBackend) DownloadURL(taskID, title string) string { return "" }

func (b *recordingBackend) convertCalls() []api.ConvertRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]api.ConvertRequest(nil), b.converted...)
}

func newTestModel(t *testing.T, backend *recordingBackend) Model {
	t.Helper()
	orch := task.New(backend,
		task.WithPollInterval(time.Millisecond),
		task.WithAnimation(5*time.Millisecond, time.Millisecond),
	)
	client := api.New("")
	watcher := preview.NewWatcher(client, preview.WithSettleDelay(time.Hour))
	t.Cleanup(watcher.Close)
	return NewModel(context.Background(), orch, watcher, client, t.TempDir())
}

// A video submission whose tier selection was made against the full
// catalog must not fault when the preview has since narrowed the
// available tiers.
func TestSubmitClampsQualityToAvailableTiers(t *testing.T) {
	backend := &recordingBackend{}
	m := newTestModel(t, backend)

	m.kind = model.OutputVideo
	m.tierIx = len(model.VideoQualities()) - 1
	info := model.PreviewInfo{
		Title:          "A Clip",
		AvailableTiers: []model.VideoQuality{model.Quality720p, model.Quality480p},
	}
	m.info = &info
	m.input.SetValue("https://youtu.be/abc")

	m.submit()

	deadline := time.Now().Add(3 * time.Second)
	for len(backend.convertCalls()) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("submission never reached the backend")
		}
		time.Sleep(time.Millisecond)
	}
	req := backend.convertCalls()[0]
	if req.Quality != string(model.Quality720p) {
		t.Errorf("submitted quality = %q, want clamp to %q", req.Quality, model.Quality720p)
	}
}

// A resolving preview with fewer tiers than the catalog resets an
// out-of-range selection.
func TestPreviewResolveResetsStaleTierSelection(t *testing.T) {
	backend := &recordingBackend{}
	m := newTestModel(t, backend)

	m.kind = model.OutputVideo
	m.tierIx = len(model.VideoQualities()) - 1

	next, _ := m.Update(previewMsg{E: preview.Event{
		Kind: preview.EventResolved,
		Info: model.PreviewInfo{AvailableTiers: []model.VideoQuality{model.QualityBest}},
	}})
	got := next.(Model)
	if got.tierIx != 0 {
		t.Errorf("tierIx = %d after narrowing preview, want 0", got.tierIx)
	}
}
