package model

import (
	"strings"

	"github.com/bugtijamal/vidoe-downloader-and-converter/internal/progress"
)

// FallbackTitle is used when no title was ever resolved for a task.
const FallbackTitle = "download"

// OutputKind selects the conversion target.
type OutputKind string

const (
	OutputAudio OutputKind = "audio"
	OutputVideo OutputKind = "video"
)

// AudioCodec is one of the backend's audio output formats.
type AudioCodec string

const (
	CodecMP3  AudioCodec = "mp3"
	CodecAAC  AudioCodec = "aac"
	CodecOpus AudioCodec = "opus"
	CodecOGG  AudioCodec = "ogg"
)

// AudioCodecs lists the supported codecs in display order.
func AudioCodecs() []AudioCodec {
	return []AudioCodec{CodecMP3, CodecAAC, CodecOpus, CodecOGG}
}

// Valid reports whether c is a known codec.
func (c AudioCodec) Valid() bool {
	switch c {
	case CodecMP3, CodecAAC, CodecOpus, CodecOGG:
		return true
	}
	return false
}

// VideoQuality is one of the backend's video quality tiers.
type VideoQuality string

const (
	QualityBest  VideoQuality = "best"
	Quality1080p VideoQuality = "1080p"
	Quality720p  VideoQuality = "720p"
	Quality480p  VideoQuality = "480p"
	Quality360p  VideoQuality = "360p"
	Quality144p  VideoQuality = "144p"
)

// VideoQualities lists the supported tiers from best to worst.
func VideoQualities() []VideoQuality {
	return []VideoQuality{QualityBest, Quality1080p, Quality720p, Quality480p, Quality360p, Quality144p}
}

// Valid reports whether q is a known quality tier.
func (q VideoQuality) Valid() bool {
	switch q {
	case QualityBest, Quality1080p, Quality720p, Quality480p, Quality360p, Quality144p:
		return true
	}
	return false
}

// LifecycleStatus is the client-side lifecycle of one task.
type LifecycleStatus string

const (
	LifecycleIdle       LifecycleStatus = "idle"
	LifecycleSubmitting LifecycleStatus = "submitting"
	LifecyclePolling    LifecycleStatus = "polling"
	LifecycleCancelling LifecycleStatus = "cancelling"
	LifecycleCompleted  LifecycleStatus = "completed"
	LifecycleErrored    LifecycleStatus = "errored"
)

// Active reports whether a network-driven phase is in flight.
func (s LifecycleStatus) Active() bool {
	return s == LifecycleSubmitting || s == LifecyclePolling || s == LifecycleCancelling
}

// Finished reports whether the lifecycle reached a terminal outcome.
func (s LifecycleStatus) Finished() bool {
	return s == LifecycleCompleted || s == LifecycleErrored
}

// Task is the single unit of work tracked by the client. Exactly one
// Task is live per client instance; starting a new task discards the
// previous one.
type Task struct {
	ID             string
	InputReference string
	Kind           OutputKind
	Codec          AudioCodec   // meaningful only when Kind == OutputAudio
	Quality        VideoQuality // meaningful only when Kind == OutputVideo

	Title   string // best-known human title; empty until resolved
	Stage   progress.Stage
	Percent int // 0..100, non-decreasing for the task's lifetime

	DownloadedBytes int64
	TotalBytes      int64   // 0 when unknown
	Rate            float64 // bytes/s, 0 when unknown
	ETASeconds      int     // -1 when unknown

	Message        string
	HasThumbnail   bool
	FinalSizeBytes int64 // known only at completion
	Filename       string
}

// NewTask creates a pre-submission task for the given choices.
func NewTask(reference string, kind OutputKind, codec AudioCodec, quality VideoQuality) *Task {
	return &Task{
		InputReference: reference,
		Kind:           kind,
		Codec:          codec,
		Quality:        quality,
		Stage:          progress.StageInitializing,
		ETASeconds:     -1,
	}
}

// DisplayTitle returns the best-known title, falling back to the input
// reference and finally to a fixed literal.
func (t *Task) DisplayTitle() string {
	if title := strings.TrimSpace(t.Title); title != "" {
		return title
	}
	if t.InputReference != "" {
		return t.InputReference
	}
	return FallbackTitle
}

// PreviewInfo describes a candidate input before submission. It is
// ephemeral: each debounced lookup replaces the previous one, and it
// has no relation to an in-flight task.
type PreviewInfo struct {
	Title             string
	Uploader          string
	Platform          string
	DurationFormatted string
	ThumbnailURL      string
	AvailableTiers    []VideoQuality
}

// StageView is one row of the rendered stage list.
type StageView struct {
	Stage  progress.Stage
	Active bool
	Done   bool
}

// Snapshot is an immutable view of the orchestrator's state, emitted to
// observers after every change. Presentation layers render snapshots
// and never touch the Task directly.
type Snapshot struct {
	Lifecycle LifecycleStatus

	TaskID  string
	Title   string
	Stage   progress.Stage
	Stages  []StageView
	Percent int
	Message string

	DownloadedBytes int64
	TotalBytes      int64
	Rate            float64
	ETASeconds      int

	HasThumbnail   bool
	FinalSizeBytes int64

	// Filename is the backend-reported output name, known late in the
	// task's life (usually at completion).
	Filename string

	// DownloadURL is the retrieval link, set only once completed.
	DownloadURL string

	// Err is one of the task error kinds when Lifecycle is errored.
	Err error
}
