package api

// Wire types for the conversion backend. Every field the backend may
// omit is a pointer or carries a zero value that the caller must treat
// as "not reported"; absence never faults.

// ConvertRequest is the job-creation payload.
type ConvertRequest struct {
	URL         string `json:"url"`
	Format      string `json:"format"`      // "audio" | "video"
	Quality     string `json:"quality"`     // video tier, e.g. "720p"
	AudioFormat string `json:"audioFormat"` // audio codec, e.g. "mp3"
}

type convertResponse struct {
	Success bool   `json:"success"`
	TaskID  string `json:"task_id"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

type previewResponse struct {
	Success            bool     `json:"success"`
	Error              string   `json:"error"`
	Title              string   `json:"title"`
	Uploader           string   `json:"uploader"`
	Platform           string   `json:"platform"`
	Duration           float64  `json:"duration"`
	DurationFormatted  string   `json:"duration_formatted"`
	Thumbnail          string   `json:"thumbnail"`
	AvailableQualities []string `json:"available_qualities"`
}

// StatusPayload is one normalized poll response. Percent and speed
// arrive as JSON numbers that may be integral or fractional.
type StatusPayload struct {
	Status          string   `json:"status"`
	Percent         *float64 `json:"percent"`
	Message         string   `json:"message"`
	Speed           *float64 `json:"speed"` // bytes/s
	ETA             *float64 `json:"eta"`   // seconds
	DownloadedBytes *int64   `json:"downloaded_bytes"`
	TotalBytes      *int64   `json:"total_bytes"`
	Title           string   `json:"title"`
	Filename        string   `json:"filename"`
	HasThumbnail    *bool    `json:"has_thumbnail"`
	FileSize        *int64   `json:"file_size"`
	Error           string   `json:"error"`
}

// Malformed reports whether the payload cannot drive the state machine.
// The backend answers "unknown" for task ids it has no record of.
func (p StatusPayload) Malformed() bool {
	return p.Status == "" || p.Status == "unknown"
}

// AudioFormat is one entry of the backend's audio-format catalog.
type AudioFormat struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Quality     string `json:"quality"`
	Description string `json:"description"`
	Extension   string `json:"extension"`
	Recommended bool   `json:"recommended"`
}

type audioFormatsResponse struct {
	Formats []AudioFormat `json:"formats"`
}

// PlatformEntry is one entry of the supported-platform catalog. Icon
// and Color are presentation hints chosen by the server.
type PlatformEntry struct {
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

type platformsResponse struct {
	Platforms []PlatformEntry `json:"platforms"`
}

// Health mirrors the backend's health endpoint.
type Health struct {
	Status           string `json:"status"`
	ActiveDownloads  int    `json:"active_downloads"`
	ActiveTasks      int    `json:"active_tasks"`
	CachedVideos     int    `json:"cached_videos"`
	MaxDurationHours int    `json:"max_duration_hours"`
}
