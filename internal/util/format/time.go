package format

import "fmt"

// Fallback strings for values the backend has not reported yet.
const (
	Unknown     = "--"
	Calculating = "Calculating..."
)

// HumanizeRate converts a transfer rate in bytes per second into a
// human-readable string (e.g., "1.5 MB/s"). Non-positive rates render
// as the unknown fallback.
func HumanizeRate(bytesPerSecond float64) string {
	if bytesPerSecond <= 0 {
		return Unknown
	}
	return HumanizeBytes(int64(bytesPerSecond)) + "/s"
}

// FormatETA renders remaining seconds as mm:ss, or hh:mm:ss above an
// hour. Zero and negative values render as the unknown fallback.
func FormatETA(seconds int) string {
	if seconds <= 0 {
		return Unknown
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// FormatClock renders a media duration the way players do: m:ss below
// an hour, h:mm:ss above. Unknown (non-positive) durations render as
// "Unknown".
func FormatClock(seconds int) string {
	if seconds <= 0 {
		return "Unknown"
	}
	return FormatETA(seconds)
}
