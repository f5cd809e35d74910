package format

import "fmt"

var byteUnits = [...]string{"KB", "MB", "GB", "TB"}

// HumanizeBytes renders a transfer or file size in binary units
// ("1.5 MB"). Sizes the backend has not reported arrive as negative
// values and render as the unknown fallback.
func HumanizeBytes(b int64) string {
	if b < 0 {
		return Unknown
	}
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit && exp < len(byteUnits)-1; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %s", float64(b)/float64(div), byteUnits[exp])
}
