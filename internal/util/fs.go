package util

import (
	"errors"
	"os"
	"regexp"
	"strings"
	"unicode/utf8"
)

// EnsureDir creates the directory path if it does not exist.
func EnsureDir(path string) error {
	if path == "" {
		return errors.New("empty path")
	}
	return os.MkdirAll(path, 0o755)
}

var (
	forbiddenRe  = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	whitespaceRe = regexp.MustCompile(`[\s\-]+`)
	nonWordRe    = regexp.MustCompile(`[^\w\-_.]`)
	underscoreRe = regexp.MustCompile(`_+`)
)

// SanitizeFilename converts a title into a filesystem-safe base name:
// forbidden and control characters removed, whitespace collapsed to
// underscores, truncated to 100 runes. Falls back to "download".
func SanitizeFilename(title string) string {
	if title == "" {
		return "download"
	}
	s := forbiddenRe.ReplaceAllString(title, "")
	s = whitespaceRe.ReplaceAllString(s, "_")
	s = nonWordRe.ReplaceAllString(s, "")
	s = underscoreRe.ReplaceAllString(s, "_")
	s = strings.Trim(s, "._")

	const maxRunes = 100
	if utf8.RuneCountInString(s) > maxRunes {
		rs := []rune(s)
		s = strings.Trim(string(rs[:maxRunes]), "._")
	}
	if s == "" {
		return "download"
	}
	return s
}
