package util

import (
	"net/url"
	"regexp"
	"strings"
)

var shortsRe = regexp.MustCompile(`/shorts/([a-zA-Z0-9_-]+)`)

// hostOf parses raw and returns the lowercased host with common mobile
// and web prefixes stripped, plus the parsed URL. ok is false when the
// string is not an absolute URL.
func hostOf(raw string) (host string, u *url.URL, ok bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", nil, false
	}
	host = strings.ToLower(u.Host)
	for _, p := range []string{"www.", "m.", "web."} {
		host = strings.TrimPrefix(host, p)
	}
	return host, u, true
}

// IsSupportedMediaURL reports whether raw looks like a direct link to a
// video or post on one of the supported platforms. Bare domain roots
// and profile pages without a video-bearing segment are rejected, as
// are empty and whitespace-only strings. Pure: no network access.
func IsSupportedMediaURL(raw string) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false
	}
	host, u, ok := hostOf(raw)
	if !ok {
		return false
	}
	path := u.Path

	switch {
	case host == "youtube.com":
		q := u.Query()
		return q.Get("v") != "" || strings.Contains(path, "/shorts/") || strings.Contains(path, "/watch")
	case host == "youtu.be":
		return strings.Trim(path, "/") != ""
	case strings.Contains(host, "facebook.com") || host == "fb.watch" || host == "fb.com":
		if strings.Contains(path, "/profile.php") && u.Query().Get("v") == "" {
			return false
		}
		if path == "" || path == "/" {
			return false
		}
		for _, p := range []string{"/watch", "/reel/", "/reels/", "/videos/", "video.php", "v="} {
			if strings.Contains(raw, p) {
				return true
			}
		}
		return false
	}

	for _, d := range []string{"instagram.com", "tiktok.com", "vm.tiktok.com", "twitter.com", "x.com", "t.co"} {
		if strings.Contains(host, d) {
			// Domain roots carry nothing to convert.
			return strings.Trim(path, "/") != ""
		}
	}
	return false
}

// PlatformName labels the platform a URL belongs to, for display.
func PlatformName(raw string) string {
	host, _, ok := hostOf(raw)
	if !ok {
		return "Unknown"
	}
	switch {
	case strings.Contains(host, "youtube") || strings.Contains(host, "youtu.be"):
		return "YouTube"
	case strings.Contains(host, "facebook") || strings.HasPrefix(host, "fb."):
		return "Facebook"
	case strings.Contains(host, "instagram"):
		return "Instagram"
	case strings.Contains(host, "tiktok"):
		return "TikTok"
	case strings.Contains(host, "twitter") || host == "x.com" || strings.Contains(host, ".x.com"):
		return "Twitter/X"
	}
	return "Unknown"
}

// NormalizeYouTubeURL rewrites youtu.be and /shorts/ links into the
// canonical watch?v= form. Non-YouTube URLs are returned unchanged.
func NormalizeYouTubeURL(raw string) string {
	host, u, ok := hostOf(raw)
	if !ok {
		return raw
	}
	switch {
	case strings.Contains(host, "youtube.com"):
		if v := u.Query().Get("v"); v != "" {
			return "https://www.youtube.com/watch?v=" + v
		}
		if m := shortsRe.FindStringSubmatch(u.Path); m != nil {
			return "https://www.youtube.com/watch?v=" + m[1]
		}
	case strings.Contains(host, "youtu.be"):
		if id := strings.Trim(u.Path, "/"); id != "" {
			return "https://www.youtube.com/watch?v=" + id
		}
	}
	return raw
}
