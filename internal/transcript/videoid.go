package transcript

import (
	"net/url"
	"regexp"
	"strings"
)

var videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// ParseVideoID extracts the 11 character video ID from a bare ID or from a
// youtube.com watch, shorts, embed or live URL or a youtu.be short link.
func ParseVideoID(input string) (string, error) {
	input = strings.TrimSpace(input)
	if videoIDPattern.MatchString(input) {
		return input, nil
	}

	if id := videoIDFromURL(input); id != "" {
		return id, nil
	}

	return "", newFetchError(KindInvalidVideoID, input, nil)
}

func videoIDFromURL(raw string) string {
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")

	var candidate string
	switch host {
	case "youtu.be":
		candidate = segments[0]
	case "youtube.com", "m.youtube.com", "music.youtube.com", "youtube-nocookie.com":
		switch {
		case segments[0] == "watch":
			candidate = u.Query().Get("v")
		case len(segments) >= 2 && isIDPathPrefix(segments[0]):
			candidate = segments[1]
		}
	}

	if videoIDPattern.MatchString(candidate) {
		return candidate
	}
	return ""
}

func isIDPathPrefix(s string) bool {
	switch s {
	case "shorts", "embed", "live", "v", "e":
		return true
	}
	return false
}
