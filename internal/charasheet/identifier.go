package charasheet

import (
	"net/url"
	"strings"

	"golang.org/x/text/width"
)

// DefaultHost is the character-sheet site sheets are fetched from.
const DefaultHost = "charasheet.vampire-blood.net"

// ParseIdentifier extracts the numeric sheet id from a bare id or a sheet
// URL on host. Full-width digits are accepted. For URLs the last purely
// numeric path segment wins. A URL on another host gives ErrUnsupportedURL;
// input with no usable id gives ErrInvalidIdentifier.
func ParseIdentifier(input, host string) (string, error) {
	s := strings.TrimSpace(width.Fold.String(input))
	if s == "" {
		return "", ErrInvalidIdentifier
	}
	if isDigits(s) {
		return s, nil
	}

	if !strings.Contains(s, "://") {
		// a bare host/path needs at least a dotted host to be a URL
		if !strings.Contains(s, ".") {
			return "", ErrInvalidIdentifier
		}
		s = "https://" + s
	}
	u, err := url.Parse(s)
	if err != nil || u.Hostname() == "" {
		return "", ErrInvalidIdentifier
	}
	if !strings.EqualFold(u.Hostname(), host) {
		return "", ErrUnsupportedURL
	}

	segs := strings.Split(u.Path, "/")
	for i := len(segs) - 1; i >= 0; i-- {
		if isDigits(segs[i]) {
			return segs[i], nil
		}
	}
	return "", ErrInvalidIdentifier
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
