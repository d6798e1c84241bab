package generator

import (
	"regexp"
	"strings"
)

var validURL = regexp.MustCompile(`^(http|https)://[^ "]+$`)

// NormalizeURL prefixes a non-empty value that does not start with "http" with https://.
func NormalizeURL(raw string) string {
	if raw != "" && !strings.HasPrefix(raw, "http") {
		return "https://" + raw
	}
	return raw
}

// IsValidURL reports whether s is an http(s) URL without spaces or double quotes.
func IsValidURL(s string) bool {
	return validURL.MatchString(s)
}
