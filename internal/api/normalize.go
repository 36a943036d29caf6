package api

import (
	"errors"
	"net/url"
	"strings"
)

// ErrInvalidURL is returned for a URL that cannot be parsed even after
// scheme prefixing; the request is never sent.
var ErrInvalidURL = errors.New("invalid URL")

// NormalizeURL trims the value, prefixes https:// when no scheme is
// present, and rejects anything that still fails to parse. An empty value
// normalizes to empty (URL-less bookmarks carry raw content instead).
func NormalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = "https://" + raw
	}

	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" {
		return "", ErrInvalidURL
	}
	return parsed.String(), nil
}

// ParseTags splits a comma-delimited tag string into an ordered list,
// trimming each entry, dropping empties, and deduplicating while keeping
// first-occurrence order.
func ParseTags(raw string) []string {
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	seen := make(map[string]bool, len(parts))
	for _, part := range parts {
		tag := strings.TrimSpace(part)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	return tags
}
