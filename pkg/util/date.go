package util

import (
	"strings"
	"time"
)

// Layouts accepted for bar timestamps. Upstreams disagree: Alpha Vantage uses
// a naive "2006-01-02 15:04:05", the synthetic path emits RFC3339 with a
// trailing "Z", and some feeds drop the offset entirely.
var barTimeLayouts = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// ParseBarTime parses a bar timestamp, tolerating a trailing literal "Z" and
// an absent offset. Offset-less timestamps are taken as UTC. Returns (t, true)
// on success; the result is always in UTC.
func ParseBarTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range barTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	// A bare "Z" on an otherwise offset-less form, e.g. "2006-01-02 15:04:05Z".
	if trimmed, ok := strings.CutSuffix(s, "Z"); ok {
		for _, layout := range barTimeLayouts[2:] {
			if t, err := time.Parse(layout, trimmed); err == nil {
				return t.UTC(), true
			}
		}
	}
	return time.Time{}, false
}

// FormatBarTime renders t in the wire form used throughout the store:
// RFC3339 UTC with a trailing "Z" and no sub-second digits.
func FormatBarTime(t time.Time) string {
	return t.UTC().Truncate(time.Second).Format(time.RFC3339)
}
