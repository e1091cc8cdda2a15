package domain

import (
	"strings"
	"time"
)

// TimestampLayout is the wire format of every timestamp the API emits:
// UTC with millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// FormatTime renders t in TimestampLayout. The zero time renders as "".
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(TimestampLayout)
}

// ParseDate accepts a calendar date (2006-01-02) or an RFC 3339 timestamp
// and returns it in UTC.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t.UTC(), true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), true
	}
	return time.Time{}, false
}
