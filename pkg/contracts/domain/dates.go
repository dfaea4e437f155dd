package domain

import (
	"strings"
	"time"
)

// DateLayouts are the textual date forms accepted in the DATE column
var DateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006-1-2",
	"2006-1-2 15:04:05",
	"2006/1/2",
	"2006/01/02 15:04:05",
	"2006/1/2 15:04:05",
	"2006.1.2",
	"1/2/2006",
	"2006年1月2日",
}

// ParseDate parses s as a calendar date using DateLayouts. The time of day is dropped.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range DateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}
