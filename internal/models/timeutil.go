package models

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidDate marks a timestamp string that none of the accepted layouts
// could parse.
var ErrInvalidDate = errors.New("invalid date")

const (
	layoutCanonical = "2006-01-02T15:04:05Z"
	layoutDateTime  = "2006-01-02 15:04:05"
	layoutDate      = "2006-01-02"
)

// FormatTime renders t in the canonical wire form: UTC RFC 3339 at second
// precision. Two instants inside the same wall second share one canonical
// form, which is what the lookup cache's no-op check compares.
func FormatTime(t time.Time) string {
	return t.UTC().Truncate(time.Second).Format(layoutCanonical)
}

// ParseTime accepts RFC 3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD' and
// normalizes to UTC. Failures wrap ErrInvalidDate.
func ParseTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, layoutDateTime, layoutDate} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q (expected RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD')", ErrInvalidDate, s)
}
