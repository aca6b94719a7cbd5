package models

import (
	"fmt"
	"strings"
)

// LogLevel is the minimum-severity filter for log queries. Values appear
// verbatim in upstream URL paths.
type LogLevel string

const (
	LevelDebug LogLevel = "debug"
	LevelInfo  LogLevel = "info"
	LevelWarn  LogLevel = "warn"
	LevelError LogLevel = "error"
)

// severity orders levels debug < info < warn < error.
var severity = map[LogLevel]int{
	LevelDebug: 0,
	LevelInfo:  1,
	LevelWarn:  2,
	LevelError: 3,
}

// ParseLogLevel normalizes and validates a level string.
func ParseLogLevel(s string) (LogLevel, error) {
	l := LogLevel(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := severity[l]; !ok {
		return "", fmt.Errorf("unknown log level %q", s)
	}
	return l, nil
}

// Severity returns the numeric rank of the level; unknown levels rank below debug.
func (l LogLevel) Severity() int {
	if rank, ok := severity[l]; ok {
		return rank
	}
	return -1
}

func (l LogLevel) String() string { return string(l) }
