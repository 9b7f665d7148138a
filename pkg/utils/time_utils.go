package utils

import (
	"time"
)

const dateLayout = "2006-01-02"

// FormatDate formats a calendar date as YYYY-MM-DD
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// FormatTime formats time in ISO 8601 format
func FormatTime(t time.Time) string {
	return t.Format(time.RFC3339)
}

// ElapsedMillis returns the milliseconds elapsed since start
func ElapsedMillis(start time.Time) int64 {
	return time.Since(start).Milliseconds()
}
