package helpers

import (
	"time"
)

// DisplayDateLayout renders dates like "March 4, 2025"
const DisplayDateLayout = "January 2, 2006"

// FormatDisplayDate formats t for the date line shown with an article
func FormatDisplayDate(t time.Time) string {
	return t.Format(DisplayDateLayout)
}

// NowRFC3339 returns the current UTC time in RFC3339 with nanoseconds
func NowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}
