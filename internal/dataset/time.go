package dataset

import "time"

// TimestampLayout is the row timestamp format used across every CSV,
// always rendered in UTC.
const TimestampLayout = "2006-01-02 15:04:05 MST"

// DateLayout is the calendar-date format used by flags and file names.
const DateLayout = "2006-01-02"

// Default collection window.
var (
	DefaultStart = time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC)
	DefaultEnd   = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
)

// FormatTimestamp renders t as e.g. "2023-06-01 14:05:09 UTC".
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// FormatUnix renders a Unix epoch (Reddit's created_utc) the same way.
func FormatUnix(sec float64) string {
	return FormatTimestamp(time.Unix(int64(sec), 0))
}
