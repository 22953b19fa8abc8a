// utils/dates.go
package utils

import (
	"strings"
	"time"
)

// TimestampLayout matches the ISO-8601 form stored in the data file,
// e.g. 2024-05-01T09:30:00.000Z.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Now returns the current UTC time truncated to the stored precision so that
// a saved and reloaded timestamp compares equal to the in-memory one.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// FileStamp renders t for use inside a file name: colons and dots become dashes.
func FileStamp(t time.Time) string {
	return strings.NewReplacer(":", "-", ".", "-").Replace(FormatTimestamp(t))
}
