package dates

import (
	"fmt"
	"strings"
	"time"
)

// Frontmatter date fields with special time-of-day semantics.
const (
	FieldDoDate      = "do_date"
	FieldDueDate     = "due_date"
	FieldCompletedAt = "completed_at"
	FieldCreatedAt   = "created_at"
)

// Storage formats accepted in frontmatter date fields, most specific first.
var storageFormats = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// FormatError reports a date value that matches none of the storage formats.
type FormatError struct {
	Value string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid date format: %q", e.Value)
}

// ParseStorage parses a stored date value. An empty string parses to the
// zero time, not an error.
func ParseStorage(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range storageFormats {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &FormatError{Value: s}
}

// fieldClock is the default time of day applied when a field holds a bare
// calendar date. Deadlines run to the end of the day; everything else
// starts at midnight.
func fieldClock(field string) (hour, min, sec int) {
	if field == FieldDueDate {
		return 23, 59, 59
	}
	return 0, 0, 0
}

// NormalizeForField parses raw and, when it carries no explicit time
// component, fills in the field's default time of day. completed_at is the
// exception: completion stamps double as an audit trail, so a bare date
// gets the current wall-clock time instead of a fixed one.
func NormalizeForField(raw, field string, now time.Time) (time.Time, error) {
	t, err := ParseStorage(raw)
	if err != nil || t.IsZero() {
		return time.Time{}, err
	}
	if strings.Contains(raw, "T") {
		return t, nil
	}
	if field == FieldCompletedAt {
		return time.Date(t.Year(), t.Month(), t.Day(),
			now.Hour(), now.Minute(), now.Second(), 0, t.Location()), nil
	}
	hour, min, sec := fieldClock(field)
	return time.Date(t.Year(), t.Month(), t.Day(), hour, min, sec, 0, t.Location()), nil
}

// FormatForStorage serializes a timestamp for the given field. Values
// sitting exactly on the field's default time of day collapse back to a
// bare date; completed_at always keeps its full time.
func FormatForStorage(t time.Time, field string) string {
	if t.IsZero() {
		return ""
	}
	if field == FieldCompletedAt {
		return t.Format("2006-01-02T15:04:05")
	}
	hour, min, sec := fieldClock(field)
	if t.Hour() == hour && t.Minute() == min && t.Second() == sec {
		return t.Format("2006-01-02")
	}
	return t.Format("2006-01-02T15:04")
}
