// utils/dates.go - Calendar-date helpers shared by the schedule and calendar code
package utils

import "time"

const DateLayout = "2006-01-02"

// DateOnly truncates a timestamp to midnight in its own location.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DaysBetween returns the number of whole calendar days from a to b.
// Negative when b is before a.
func DaysBetween(a, b time.Time) int {
	a = DateOnly(a)
	b = DateOnly(b)
	return int(b.Sub(a).Hours() / 24)
}

// FormatDate renders a timestamp as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// ParseMonth parses a YYYY-MM string to the first day of that month.
func ParseMonth(s string) (time.Time, error) {
	return time.Parse("2006-01", s)
}
