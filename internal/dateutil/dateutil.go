// Package dateutil holds the pure date arithmetic underneath the month
// grid and recurrence logic. All functions operate on calendar fields
// only; no time-zone conversion ever happens here.
package dateutil

import "time"

const isoDate = "2006-01-02"

// StartOfMonth returns midnight on the first day of d's month, in d's
// location.
func StartOfMonth(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, d.Location())
}

// DaysInMonth returns the number of days in d's month.
func DaysInMonth(d time.Time) int {
	// Day zero of the next month is the last day of this one.
	return time.Date(d.Year(), d.Month()+1, 0, 0, 0, 0, 0, d.Location()).Day()
}

// DayOfWeek returns d's day of week as 0..6 with 0 = Sunday, the grid's
// first column.
func DayOfWeek(d time.Time) int {
	return int(d.Weekday())
}

// FormatISODate renders d's own calendar fields as a zero-padded
// YYYY-MM-DD string.
func FormatISODate(d time.Time) string {
	return d.Format(isoDate)
}

// ParseISODate parses a YYYY-MM-DD string into a midnight UTC value.
// Dates in this system are calendar-day identifiers, so UTC is used as
// a neutral carrier location.
func ParseISODate(s string) (time.Time, error) {
	return time.Parse(isoDate, s)
}

// ParseClock parses an HH:MM 24-hour clock string into hour and minute.
func ParseClock(s string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, 0, err
	}
	return t.Hour(), t.Minute(), nil
}

// SameDay reports whether a and b fall on the same calendar day,
// compared on their own calendar fields.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
