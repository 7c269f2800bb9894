// Package calendar materializes month views into the fixed 6x7 grid the
// client renders.
package calendar

import (
	"time"

	"omniplan/internal/dateutil"
	"omniplan/internal/model"
)

// GridSize is the fixed cell count of a month view: always six rows of
// seven days, so short months still render trailing filler.
const GridSize = 42

// MonthGrid expands the month containing ref into exactly GridSize
// CalendarDay cells: the trailing days of the previous month up to the
// first Sunday on or before the 1st, then every day of ref's month,
// then leading days of the next month until the grid is full.
//
// today is compared at calendar-day granularity and marks at most one
// cell, regardless of its month flag.
func MonthGrid(ref, today time.Time) []model.CalendarDay {
	first := dateutil.StartOfMonth(ref)
	lead := dateutil.DayOfWeek(first)

	days := make([]model.CalendarDay, 0, GridSize)
	for i := 0; i < GridSize; i++ {
		d := first.AddDate(0, 0, i-lead)
		days = append(days, model.CalendarDay{
			Date:           dateutil.FormatISODate(d),
			IsCurrentMonth: d.Month() == first.Month() && d.Year() == first.Year(),
			IsToday:        dateutil.SameDay(d, today),
		})
	}
	return days
}
