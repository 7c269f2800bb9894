package dateutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestStartOfMonth(t *testing.T) {
	got := StartOfMonth(date(2024, time.March, 17))
	assert.Equal(t, date(2024, time.March, 1), got)

	// Already the first day.
	got = StartOfMonth(date(2024, time.March, 1))
	assert.Equal(t, date(2024, time.March, 1), got)
}

func TestDaysInMonth(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want int
	}{
		{"january", date(2024, time.January, 10), 31},
		{"february leap", date(2024, time.February, 1), 29},
		{"february non-leap", date(2023, time.February, 28), 28},
		{"april", date(2024, time.April, 30), 30},
		{"december", date(2024, time.December, 31), 31},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysInMonth(tt.in))
		})
	}
}

func TestDayOfWeek(t *testing.T) {
	// 2024-03-10 was a Sunday.
	assert.Equal(t, 0, DayOfWeek(date(2024, time.March, 10)))
	// 2024-03-01 was a Friday.
	assert.Equal(t, 5, DayOfWeek(date(2024, time.March, 1)))
}

func TestFormatISODate(t *testing.T) {
	assert.Equal(t, "2024-03-05", FormatISODate(date(2024, time.March, 5)))
	// Zero padding on both month and day.
	assert.Equal(t, "0099-01-09", FormatISODate(date(99, time.January, 9)))
}

func TestParseISODate(t *testing.T) {
	got, err := ParseISODate("2024-03-10")
	require.NoError(t, err)
	assert.Equal(t, date(2024, time.March, 10), got)

	_, err = ParseISODate("03/10/2024")
	assert.Error(t, err)

	_, err = ParseISODate("")
	assert.Error(t, err)
}

func TestParseClock(t *testing.T) {
	h, m, err := ParseClock("09:30")
	require.NoError(t, err)
	assert.Equal(t, 9, h)
	assert.Equal(t, 30, m)

	h, m, err = ParseClock("23:59")
	require.NoError(t, err)
	assert.Equal(t, 23, h)
	assert.Equal(t, 59, m)

	_, _, err = ParseClock("9:30pm")
	assert.Error(t, err)
}

func TestSameDay(t *testing.T) {
	assert.True(t, SameDay(
		time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.March, 10, 23, 59, 0, 0, time.UTC),
	))
	assert.False(t, SameDay(date(2024, time.March, 10), date(2024, time.March, 11)))
}
