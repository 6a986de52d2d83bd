package query

import (
	"time"

	"github.com/chungddong/ChurchFinance/internal/core"
)

// Period presets mirror the report screens: a named preset resolves to
// an inclusive date range relative to a reference time.

// ThisMonth returns the first and last day of now's month.
func ThisMonth(now time.Time) (core.Date, core.Date) {
	y, m := now.Year(), int(now.Month())
	return core.NewDate(y, m, 1), core.NewDate(y, m, daysIn(y, m))
}

// LastMonth returns the first and last day of the previous month.
func LastMonth(now time.Time) (core.Date, core.Date) {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
	y, m := first.Year(), int(first.Month())
	return core.NewDate(y, m, 1), core.NewDate(y, m, daysIn(y, m))
}

// ThisYear returns January 1st through December 31st of now's year.
func ThisYear(now time.Time) (core.Date, core.Date) {
	return core.NewDate(now.Year(), 1, 1), core.NewDate(now.Year(), 12, 31)
}

// LastYear returns the full previous year.
func LastYear(now time.Time) (core.Date, core.Date) {
	y := now.Year() - 1
	return core.NewDate(y, 1, 1), core.NewDate(y, 12, 31)
}

// LastDays returns the inclusive range ending today and starting n-1
// days earlier. The record screens default to LastDays(now, 7).
func LastDays(now time.Time, n int) (core.Date, core.Date) {
	end := core.DateOf(now)
	start := core.DateOf(now.AddDate(0, 0, -(n - 1)))
	return start, end
}

func daysIn(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
