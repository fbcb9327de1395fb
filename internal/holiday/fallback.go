package holiday

import (
	"time"

	"github.com/Credo-Linfel-S/Villanueva-BFP1-main-sub002/internal/leavecalc"
)

// FallbackHolidays returns the hard-coded Philippine holiday calendar
// for a year. It covers the fixed-date regular holidays plus National
// Heroes Day (last Monday of August); movable religious holidays are
// only available from the live source.
func FallbackHolidays(year int) []leavecalc.Holiday {
	fixed := []struct {
		month time.Month
		day   int
		name  string
	}{
		{time.January, 1, "New Year's Day"},
		{time.April, 9, "Araw ng Kagitingan"},
		{time.May, 1, "Labor Day"},
		{time.June, 12, "Independence Day"},
		{time.August, 21, "Ninoy Aquino Day"},
		{time.November, 1, "All Saints' Day"},
		{time.November, 30, "Bonifacio Day"},
		{time.December, 8, "Feast of the Immaculate Conception"},
		{time.December, 25, "Christmas Day"},
		{time.December, 30, "Rizal Day"},
		{time.December, 31, "Last Day of the Year"},
	}

	holidays := make([]leavecalc.Holiday, 0, len(fixed)+1)
	for _, f := range fixed {
		holidays = append(holidays, leavecalc.Holiday{
			Date: time.Date(year, f.month, f.day, 0, 0, 0, 0, time.UTC),
			Name: f.name,
		})
	}

	holidays = append(holidays, leavecalc.Holiday{
		Date: lastMondayOfAugust(year),
		Name: "National Heroes Day",
	})

	return holidays
}

func lastMondayOfAugust(year int) time.Time {
	d := time.Date(year, time.August, 31, 0, 0, 0, 0, time.UTC)
	for d.Weekday() != time.Monday {
		d = d.AddDate(0, 0, -1)
	}
	return d
}
