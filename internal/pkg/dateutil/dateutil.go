// Package dateutil holds the calendar-date arithmetic shared by attendance,
// leave and salary: dates are UTC midnights, wall-clock times are time.Time
// values whose date part is ignored.
package dateutil

import (
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

// Truncate clips t to the start of its UTC day.
func Truncate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DateIn returns the calendar date of instant t as observed in loc, expressed
// as a UTC midnight.
func DateIn(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Days returns every date in the inclusive range [from, to] after normalising
// both ends with Truncate. It returns nil when from is after to.
func Days(from, to time.Time) []time.Time {
	from, to = Truncate(from), Truncate(to)
	if from.After(to) {
		return nil
	}
	var days []time.Time
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// Key formats a date for map lookups.
func Key(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// MonthRange returns the first and last date of the month.
func MonthRange(month, year int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, -1)
}

// DaysInMonth returns the number of days in the month.
func DaysInMonth(month, year int) int {
	_, end := MonthRange(month, year)
	return end.Day()
}

// At combines the calendar date with the wall-clock time of clock, in loc.
func At(date, clock time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(date.Year(), date.Month(), date.Day(), clock.Hour(), clock.Minute(), clock.Second(), 0, loc)
}

// ShiftHours returns the length of the in..out wall-clock window in hours, or
// def when either end is missing or the window is empty.
func ShiftHours(in, out *time.Time, def float64) float64 {
	if in == nil || out == nil {
		return def
	}
	start := in.Hour()*3600 + in.Minute()*60 + in.Second()
	end := out.Hour()*3600 + out.Minute()*60 + out.Second()
	if end <= start {
		return def
	}
	return float64(end-start) / 3600
}

// ParseWeekday parses an English weekday name, case-insensitively.
func ParseWeekday(name string) (time.Weekday, bool) {
	name = strings.TrimSpace(name)
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(d.String(), name) {
			return d, true
		}
	}
	return time.Sunday, false
}
