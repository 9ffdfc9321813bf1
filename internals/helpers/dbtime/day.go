package dbtime

import (
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

// Day truncates t to its calendar day in loc and returns it as UTC midnight.
// Event dates are stored this way so comparisons never depend on the server zone.
func Day(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today is Day(now) for the application timezone.
func Today(now time.Time, loc *time.Location) time.Time {
	return Day(now, loc)
}

// ParseDate parses YYYY-MM-DD into UTC midnight.
func ParseDate(s string) (time.Time, bool) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
}

// MonthStart returns the first day of t's month (UTC).
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
