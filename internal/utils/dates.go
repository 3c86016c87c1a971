package utils

import "time"

// DateOnly truncates a timestamp to midnight UTC so transactions can be
// grouped by calendar date regardless of the time component.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DateRange generates every calendar date from start to end inclusive.
// Returns nil if end is before start.
func DateRange(start, end time.Time) []time.Time {
	start = DateOnly(start)
	end = DateOnly(end)
	if end.Before(start) {
		return nil
	}

	days := int(end.Sub(start).Hours()/24) + 1
	dates := make([]time.Time, 0, days)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}

// FloorDiv divides a by b rounding toward negative infinity. Go's integer
// division truncates toward zero, which is wrong for negative balance sums.
func FloorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
