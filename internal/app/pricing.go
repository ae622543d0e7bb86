package app

import "time"

// DayCount is the number of calendar days between start and end, compared as
// UTC dates. It is negative when end precedes start.
func DayCount(start, end time.Time) int {
	s := time.Date(start.UTC().Year(), start.UTC().Month(), start.UTC().Day(), 0, 0, 0, 0, time.UTC)
	e := time.Date(end.UTC().Year(), end.UTC().Month(), end.UTC().Day(), 0, 0, 0, 0, time.UTC)
	return int(e.Sub(s).Hours() / 24)
}

// TotalPrice multiplies the nightly price by the day count. An incomplete
// range or a non-positive day count falls back to a single night.
// The breakfast flag is accepted but does not affect the price.
func TotalPrice(start, end *time.Time, nightly int64, _ bool) (days int, total int64) {
	if start == nil || end == nil || start.IsZero() || end.IsZero() {
		return 0, nightly
	}
	days = DayCount(*start, *end)
	if days <= 0 {
		return days, nightly
	}
	return days, int64(days) * nightly
}
