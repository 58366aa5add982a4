// utils/dates.go
package utils

import (
	"errors"
	"time"
)

func BeginningOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

func EndOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 23, 59, 59, 999999999, t.Location())
}

func DaysBetween(start, end time.Time) int {
	start = BeginningOfDay(start)
	end = BeginningOfDay(end)
	return int(end.Sub(start).Hours() / 24)
}

// ParseDateRange parses calendar dates (YYYY-MM-DD) and normalizes the range
// to [start of startDate, end of endDate]. Inverted ranges are rejected.
func ParseDateRange(startDate, endDate string) (time.Time, time.Time, error) {
	if startDate == "" || endDate == "" {
		return time.Time{}, time.Time{}, errors.New("startDate and endDate are required (format: YYYY-MM-DD)")
	}
	start, err := time.ParseInLocation("2006-01-02", startDate, time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("invalid startDate format, expected YYYY-MM-DD")
	}
	end, err := time.ParseInLocation("2006-01-02", endDate, time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("invalid endDate format, expected YYYY-MM-DD")
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, errors.New("startDate must not be after endDate")
	}
	return BeginningOfDay(start), EndOfDay(end), nil
}
