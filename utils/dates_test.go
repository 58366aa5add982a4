package utils

import (
	"testing"
	"time"
)

func TestBeginningAndEndOfDay(t *testing.T) {
	at := time.Date(2026, 3, 15, 14, 30, 45, 123, time.Local)

	start := BeginningOfDay(at)
	if start.Hour() != 0 || start.Minute() != 0 || start.Second() != 0 || start.Nanosecond() != 0 {
		t.Errorf("BeginningOfDay = %v", start)
	}
	if start.Day() != 15 {
		t.Errorf("BeginningOfDay moved the date: %v", start)
	}

	end := EndOfDay(at)
	if end.Hour() != 23 || end.Minute() != 59 || end.Second() != 59 {
		t.Errorf("EndOfDay = %v", end)
	}
}

func TestDaysBetween(t *testing.T) {
	start := time.Date(2026, 1, 1, 23, 0, 0, 0, time.Local)
	end := time.Date(2026, 3, 2, 1, 0, 0, 0, time.Local)

	if got := DaysBetween(start, end); got != 60 {
		t.Errorf("DaysBetween = %d, want 60", got)
	}
	if got := DaysBetween(start, start); got != 0 {
		t.Errorf("same-day DaysBetween = %d, want 0", got)
	}
}

func TestParseDateRange(t *testing.T) {
	start, end, err := ParseDateRange("2026-03-01", "2026-03-31")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if start.Day() != 1 || start.Hour() != 0 {
		t.Errorf("start = %v, want start of March 1", start)
	}
	if end.Day() != 31 || end.Hour() != 23 {
		t.Errorf("end = %v, want end of March 31", end)
	}
}

func TestParseDateRangeSingleDay(t *testing.T) {
	start, end, err := ParseDateRange("2026-03-15", "2026-03-15")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !end.After(start) {
		t.Errorf("single-day range is empty: %v .. %v", start, end)
	}
}

func TestParseDateRangeErrors(t *testing.T) {
	cases := []struct {
		name       string
		start, end string
	}{
		{"missing start", "", "2026-03-31"},
		{"missing end", "2026-03-01", ""},
		{"bad start format", "03/01/2026", "2026-03-31"},
		{"bad end format", "2026-03-01", "31-03-2026"},
		{"inverted range", "2026-03-31", "2026-03-01"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, _, err := ParseDateRange(tc.start, tc.end); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}
