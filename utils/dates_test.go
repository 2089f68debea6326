package utils

import (
	"testing"
	"time"
)

func TestDaysInMonth(t *testing.T) {
	cases := []struct {
		year     int
		month    time.Month
		expected int
	}{
		{2023, time.January, 31},
		{2023, time.February, 28},
		{2024, time.February, 29},
		{2023, time.April, 30},
		{2023, time.December, 31},
	}
	for _, tc := range cases {
		if got := DaysInMonth(tc.year, tc.month); got != tc.expected {
			t.Fatalf("DaysInMonth(%d, %s) expected %d, got %d", tc.year, tc.month, tc.expected, got)
		}
	}
}

func TestMonthsInRange(t *testing.T) {
	start := time.Date(2023, time.January, 28, 0, 0, 0, 0, time.UTC)
	end := time.Date(2023, time.February, 2, 0, 0, 0, 0, time.UTC)

	months := MonthsInRange(start, end)
	if len(months) != 2 {
		t.Fatalf("expected 2 months, got %d", len(months))
	}
	if months[0].Month() != time.January || months[1].Month() != time.February {
		t.Fatalf("unexpected months %v", months)
	}
	for _, m := range months {
		if m.Day() != 1 {
			t.Fatalf("expected first-of-month, got %s", m)
		}
	}
}

func TestMonthsInRange_SingleDay(t *testing.T) {
	d := time.Date(2023, time.June, 15, 0, 0, 0, 0, time.UTC)
	months := MonthsInRange(d, d)
	if len(months) != 1 {
		t.Fatalf("expected 1 month, got %d", len(months))
	}
}

func TestMonthsInRange_YearBoundary(t *testing.T) {
	start := time.Date(2023, time.November, 15, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.February, 10, 0, 0, 0, 0, time.UTC)

	months := MonthsInRange(start, end)
	if len(months) != 4 {
		t.Fatalf("expected 4 months, got %d", len(months))
	}
	if months[3].Year() != 2024 || months[3].Month() != time.February {
		t.Fatalf("unexpected final month %s", months[3])
	}
}

func TestBeginningOfDay(t *testing.T) {
	a := time.Date(2023, time.May, 1, 9, 30, 45, 0, time.UTC)
	b := time.Date(2023, time.May, 1, 23, 59, 59, 0, time.UTC)

	if !BeginningOfDay(a).Equal(BeginningOfDay(b)) {
		t.Fatalf("expected %s and %s to truncate to the same day", a, b)
	}
	day := BeginningOfDay(a)
	if day.Hour() != 0 || day.Minute() != 0 || day.Second() != 0 {
		t.Fatalf("expected midnight, got %s", day)
	}
}

func TestDateKeyParseDateRoundtrip(t *testing.T) {
	d := time.Date(2023, time.May, 1, 0, 0, 0, 0, time.UTC)
	parsed, err := ParseDate(DateKey(d))
	if err != nil {
		t.Fatalf("ParseDate error: %v", err)
	}
	if !parsed.Equal(d) {
		t.Fatalf("roundtrip expected %s, got %s", d, parsed)
	}
}

func TestDaysBetween(t *testing.T) {
	start := time.Date(2023, time.January, 28, 10, 0, 0, 0, time.UTC)
	end := time.Date(2023, time.February, 2, 8, 0, 0, 0, time.UTC)
	if got := DaysBetween(start, end); got != 5 {
		t.Fatalf("expected 5 days, got %d", got)
	}
}
