package utils

import (
	"testing"
	"time"
)

func TestParseDateRejectsGarbage(t *testing.T) {
	if _, err := ParseDate("2025-13-40"); err == nil {
		t.Fatalf("expected error for impossible date")
	}
	if _, err := ParseDate("yesterday"); err == nil {
		t.Fatalf("expected error for non-date input")
	}
}

func TestDayWindowUTCShiftsByOffset(t *testing.T) {
	day, err := ParseDate("2025-03-10")
	if err != nil {
		t.Fatalf("parse date: %v", err)
	}

	start, end := DayWindowUTC(day)

	// Local midnight IST is 18:30 UTC the previous evening.
	wantStart := time.Date(2025, 3, 9, 18, 30, 0, 0, time.UTC)
	wantEnd := time.Date(2025, 3, 10, 18, 30, 0, 0, time.UTC)
	if !start.Equal(wantStart) {
		t.Fatalf("window start: got %v want %v", start, wantStart)
	}
	if !end.Equal(wantEnd) {
		t.Fatalf("window end: got %v want %v", end, wantEnd)
	}
}

func TestDayWindowUTCCoversWholeFinalSecond(t *testing.T) {
	day, err := ParseDate("2025-03-10")
	if err != nil {
		t.Fatalf("parse date: %v", err)
	}
	start, end := DayWindowUTC(day)

	// A completion at 23:59:59.7 local belongs to the day; the exclusive
	// end bound keeps it inside [start, end).
	lastInstant := time.Date(2025, 3, 10, 18, 29, 59, 700_000_000, time.UTC)
	if lastInstant.Before(start) || !lastInstant.Before(end) {
		t.Fatalf("fractional-second completion outside window [%v, %v)", start, end)
	}
	nextDay := time.Date(2025, 3, 10, 18, 30, 0, 0, time.UTC)
	if nextDay.Before(end) {
		t.Fatalf("next midnight leaked into the window, end=%v", end)
	}
}

func TestFormatDateUsesVendorZone(t *testing.T) {
	// 20:00 UTC is already the next calendar day in IST.
	instant := time.Date(2025, 6, 1, 20, 0, 0, 0, time.UTC)
	if got := FormatDate(instant); got != "2025-06-02" {
		t.Fatalf("expected 2025-06-02, got %s", got)
	}
}
