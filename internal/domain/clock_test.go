package domain

import (
	"testing"
	"time"
)

func TestElapsedDaysFloors(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	if days := ElapsedDays(base.Add(23*time.Hour), base); days != 0 {
		t.Fatalf("23h should floor to 0 days, got %d", days)
	}
	if days := ElapsedDays(base.Add(24*time.Hour), base); days != 1 {
		t.Fatalf("24h should be 1 day, got %d", days)
	}
	if days := ElapsedDays(base.AddDate(0, 0, 30), base); days != 30 {
		t.Fatalf("expected 30 days, got %d", days)
	}
}

func TestElapsedDaysClampsNegative(t *testing.T) {
	base := time.Now()
	if days := ElapsedDays(base.Add(-48*time.Hour), base); days != 0 {
		t.Fatalf("future reference must clamp to 0, got %d", days)
	}
}

func TestDayBoundaries(t *testing.T) {
	// 2026-03-01 23:30 UTC is already 2026-03-02 in campus time.
	at := time.Date(2026, 3, 1, 23, 30, 0, 0, time.UTC)

	if key := DayKey(at); key != "2026-03-02" {
		t.Fatalf("expected campus-local day key 2026-03-02, got %s", key)
	}

	start := DayStart(at)
	if start.Hour() != 0 || start.Minute() != 0 {
		t.Fatalf("day start not at midnight: %v", start)
	}
	end := DayEnd(at)
	if !end.After(start) || end.Sub(start) != 24*time.Hour-time.Second {
		t.Fatalf("unexpected day end: %v", end)
	}
}

func TestFormatTimestamp(t *testing.T) {
	at := time.Date(2026, 2, 22, 10, 20, 0, 0, time.UTC)
	if got := FormatTimestamp(at); got != "2026-02-22 18:20:00" {
		t.Fatalf("expected campus-local rendering, got %s", got)
	}
}
