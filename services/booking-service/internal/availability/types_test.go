package availability

import (
	"testing"
	"time"
)

func TestParseTimeOfDay(t *testing.T) {
	got, err := ParseTimeOfDay("10:30")
	if err != nil {
		t.Fatalf("ParseTimeOfDay failed: %v", err)
	}
	if got != 630 {
		t.Fatalf("expected 630 minutes, got %d", got)
	}
	if got.String() != "10:30" {
		t.Fatalf("round trip mismatch: %s", got)
	}

	for _, bad := range []string{"", "25:00", "10:75", "noon", "-1:00", "10:00junk", "9:30", "10:5", "1000", "+1:30", "10:+5"} {
		if _, err := ParseTimeOfDay(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-03-14")
	if err != nil {
		t.Fatalf("ParseDate failed: %v", err)
	}
	if d.Year != 2026 || d.Month != time.March || d.Day != 14 {
		t.Fatalf("unexpected date %+v", d)
	}
	if d.String() != "2026-03-14" {
		t.Fatalf("round trip mismatch: %s", d)
	}

	for _, bad := range []string{"", "14-03-2026", "2026-13-01", "2026-02-30"} {
		if _, err := ParseDate(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestDateBefore(t *testing.T) {
	a := Date{2026, time.March, 14}
	b := Date{2026, time.March, 15}
	if !a.Before(b) || b.Before(a) || a.Before(a) {
		t.Fatal("Date.Before ordering broken")
	}
}

func TestNewHoursRejectsInvertedWindow(t *testing.T) {
	if _, err := NewHours(1200, 600); err == nil {
		t.Fatal("expected error for close before open")
	}
	if _, err := NewHours(600, 600); err == nil {
		t.Fatal("expected error for zero-width window")
	}
}
