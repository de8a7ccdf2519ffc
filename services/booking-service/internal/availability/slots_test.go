package availability

import (
	"testing"
	"time"
)

func mustHours(t *testing.T, open, close string) Hours {
	t.Helper()
	o, err := ParseTimeOfDay(open)
	if err != nil {
		t.Fatalf("parse open: %v", err)
	}
	c, err := ParseTimeOfDay(close)
	if err != nil {
		t.Fatalf("parse close: %v", err)
	}
	h, err := NewHours(o, c)
	if err != nil {
		t.Fatalf("new hours: %v", err)
	}
	return h
}

func TestGenerateSlots_ThirtyMinuteInterval(t *testing.T) {
	hours := mustHours(t, "10:00", "20:00")
	slots := GenerateSlots(30, hours)
	if len(slots) != 20 {
		t.Fatalf("expected 20 slots, got %d", len(slots))
	}
	if slots[0].String() != "10:00" {
		t.Fatalf("expected first slot 10:00, got %s", slots[0])
	}
	if slots[len(slots)-1].String() != "19:30" {
		t.Fatalf("expected last slot 19:30, got %s", slots[len(slots)-1])
	}
	for _, s := range slots {
		if s >= hours.Close {
			t.Fatalf("slot %s not strictly before close", s)
		}
	}
}

func TestGenerateSlots_FortyFiveMinuteInterval(t *testing.T) {
	hours := mustHours(t, "10:00", "20:00")
	slots := GenerateSlots(45, hours)
	if len(slots) != 14 {
		t.Fatalf("expected 14 slots, got %d", len(slots))
	}
	if slots[len(slots)-1].String() != "19:45" {
		t.Fatalf("expected last slot 19:45, got %s", slots[len(slots)-1])
	}
}

func TestGenerateSlots_InvalidInputs(t *testing.T) {
	hours := mustHours(t, "10:00", "20:00")
	if got := GenerateSlots(0, hours); got != nil {
		t.Fatalf("expected nil for zero interval, got %v", got)
	}
	if got := GenerateSlots(30, Hours{Open: 600, Close: 600}); got != nil {
		t.Fatalf("expected nil for empty window, got %v", got)
	}
}

func TestAvailableSlots_ExcludesBooked(t *testing.T) {
	hours := mustHours(t, "10:00", "20:00")
	date := Date{Year: 2026, Month: time.March, Day: 14}
	// A day well before the requested date, so no today filtering applies.
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	booked := []TimeOfDay{630, 840} // 10:30 and 14:00
	slots := AvailableSlots(30, hours, date, booked, now)
	if len(slots) != 18 {
		t.Fatalf("expected 18 slots, got %d", len(slots))
	}
	for _, s := range slots {
		if s == 630 || s == 840 {
			t.Fatalf("booked slot %s still offered", s)
		}
	}
}

func TestAvailableSlots_TodayDropsElapsed(t *testing.T) {
	hours := mustHours(t, "10:00", "20:00")
	now := time.Date(2026, 3, 14, 14, 30, 0, 0, time.UTC)
	date := DateOf(now)

	slots := AvailableSlots(30, hours, date, nil, now)
	// Everything at or before 14:30 is gone; 15:00..19:30 remain.
	if len(slots) != 10 {
		t.Fatalf("expected 10 slots, got %d", len(slots))
	}
	if slots[0].String() != "15:00" {
		t.Fatalf("expected first slot 15:00, got %s", slots[0])
	}
}

func TestAvailableSlots_SlotEqualToNowIsPast(t *testing.T) {
	hours := mustHours(t, "10:00", "20:00")
	now := time.Date(2026, 3, 14, 14, 0, 0, 0, time.UTC)
	date := DateOf(now)

	for _, s := range AvailableSlots(30, hours, date, nil, now) {
		if s.String() == "14:00" {
			t.Fatal("slot equal to the current minute should not be offered")
		}
	}
}

func TestAvailableSlots_FutureDateIgnoresClock(t *testing.T) {
	hours := mustHours(t, "10:00", "20:00")
	date := Date{Year: 2026, Month: time.March, Day: 20}
	lateEvening := time.Date(2026, 3, 14, 23, 59, 0, 0, time.UTC)

	slots := AvailableSlots(30, hours, date, nil, lateEvening)
	if len(slots) != 20 {
		t.Fatalf("expected full day of 20 slots, got %d", len(slots))
	}
}

func TestAvailableSlots_FullyBookedDay(t *testing.T) {
	hours := mustHours(t, "10:00", "20:00")
	date := Date{Year: 2026, Month: time.March, Day: 20}
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	booked := GenerateSlots(30, hours)
	slots := AvailableSlots(30, hours, date, booked, now)
	if len(slots) != 0 {
		t.Fatalf("expected no slots on a fully booked day, got %d", len(slots))
	}
}

func TestAvailableSlots_Deterministic(t *testing.T) {
	hours := mustHours(t, "10:00", "20:00")
	date := Date{Year: 2026, Month: time.March, Day: 20}
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	booked := []TimeOfDay{600, 720}

	a := AvailableSlots(30, hours, date, booked, now)
	b := AvailableSlots(30, hours, date, booked, now)
	if len(a) != len(b) {
		t.Fatalf("length changed between identical calls: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("slot %d changed between identical calls: %s vs %s", i, a[i], b[i])
		}
	}
}

func TestAvailableSlots_ChronologicalOrder(t *testing.T) {
	hours := mustHours(t, "10:00", "20:00")
	date := Date{Year: 2026, Month: time.March, Day: 20}
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	slots := AvailableSlots(45, hours, date, []TimeOfDay{645}, now)
	for i := 1; i < len(slots); i++ {
		if slots[i-1] >= slots[i] {
			t.Fatalf("slots out of order at %d: %s >= %s", i, slots[i-1], slots[i])
		}
	}
}

func TestAvailableSlots_MonotoneInBookings(t *testing.T) {
	hours := mustHours(t, "10:00", "20:00")
	date := Date{Year: 2026, Month: time.March, Day: 20}
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	var booked []TimeOfDay
	prev := AvailableSlots(30, hours, date, booked, now)
	for _, b := range GenerateSlots(30, hours) {
		booked = append(booked, b)
		got := AvailableSlots(30, hours, date, booked, now)

		// Booking one free slot removes exactly that slot and nothing else.
		if len(got) != len(prev)-1 {
			t.Fatalf("adding booking %s changed availability from %d to %d slots", b, len(prev), len(got))
		}
		i := 0
		for _, s := range prev {
			if s == b {
				continue
			}
			if i >= len(got) || got[i] != s {
				t.Fatalf("adding booking %s disturbed slot %s", b, s)
			}
			i++
		}
		prev = got
	}
}

func TestIsPast(t *testing.T) {
	now := time.Date(2026, 3, 14, 14, 0, 0, 0, time.UTC)
	today := DateOf(now)

	cases := []struct {
		name string
		date Date
		slot TimeOfDay
		want bool
	}{
		{"earlier today", today, 600, true},
		{"current minute", today, 840, true},
		{"later today", today, 841, false},
		{"yesterday", Date{2026, time.March, 13}, 1140, true},
		{"tomorrow", Date{2026, time.March, 15}, 600, false},
	}
	for _, tc := range cases {
		if got := IsPast(tc.date, tc.slot, now); got != tc.want {
			t.Errorf("%s: IsPast(%s %s) = %v, want %v", tc.name, tc.date, tc.slot, got, tc.want)
		}
	}
}
