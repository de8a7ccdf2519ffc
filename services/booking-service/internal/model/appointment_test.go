package model

import (
	"testing"

	"github.com/nabil-hossain/chairtime/services/booking-service/internal/availability"
)

func TestParseStatus(t *testing.T) {
	for _, s := range []string{"pending", "confirmed", "in_progress", "completed", "cancelled"} {
		if _, err := ParseStatus(s); err != nil {
			t.Errorf("ParseStatus(%q) failed: %v", s, err)
		}
	}
	for _, bad := range []string{"", "done", "CANCELLED", "no_show"} {
		if _, err := ParseStatus(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestStatusOccupies(t *testing.T) {
	for st, want := range map[Status]bool{
		StatusPending:    true,
		StatusConfirmed:  true,
		StatusInProgress: true,
		StatusCompleted:  true,
		StatusCancelled:  false,
	} {
		if st.Occupies() != want {
			t.Errorf("%s.Occupies() = %v, want %v", st, st.Occupies(), want)
		}
	}
}

func TestStatusTransitions(t *testing.T) {
	allowed := []struct{ from, to Status }{
		{StatusPending, StatusConfirmed},
		{StatusPending, StatusCancelled},
		{StatusConfirmed, StatusInProgress},
		{StatusConfirmed, StatusCompleted},
		{StatusConfirmed, StatusCancelled},
		{StatusInProgress, StatusCompleted},
		{StatusInProgress, StatusCancelled},
	}
	for _, c := range allowed {
		if !c.from.CanTransitionTo(c.to) {
			t.Errorf("expected %s -> %s to be allowed", c.from, c.to)
		}
	}

	denied := []struct{ from, to Status }{
		{StatusCompleted, StatusCancelled},
		{StatusCancelled, StatusPending},
		{StatusCancelled, StatusConfirmed},
		{StatusPending, StatusInProgress},
		{StatusPending, StatusCompleted},
		{StatusInProgress, StatusConfirmed},
	}
	for _, c := range denied {
		if c.from.CanTransitionTo(c.to) {
			t.Errorf("expected %s -> %s to be rejected", c.from, c.to)
		}
	}
}

func TestStatusDisplayCoversEveryStatus(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled} {
		d := s.Display()
		if d.Label == "" || d.Variant == "" {
			t.Errorf("status %s has incomplete display metadata: %+v", s, d)
		}
	}
}

func TestStatusRevenueBearing(t *testing.T) {
	for st, want := range map[Status]bool{
		StatusPending:    false,
		StatusConfirmed:  true,
		StatusInProgress: true,
		StatusCompleted:  true,
		StatusCancelled:  false,
	} {
		if st.RevenueBearing() != want {
			t.Errorf("%s.RevenueBearing() = %v, want %v", st, st.RevenueBearing(), want)
		}
	}
}

func TestOccupiedTimes(t *testing.T) {
	appts := []Appointment{
		{Start: 600, Status: StatusConfirmed},
		{Start: 630, Status: StatusCancelled},
		{Start: 660, Status: StatusCompleted},
		{Start: 690, Status: StatusPending},
	}
	got := OccupiedTimes(appts)
	want := []availability.TimeOfDay{600, 660, 690}
	if len(got) != len(want) {
		t.Fatalf("expected %d occupied times, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("occupied[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}
