package model

import (
	"fmt"
	"time"

	"github.com/nabil-hossain/chairtime/services/booking-service/internal/availability"
)

// Status is the appointment lifecycle. The set is closed: parsing anything
// outside statusDisplay is an error.
type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// StatusDisplay is what the UI renders for a status. Defined once; handlers
// never map statuses to labels themselves.
type StatusDisplay struct {
	Label   string `json:"label"`
	Variant string `json:"variant"`
}

var statusDisplay = map[Status]StatusDisplay{
	StatusPending:    {Label: "Pending", Variant: "warning"},
	StatusConfirmed:  {Label: "Confirmed", Variant: "info"},
	StatusInProgress: {Label: "In progress", Variant: "info"},
	StatusCompleted:  {Label: "Completed", Variant: "success"},
	StatusCancelled:  {Label: "Cancelled", Variant: "danger"},
}

var statusTransitions = map[Status][]Status{
	StatusPending:    {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusInProgress, StatusCompleted, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusCancelled},
	StatusCompleted:  {},
	StatusCancelled:  {},
}

func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if _, ok := statusDisplay[st]; !ok {
		return "", fmt.Errorf("unknown appointment status %q", s)
	}
	return st, nil
}

func (s Status) Display() StatusDisplay {
	return statusDisplay[s]
}

// Occupies reports whether an appointment in this status still blocks its
// slot. Only cancellation frees the chair; a haircut that finished early
// keeps its slot for the rest of the day.
func (s Status) Occupies() bool {
	return s != StatusCancelled
}

// RevenueBearing reports whether the appointment's price counts toward
// earnings. A pending request is an unconfirmed hold and earns nothing.
func (s Status) RevenueBearing() bool {
	switch s {
	case StatusConfirmed, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, t := range statusTransitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

type Appointment struct {
	ID            string
	BarberID      string
	ServiceID     string
	ServiceName   string
	Price         string
	CustomerName  string
	CustomerPhone string
	CustomerEmail string
	Day           availability.Date
	Start         availability.TimeOfDay
	Status        Status
	CancelReason  string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// OccupiedTimes extracts the start times that still block slots, the booked
// input to the availability calculator.
func OccupiedTimes(appts []Appointment) []availability.TimeOfDay {
	var out []availability.TimeOfDay
	for _, a := range appts {
		if a.Status.Occupies() {
			out = append(out, a.Start)
		}
	}
	return out
}
