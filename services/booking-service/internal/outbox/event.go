package outbox

// Kafka topic names equal event types, one topic per event.
const (
	EventAppointmentBooked        = "booking.appointment.booked.v1"
	EventAppointmentCancelled     = "booking.appointment.cancelled.v1"
	EventAppointmentStatusChanged = "booking.appointment.status_changed.v1"
	EventReminderRequested        = "booking.reminder.requested.v1"
)

// Event is the domain event envelope written to the outbox table in the same
// transaction as the appointment change.
type Event struct {
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
}
