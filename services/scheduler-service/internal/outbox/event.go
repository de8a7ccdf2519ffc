package outbox

// Kafka topic names equal event types.
const (
	EventReminderDue = "scheduler.reminder.due.v1"
	EventReminderDLQ = "scheduler.reminder.dlq.v1"
)

// Event is the envelope written to the outbox table in the same transaction
// as the job state change.
type Event struct {
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
}
