package outbox

// Kafka topic names equal event types.
const (
	EventSent   = "notification.sent.v1"
	EventFailed = "notification.failed.v1"
)

// Event is the envelope written to the outbox table with the notification row.
type Event struct {
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
}
