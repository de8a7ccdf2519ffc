package outbox

// Kafka topic names equal event types.
const (
	EventUserCreated = "auth.user.created.v1"
	EventAudit       = "auth.audit.v1"
)

// Event is the envelope written to the outbox table alongside the user change.
type Event struct {
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
}
