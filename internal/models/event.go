package models

// User lifecycle event types published to Kafka.
const (
	EventUserCreated = "user.created"
	EventUserUpdated = "user.updated"
	EventUserDeleted = "user.deleted"
)

// UserEvent is the payload published for every user mutation.
type UserEvent struct {
	EventID   string `json:"event_id"`
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"`
	User      User   `json:"user"`
}
