package domain

import "time"

// Event types published to the realtime stream.
const (
	EventReviewApproved = "review.approved"
	EventReviewRejected = "review.rejected"
	EventItemMatched    = "item.matched"
	EventItemArchived   = "item.archived"
	EventConfigUpdated  = "config.updated"
)

// Event is a notification of a state transition, relayed to connected
// consoles over the realtime channel.
type Event struct {
	Type       string    `json:"type"`
	EntityID   string    `json:"entityId,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
	Payload    any       `json:"payload,omitempty"`
}
