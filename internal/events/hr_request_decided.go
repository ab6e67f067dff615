package events

import "time"

const (
	HRRequestDecidedTopic = "hr.request.decision.v1"
	HRRequestDecidedType  = "hr_request.decided"
)

// HRRequestDecidedEvent is published once a change request reaches a
// terminal status, either fully approved or rejected.
type HRRequestDecidedEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id"`
	Type       string    `json:"type"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}
