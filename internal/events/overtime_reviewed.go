package events

import "time"

const (
	OvertimeReviewedTopic = "hr.overtime.review.v1"
	OvertimeReviewedType  = "overtime.reviewed"
)

// OvertimeReviewedEvent is published when an overtime request is
// approved or rejected by a reviewer.
type OvertimeReviewedEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id"`
	Cedula     string    `json:"cedula"`
	Status     string    `json:"status"`
	Hours      float64   `json:"hours"`
	OccurredAt time.Time `json:"occurred_at"`
}
