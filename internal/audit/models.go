package audit

import "time"

// Event captures a consent-changing action. Keep it transport-agnostic so
// stores and sinks can fan out.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	SubjectID string    `json:"subject_id"`
	Action    string    `json:"action"`
	Entity    string    `json:"entity,omitempty"`
	Status    string    `json:"status,omitempty"`
	Decision  string    `json:"decision"`
	Reason    string    `json:"reason,omitempty"`
	RequestID string    `json:"request_id,omitempty"`
}
