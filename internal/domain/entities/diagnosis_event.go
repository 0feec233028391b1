package entities

import "time"

// DiagnosisEventType identifies the kind of diagnosis event.
type DiagnosisEventType string

const (
	// DiagnosisEventCreated is published after a diagnosis record is stored.
	DiagnosisEventCreated DiagnosisEventType = "diagnosis.created"
)

// DiagnosisEvent is the payload published on the event bus for real-time
// consumers (SSE feed).
type DiagnosisEvent struct {
	ID               string             `json:"id"`
	Type             DiagnosisEventType `json:"type"`
	DiagnosisID      string             `json:"diagnosis_id"`
	DecidedDiseaseID string             `json:"decided_disease_id,omitempty"`
	Confidence       float64            `json:"confidence,omitempty"`
	CreatedAt        time.Time          `json:"created_at"`
}
