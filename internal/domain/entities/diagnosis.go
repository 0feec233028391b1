package entities

import "time"

// DiagnosisStatus marks the processing state of a diagnosis record.
type DiagnosisStatus string

const (
	// DiagnosisStatusDone is the only status currently produced; the field
	// is kept for future asynchronous processing.
	DiagnosisStatusDone DiagnosisStatus = "DONE"
)

// DiagnosisRequest echoes the inputs a diagnosis was computed from.
type DiagnosisRequest struct {
	ImageSHA256 string `json:"imageSha256"`
	Filename    string `json:"filename"`
}

// DiagnosisResult holds the enriched candidate list and the decision outcome.
// DecidedDiseaseID is empty when no candidate met the threshold.
type DiagnosisResult struct {
	PlantID          string              `json:"plantId,omitempty"`
	Candidates       []EnrichedCandidate `json:"candidates"`
	DecidedDiseaseID string              `json:"decidedDiseaseId,omitempty"`
}

// Diagnosis is the persisted record of one diagnose request. It is inserted
// exactly once after enrichment completes and never mutated; low-confidence
// outcomes are persisted too so the audit trail is complete.
type Diagnosis struct {
	ID          string           `json:"id" db:"id"`
	Status      DiagnosisStatus  `json:"status" db:"status"`
	CreatedAt   time.Time        `json:"created_at" db:"created_at"`
	Request     DiagnosisRequest `json:"request"`
	Result      *DiagnosisResult `json:"result,omitempty"`
	InferenceMs int64            `json:"inference_ms" db:"inference_ms"`
}
