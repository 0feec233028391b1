package entities

// RawCandidate is a single ranked classification result as emitted by a
// classifier backend. Backends populate different subsets of these fields;
// only Confidence is guaranteed. The ingestion adapter converts every
// backend's output into this one shape before it reaches enrichment.
type RawCandidate struct {
	ClassIndex   *int    `json:"class_index,omitempty"`
	PlantLabel   string  `json:"plant_label,omitempty"`
	PlantName    string  `json:"plant_name,omitempty"`
	DiseaseLabel string  `json:"disease_label,omitempty"`
	DiseaseName  string  `json:"disease_name,omitempty"`
	PlantID      string  `json:"plant_id,omitempty"`
	DiseaseID    string  `json:"disease_id,omitempty"`
	Confidence   float64 `json:"confidence"`
}

// EnrichedCandidate is a raw candidate after normalization and document
// lookup. DiseaseID is always the pre-localization machine label, never a
// display name, so "get disease by id" stays stable across locales and map
// revisions.
type EnrichedCandidate struct {
	PlantID     string  `json:"plant_id,omitempty"`
	PlantName   string  `json:"plant_name,omitempty"`
	DiseaseID   string  `json:"disease_id,omitempty"`
	DiseaseName string  `json:"disease_name,omitempty"`
	Confidence  float64 `json:"confidence"`
}
