package entities

// DiseaseTreatment describes one treatment option for a disease.
type DiseaseTreatment struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Dosage      string `json:"dosage,omitempty"`
}

// Disease is a standalone disease document, addressed by the durable disease
// id that enrichment carries forward (the classifier's machine label).
type Disease struct {
	ID         string             `json:"id" db:"id"`
	PlantID    string             `json:"plant_id" db:"plant_id"`
	Name       string             `json:"name" db:"name"`
	Symptoms   []string           `json:"symptoms"`
	Causes     string             `json:"causes,omitempty" db:"causes"`
	Treatments []DiseaseTreatment `json:"treatments,omitempty"`
	Gallery    []string           `json:"gallery,omitempty"`
	Popularity int                `json:"popularity" db:"popularity"`
}
