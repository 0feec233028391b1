package entities

// PlantDisease is a content-team-authored disease record nested inside a
// plant document. DiseaseName here is the canonical display name and takes
// precedence over the static label tables during enrichment.
type PlantDisease struct {
	DiseaseName string   `json:"diseaseName"`
	Description string   `json:"description,omitempty"`
	Symptoms    []string `json:"symptoms,omitempty"`
	Prevention  []string `json:"prevention,omitempty"`
	Treatment   []string `json:"treatment,omitempty"`
	RiskLevel   string   `json:"riskLevel,omitempty"`
	Images      []string `json:"images,omitempty"`
}

// Plant is a knowledge-base plant document.
type Plant struct {
	ID             string         `json:"id" db:"id"`
	PlantName      string         `json:"plantName" db:"plant_name"`
	ScientificName string         `json:"scientificName,omitempty" db:"scientific_name"`
	Description    string         `json:"description,omitempty" db:"description"`
	ImageURL       string         `json:"imageUrl,omitempty" db:"image_url"`
	Diseases       []PlantDisease `json:"diseases"`
}
