package classifier

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/plantio/backend/internal/domain/entities"
)

// ClassEntry is the metadata recorded for one model output index at export
// time. Any field may be empty; enrichment fills the gaps downstream.
type ClassEntry struct {
	PlantLabel   string `json:"plant_label"`
	PlantName    string `json:"plant_name"`
	DiseaseLabel string `json:"disease_label"`
	DiseaseName  string `json:"disease_name"`
	PlantID      string `json:"plant_id"`
	DiseaseID    string `json:"disease_id"`
}

// ClassMap maps model output indices to class metadata.
type ClassMap struct {
	entries map[int]ClassEntry
	indices []int
}

// LoadClassMap reads a class map file keyed by stringified output indices.
// Entries with non-integer keys are skipped. A missing file yields an empty
// map rather than an error so mock backends can still run.
func LoadClassMap(path string) (*ClassMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Warn().Str("path", path).Msg("Class map not found, using empty map")
			return &ClassMap{entries: map[int]ClassEntry{}}, nil
		}
		return nil, fmt.Errorf("failed to read class map: %w", err)
	}

	var raw map[string]ClassEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse class map: %w", err)
	}

	entries := make(map[int]ClassEntry, len(raw))
	for key, entry := range raw {
		idx, err := strconv.Atoi(key)
		if err != nil {
			log.Warn().Str("key", key).Msg("Skipping class map entry with non-integer key")
			continue
		}
		entries[idx] = entry
	}

	indices := make([]int, 0, len(entries))
	for idx := range entries {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	return &ClassMap{entries: entries, indices: indices}, nil
}

// Len returns the number of known classes.
func (m *ClassMap) Len() int {
	return len(m.entries)
}

// Lookup returns the entry for an output index.
func (m *ClassMap) Lookup(idx int) (ClassEntry, bool) {
	entry, ok := m.entries[idx]
	return entry, ok
}

// At returns the entry at position i in ascending index order.
func (m *ClassMap) At(i int) (int, ClassEntry) {
	idx := m.indices[i]
	return idx, m.entries[idx]
}

// Annotate fills the empty fields of a candidate from the class map entry for
// its output index. Fields the backend already populated win over the map.
func (m *ClassMap) Annotate(candidate entities.RawCandidate) entities.RawCandidate {
	if candidate.ClassIndex == nil {
		return candidate
	}
	entry, ok := m.entries[*candidate.ClassIndex]
	if !ok {
		return candidate
	}

	if candidate.PlantLabel == "" {
		candidate.PlantLabel = entry.PlantLabel
	}
	if candidate.PlantName == "" {
		candidate.PlantName = entry.PlantName
	}
	if candidate.DiseaseLabel == "" {
		candidate.DiseaseLabel = entry.DiseaseLabel
	}
	if candidate.DiseaseName == "" {
		candidate.DiseaseName = entry.DiseaseName
	}
	if candidate.PlantID == "" {
		candidate.PlantID = entry.PlantID
	}
	if candidate.DiseaseID == "" {
		candidate.DiseaseID = entry.DiseaseID
	}
	return candidate
}
