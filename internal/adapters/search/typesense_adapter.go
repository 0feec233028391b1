package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"

	"github.com/plantio/backend/internal/domain/entities"
	"github.com/plantio/backend/internal/domain/repositories"
	tsclient "github.com/plantio/backend/internal/infrastructure/clients/typesense"
)

const collectionName = "diseases"

// TypesenseAdapter implements disease search using Typesense.
type TypesenseAdapter struct {
	client *tsclient.Client
}

// Ensure TypesenseAdapter implements DiseaseSearchRepository
var _ repositories.DiseaseSearchRepository = (*TypesenseAdapter)(nil)

// NewTypesenseAdapter creates a new Typesense adapter
func NewTypesenseAdapter(client *tsclient.Client) *TypesenseAdapter {
	return &TypesenseAdapter{client: client}
}

// InitSchema ensures the diseases collection exists
func (a *TypesenseAdapter) InitSchema(ctx context.Context) error {
	_, err := a.client.Client().Collection(collectionName).Retrieve(ctx)
	if err == nil {
		return nil // Collection exists
	}

	schema := &api.CollectionSchema{
		Name: collectionName,
		Fields: []api.Field{
			{Name: "id", Type: "string"},
			{Name: "plant_id", Type: "string", Facet: pointer.True()},
			{Name: "name", Type: "string"},
			{Name: "symptoms", Type: "string[]"},
			{Name: "causes", Type: "string"},
			{Name: "popularity", Type: "int32"},
		},
		DefaultSortingField: pointer.String("popularity"),
	}

	_, err = a.client.Client().Collections().Create(ctx, schema)
	if err != nil {
		return fmt.Errorf("failed to create typesense collection: %w", err)
	}

	return nil
}

// Index upserts a disease document into the index
func (a *TypesenseAdapter) Index(ctx context.Context, disease *entities.Disease) error {
	symptoms := disease.Symptoms
	if symptoms == nil {
		symptoms = []string{}
	}

	document := map[string]interface{}{
		"id":         disease.ID,
		"plant_id":   disease.PlantID,
		"name":       disease.Name,
		"symptoms":   symptoms,
		"causes":     disease.Causes,
		"popularity": disease.Popularity,
	}

	_, err := a.client.Client().Collection(collectionName).Documents().Upsert(ctx, document)
	if err != nil {
		return fmt.Errorf("failed to index disease: %w", err)
	}

	return nil
}

// Delete removes a disease from the index
func (a *TypesenseAdapter) Delete(ctx context.Context, id string) error {
	_, err := a.client.Client().Collection(collectionName).Document(id).Delete(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete disease from index: %w", err)
	}
	return nil
}

// Search queries the diseases index. Hits carry the indexed fields only;
// callers needing treatments or the image gallery re-fetch by id from the
// primary repository.
func (a *TypesenseAdapter) Search(ctx context.Context, filter repositories.DiseaseFilter) ([]*entities.Disease, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}

	query := filter.Query
	if query == "" {
		query = "*"
	}

	searchParams := &api.SearchCollectionParams{
		Q:       pointer.String(query),
		QueryBy: pointer.String("name,symptoms,causes"),
		SortBy:  pointer.String(typesenseSort(filter.Sort)),
		Page:    pointer.Int(filter.Offset/limit + 1),
		PerPage: pointer.Int(limit),
	}
	if filter.PlantID != "" {
		searchParams.FilterBy = pointer.String(fmt.Sprintf("plant_id:=%s", filter.PlantID))
	}

	result, err := a.client.Client().Collection(collectionName).Documents().Search(ctx, searchParams)
	if err != nil {
		return nil, fmt.Errorf("failed to search diseases: %w", err)
	}

	diseases := []*entities.Disease{}
	if result.Hits == nil {
		return diseases, nil
	}
	for _, hit := range *result.Hits {
		doc := *hit.Document

		disease := &entities.Disease{}
		if val, ok := doc["id"].(string); ok {
			disease.ID = val
		}
		if val, ok := doc["plant_id"].(string); ok {
			disease.PlantID = val
		}
		if val, ok := doc["name"].(string); ok {
			disease.Name = val
		}
		if val, ok := doc["causes"].(string); ok {
			disease.Causes = val
		}
		if val, ok := doc["popularity"].(float64); ok {
			disease.Popularity = int(val)
		}
		if raw, ok := doc["symptoms"].([]interface{}); ok {
			for _, item := range raw {
				if s, ok := item.(string); ok {
					disease.Symptoms = append(disease.Symptoms, s)
				}
			}
		}

		diseases = append(diseases, disease)
	}

	return diseases, nil
}

// typesenseSort translates the API's "-popularity,name" syntax into the
// "popularity:desc,name:asc" form Typesense expects.
func typesenseSort(sort string) string {
	if sort == "" {
		return "popularity:desc"
	}

	parts := strings.Split(sort, ",")
	clauses := make([]string, 0, len(parts))
	for _, part := range parts {
		field := strings.TrimSpace(part)
		if field == "" {
			continue
		}
		direction := "asc"
		if strings.HasPrefix(field, "-") {
			field = field[1:]
			direction = "desc"
		}
		clauses = append(clauses, field+":"+direction)
	}
	if len(clauses) == 0 {
		return "popularity:desc"
	}
	return strings.Join(clauses, ",")
}
