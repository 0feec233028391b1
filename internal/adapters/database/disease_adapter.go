package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"

	"github.com/plantio/backend/internal/domain/entities"
	"github.com/plantio/backend/internal/domain/repositories"
	"github.com/plantio/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/plantio/backend/pkg/errors"
)

// sortableDiseaseColumns whitelists user-supplied sort fields.
var sortableDiseaseColumns = map[string]struct{}{
	"id":         {},
	"plant_id":   {},
	"name":       {},
	"popularity": {},
}

// DiseaseAdapter implements disease document access in Postgres.
type DiseaseAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

var _ repositories.DiseaseRepository = (*DiseaseAdapter)(nil)

// NewDiseaseAdapter creates a new disease adapter.
func NewDiseaseAdapter(client *postgres.Client) *DiseaseAdapter {
	return &DiseaseAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// GetByID returns one disease by its durable id or a NOT_FOUND error.
func (a *DiseaseAdapter) GetByID(ctx context.Context, id string) (*entities.Disease, error) {
	query, args, err := a.db.From("diseases").
		Select("id", "plant_id", "name", "symptoms", "causes", "treatments", "gallery", "popularity").
		Where(goqu.I("id").Eq(id)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build disease query", err)
	}

	return scanDisease(a.client.DB().QueryRowContext(ctx, query, args...))
}

// List returns diseases filtered by text query and plant id.
func (a *DiseaseAdapter) List(ctx context.Context, filter repositories.DiseaseFilter) ([]*entities.Disease, error) {
	ds := a.db.From("diseases").
		Select("id", "plant_id", "name", "symptoms", "causes", "treatments", "gallery", "popularity")

	if filter.Query != "" {
		pattern := "%" + filter.Query + "%"
		ds = ds.Where(goqu.Or(
			goqu.I("name").ILike(pattern),
			goqu.I("causes").ILike(pattern),
			goqu.L("symptoms::text").ILike(pattern),
		))
	}
	if filter.PlantID != "" {
		ds = ds.Where(goqu.I("plant_id").Eq(filter.PlantID))
	}

	ds = ds.Order(parseDiseaseSort(filter.Sort)...)

	limit := filter.Limit
	if limit <= 0 || limit > maxPageSize {
		limit = maxPageSize
	}
	ds = ds.Limit(uint(limit))
	if filter.Offset > 0 {
		ds = ds.Offset(uint(filter.Offset))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build disease list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list diseases", err)
	}
	defer rows.Close()

	var diseases []*entities.Disease
	for rows.Next() {
		disease, err := scanDisease(rows)
		if err != nil {
			return nil, err
		}
		diseases = append(diseases, disease)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate diseases", err)
	}

	return diseases, nil
}

// parseDiseaseSort turns "-popularity,name" into ordered expressions.
// Unknown fields are ignored; the default is popularity descending.
func parseDiseaseSort(sort string) []exp.OrderedExpression {
	var order []exp.OrderedExpression
	for _, field := range strings.Split(sort, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		desc := strings.HasPrefix(field, "-")
		name := strings.TrimPrefix(field, "-")
		if _, ok := sortableDiseaseColumns[name]; !ok {
			continue
		}
		if desc {
			order = append(order, goqu.I(name).Desc())
		} else {
			order = append(order, goqu.I(name).Asc())
		}
	}
	if len(order) == 0 {
		order = append(order, goqu.I("popularity").Desc())
	}
	return order
}

func scanDisease(row rowScanner) (*entities.Disease, error) {
	var (
		disease        entities.Disease
		causes         sql.NullString
		symptomsJSON   []byte
		treatmentsJSON []byte
		galleryJSON    []byte
	)

	err := row.Scan(&disease.ID, &disease.PlantID, &disease.Name,
		&symptomsJSON, &causes, &treatmentsJSON, &galleryJSON, &disease.Popularity)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError("disease not found")
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to scan disease", err)
	}

	disease.Causes = causes.String

	if len(symptomsJSON) > 0 {
		if err := json.Unmarshal(symptomsJSON, &disease.Symptoms); err != nil {
			return nil, apperrors.NewInternalError("malformed symptoms document", err)
		}
	}
	if len(treatmentsJSON) > 0 {
		if err := json.Unmarshal(treatmentsJSON, &disease.Treatments); err != nil {
			return nil, apperrors.NewInternalError("malformed treatments document", err)
		}
	}
	if len(galleryJSON) > 0 {
		if err := json.Unmarshal(galleryJSON, &disease.Gallery); err != nil {
			return nil, apperrors.NewInternalError("malformed gallery document", err)
		}
	}

	return &disease, nil
}
