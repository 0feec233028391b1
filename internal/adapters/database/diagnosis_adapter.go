package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"

	"github.com/plantio/backend/internal/domain/entities"
	"github.com/plantio/backend/internal/domain/repositories"
	"github.com/plantio/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/plantio/backend/pkg/errors"
)

// DiagnosisAdapter implements diagnosis persistence in Postgres. Records are
// insert-only; retention is handled outside this service.
type DiagnosisAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

var _ repositories.DiagnosisRepository = (*DiagnosisAdapter)(nil)

// NewDiagnosisAdapter creates a new diagnosis adapter.
func NewDiagnosisAdapter(client *postgres.Client) *DiagnosisAdapter {
	return &DiagnosisAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Insert stores a diagnosis record, assigning id and created_at when unset.
func (a *DiagnosisAdapter) Insert(ctx context.Context, diagnosis *entities.Diagnosis) error {
	if diagnosis == nil {
		return apperrors.NewInternalError("diagnosis is nil", nil)
	}
	if diagnosis.ID == "" {
		diagnosis.ID = uuid.New().String()
	}
	if diagnosis.CreatedAt.IsZero() {
		diagnosis.CreatedAt = time.Now().UTC()
	}

	record := goqu.Record{
		"id":           diagnosis.ID,
		"status":       string(diagnosis.Status),
		"created_at":   diagnosis.CreatedAt,
		"image_sha256": diagnosis.Request.ImageSHA256,
		"filename":     diagnosis.Request.Filename,
		"inference_ms": diagnosis.InferenceMs,
	}

	if diagnosis.Result != nil {
		candidates, err := json.Marshal(diagnosis.Result.Candidates)
		if err != nil {
			return apperrors.NewInternalError("failed to encode candidates", err)
		}
		record["plant_id"] = sql.NullString{String: diagnosis.Result.PlantID, Valid: diagnosis.Result.PlantID != ""}
		record["decided_disease_id"] = sql.NullString{String: diagnosis.Result.DecidedDiseaseID, Valid: diagnosis.Result.DecidedDiseaseID != ""}
		record["candidates"] = candidates
	}

	query, args, err := a.db.Insert("diagnoses").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build diagnosis insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to insert diagnosis", err)
	}

	return nil
}

// GetByID returns a stored diagnosis record.
func (a *DiagnosisAdapter) GetByID(ctx context.Context, id string) (*entities.Diagnosis, error) {
	query, args, err := a.db.From("diagnoses").
		Select("id", "status", "created_at", "image_sha256", "filename",
			"plant_id", "decided_disease_id", "candidates", "inference_ms").
		Where(goqu.I("id").Eq(id)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build diagnosis query", err)
	}

	var (
		diagnosis      entities.Diagnosis
		status         string
		plantID        sql.NullString
		decidedID      sql.NullString
		candidatesJSON []byte
	)

	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&diagnosis.ID, &status, &diagnosis.CreatedAt,
		&diagnosis.Request.ImageSHA256, &diagnosis.Request.Filename,
		&plantID, &decidedID, &candidatesJSON, &diagnosis.InferenceMs,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError("diagnosis not found")
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to scan diagnosis", err)
	}

	diagnosis.Status = entities.DiagnosisStatus(status)

	result := &entities.DiagnosisResult{
		PlantID:          plantID.String,
		DecidedDiseaseID: decidedID.String,
	}
	if len(candidatesJSON) > 0 {
		if err := json.Unmarshal(candidatesJSON, &result.Candidates); err != nil {
			return nil, apperrors.NewInternalError("malformed candidates document", err)
		}
	}
	diagnosis.Result = result

	return &diagnosis, nil
}
