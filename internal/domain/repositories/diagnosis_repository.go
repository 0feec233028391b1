package repositories

import (
	"context"

	"github.com/plantio/backend/internal/domain/entities"
)

// DiagnosisRepository persists diagnosis records. Insert assigns the record
// id when empty and must complete before the id is surfaced to the caller.
type DiagnosisRepository interface {
	Insert(ctx context.Context, diagnosis *entities.Diagnosis) error
	GetByID(ctx context.Context, id string) (*entities.Diagnosis, error)
}
