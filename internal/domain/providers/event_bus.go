package providers

import (
	"context"

	"github.com/plantio/backend/internal/domain/entities"
)

// EventBus distributes diagnosis events to real-time consumers. Publish is
// best-effort from the orchestrator's point of view: a failed publish never
// fails the originating request.
type EventBus interface {
	Publish(ctx context.Context, channel string, event *entities.DiagnosisEvent) error
	Subscribe(ctx context.Context, channel string) (<-chan *entities.DiagnosisEvent, error)
	Close() error
}
