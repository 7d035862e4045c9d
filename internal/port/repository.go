// Package port defines the interfaces the service layer depends on, keeping
// persistence, storage, and notification implementations swappable.
package port

import (
	"context"

	"github.com/google/uuid"

	"concil/internal/domain"
)

// BatchRepository persists reconciled batches and their records.
type BatchRepository interface {
	Create(ctx context.Context, batch *domain.Batch) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Batch, error)
	List(ctx context.Context, offset, limit int) ([]domain.BatchSummary, int, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
