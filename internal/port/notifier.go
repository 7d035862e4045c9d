package port

import (
	"context"

	"concil/internal/domain"
)

// ReviewNotifier alerts the accounts-payable team when a batch needs manual
// review.
type ReviewNotifier interface {
	NotifyReview(ctx context.Context, batch *domain.Batch) error
}
