package noop

import (
	"context"
	"log"

	"concil/internal/domain"
	"concil/internal/port"
)

type noopNotifier struct{}

// NewNoopNotifier creates a no-op ReviewNotifier that logs instead of sending.
func NewNoopNotifier() port.ReviewNotifier {
	return &noopNotifier{}
}

func (n *noopNotifier) NotifyReview(_ context.Context, batch *domain.Batch) error {
	status := domain.SettlementStatus("")
	explanation := ""
	if batch.Correlation != nil {
		status = batch.Correlation.Status
		explanation = batch.Correlation.Explanation
	}
	log.Printf("[NOOP NOTIFY] batch %s needs review: %s (%s)", batch.ID, status, explanation)
	return nil
}
