// Package engine implements the batch merge and document correlation engine:
// it merges structured-source note records with rendered-source ones, detects
// duplicate submissions, pairs notes against payment slips, inherits missing
// fields from paired records and email context, and classifies the batch into
// a settlement status with a signed discrepancy. The engine performs no I/O
// and keeps no state between calls; resolving two distinct batches
// concurrently is safe, resolving the same batch concurrently is not.
package engine

import (
	"fmt"
	"time"

	"concil/internal/domain"
)

// Engine resolves one batch at a time.
type Engine struct {
	now func() time.Time
}

// New returns an Engine using the wall clock for day/month-only date parsing.
func New() *Engine {
	return &Engine{now: time.Now}
}

// NewAt returns an Engine with a fixed clock, for deterministic resolution.
func NewAt(now func() time.Time) *Engine {
	return &Engine{now: now}
}

// Resolve runs merge, duplicate detection, pairing, inheritance, and
// classification over the batch, mutating it in place, and returns the
// correlation result also attached to the batch. It fails only on malformed
// input: a nil batch or a record without a valid kind tag. Missing data is
// never an error; it flows through as CONFERIR or unfilled fields.
func (e *Engine) Resolve(batch *domain.Batch) (*domain.CorrelationResult, error) {
	if batch == nil {
		return nil, domain.ErrNilBatch
	}
	for _, d := range batch.Documents {
		if d.Kind == "" {
			return nil, fmt.Errorf("engine.Resolve: record %q: %w", d.SourceFile, domain.ErrMissingKind)
		}
		if !domain.KnownKinds[d.Kind] {
			return nil, fmt.Errorf("engine.Resolve: record %q kind %q: %w", d.SourceFile, d.Kind, domain.ErrUnknownKind)
		}
	}

	batch.Documents = MergeNotes(batch.Documents)

	result := &domain.CorrelationResult{}
	result.DuplicateWarning = DetectDuplicates(batch.Documents)

	pairs := PairDocuments(batch.Documents)
	Inherit(pairs, batch.Email, result, e.now())
	Classify(batch, pairs, result)

	if result.DuplicateWarning != "" {
		if result.Explanation != "" {
			result.Explanation += "; " + result.DuplicateWarning
		} else {
			result.Explanation = result.DuplicateWarning
		}
	}

	batch.Correlation = result
	return result, nil
}
