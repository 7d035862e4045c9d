package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"concil/internal/domain"
)

func TestDetectDuplicates_SameNoteNumber(t *testing.T) {
	a := serviceNote(domain.SourceRendered, "12345", "ACME LTDA", 100.00, "")
	b := serviceNote(domain.SourceRendered, "12345", "OUTRA SA", 200.00, "")

	warning := DetectDuplicates([]*domain.Document{a, b})

	assert.Contains(t, warning, domain.DuplicateMarker)
	assert.Contains(t, warning, "12345")
}

func TestDetectDuplicates_DistinctNumbers(t *testing.T) {
	a := serviceNote(domain.SourceRendered, "12345", "ACME LTDA", 100.00, "")
	b := serviceNote(domain.SourceRendered, "67890", "OUTRA SA", 200.00, "")

	assert.Empty(t, DetectDuplicates([]*domain.Document{a, b}))
}

func TestDetectDuplicates_SameSupplierAndAmount(t *testing.T) {
	a := serviceNote(domain.SourceRendered, "111", "Acme Ltda", 350.00, "")
	b := serviceNote(domain.SourceRendered, "222", "ACME  LTDA", 350.005, "")

	warning := DetectDuplicates([]*domain.Document{a, b})

	assert.Contains(t, warning, domain.DuplicateMarker)
	assert.Contains(t, warning, "ACME LTDA")
}

func TestDetectDuplicates_SameSupplierWithoutAmounts(t *testing.T) {
	a := serviceNote(domain.SourceRendered, "111", "ACME LTDA", 0, "")
	b := serviceNote(domain.SourceRendered, "222", "ACME LTDA", 0, "")

	assert.Empty(t, DetectDuplicates([]*domain.Document{a, b}))
}

func TestDetectDuplicates_IgnoresSlips(t *testing.T) {
	note := serviceNote(domain.SourceRendered, "111", "ACME LTDA", 350.00, "")
	slip := paymentSlip("ACME LTDA", 350.00, "111")

	assert.Empty(t, DetectDuplicates([]*domain.Document{note, slip}))
}

func TestDetectDuplicates_SingleNote(t *testing.T) {
	note := serviceNote(domain.SourceRendered, "111", "ACME LTDA", 350.00, "")

	assert.Empty(t, DetectDuplicates([]*domain.Document{note}))
}
