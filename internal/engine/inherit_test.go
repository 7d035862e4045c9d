package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"concil/internal/domain"
)

var inheritNow = time.Date(2025, 8, 28, 12, 0, 0, 0, time.UTC)

func TestInherit_NeverOverwritesDueDate(t *testing.T) {
	note := serviceNote(domain.SourceStructured, "123", "ACME LTDA", 100.00, "2024-10-10")
	pairs := []domain.DocumentPair{{Notes: []*domain.Document{note}, Method: domain.MatchNone}}
	email := &domain.EmailContext{BodyText: "Vencimento: 15/01/2025"}
	result := &domain.CorrelationResult{}

	Inherit(pairs, email, result, inheritNow)

	assert.Equal(t, "2024-10-10", note.DueDate)
	assert.Empty(t, result.InheritedDueDate)
}

func TestInherit_SlipDueDateWinsOverEmail(t *testing.T) {
	note := serviceNote(domain.SourceStructured, "123", "ACME LTDA", 100.00, "")
	slip := paymentSlip("ACME LTDA", 100.00, "123")
	slip.DueDate = "2025-08-28"
	pairs := []domain.DocumentPair{{Notes: []*domain.Document{note}, Slips: []*domain.Document{slip}, Method: domain.MatchNumber}}
	email := &domain.EmailContext{BodyText: "Vencimento: 01/09/2025"}
	result := &domain.CorrelationResult{}

	Inherit(pairs, email, result, inheritNow)

	assert.Equal(t, "2025-08-28", note.DueDate)
	assert.Equal(t, "2025-08-28", result.InheritedDueDate)
	assert.Equal(t, domain.InheritedFromSlip, result.DueDateSource)
}

func TestInherit_EmailDueDateWhenNoSlip(t *testing.T) {
	note := serviceNote(domain.SourceStructured, "123", "ACME LTDA", 100.00, "")
	pairs := []domain.DocumentPair{{Notes: []*domain.Document{note}, Method: domain.MatchNone}}
	email := &domain.EmailContext{Subject: "Boleto - Vencimento: 01/09/2025"}
	result := &domain.CorrelationResult{}

	Inherit(pairs, email, result, inheritNow)

	assert.Equal(t, "2025-09-01", note.DueDate)
	assert.Equal(t, domain.InheritedFromEmail, result.DueDateSource)
}

func TestInherit_NoteNumberFromEmailPropagatesToSlip(t *testing.T) {
	note := serviceNote(domain.SourceStructured, "", "ACME LTDA", 0, "")
	slip := paymentSlip("", 1500.00, "")
	pairs := []domain.DocumentPair{{Notes: []*domain.Document{note}, Slips: []*domain.Document{slip}, Method: domain.MatchForced, Forced: true}}
	email := &domain.EmailContext{Subject: "NFS-e nº 3406 emitida"}
	result := &domain.CorrelationResult{}

	Inherit(pairs, email, result, inheritNow)

	assert.Equal(t, "3406", note.NoteNumber())
	assert.Equal(t, "3406", slip.Slip.LinkedNoteRef)
	assert.Equal(t, "3406", result.InheritedNoteNumber)
	assert.Equal(t, domain.InheritedFromEmail, result.NoteNumberSource)
}

func TestInherit_DocumentNoteNumberFillsSlipRefWithoutSource(t *testing.T) {
	note := serviceNote(domain.SourceStructured, "555", "ACME LTDA", 90.00, "")
	slip := paymentSlip("ACME LTDA", 90.00, "")
	pairs := []domain.DocumentPair{{Notes: []*domain.Document{note}, Slips: []*domain.Document{slip}, Method: domain.MatchSupplierValue}}
	result := &domain.CorrelationResult{}

	Inherit(pairs, &domain.EmailContext{Subject: "NF 555"}, result, inheritNow)

	assert.Equal(t, "555", slip.Slip.LinkedNoteRef)
	// The number came from the document itself, not from the email.
	assert.Empty(t, result.InheritedNoteNumber)
	assert.Empty(t, result.NoteNumberSource)
}

func TestInherit_SenderNameAndTaxID(t *testing.T) {
	note := serviceNote(domain.SourceStructured, "800", "", 120.00, "")
	pairs := []domain.DocumentPair{{Notes: []*domain.Document{note}, Method: domain.MatchNone}}
	email := &domain.EmailContext{
		SenderName: "Fornecedor Exemplo",
		BodyText:   "CNPJ 12.345.678/0001-95",
	}
	result := &domain.CorrelationResult{}

	Inherit(pairs, email, result, inheritNow)

	assert.Equal(t, "Fornecedor Exemplo", note.SupplierName)
	assert.Equal(t, "12.345.678/0001-95", note.SupplierTaxID)
}

func TestInherit_NoEmailContextIsNoOp(t *testing.T) {
	note := serviceNote(domain.SourceStructured, "", "", 0, "")
	pairs := []domain.DocumentPair{{Notes: []*domain.Document{note}, Method: domain.MatchNone}}
	result := &domain.CorrelationResult{}

	require.NotPanics(t, func() { Inherit(pairs, nil, result, inheritNow) })
	assert.Empty(t, note.SupplierName)
	assert.Empty(t, note.DueDate)
}
