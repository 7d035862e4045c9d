package engine

import (
	"strings"
	"time"

	"concil/internal/domain"
	"concil/internal/emailtext"
)

// Inherit fills obviously-missing fields on the batch's records from their
// paired counterpart or from the email context. A field that already holds a
// value is never overwritten; every step is a no-op when its source is
// absent. Inherited due dates and note numbers are recorded on the result
// together with where they came from.
func Inherit(pairs []domain.DocumentPair, email *domain.EmailContext, result *domain.CorrelationResult, now time.Time) {
	var extracted emailtext.Extraction
	if email != nil {
		extracted = emailtext.Extract(email.Subject, email.BodyText, now)
	}

	for i := range pairs {
		inheritPair(&pairs[i], email, extracted, result)
	}
}

func inheritPair(pair *domain.DocumentPair, email *domain.EmailContext, extracted emailtext.Extraction, result *domain.CorrelationResult) {
	slipDueDate := ""
	for _, slip := range pair.Slips {
		if slip.DueDate != "" {
			slipDueDate = slip.DueDate
			break
		}
	}

	for _, note := range pair.Notes {
		if note.DueDate == "" {
			switch {
			case slipDueDate != "":
				note.DueDate = slipDueDate
				recordDueDate(result, slipDueDate, domain.InheritedFromSlip)
			case extracted.DueDate != "":
				note.DueDate = extracted.DueDate
				recordDueDate(result, extracted.DueDate, domain.InheritedFromEmail)
			}
		}

		if note.IsNote() && note.NoteNumber() == "" && extracted.NoteNumber != "" {
			note.SetNoteNumber(extracted.NoteNumber)
			recordNoteNumber(result, extracted.NoteNumber, domain.InheritedFromEmail)
			fillSlipReference(pair.Slips, extracted.NoteNumber)
		}
	}

	// A slip with no linked reference learns it from the note it pays for.
	for _, note := range pair.Notes {
		if num := strings.TrimSpace(note.PairNumber()); num != "" {
			fillSlipReference(pair.Slips, num)
			break
		}
	}

	for _, slip := range pair.Slips {
		if slip.DueDate == "" && extracted.DueDate != "" {
			slip.DueDate = extracted.DueDate
		}
	}

	all := append(append([]*domain.Document{}, pair.Notes...), pair.Slips...)
	for _, d := range all {
		if d.SupplierName == "" && email != nil && email.SenderName != "" {
			d.SupplierName = email.SenderName
		}
		if d.SupplierTaxID == "" && extracted.TaxID != "" {
			d.SupplierTaxID = extracted.TaxID
		}
	}
}

func fillSlipReference(slips []*domain.Document, num string) {
	for _, slip := range slips {
		if slip.Slip == nil {
			slip.Slip = &domain.SlipFields{}
		}
		if slip.Slip.LinkedNoteRef == "" {
			slip.Slip.LinkedNoteRef = num
		}
	}
}

func recordDueDate(result *domain.CorrelationResult, value string, source domain.InheritanceSource) {
	if result.InheritedDueDate == "" {
		result.InheritedDueDate = value
		result.DueDateSource = source
	}
}

func recordNoteNumber(result *domain.CorrelationResult, value string, source domain.InheritanceSource) {
	if result.InheritedNoteNumber == "" {
		result.InheritedNoteNumber = value
		result.NoteNumberSource = source
	}
}
