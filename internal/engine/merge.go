package engine

import (
	"strings"

	"concil/internal/domain"
)

// MergeNotes resolves the structured-source and rendered-source note records
// of one batch into a single record set. The structured record is always the
// base: when it is incomplete, a rendered counterpart only fills the fields
// the structured record is missing. Rendered notes whose number is already
// satisfied by a structured source, or that were consumed as a complement,
// are dropped. Payment slips and all other kinds pass through unchanged.
func MergeNotes(docs []*domain.Document) []*domain.Document {
	var structured, rendered, passthrough []*domain.Document
	for _, d := range docs {
		switch {
		case d.IsNote() && d.Source == domain.SourceStructured:
			structured = append(structured, d)
		case d.IsNote() && d.Source == domain.SourceRendered:
			rendered = append(rendered, d)
		default:
			passthrough = append(passthrough, d)
		}
	}

	satisfied := make(map[string]bool)
	consumed := make(map[*domain.Document]bool)

	for _, s := range structured {
		if isComplete(s) {
			if n := strings.TrimSpace(s.NoteNumber()); n != "" {
				satisfied[n] = true
			}
			continue
		}
		if donor := findCounterpart(s, rendered, consumed); donor != nil {
			complement(s, donor)
			consumed[donor] = true
		}
		if n := strings.TrimSpace(s.NoteNumber()); n != "" {
			satisfied[n] = true
		}
	}

	out := make([]*domain.Document, 0, len(docs))
	out = append(out, structured...)
	for _, r := range rendered {
		if consumed[r] {
			continue
		}
		if n := strings.TrimSpace(r.NoteNumber()); n != "" && satisfied[n] {
			continue
		}
		out = append(out, r)
	}
	return append(out, passthrough...)
}

// isComplete reports whether a structured note can stand alone without a
// rendered counterpart.
func isComplete(d *domain.Document) bool {
	return strings.TrimSpace(d.SupplierName) != "" &&
		strings.TrimSpace(d.DueDate) != "" &&
		strings.TrimSpace(d.NoteNumber()) != "" &&
		d.TotalAmount > 0
}

// findCounterpart searches the rendered notes for the record describing the
// same logical note: first by identical trimmed note number, then by
// normalized supplier name plus matching amount.
func findCounterpart(base *domain.Document, rendered []*domain.Document, consumed map[*domain.Document]bool) *domain.Document {
	baseNum := strings.TrimSpace(base.NoteNumber())
	if baseNum != "" {
		for _, r := range rendered {
			if consumed[r] {
				continue
			}
			if strings.TrimSpace(r.NoteNumber()) == baseNum {
				return r
			}
		}
	}

	baseSupplier := NormalizeSupplier(base.SupplierName)
	if baseSupplier == "" {
		return nil
	}
	for _, r := range rendered {
		if consumed[r] {
			continue
		}
		if NormalizeSupplier(r.SupplierName) == baseSupplier && amountsMatch(base.TotalAmount, r.TotalAmount) {
			return r
		}
	}
	return nil
}

// complement copies into base only the fields it is still missing.
func complement(base, donor *domain.Document) {
	if base.SupplierName == "" {
		base.SupplierName = donor.SupplierName
	}
	if base.DueDate == "" {
		base.DueDate = donor.DueDate
	}
	if base.NoteNumber() == "" {
		if n := donor.NoteNumber(); n != "" {
			base.SetNoteNumber(n)
		}
	}
	if base.TotalAmount == 0 {
		base.TotalAmount = donor.TotalAmount
	}
	if base.OrderNumber() == "" {
		if n := donor.OrderNumber(); n != "" {
			base.SetOrderNumber(n)
		}
	}
	if base.InvoiceNumber() == "" {
		if n := donor.InvoiceNumber(); n != "" {
			base.SetInvoiceNumber(n)
		}
	}
	if base.IssueDate == "" {
		base.IssueDate = donor.IssueDate
	}
}
