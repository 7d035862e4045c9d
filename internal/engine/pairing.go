package engine

import (
	"strings"

	"concil/internal/domain"
)

// PairDocuments associates note-like records with payment slips using a
// strategy cascade: exact number match, then supplier plus amount, then a
// forced pairing restricted to the unambiguous one-note one-slip case. Any
// record still unconsumed becomes its own single-sided pair so it stays
// visible for manual review. A record is consumed by at most one pair.
func PairDocuments(docs []*domain.Document) []domain.DocumentPair {
	var notes, slips []*domain.Document
	for _, d := range docs {
		switch {
		case d.IsNote():
			notes = append(notes, d)
		case d.Kind == domain.KindOther && d.TotalAmount > 0:
			notes = append(notes, d)
		case d.Kind == domain.KindPaymentSlip:
			slips = append(slips, d)
		}
	}

	consumedNote := make(map[*domain.Document]bool)
	consumedSlip := make(map[*domain.Document]bool)
	var pairs []domain.DocumentPair

	for _, note := range notes {
		slip, method := matchSlip(note, slips, consumedSlip)
		if slip == nil {
			continue
		}
		consumedNote[note] = true
		consumedSlip[slip] = true
		pairs = append(pairs, domain.DocumentPair{
			Notes:  []*domain.Document{note},
			Slips:  []*domain.Document{slip},
			Method: method,
		})
	}

	// Forced pairing only applies when exactly one fiscal note and one slip
	// remain; OTHER records neither enable nor block it.
	if note, slip := soleSurvivors(notes, slips, consumedNote, consumedSlip); note != nil {
		consumedNote[note] = true
		consumedSlip[slip] = true
		pairs = append(pairs, domain.DocumentPair{
			Notes:  []*domain.Document{note},
			Slips:  []*domain.Document{slip},
			Method: domain.MatchForced,
			Forced: true,
		})
	}

	for _, note := range notes {
		if !consumedNote[note] {
			pairs = append(pairs, domain.DocumentPair{
				Notes:  []*domain.Document{note},
				Method: domain.MatchNone,
			})
		}
	}
	for _, slip := range slips {
		if !consumedSlip[slip] {
			pairs = append(pairs, domain.DocumentPair{
				Slips:  []*domain.Document{slip},
				Method: domain.MatchNone,
			})
		}
	}
	return pairs
}

// matchSlip runs the per-note cascade against the unconsumed slips.
func matchSlip(note *domain.Document, slips []*domain.Document, consumed map[*domain.Document]bool) (*domain.Document, domain.MatchMethod) {
	if num := strings.TrimSpace(note.PairNumber()); num != "" {
		for _, slip := range slips {
			if consumed[slip] {
				continue
			}
			if slipCarriesNumber(slip, num) {
				return slip, domain.MatchNumber
			}
		}
	}

	supplier := NormalizeSupplier(note.SupplierName)
	if supplier == "" {
		return nil, domain.MatchNone
	}
	for _, slip := range slips {
		if consumed[slip] {
			continue
		}
		if NormalizeSupplier(slip.SupplierName) == supplier && amountsMatch(note.TotalAmount, slip.TotalAmount) {
			return slip, domain.MatchSupplierValue
		}
	}
	return nil, domain.MatchNone
}

func slipCarriesNumber(slip *domain.Document, num string) bool {
	if slip.Slip == nil {
		return false
	}
	if strings.EqualFold(strings.TrimSpace(slip.Slip.LinkedNoteRef), num) {
		return true
	}
	return strings.EqualFold(strings.TrimSpace(slip.Slip.DocumentNumber), num)
}

// soleSurvivors returns the remaining note and slip when each side has
// exactly one unconsumed fiscal record, or nils otherwise.
func soleSurvivors(notes, slips []*domain.Document, consumedNote, consumedSlip map[*domain.Document]bool) (*domain.Document, *domain.Document) {
	var note, slip *domain.Document
	for _, n := range notes {
		if consumedNote[n] || !n.IsNote() {
			continue
		}
		if note != nil {
			return nil, nil
		}
		note = n
	}
	for _, s := range slips {
		if consumedSlip[s] {
			continue
		}
		if slip != nil {
			return nil, nil
		}
		slip = s
	}
	if note == nil || slip == nil {
		return nil, nil
	}
	return note, slip
}
