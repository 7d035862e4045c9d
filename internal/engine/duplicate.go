package engine

import (
	"fmt"
	"sort"
	"strings"

	"concil/internal/domain"
)

// DetectDuplicates scans the merged batch's note records for signs that the
// same document was submitted more than once: a repeated note number, or a
// repeated normalized supplier with matching amounts. The returned warning is
// advisory only and never alters records or settlement status; it is empty
// when nothing was flagged.
func DetectDuplicates(docs []*domain.Document) string {
	var notes []*domain.Document
	for _, d := range docs {
		if d.IsNote() {
			notes = append(notes, d)
		}
	}
	if len(notes) < 2 {
		return ""
	}

	byNumber := make(map[string]int)
	for _, n := range notes {
		if num := strings.TrimSpace(n.NoteNumber()); num != "" {
			byNumber[num]++
		}
	}
	var repeatedNumbers []string
	for num, count := range byNumber {
		if count > 1 {
			repeatedNumbers = append(repeatedNumbers, num)
		}
	}
	sort.Strings(repeatedNumbers)

	type supplierAmount struct {
		supplier string
		amount   float64
	}
	var repeatedSuppliers []supplierAmount
	seen := make(map[string]bool)
	for i := 0; i < len(notes); i++ {
		si := NormalizeSupplier(notes[i].SupplierName)
		if si == "" {
			continue
		}
		for j := i + 1; j < len(notes); j++ {
			if NormalizeSupplier(notes[j].SupplierName) != si {
				continue
			}
			if !amountsMatch(notes[i].TotalAmount, notes[j].TotalAmount) {
				continue
			}
			key := fmt.Sprintf("%s|%.2f", si, notes[i].TotalAmount)
			if !seen[key] {
				seen[key] = true
				repeatedSuppliers = append(repeatedSuppliers, supplierAmount{si, notes[i].TotalAmount})
			}
		}
	}
	sort.Slice(repeatedSuppliers, func(i, j int) bool {
		if repeatedSuppliers[i].supplier != repeatedSuppliers[j].supplier {
			return repeatedSuppliers[i].supplier < repeatedSuppliers[j].supplier
		}
		return repeatedSuppliers[i].amount < repeatedSuppliers[j].amount
	})

	if len(repeatedNumbers) == 0 && len(repeatedSuppliers) == 0 {
		return ""
	}

	var parts []string
	if len(repeatedNumbers) > 0 {
		parts = append(parts, fmt.Sprintf("note number(s) repeated: %s", strings.Join(repeatedNumbers, ", ")))
	}
	for _, sa := range repeatedSuppliers {
		parts = append(parts, fmt.Sprintf("supplier %s repeated with amount %.2f", sa.supplier, sa.amount))
	}
	return domain.DuplicateMarker + ": " + strings.Join(parts, "; ")
}
