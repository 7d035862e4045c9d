package engine

import (
	"fmt"
	"strings"

	"concil/internal/domain"
)

// NoSlipExplanation is the fixed explanation attached when a note has no slip
// to compare against.
const NoSlipExplanation = "no slip available for comparison"

// statusSeverity orders statuses from best to worst; the batch takes the
// worst status among its pairs.
var statusSeverity = map[domain.SettlementStatus]int{
	domain.SettlementConciliado:  0,
	domain.SettlementForcedMatch: 1,
	domain.SettlementDivergente:  2,
	domain.SettlementConferir:    3,
}

// Classify produces the batch-level settlement judgement from the resolved
// pairs, stamps status and comparison amount onto every record, and fills the
// correlation result. An empty batch conservatively classifies CONFERIR.
func Classify(batch *domain.Batch, pairs []domain.DocumentPair, result *domain.CorrelationResult) {
	if len(batch.Documents) == 0 {
		result.Status = domain.SettlementConferir
		result.Explanation = "no documents in batch"
		return
	}

	var explanations []string
	batchStatus := domain.SettlementUnset
	compared := false

	for i := range pairs {
		pair := &pairs[i]
		classifyPair(pair)

		if len(pair.Notes) > 0 && len(pair.Slips) > 0 {
			compared = true
			result.NoteAmount += sumAmounts(pair.Notes)
			result.SlipAmount += sumAmounts(pair.Slips)
		}

		if exp := pairExplanation(pair); exp != "" {
			explanations = append(explanations, exp)
		}
		if batchStatus == domain.SettlementUnset || statusSeverity[pair.Status] > statusSeverity[batchStatus] {
			batchStatus = pair.Status
		}
	}

	if batchStatus == domain.SettlementUnset {
		// Only EMAIL_NOTICE or amount-less OTHER records: nothing to pair.
		batchStatus = domain.SettlementConferir
	}
	result.Status = batchStatus
	if compared {
		result.Discrepancy = round2(result.NoteAmount - result.SlipAmount)
	}
	result.Explanation = strings.Join(explanations, "; ")
	result.Pairs = pairs

	stampRecords(batch, pairs, batchStatus)
}

// classifyPair applies the tolerance rule to one pair.
func classifyPair(pair *domain.DocumentPair) {
	switch {
	case len(pair.Notes) > 0 && len(pair.Slips) > 0:
		noteAmount := sumAmounts(pair.Notes)
		slipAmount := sumAmounts(pair.Slips)
		pair.Discrepancy = round2(noteAmount - slipAmount)
		switch {
		case !amountsEqual(noteAmount, slipAmount):
			pair.Status = domain.SettlementDivergente
		case pair.Forced:
			pair.Status = domain.SettlementForcedMatch
		default:
			pair.Status = domain.SettlementConciliado
		}
	default:
		pair.Status = domain.SettlementConferir
	}
}

func pairExplanation(pair *domain.DocumentPair) string {
	switch pair.Status {
	case domain.SettlementConferir:
		if len(pair.Notes) > 0 {
			return NoSlipExplanation
		}
		return "no note available for comparison"
	case domain.SettlementDivergente:
		exp := fmt.Sprintf("amounts differ by %.2f", pair.Discrepancy)
		if pair.Forced {
			exp += " (forced pairing)"
		}
		return exp
	case domain.SettlementForcedMatch:
		return "paired without a matching signal (forced pairing)"
	}
	return ""
}

// stampRecords writes the batch status onto every record and the counterpart
// amount onto every paired record, so any exported row shows a consistent
// judgement.
func stampRecords(batch *domain.Batch, pairs []domain.DocumentPair, status domain.SettlementStatus) {
	for _, d := range batch.Documents {
		d.Settlement = status
	}
	for i := range pairs {
		pair := &pairs[i]
		if len(pair.Notes) == 0 || len(pair.Slips) == 0 {
			continue
		}
		noteAmount := sumAmounts(pair.Notes)
		slipAmount := sumAmounts(pair.Slips)
		for _, n := range pair.Notes {
			n.SettledAmount = slipAmount
		}
		for _, s := range pair.Slips {
			s.SettledAmount = noteAmount
		}
	}
}

func sumAmounts(docs []*domain.Document) float64 {
	var total float64
	for _, d := range docs {
		total += d.TotalAmount
	}
	return total
}

func round2(v float64) float64 {
	if v >= 0 {
		return float64(int64(v*100+0.5)) / 100
	}
	return -float64(int64(-v*100+0.5)) / 100
}
