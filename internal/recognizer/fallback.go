package recognizer

import (
	"regexp"

	"concil/internal/domain"
	"concil/internal/emailtext"
)

var otherDocNumberRe = regexp.MustCompile(`(?i)documento\s*(?:n[º°o])?\.?\s*[:\-]?\s*([A-Za-z0-9./-]{2,20})`)

// FallbackRecognizer accepts any text and produces an OTHER record, so that
// an unrecognized attachment stays visible in the batch instead of vanishing.
type FallbackRecognizer struct{}

func (r *FallbackRecognizer) CanHandle(string) bool { return true }

func (r *FallbackRecognizer) Extract(filename, text string) *domain.Document {
	doc := &domain.Document{
		SourceFile: filename,
		RawSnippet: snippet(text),
		Kind:       domain.KindOther,
		Source:     domain.SourceRendered,
		Other:      &domain.OtherFields{},
	}
	doc.Other.DocumentNumber = matchGroup(text, otherDocNumberRe)
	doc.SupplierTaxID = emailtext.TaxID(text)
	doc.TotalAmount = firstAmount(text, noteAmountRes)
	doc.IssueDate = firstIssueDate(text)
	return doc
}
