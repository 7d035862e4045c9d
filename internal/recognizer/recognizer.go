// Package recognizer turns extracted document text into structured records.
// Recognizers form an explicit ordered list; the first one that can handle a
// text wins. New document-source recognizers are added by extending the list
// a caller builds, never by registration side effects. The per-vendor layout
// recognizers live upstream; this package ships only the generic ones.
package recognizer

import "concil/internal/domain"

// Recognizer identifies and extracts one family of document layouts.
type Recognizer interface {
	// CanHandle reports whether this recognizer understands the text.
	CanHandle(text string) bool
	// Extract builds a structured record from the text. Missing fields stay
	// at their zero values; Extract never fails.
	Extract(filename, text string) *domain.Document
}

// DefaultSet returns the standard recognizer cascade: payment slips first,
// goods notes next, the generic service-note recognizer as the safety net,
// and a catch-all for everything else.
func DefaultSet() []Recognizer {
	return []Recognizer{
		&SlipRecognizer{},
		&GoodsNoteRecognizer{},
		&ServiceNoteRecognizer{},
		&FallbackRecognizer{},
	}
}

// Recognize runs the cascade and returns the first recognizer's extraction.
// With the fallback in the set a record is always produced.
func Recognize(set []Recognizer, filename, text string) *domain.Document {
	for _, r := range set {
		if r.CanHandle(text) {
			return r.Extract(filename, text)
		}
	}
	return (&FallbackRecognizer{}).Extract(filename, text)
}
