package engine

import (
	"math"
	"regexp"
	"strings"
)

// AmountTolerance is the maximum difference at which two monetary amounts are
// considered equal. Extracted amounts come from independent sources, so exact
// float equality is never required.
const AmountTolerance = 0.01

var (
	whitespaceRe    = regexp.MustCompile(`\s+`)
	supplierLabelRe = regexp.MustCompile(`(?i)^(CNPJ|CPF|RAZÃO SOCIAL|RAZAO SOCIAL)\s*[:\-]?\s*`)
)

// NormalizeSupplier canonicalizes a supplier name for matching: collapses
// internal whitespace, strips a leading registry label and its separator, and
// uppercases the result.
func NormalizeSupplier(name string) string {
	s := whitespaceRe.ReplaceAllString(strings.TrimSpace(name), " ")
	s = supplierLabelRe.ReplaceAllString(s, "")
	return strings.ToUpper(strings.TrimSpace(s))
}

func amountsEqual(a, b float64) bool {
	return math.Abs(a-b) <= AmountTolerance
}

// amountsMatch reports whether both amounts were actually extracted and agree
// within AmountTolerance. A zero amount is the not-extracted sentinel, so it
// never matches anything, not even another zero.
func amountsMatch(a, b float64) bool {
	return a > 0 && b > 0 && amountsEqual(a, b)
}
