package recognizer

import (
	"regexp"
	"strings"
	"time"

	"concil/internal/emailtext"
)

const snippetLimit = 300

var issueDateRe = regexp.MustCompile(`\d{2}/\d{2}/\d{4}`)

// firstAmount returns the first plausible amount matched by the patterns, in
// pattern order, or 0 when nothing matched.
func firstAmount(text string, patterns []*regexp.Regexp) float64 {
	for _, re := range patterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			v, err := emailtext.ParseAmount(m[1])
			if err != nil || v <= 0 {
				continue
			}
			return v
		}
	}
	return 0
}

// anyAmount is like firstAmount but accepts zero, for withheld-tax fields
// that legitimately print as 0,00.
func anyAmount(text string, patterns []*regexp.Regexp) float64 {
	for _, re := range patterns {
		if m := re.FindStringSubmatch(text); m != nil {
			if v, err := emailtext.ParseAmount(m[1]); err == nil && v >= 0 {
				return v
			}
		}
	}
	return 0
}

// firstIssueDate returns the first dd/mm/yyyy date in the text as ISO, or "".
func firstIssueDate(text string) string {
	if raw := issueDateRe.FindString(text); raw != "" {
		return emailtext.NormalizeDate(raw, time.Now())
	}
	return ""
}

func snippet(text string) string {
	text = strings.TrimSpace(text)
	if len(text) > snippetLimit {
		return text[:snippetLimit]
	}
	return text
}

func matchGroup(text string, re *regexp.Regexp) string {
	if m := re.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}
