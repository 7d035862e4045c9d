package emailtext

import (
	"regexp"
	"strings"
)

var (
	scriptStyleRe = regexp.MustCompile(`(?is)<(script|style|head)[^>]*>.*?</(script|style|head)>`)
	tagRe         = regexp.MustCompile(`<[^>]+>`)
	spacesRe      = regexp.MustCompile(`\s+`)
)

// StripHTML reduces an HTML email body to plain text so the extractors can
// run over it. It is deliberately crude; email HTML is rarely well formed
// enough to deserve a real parser.
func StripHTML(html string) string {
	text := scriptStyleRe.ReplaceAllString(html, " ")
	text = tagRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(spacesRe.ReplaceAllString(text, " "))
}
