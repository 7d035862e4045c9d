package recognizer

import (
	"regexp"
	"strings"
	"time"

	"concil/internal/domain"
	"concil/internal/emailtext"
)

var (
	digitLineRe     = regexp.MustCompile(`\d{5}[.\s]\d{5}\s+\d{5}[.\s]\d{6}\s+\d{5}[.\s]\d{6}`)
	digitLineFlatRe = regexp.MustCompile(`\d{47,48}`)

	slipAmountRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)valor\s+do\s+documento[\s:]*(?:R\$\s*)?(\d{1,3}(?:\.\d{3})*,\d{2})`),
		regexp.MustCompile(`(?i)valor\s+cobrado[\s:]*(?:R\$\s*)?(\d{1,3}(?:\.\d{3})*,\d{2})`),
		regexp.MustCompile(`(?i)valor\s+a\s+pagar[\s:]*(?:R\$\s*)?(\d{1,3}(?:\.\d{3})*,\d{2})`),
		regexp.MustCompile(`R\$\s*(\d{1,3}(?:\.\d{3})*,\d{2})`),
	}

	slipDueDateRe    = regexp.MustCompile(`(?i)vencimento[\s:]*(\d{1,2}/\d{1,2}/\d{2,4})`)
	beneficiaryRe    = regexp.MustCompile(`(?i)(?:benefici[áa]rio|cedente)[\s:]+([A-ZÀÁÂÃÇÉÊÍÓÔÕÚ][A-Za-zÀ-ÿ0-9 &.\-]{4,80})`)
	ourNumberRe      = regexp.MustCompile(`(?i)nosso\s+n[úu]mero[\s:]*([0-9./-]{3,25})`)
	slipDocNumberRe  = regexp.MustCompile(`(?i)n[úu]mero\s+do\s+documento[\s:]*([A-Za-z0-9./-]{2,25})`)
	agencyAccountRe  = regexp.MustCompile(`(?i)ag[êe]ncia\s*/?\s*c[óo]digo[\s\w]*?[\s:]+(\d{3,5}(?:-\d)?)\s*/\s*([0-9.-]{3,15})`)
	slipBoletoWords  = []string{"LINHA DIGITÁVEL", "LINHA DIGITAVEL", "BENEFICIÁRIO", "BENEFICIARIO", "CÓDIGO DE BARRAS", "CODIGO DE BARRAS", "CEDENTE", "SACADO", "PAGADOR"}
)

// SlipRecognizer identifies bank payment slips by their digit line or by the
// vocabulary every slip layout carries.
type SlipRecognizer struct{}

func (r *SlipRecognizer) CanHandle(text string) bool {
	if digitLineRe.MatchString(text) || digitLineFlatRe.MatchString(text) {
		return true
	}
	upper := strings.ToUpper(text)
	score := 0
	for _, w := range slipBoletoWords {
		if strings.Contains(upper, w) {
			score++
		}
	}
	return score >= 2
}

func (r *SlipRecognizer) Extract(filename, text string) *domain.Document {
	doc := &domain.Document{
		SourceFile: filename,
		RawSnippet: snippet(text),
		Kind:       domain.KindPaymentSlip,
		Source:     domain.SourceRendered,
		Slip:       &domain.SlipFields{},
	}

	doc.Slip.DigitLine = digitLine(text)
	if len(doc.Slip.DigitLine) >= 3 {
		doc.Slip.BankName = BankNames[doc.Slip.DigitLine[:3]]
	}

	doc.TotalAmount = firstAmount(text, slipAmountRes)
	if raw := matchGroup(text, slipDueDateRe); raw != "" {
		doc.DueDate = emailtext.NormalizeDate(raw, time.Now())
	}
	doc.SupplierName = cleanName(matchGroup(text, beneficiaryRe))
	doc.SupplierTaxID = emailtext.TaxID(text)
	doc.Slip.OurNumber = matchGroup(text, ourNumberRe)
	doc.Slip.DocumentNumber = matchGroup(text, slipDocNumberRe)
	if m := agencyAccountRe.FindStringSubmatch(text); m != nil {
		doc.Slip.BankAgency = m[1]
		doc.Slip.BankAccount = m[2]
	}
	doc.Slip.LinkedNoteRef = emailtext.NoteNumber(text)
	doc.IssueDate = firstIssueDate(text)

	return doc
}

// digitLine returns the slip's digit line with formatting stripped.
func digitLine(text string) string {
	raw := digitLineRe.FindString(text)
	if raw == "" {
		raw = digitLineFlatRe.FindString(text)
	}
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

var trailingDigitsRe = regexp.MustCompile(`[\d/.,-]+$`)

// cleanName trims registry numbers and dates that bleed into a captured name.
func cleanName(name string) string {
	name = trailingDigitsRe.ReplaceAllString(name, "")
	return strings.TrimSpace(name)
}
