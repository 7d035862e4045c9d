// Package emailtext extracts reconciliation-relevant fields from the subject
// and body text of a fiscal email: monetary amounts in Brazilian formats,
// due-date phrasings, note numbers, supplier tax ids, and NF-e portal links.
// It operates on plain text only; HTML stripping happens upstream.
package emailtext

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Extraction holds everything found in one email's text.
type Extraction struct {
	TotalAmount      float64
	Amounts          []float64
	DueDate          string
	NoteNumber       string
	Link             string
	VerificationCode string
	SupplierName     string
	TaxID            string
}

var amountRes = []*regexp.Regexp{
	regexp.MustCompile(`R\$\s*(\d{1,3}(?:\.\d{3})*,\d{2})`),
	regexp.MustCompile(`(?i)valor[:\s]+(?:R\$\s*)?(\d{1,3}(?:\.\d{3})*,\d{2})`),
	regexp.MustCompile(`(?i)total[:\s]+(?:R\$\s*)?(\d{1,3}(?:\.\d{3})*,\d{2})`),
	regexp.MustCompile(`(?i)valor\s+(?:da\s+)?(?:NF|NFe|NFS-?e|Nota)[:\s]+(?:R\$\s*)?(\d{1,3}(?:\.\d{3})*,\d{2})`),
	regexp.MustCompile(`(?i)valor\s+(?:do\s+)?boleto[:\s]+(?:R\$\s*)?(\d{1,3}(?:\.\d{3})*,\d{2})`),
	regexp.MustCompile(`(?i)total\s+a\s+pagar[:\s]+(?:R\$\s*)?(\d{1,3}(?:\.\d{3})*,\d{2})`),
	regexp.MustCompile(`(?i)valor\s+l[íi]quido[:\s]+(?:R\$\s*)?(\d{1,3}(?:\.\d{3})*,\d{2})`),
}

var dueDateRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)venc(?:imento)?\.?[:\s]+(\d{1,2}[/\-.]\d{1,2}(?:[/\-.]\d{2,4})?)`),
	regexp.MustCompile(`(?i)data\s+(?:de\s+)?vencimento[:\s]+(\d{1,2}[/\-.]\d{1,2}[/\-.]\d{2,4})`),
	regexp.MustCompile(`(?i)vence\s+(?:em)?[:\s]+(\d{1,2}[/\-.]\d{1,2}[/\-.]\d{2,4})`),
	regexp.MustCompile(`(?i)pagar\s+at[ée]\s+(\d{1,2}[/\-.]\d{1,2}[/\-.]\d{2,4})`),
	regexp.MustCompile(`(?i)at[ée]\s+(\d{1,2}[/\-.]\d{1,2}[/\-.]\d{2,4})`),
	// Billing reminders abbreviate the due date as "- 29/12 Seg".
	regexp.MustCompile(`(?i)[-–]\s*(\d{1,2}[/\-.]\d{1,2})\s*(?:Seg|Ter|Qua|Qui|Sex|Sáb|Sab|Dom)`),
}

var noteNumberRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)NFS-?e\s*(?:n[ºo°]\.?\s*)?(\d{4}\.\d{1,6})`),
	regexp.MustCompile(`(?i)NFS-?e\s*(?:n[ºo°]\.?\s*)?(\d{3,15})`),
	regexp.MustCompile(`(?i)NF-?e?\s*(?:n[ºo°]\.?\s*)?(\d{3,15})`),
	regexp.MustCompile(`(?i)nota\s+fiscal\s*(?:n[ºo°]\.?\s*)?(\d{3,15})`),
	regexp.MustCompile(`(?i)fatura\s*(?:n[ºo°]\.?\s*)?(\d{4}\.\d{1,6})`),
	regexp.MustCompile(`(?i)fatura\s*(?:n[ºo°]\.?\s*)?(\d{3,15})`),
	regexp.MustCompile(`(?i)(?:NF|Nota|Fatura)[^\d]{0,20}n[ºo°]\.?\s*(\d{3,15})`),
}

var taxIDRe = regexp.MustCompile(`\d{2}\.\d{3}\.\d{3}/\d{4}-\d{2}`)

var nfeDomains = []string{
	"nfe.prefeitura.sp.gov.br",
	"nfse.goiania.go.gov.br",
	"iss.campinas.sp.gov.br",
	"nfe.salvador.ba.gov.br",
	"notacarioca.rio.gov.br",
	"nfse.curitiba.pr.gov.br",
	"click.omie.com.br",
	"omie.com.br",
	"proscore.com.br",
}

var linkRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(https?://[^\s<>"]*(?:nf[es]|nota|verificacao|autenticidade)[^\s<>"]*)`),
	regexp.MustCompile(`(?i)(https?://[^\s<>"]*(?:/nf/|/nota/|/verificar/)[^\s<>"]*)`),
}

var linkCodeRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)[?&](?:verificacao|cod|codigo|auth|token)=([A-Za-z0-9]+)`),
	regexp.MustCompile(`(?i)/verificar/([A-Za-z0-9]+)`),
	regexp.MustCompile(`(?i)/v/([A-Za-z0-9]+)`),
}

var textCodeRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)c[óo]digo\s+(?:de\s+)?verifica[çc][ãa]o[:\s]+([A-Za-z0-9]{4,12})`),
	regexp.MustCompile(`(?i)c[óo]digo\s+(?:de\s+)?autenticidade[:\s]+([A-Za-z0-9]{4,12})`),
	regexp.MustCompile(`(?i)verifica[çc][ãa]o[:\s]+([A-Za-z0-9]{4,12})`),
	regexp.MustCompile(`(?i)autenticar[:\s]+([A-Za-z0-9]{4,12})`),
}

var supplierSubjectRes = []*regexp.Regexp{
	regexp.MustCompile(`^([A-Z][A-Za-z0-9\s&.]+?)\s*[-–]\s*(?:BPO|Fatura|Boleto|NF|Nota|Cobrança|Lembrete)`),
	regexp.MustCompile(`^([A-Z][A-Za-z0-9\s&.]+?)\s*::\s*`),
	regexp.MustCompile(`^([A-Z][A-Za-z0-9\s&.]+?)\s*[-–:]\s*(?:Fatura|Boleto|NF|Nota|Cobrança)`),
	regexp.MustCompile(`^\[([A-Za-z0-9\s&.]+)\]\s*`),
}

var genericSubjectWords = map[string]bool{
	"sua": true, "seu": true, "a": true, "o": true, "de": true, "da": true,
	"do": true, "res": true, "re": true, "fw": true, "fwd": true, "enc": true,
	"lembrete": true, "aviso": true, "urgente": true, "importante": true,
}

// Extract runs every extractor over the subject and body. The subject takes
// priority for due dates and note numbers; the largest amount found is
// reported as the total, since the total usually dominates partial values.
func Extract(subject, body string, now time.Time) Extraction {
	all := subject + " " + body
	out := Extraction{
		Amounts:      Amounts(all),
		DueDate:      firstNonEmpty(DueDate(subject, now), DueDate(all, now)),
		NoteNumber:   firstNonEmpty(NoteNumber(subject), NoteNumber(all)),
		Link:         Link(all),
		SupplierName: SupplierFromSubject(subject),
		TaxID:        TaxID(all),
	}
	if len(out.Amounts) > 0 {
		out.TotalAmount = out.Amounts[0]
	}
	if out.Link != "" {
		out.VerificationCode = codeFromLink(out.Link)
	}
	if out.VerificationCode == "" {
		out.VerificationCode = codeFromText(all)
	}
	return out
}

// Amounts returns every plausible monetary amount in the text, deduplicated
// and sorted descending.
func Amounts(text string) []float64 {
	seen := make(map[float64]bool)
	var amounts []float64
	for _, re := range amountRes {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			v, err := ParseAmount(m[1])
			if err != nil || v < 0.01 || v > 10_000_000 {
				continue
			}
			if !seen[v] {
				seen[v] = true
				amounts = append(amounts, v)
			}
		}
	}
	for i := 0; i < len(amounts); i++ {
		for j := i + 1; j < len(amounts); j++ {
			if amounts[j] > amounts[i] {
				amounts[i], amounts[j] = amounts[j], amounts[i]
			}
		}
	}
	return amounts
}

// ParseAmount converts a Brazilian-format amount string ("1.234,56") to a float.
func ParseAmount(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	return strconv.ParseFloat(s, 64)
}

// DueDate returns the first due date recognized in the text, normalized to
// ISO format, or "".
func DueDate(text string, now time.Time) string {
	for _, re := range dueDateRes {
		if m := re.FindStringSubmatch(text); m != nil {
			if normalized := NormalizeDate(m[1], now); normalized != "" {
				return normalized
			}
		}
	}
	return ""
}

var fullDateRe = regexp.MustCompile(`^(\d{1,2})[/\-.](\d{1,2})[/\-.](\d{2,4})$`)
var partialDateRe = regexp.MustCompile(`^(\d{1,2})[/\-.](\d{1,2})$`)

// NormalizeDate converts a Brazilian day-first date string to ISO YYYY-MM-DD.
// Two-digit years up to 50 map to 20xx, the rest to 19xx. A day/month pair
// with no year assumes the current year, rolling to the next year when the
// month has already passed. Returns "" for anything unparseable.
func NormalizeDate(raw string, now time.Time) string {
	raw = strings.TrimSpace(raw)

	if m := fullDateRe.FindStringSubmatch(raw); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if len(m[3]) == 2 {
			if year <= 50 {
				year += 2000
			} else {
				year += 1900
			}
		}
		if day >= 1 && day <= 31 && month >= 1 && month <= 12 {
			return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
		}
		return ""
	}

	if m := partialDateRe.FindStringSubmatch(raw); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		if day < 1 || day > 31 || month < 1 || month > 12 {
			return ""
		}
		year := now.Year()
		if month < int(now.Month()) {
			year++
		}
		return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
	}

	return ""
}

// NoteNumber returns the first note number recognized in the text, or "".
// Four-digit candidates starting with "20" are skipped: they are almost
// always years, not note numbers.
func NoteNumber(text string) string {
	if text == "" {
		return ""
	}
	for _, re := range noteNumberRes {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			num := m[1]
			if len(num) == 4 && strings.HasPrefix(num, "20") && !strings.Contains(num, ".") {
				continue
			}
			return num
		}
	}
	return ""
}

// TaxID returns the first formatted CNPJ found in the text, or "".
func TaxID(text string) string {
	return taxIDRe.FindString(text)
}

// Link returns the first NF-e portal link in the text, preferring known
// municipal and billing domains over generic URL shapes.
func Link(text string) string {
	for _, domainName := range nfeDomains {
		re := regexp.MustCompile(`(?i)(https?://[^\s<>"]*` + regexp.QuoteMeta(domainName) + `[^\s<>"]*)`)
		if m := re.FindStringSubmatch(text); m != nil {
			return m[1]
		}
	}
	for _, re := range linkRes {
		if m := re.FindStringSubmatch(text); m != nil {
			return m[1]
		}
	}
	return ""
}

// SupplierFromSubject guesses the supplier name from common subject shapes
// like "EMPRESA - Fatura ..." or "[EMPRESA] ...", or returns "".
func SupplierFromSubject(subject string) string {
	if subject == "" {
		return ""
	}
	for _, re := range supplierSubjectRes {
		if m := re.FindStringSubmatch(subject); m != nil {
			name := strings.TrimSpace(m[1])
			if len(name) > 3 && !genericSubjectWords[strings.ToLower(name)] {
				return name
			}
		}
	}
	return ""
}

func codeFromLink(link string) string {
	for _, re := range linkCodeRes {
		if m := re.FindStringSubmatch(link); m != nil && len(m[1]) >= 4 {
			return m[1]
		}
	}
	return ""
}

func codeFromText(text string) string {
	for _, re := range textCodeRes {
		if m := re.FindStringSubmatch(text); m != nil {
			return m[1]
		}
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
