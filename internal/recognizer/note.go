package recognizer

import (
	"regexp"
	"strings"

	"concil/internal/domain"
	"concil/internal/emailtext"
)

var (
	accessKeyRe       = regexp.MustCompile(`\b\d{44}\b`)
	accessKeySpacedRe = regexp.MustCompile(`\b\d{4}(?:[ .]\d{4}){10}\b`)
	seriesRe          = regexp.MustCompile(`(?i)s[ée]rie[\s:]*(\d{1,3})\b`)
	goodsNumberRe     = regexp.MustCompile(`(?i)(?:n[ºo°]\.?|n[úu]mero)[\s:]*(\d{3,15})\b`)

	noteAmountRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)valor\s+total\s*[:\s]*R\$\s*(\d{1,3}(?:\.\d{3})*,\d{2})`),
		regexp.MustCompile(`(?i)valor\s+da\s+nota\s*[:\s]*R\$\s*(\d{1,3}(?:\.\d{3})*,\d{2})`),
		regexp.MustCompile(`(?i)valor\s*[:\s]*R\$\s*(\d{1,3}(?:\.\d{3})*,\d{2})`),
		regexp.MustCompile(`(?i)valor\s+total\s*[:\s]+(\d{1,3}(?:\.\d{3})*,\d{2})\b`),
		regexp.MustCompile(`(?i)valor\s+da\s+nota\s*[:\s]+(\d{1,3}(?:\.\d{3})*,\d{2})\b`),
		regexp.MustCompile(`(?i)total\s+nota\s*[:\s]+(\d{1,3}(?:\.\d{3})*,\d{2})\b`),
		regexp.MustCompile(`(?i)valor\s+l[ií]quido\s*[:\s]+(\d{1,3}(?:\.\d{3})*,\d{2})\b`),
		regexp.MustCompile(`\bR\$\s*(\d{1,3}(?:\.\d{3})*,\d{2})\b`),
	}

	supplierRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)prestador[^\n]*?[:\s]+([A-ZÀÁÂÃÇÉÊÍÓÔÕÚ][A-Za-zÀ-ÿ &.\-]{5,100})`),
		regexp.MustCompile(`(?i)raz[ãa]o\s+social[^\n]*?[:\s]+([A-ZÀÁÂÃÇÉÊÍÓÔÕÚ][A-Za-zÀ-ÿ &.\-]{5,100})`),
		regexp.MustCompile(`(?i)tomador[^\n]*?[:\s]+([A-ZÀÁÂÃÇÉÊÍÓÔÕÚ][A-Za-zÀ-ÿ &.\-]{5,100})`),
		regexp.MustCompile(`(?i)nome[^\n]*?[:\s]+([A-ZÀÁÂÃÇÉÊÍÓÔÕÚ][A-Za-zÀ-ÿ &.\-]{5,100})`),
	}

	noteDueDateRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)data\s+de\s+vencimento[:\s]+(\d{2}/\d{2}/\d{4})`),
		regexp.MustCompile(`(?i)vencimento[:\s]+(\d{2}/\d{2}/\d{4})`),
		regexp.MustCompile(`(?i)venc[:.\s]+(\d{2}/\d{2}/\d{4})`),
	}

	withheldIRRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:valor\s+)?(?:do\s+)?IR\s*(?:retido)?[:\s]*R?\$?\s*(\d{1,3}(?:\.\d{3})*,\d{2})`),
		regexp.MustCompile(`(?i)imposto\s+de\s+renda[:\s]*R?\$?\s*(\d{1,3}(?:\.\d{3})*,\d{2})`),
	}
	withheldINSSRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:valor\s+)?(?:do\s+)?INSS\s*(?:retido)?[:\s]*R?\$?\s*(\d{1,3}(?:\.\d{3})*,\d{2})`),
	}
	withheldCSLLRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:valor\s+)?(?:da\s+)?CSLL\s*(?:retida)?[:\s]*R?\$?\s*(\d{1,3}(?:\.\d{3})*,\d{2})`),
	}
	withheldISSRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:valor\s+)?(?:do\s+)?ISS\s*(?:retido)?[:\s]*R?\$?\s*(\d{1,3}(?:\.\d{3})*,\d{2})`),
	}
	withheldICMSRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:valor\s+)?(?:do\s+)?ICMS[:\s]*R?\$?\s*(\d{1,3}(?:\.\d{3})*,\d{2})`),
	}

	serviceJunkRe   = regexp.MustCompile(`(?i)\b(RPS|Lote|Protocolo|Recibo|S[eé]rie)\b\D{0,10}?\d+`)
	serviceDatesRe  = regexp.MustCompile(`\d{2}/\d{2}/\d{4}`)
	serviceNumberRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)n[úu]mero\s+da\s+nota\D{0,40}?(\d{1,15})\b`),
		regexp.MustCompile(`(?i)NFS-?e\s*(?:n[º°o]|num)?\.?\s*[:.\-]?\s*(\d{1,15})\b`),
		regexp.MustCompile(`(?i)nota\s*fiscal\s*(?:n[º°o]|num)?\.?\s*[:.\-]?\s*(\d{1,15})\b`),
		regexp.MustCompile(`(?i)(?:n[úu]mero|n[º°o])\s*[:.\-]?\s*(\d{1,15})\b`),
	}
)

// GoodsNoteRecognizer identifies DANFE-style goods notes by the electronic
// note vocabulary and the 44-digit access key.
type GoodsNoteRecognizer struct{}

func (r *GoodsNoteRecognizer) CanHandle(text string) bool {
	upper := strings.ToUpper(text)
	if strings.Contains(upper, "DANFE") {
		return true
	}
	if strings.Contains(upper, "CHAVE DE ACESSO") && (accessKeyRe.MatchString(text) || accessKeySpacedRe.MatchString(text)) {
		return true
	}
	return false
}

func (r *GoodsNoteRecognizer) Extract(filename, text string) *domain.Document {
	doc := &domain.Document{
		SourceFile: filename,
		RawSnippet: snippet(text),
		Kind:       domain.KindNoteGoods,
		Source:     domain.SourceRendered,
		Goods:      &domain.GoodsNoteFields{},
	}

	doc.Goods.AccessKey = accessKey(text)
	doc.Goods.NoteNumber = matchGroup(text, goodsNumberRe)
	doc.Goods.Series = matchGroup(text, seriesRe)
	doc.Goods.EmitterTaxID = emailtext.TaxID(text)
	doc.SupplierTaxID = doc.Goods.EmitterTaxID
	doc.SupplierName = extractSupplier(text)
	doc.TotalAmount = firstAmount(text, noteAmountRes)
	doc.IssueDate = firstIssueDate(text)
	doc.DueDate = extractDueDate(text)

	return doc
}

// ServiceNoteRecognizer is the safety net for municipal service notes: it
// accepts anything that does not look like a payment slip, as long as the
// text carries some fiscal signal. Everything else falls through to OTHER.
type ServiceNoteRecognizer struct{}

var fiscalSignalRe = regexp.MustCompile(`(?i)\b(NFS-?E|NOTA\s+FISCAL|PRESTADOR|TOMADOR|ISS)\b`)

func (r *ServiceNoteRecognizer) CanHandle(text string) bool {
	if (&SlipRecognizer{}).CanHandle(text) {
		return false
	}
	return fiscalSignalRe.MatchString(text) || emailtext.TaxID(text) != ""
}

func (r *ServiceNoteRecognizer) Extract(filename, text string) *domain.Document {
	doc := &domain.Document{
		SourceFile: filename,
		RawSnippet: snippet(text),
		Kind:       domain.KindNoteService,
		Source:     domain.SourceRendered,
		Service:    &domain.ServiceNoteFields{},
	}

	doc.Service.NoteNumber = serviceNoteNumber(text)
	doc.SupplierTaxID = emailtext.TaxID(text)
	doc.SupplierName = extractSupplier(text)
	doc.TotalAmount = firstAmount(text, noteAmountRes)
	doc.IssueDate = firstIssueDate(text)
	doc.DueDate = extractDueDate(text)

	doc.Service.WithheldIR = anyAmount(text, withheldIRRes)
	doc.Service.WithheldINSS = anyAmount(text, withheldINSSRes)
	doc.Service.WithheldCSLL = anyAmount(text, withheldCSLLRes)
	doc.Service.WithheldISS = anyAmount(text, withheldISSRes)
	doc.Service.WithheldICMS = anyAmount(text, withheldICMSRes)

	return doc
}

func accessKey(text string) string {
	if key := accessKeyRe.FindString(text); key != "" {
		return key
	}
	raw := accessKeySpacedRe.FindString(text)
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// serviceNoteNumber scrubs dates and auxiliary identifiers (RPS, batch,
// series) before matching, so they are not mistaken for the note number.
func serviceNoteNumber(text string) string {
	clean := serviceDatesRe.ReplaceAllString(text, " ")
	clean = serviceJunkRe.ReplaceAllString(clean, " ")
	for _, re := range serviceNumberRes {
		if m := re.FindStringSubmatch(clean); m != nil {
			return strings.ReplaceAll(strings.ReplaceAll(m[1], ".", ""), " ", "")
		}
	}
	return ""
}

func extractSupplier(text string) string {
	for _, re := range supplierRes {
		if m := re.FindStringSubmatch(text); m != nil {
			if name := cleanName(m[1]); len(name) >= 5 {
				return name
			}
		}
	}
	return ""
}

func extractDueDate(text string) string {
	for _, re := range noteDueDateRes {
		if raw := matchGroup(text, re); raw != "" {
			if d := isoFromBR(raw); d != "" {
				return d
			}
		}
	}
	return ""
}

func isoFromBR(raw string) string {
	parts := strings.Split(raw, "/")
	if len(parts) != 3 {
		return ""
	}
	return parts[2] + "-" + parts[1] + "-" + parts[0]
}
