package emailtext

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var now = time.Date(2025, 8, 28, 12, 0, 0, 0, time.UTC)

func TestAmounts(t *testing.T) {
	text := "Valor do Boleto: R$ 1.234,56 referente a NFS-e. Valor: 200,00"
	amounts := Amounts(text)

	assert.Equal(t, []float64{1234.56, 200.00}, amounts)
}

func TestAmounts_IgnoresUnreasonableValues(t *testing.T) {
	assert.Empty(t, Amounts("R$ 0,00"))
}

func TestParseAmount(t *testing.T) {
	v, err := ParseAmount("1.234,56")
	assert.NoError(t, err)
	assert.Equal(t, 1234.56, v)
}

func TestDueDate_Phrasings(t *testing.T) {
	assert.Equal(t, "2025-12-29", DueDate("Vencimento: 29/12/2025", now))
	assert.Equal(t, "2025-12-29", DueDate("Data de Vencimento: 29/12/2025", now))
	assert.Equal(t, "2025-12-29", DueDate("Vence em: 29/12/2025", now))
	assert.Equal(t, "2025-12-29", DueDate("pagar até 29/12/2025", now))
	assert.Equal(t, "2025-12-29", DueDate("válido até 29/12/2025", now))
	assert.Equal(t, "2025-12-29", DueDate("Sua fatura - 29/12 Seg", now))
	assert.Equal(t, "", DueDate("sem data nenhuma", now))
}

func TestNormalizeDate_TwoDigitYear(t *testing.T) {
	assert.Equal(t, "2025-12-29", NormalizeDate("29/12/25", now))
	assert.Equal(t, "2050-12-29", NormalizeDate("29/12/50", now))
	assert.Equal(t, "1999-12-29", NormalizeDate("29/12/99", now))
}

func TestNormalizeDate_DayMonthOnly(t *testing.T) {
	// Reference date is 2025-08-28: a later month stays in the current year,
	// an earlier month rolls over to the next.
	assert.Equal(t, "2025-12-29", NormalizeDate("29/12", now))
	assert.Equal(t, "2026-03-15", NormalizeDate("15/03", now))
	assert.Equal(t, "2025-08-30", NormalizeDate("30/08", now))
}

func TestNormalizeDate_Invalid(t *testing.T) {
	assert.Equal(t, "", NormalizeDate("45/13/2025", now))
	assert.Equal(t, "", NormalizeDate("not a date", now))
	assert.Equal(t, "", NormalizeDate("", now))
}

func TestNoteNumber(t *testing.T) {
	assert.Equal(t, "3406", NoteNumber("NFS-e nº 3406 emitida"))
	assert.Equal(t, "12345", NoteNumber("NF-e 12345"))
	assert.Equal(t, "50446", NoteNumber("Fatura nº 50446"))
	assert.Equal(t, "98765", NoteNumber("Nota Fiscal 98765"))
	assert.Equal(t, "", NoteNumber("nenhum numero aqui"))
	assert.Equal(t, "", NoteNumber(""))
}

func TestNoteNumber_Composite(t *testing.T) {
	assert.Equal(t, "2025.119", NoteNumber("Fatura nº 2025.119 disponível"))
}

func TestNoteNumber_SkipsYears(t *testing.T) {
	assert.Equal(t, "", NoteNumber("NF-e 2025"))
}

func TestTaxID(t *testing.T) {
	assert.Equal(t, "12.345.678/0001-95", TaxID("emitente CNPJ 12.345.678/0001-95"))
	assert.Equal(t, "", TaxID("sem cnpj"))
}

func TestLink_KnownDomainPreferred(t *testing.T) {
	text := "acesse https://exemplo.com/nota/1 ou https://nfe.prefeitura.sp.gov.br/verificar/ABC123"
	assert.Equal(t, "https://nfe.prefeitura.sp.gov.br/verificar/ABC123", Link(text))
}

func TestSupplierFromSubject(t *testing.T) {
	assert.Equal(t, "Acme Servicos", SupplierFromSubject("Acme Servicos - Fatura 2025.119"))
	assert.Equal(t, "Acme Servicos", SupplierFromSubject("[Acme Servicos] Boleto disponível"))
	assert.Equal(t, "", SupplierFromSubject("Lembrete - Fatura em aberto"))
	assert.Equal(t, "", SupplierFromSubject(""))
}

func TestExtract(t *testing.T) {
	subject := "Acme Servicos - Fatura nº 50446"
	body := "Segue boleto. Valor: R$ 1.500,00 Vencimento: 10/09/2025 " +
		"CNPJ 12.345.678/0001-95 " +
		"https://nfe.prefeitura.sp.gov.br/verificar/XYZ9876 " +
		"Código de Verificação: XYZ9876"

	out := Extract(subject, body, now)

	assert.Equal(t, 1500.00, out.TotalAmount)
	assert.Equal(t, "2025-09-10", out.DueDate)
	assert.Equal(t, "50446", out.NoteNumber)
	assert.Equal(t, "12.345.678/0001-95", out.TaxID)
	assert.Equal(t, "https://nfe.prefeitura.sp.gov.br/verificar/XYZ9876", out.Link)
	assert.Equal(t, "XYZ9876", out.VerificationCode)
	assert.Equal(t, "Acme Servicos", out.SupplierName)
}

func TestStripHTML(t *testing.T) {
	html := "<html><head><style>p{}</style></head><body><p>Valor: <b>R$ 100,00</b></p></body></html>"
	assert.Equal(t, "Valor: R$ 100,00", StripHTML(html))
}
