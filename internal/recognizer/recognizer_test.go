package recognizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"concil/internal/domain"
)

const boletoText = `BANCO BRADESCO S.A.
Linha Digitável: 23790.12345 60000.000001 23456.789012 1 99990000150000
Beneficiário: Acme Servicos Ltda
CNPJ 12.345.678/0001-95
Agência/Código Beneficiário: 1234-5 / 98765-4
Nosso Número: 00123456789-0
Número do Documento: 4401-2
Vencimento: 10/09/2025
Valor do Documento 1.500,00
Referente à NFS-e nº 3406`

const serviceNoteText = `PREFEITURA MUNICIPAL
NOTA FISCAL DE SERVIÇOS ELETRÔNICA - NFS-e
Número da Nota: 3406
Data de emissão 28/08/2025
Prestador de Serviços: Acme Servicos Ltda
CNPJ 12.345.678/0001-95
Valor Total: R$ 1.500,00
ISS Retido: 75,00
Vencimento: 10/09/2025`

const danfeText = `DANFE - Documento Auxiliar da Nota Fiscal Eletrônica
Nº 000.123.456 Série 1
Chave de Acesso 35250812345678000195550010001234561000123456
Razão Social: Distribuidora Beta SA
CNPJ 98.765.432/0001-10
Valor Total: R$ 2.300,00
Emissão 20/08/2025`

func TestSlipRecognizer(t *testing.T) {
	r := &SlipRecognizer{}
	require.True(t, r.CanHandle(boletoText))

	doc := r.Extract("boleto.pdf", boletoText)

	assert.Equal(t, domain.KindPaymentSlip, doc.Kind)
	assert.Equal(t, domain.SourceRendered, doc.Source)
	require.NotNil(t, doc.Slip)
	assert.Equal(t, "BANCO BRADESCO S.A.", doc.Slip.BankName)
	assert.Equal(t, "Acme Servicos Ltda", doc.SupplierName)
	assert.Equal(t, "12.345.678/0001-95", doc.SupplierTaxID)
	assert.Equal(t, 1500.00, doc.TotalAmount)
	assert.Equal(t, "2025-09-10", doc.DueDate)
	assert.Equal(t, "00123456789-0", doc.Slip.OurNumber)
	assert.Equal(t, "4401-2", doc.Slip.DocumentNumber)
	assert.Equal(t, "3406", doc.Slip.LinkedNoteRef)
	assert.True(t, len(doc.Slip.DigitLine) >= 30)
}

func TestSlipRecognizer_RejectsNote(t *testing.T) {
	assert.False(t, (&SlipRecognizer{}).CanHandle(serviceNoteText))
}

func TestServiceNoteRecognizer(t *testing.T) {
	r := &ServiceNoteRecognizer{}
	require.True(t, r.CanHandle(serviceNoteText))

	doc := r.Extract("nota.pdf", serviceNoteText)

	assert.Equal(t, domain.KindNoteService, doc.Kind)
	require.NotNil(t, doc.Service)
	assert.Equal(t, "3406", doc.Service.NoteNumber)
	assert.Equal(t, "12.345.678/0001-95", doc.SupplierTaxID)
	assert.Equal(t, 1500.00, doc.TotalAmount)
	assert.Equal(t, 75.00, doc.Service.WithheldISS)
	assert.Equal(t, "2025-09-10", doc.DueDate)
}

func TestGoodsNoteRecognizer(t *testing.T) {
	r := &GoodsNoteRecognizer{}
	require.True(t, r.CanHandle(danfeText))

	doc := r.Extract("danfe.pdf", danfeText)

	assert.Equal(t, domain.KindNoteGoods, doc.Kind)
	require.NotNil(t, doc.Goods)
	assert.Equal(t, "35250812345678000195550010001234561000123456", doc.Goods.AccessKey)
	assert.Equal(t, "98.765.432/0001-10", doc.Goods.EmitterTaxID)
	assert.Equal(t, 2300.00, doc.TotalAmount)
}

func TestFallbackRecognizer(t *testing.T) {
	r := &FallbackRecognizer{}
	require.True(t, r.CanHandle("qualquer coisa"))

	doc := r.Extract("anexo.pdf", "recibo de entrega, Documento nº 77-A")

	assert.Equal(t, domain.KindOther, doc.Kind)
	require.NotNil(t, doc.Other)
	assert.Equal(t, "77-A", doc.Other.DocumentNumber)
}

func TestRecognize_CascadeOrder(t *testing.T) {
	set := DefaultSet()

	assert.Equal(t, domain.KindPaymentSlip, Recognize(set, "a.pdf", boletoText).Kind)
	assert.Equal(t, domain.KindNoteGoods, Recognize(set, "b.pdf", danfeText).Kind)
	assert.Equal(t, domain.KindNoteService, Recognize(set, "c.pdf", serviceNoteText).Kind)
	assert.Equal(t, domain.KindOther, Recognize(set, "d.pdf", "texto sem nenhum sinal").Kind)
}
