package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"concil/internal/domain"
)

func reportBatch() *domain.Batch {
	note := &domain.Document{
		SourceFile:    "nota.pdf",
		Kind:          domain.KindNoteService,
		Source:        domain.SourceStructured,
		SupplierName:  "ACME LTDA",
		SupplierTaxID: "12.345.678/0001-95",
		DueDate:       "2025-09-10",
		TotalAmount:   1500.00,
		Settlement:    domain.SettlementConciliado,
		SettledAmount: 1500.00,
		Service:       &domain.ServiceNoteFields{NoteNumber: "3406"},
	}
	slip := &domain.Document{
		SourceFile:    "boleto.pdf",
		Kind:          domain.KindPaymentSlip,
		Source:        domain.SourceRendered,
		SupplierName:  "ACME LTDA",
		TotalAmount:   1500.00,
		Settlement:    domain.SettlementConciliado,
		SettledAmount: 1500.00,
		Slip:          &domain.SlipFields{LinkedNoteRef: "3406", BankName: "BANCO BRADESCO S.A."},
	}
	return &domain.Batch{
		ID:        uuid.MustParse("6b1e2c77-64a1-4a8e-9d5f-2f1e7f3a9b10"),
		Documents: []*domain.Document{note, slip},
		Correlation: &domain.CorrelationResult{
			Status:     domain.SettlementConciliado,
			NoteAmount: 1500.00,
			SlipAmount: 1500.00,
		},
	}
}

func TestWriteHeader(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteHeader())
	w.Flush()
	require.NoError(t, w.Error())

	r := csv.NewReader(&buf)
	row, err := r.Read()
	require.NoError(t, err)

	assert.Len(t, row, 18)
	assert.Equal(t, "Batch ID", row[0])
	assert.Equal(t, "Bank Name", row[17])
}

func TestWriteBatch(t *testing.T) {
	batch := reportBatch()

	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteBatch(batch))
	w.Flush()
	require.NoError(t, w.Error())

	r := csv.NewReader(&buf)
	rows, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	noteRow := rows[0]
	assert.Equal(t, batch.ID.String(), noteRow[0])
	assert.Equal(t, "nota.pdf", noteRow[1])
	assert.Equal(t, "NOTE_SERVICE", noteRow[2])
	assert.Equal(t, "3406", noteRow[6])
	assert.Equal(t, "1500.00", noteRow[10])
	assert.Equal(t, "CONCILIADO", noteRow[12])
	assert.Equal(t, "CONCILIADO", noteRow[13])
	assert.Equal(t, "0.00", noteRow[14])

	slipRow := rows[1]
	assert.Equal(t, "PAYMENT_SLIP", slipRow[2])
	assert.Equal(t, "3406", slipRow[7])
	assert.Equal(t, "BANCO BRADESCO S.A.", slipRow[17])
}

func TestWriteXLSX(t *testing.T) {
	batch := reportBatch()

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, []*domain.Batch{batch}))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Batch ID", rows[0][0])
	assert.Equal(t, "nota.pdf", rows[1][1])
	assert.Equal(t, "PAYMENT_SLIP", rows[2][2])
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "Relat_rio_PAF_2025", SanitizeFilename("Relatório: PAF / 2025"))
	assert.Equal(t, "a_b", SanitizeFilename("__a___b__"))
}

func TestBuildFilename(t *testing.T) {
	name := BuildFilename("Conciliação Agosto", "csv")
	assert.True(t, strings.HasPrefix(name, "Concilia_o_Agosto_"))
	assert.True(t, strings.HasSuffix(name, ".csv"))
}
