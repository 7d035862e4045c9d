// Package export renders reconciled batches as the review report consumed by
// the accounts-payable team, in CSV and XLSX form.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"concil/internal/domain"
)

// BOM is the UTF-8 byte order mark, for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the report header row.
var columns = []string{
	"Batch ID",
	"Source File",
	"Kind",
	"Record Source",
	"Supplier Name",
	"Supplier Tax ID",
	"Note Number",
	"Linked Note Ref",
	"Issue Date",
	"Due Date",
	"Total Amount",
	"Settled Amount",
	"Settlement Status",
	"Batch Status",
	"Batch Discrepancy",
	"Explanation",
	"Company",
	"Bank Name",
}

// Writer wraps csv.Writer for exporting reconciled batches as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteBatch writes one row per record of the batch.
func (w *Writer) WriteBatch(batch *domain.Batch) error {
	for _, doc := range batch.Documents {
		if err := w.csv.Write(recordToRow(batch, doc)); err != nil {
			return err
		}
	}
	return nil
}

// WriteBatches writes every batch in order.
func (w *Writer) WriteBatches(batches []*domain.Batch) error {
	for _, b := range batches {
		if err := w.WriteBatch(b); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

// recordToRow converts one record to a report row. Batch-level columns repeat
// on every row so any single row carries the full judgement.
func recordToRow(batch *domain.Batch, doc *domain.Document) []string {
	row := make([]string, len(columns))
	row[0] = batch.ID.String()
	row[1] = doc.SourceFile
	row[2] = string(doc.Kind)
	row[3] = string(doc.Source)
	row[4] = doc.SupplierName
	row[5] = doc.SupplierTaxID
	row[6] = recordNumber(doc)
	row[7] = linkedRef(doc)
	row[8] = doc.IssueDate
	row[9] = doc.DueDate
	row[10] = formatMoney(doc.TotalAmount)
	row[11] = formatMoney(doc.SettledAmount)
	row[12] = string(doc.Settlement)
	if r := batch.Correlation; r != nil {
		row[13] = string(r.Status)
		row[14] = formatMoney(r.Discrepancy)
		row[15] = r.Explanation
	}
	row[16] = doc.Company
	if doc.Slip != nil {
		row[17] = doc.Slip.BankName
	}
	return row
}

func recordNumber(doc *domain.Document) string {
	if n := doc.PairNumber(); n != "" {
		return n
	}
	if doc.Kind == domain.KindPaymentSlip && doc.Slip != nil {
		return doc.Slip.DocumentNumber
	}
	return ""
}

func linkedRef(doc *domain.Document) string {
	if doc.Slip != nil {
		return doc.Slip.LinkedNoteRef
	}
	return ""
}

func formatMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a report name for use in Content-Disposition.
// Replaces non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns a sanitized filename for the Content-Disposition
// header. Format: {sanitized_name}_{YYYY-MM-DD}.{ext}
func BuildFilename(name, ext string) string {
	sanitized := SanitizeFilename(name)
	date := time.Now().Format("2006-01-02")
	return fmt.Sprintf("%s_%s.%s", sanitized, date, ext)
}
