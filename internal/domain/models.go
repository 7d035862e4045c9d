package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Document is the tagged-variant structured record extracted from one source
// file (or from the email body itself, for notices). Common optional fields
// live on the struct directly; kind-specific fields live in the payload
// matching the Kind tag. An empty string means "not extracted", and a
// TotalAmount of exactly zero is the not-extracted sentinel, never a real
// zero-value transaction.
type Document struct {
	SourceFile string       `json:"source_file"`
	RawSnippet string       `json:"raw_snippet,omitempty"`
	Kind       DocumentKind `json:"kind"`
	Source     RecordSource `json:"source"`

	SupplierName  string  `json:"supplier_name"`
	SupplierTaxID string  `json:"supplier_tax_id"`
	IssueDate     string  `json:"issue_date"`
	DueDate       string  `json:"due_date"`
	TotalAmount   float64 `json:"total_amount"`

	Settlement    SettlementStatus `json:"settlement"`
	SettledAmount float64          `json:"settled_amount"`

	Notes         string `json:"notes,omitempty"`
	InternalNotes string `json:"internal_notes,omitempty"`
	Company       string `json:"company,omitempty"`

	Service *ServiceNoteFields `json:"service,omitempty"`
	Goods   *GoodsNoteFields   `json:"goods,omitempty"`
	Slip    *SlipFields        `json:"slip,omitempty"`
	Other   *OtherFields       `json:"other,omitempty"`
	Notice  *NoticeFields      `json:"notice,omitempty"`
}

// ServiceNoteFields holds NOTE_SERVICE-specific data, including the withheld
// tax breakdown reported on municipal service notes.
type ServiceNoteFields struct {
	NoteNumber    string  `json:"note_number"`
	InvoiceNumber string  `json:"invoice_number,omitempty"`
	OrderNumber   string  `json:"order_number,omitempty"`
	PaymentMethod string  `json:"payment_method,omitempty"`
	WithheldIR    float64 `json:"withheld_ir,omitempty"`
	WithheldINSS  float64 `json:"withheld_inss,omitempty"`
	WithheldCSLL  float64 `json:"withheld_csll,omitempty"`
	WithheldISS   float64 `json:"withheld_iss,omitempty"`
	WithheldICMS  float64 `json:"withheld_icms,omitempty"`
}

// GoodsNoteFields holds NOTE_GOODS-specific data.
type GoodsNoteFields struct {
	NoteNumber    string `json:"note_number"`
	Series        string `json:"series,omitempty"`
	AccessKey     string `json:"access_key,omitempty"`
	EmitterTaxID  string `json:"emitter_tax_id,omitempty"`
	OrderNumber   string `json:"order_number,omitempty"`
	InvoiceNumber string `json:"invoice_number,omitempty"`
}

// SlipFields holds PAYMENT_SLIP-specific data.
type SlipFields struct {
	DocumentNumber string `json:"document_number,omitempty"`
	OurNumber      string `json:"our_number,omitempty"`
	DigitLine      string `json:"digit_line,omitempty"`
	LinkedNoteRef  string `json:"linked_note_ref,omitempty"`
	BankName       string `json:"bank_name,omitempty"`
	BankAgency     string `json:"bank_agency,omitempty"`
	BankAccount    string `json:"bank_account,omitempty"`
}

// OtherFields holds data for documents that are neither notes nor slips.
type OtherFields struct {
	DocumentNumber string `json:"document_number,omitempty"`
	Subtype        string `json:"subtype,omitempty"`
}

// NoticeFields holds EMAIL_NOTICE-specific data: an email carrying only a
// portal link and verification code, with no usable attachment.
type NoticeFields struct {
	Link             string `json:"link,omitempty"`
	VerificationCode string `json:"verification_code,omitempty"`
}

// IsNote reports whether the document is a fiscal note (goods or service).
func (d *Document) IsNote() bool {
	return d.Kind == KindNoteGoods || d.Kind == KindNoteService
}

// NoteNumber returns the note number for note kinds, or "" for anything else.
func (d *Document) NoteNumber() string {
	switch d.Kind {
	case KindNoteService:
		if d.Service != nil {
			return d.Service.NoteNumber
		}
	case KindNoteGoods:
		if d.Goods != nil {
			return d.Goods.NoteNumber
		}
	}
	return ""
}

// SetNoteNumber sets the note number on note kinds, allocating the payload
// when needed. It is a no-op for non-note kinds.
func (d *Document) SetNoteNumber(number string) {
	switch d.Kind {
	case KindNoteService:
		if d.Service == nil {
			d.Service = &ServiceNoteFields{}
		}
		d.Service.NoteNumber = number
	case KindNoteGoods:
		if d.Goods == nil {
			d.Goods = &GoodsNoteFields{}
		}
		d.Goods.NoteNumber = number
	}
}

// PairNumber returns the identifier used by number-based pairing: the note
// number for notes, the document number for OTHER records.
func (d *Document) PairNumber() string {
	if d.IsNote() {
		return d.NoteNumber()
	}
	if d.Kind == KindOther && d.Other != nil {
		return d.Other.DocumentNumber
	}
	return ""
}

// OrderNumber returns the purchase-order number for note kinds.
func (d *Document) OrderNumber() string {
	switch d.Kind {
	case KindNoteService:
		if d.Service != nil {
			return d.Service.OrderNumber
		}
	case KindNoteGoods:
		if d.Goods != nil {
			return d.Goods.OrderNumber
		}
	}
	return ""
}

// SetOrderNumber sets the purchase-order number on note kinds.
func (d *Document) SetOrderNumber(number string) {
	switch d.Kind {
	case KindNoteService:
		if d.Service == nil {
			d.Service = &ServiceNoteFields{}
		}
		d.Service.OrderNumber = number
	case KindNoteGoods:
		if d.Goods == nil {
			d.Goods = &GoodsNoteFields{}
		}
		d.Goods.OrderNumber = number
	}
}

// InvoiceNumber returns the invoice-number alias for note kinds.
func (d *Document) InvoiceNumber() string {
	switch d.Kind {
	case KindNoteService:
		if d.Service != nil {
			return d.Service.InvoiceNumber
		}
	case KindNoteGoods:
		if d.Goods != nil {
			return d.Goods.InvoiceNumber
		}
	}
	return ""
}

// SetInvoiceNumber sets the invoice-number alias on note kinds.
func (d *Document) SetInvoiceNumber(number string) {
	switch d.Kind {
	case KindNoteService:
		if d.Service == nil {
			d.Service = &ServiceNoteFields{}
		}
		d.Service.InvoiceNumber = number
	case KindNoteGoods:
		if d.Goods == nil {
			d.Goods = &GoodsNoteFields{}
		}
		d.Goods.InvoiceNumber = number
	}
}

// EmailContext carries the metadata of the email a batch arrived in.
type EmailContext struct {
	Subject       string `json:"subject"`
	SenderName    string `json:"sender_name"`
	SenderAddress string `json:"sender_address"`
	BodyText      string `json:"body_text"`
	ReceivedAt    string `json:"received_at"`
}

// Batch is the reconciliation unit: every document that arrived together in
// one email. The batch exclusively owns its document list and is mutated in
// place by the engine.
type Batch struct {
	ID          uuid.UUID          `json:"id"`
	Documents   []*Document        `json:"documents"`
	Email       *EmailContext      `json:"email,omitempty"`
	Correlation *CorrelationResult `json:"correlation,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
}

// BatchSummary is the lightweight listing view of a persisted batch.
type BatchSummary struct {
	ID            uuid.UUID        `db:"id" json:"id"`
	Status        SettlementStatus `db:"status" json:"status"`
	Discrepancy   float64          `db:"discrepancy" json:"discrepancy"`
	DocumentCount int              `db:"document_count" json:"document_count"`
	EmailSubject  string           `db:"email_subject" json:"email_subject"`
	CreatedAt     time.Time        `db:"created_at" json:"created_at"`
}

// DocumentPair is a derived, non-owning view associating note records with
// the slip records that pay for them. Pairs are recomputed on every run.
type DocumentPair struct {
	Notes       []*Document      `json:"notes"`
	Slips       []*Document      `json:"slips"`
	Method      MatchMethod      `json:"method"`
	Forced      bool             `json:"forced"`
	Status      SettlementStatus `json:"status"`
	Discrepancy float64          `json:"discrepancy"`
}

// CorrelationResult is the batch-level settlement judgement produced by one
// engine run.
type CorrelationResult struct {
	Status      SettlementStatus `json:"status"`
	Discrepancy float64          `json:"discrepancy"`
	NoteAmount  float64          `json:"note_amount"`
	SlipAmount  float64          `json:"slip_amount"`

	InheritedDueDate    string            `json:"inherited_due_date,omitempty"`
	DueDateSource       InheritanceSource `json:"due_date_source,omitempty"`
	InheritedNoteNumber string            `json:"inherited_note_number,omitempty"`
	NoteNumberSource    InheritanceSource `json:"note_number_source,omitempty"`

	Explanation      string         `json:"explanation,omitempty"`
	DuplicateWarning string         `json:"duplicate_warning,omitempty"`
	Pairs            []DocumentPair `json:"pairs,omitempty"`
}

// HasDuplicateWarning reports whether the result carries the duplicate
// submission marker.
func (r *CorrelationResult) HasDuplicateWarning() bool {
	return r != nil && strings.Contains(r.DuplicateWarning, DuplicateMarker)
}
