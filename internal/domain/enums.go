package domain

// DocumentKind tags the concrete variant of a structured record. The kind is
// assigned at extraction time and never changes afterwards.
type DocumentKind string

const (
	KindNoteGoods   DocumentKind = "NOTE_GOODS"
	KindNoteService DocumentKind = "NOTE_SERVICE"
	KindPaymentSlip DocumentKind = "PAYMENT_SLIP"
	KindOther       DocumentKind = "OTHER"
	KindEmailNotice DocumentKind = "EMAIL_NOTICE"
)

// KnownKinds maps every valid kind tag to true, for input validation.
var KnownKinds = map[DocumentKind]bool{
	KindNoteGoods:   true,
	KindNoteService: true,
	KindPaymentSlip: true,
	KindOther:       true,
	KindEmailNotice: true,
}

// RecordSource identifies how a record's text was obtained: a machine-readable
// representation or a rendered/scanned one.
type RecordSource string

const (
	SourceStructured RecordSource = "structured"
	SourceRendered   RecordSource = "rendered"
)

// SettlementStatus is the closed set of batch settlement judgements.
type SettlementStatus string

const (
	SettlementUnset       SettlementStatus = ""
	SettlementConciliado  SettlementStatus = "CONCILIADO"
	SettlementDivergente  SettlementStatus = "DIVERGENTE"
	SettlementConferir    SettlementStatus = "CONFERIR"
	SettlementForcedMatch SettlementStatus = "FORCED_MATCH"
)

// NeedsReview reports whether a status should be routed to the manual review queue.
func (s SettlementStatus) NeedsReview() bool {
	return s == SettlementConferir || s == SettlementDivergente
}

// MatchMethod records which pairing strategy produced a document pair.
type MatchMethod string

const (
	MatchNumber        MatchMethod = "NUMBER"
	MatchSupplierValue MatchMethod = "SUPPLIER_VALUE"
	MatchForced        MatchMethod = "FORCED"
	MatchNone          MatchMethod = "NONE"
)

// InheritanceSource names where an inherited field value came from.
type InheritanceSource string

const (
	InheritedFromSlip     InheritanceSource = "slip"
	InheritedFromDocument InheritanceSource = "document"
	InheritedFromEmail    InheritanceSource = "email"
)
