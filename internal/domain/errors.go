package domain

import "errors"

var (
	ErrNotFound        = errors.New("resource not found")
	ErrMissingKind     = errors.New("record has no document kind")
	ErrUnknownKind     = errors.New("unknown document kind")
	ErrNilBatch        = errors.New("batch is nil")
	ErrEmptyBatchID    = errors.New("batch id is empty")
	ErrInvalidArgument = errors.New("invalid argument")
)

// DuplicateMarker prefixes the advisory warning appended to a batch's
// explanation when the same note appears to have been submitted twice.
// Downstream consumers detect it by substring search, so the token is fixed.
const DuplicateMarker = "DUPLICATE SUBMISSION"
