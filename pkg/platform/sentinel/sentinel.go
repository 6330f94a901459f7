package sentinel

import "errors"

// Sentinel errors for infrastructure facts. The document store returns these
// (optionally wrapped) so the service layer can translate them into coded
// domain errors.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: document or version does not exist in the store
// - ErrConflict: a concurrent or duplicate mutation was rejected
// - ErrInvalidState: aggregate is in the wrong state for the operation
//
// For validation errors (bad input, missing fields), use pkg/domain-errors.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidState = errors.New("invalid state")
)
