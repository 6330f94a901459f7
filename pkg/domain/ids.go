// Package domain holds the typed identifiers shared across the service.
//
// Identifiers are distinct uuid wrappers so the compiler rejects a shipment id
// where a document id is expected. Construct via the Parse* helpers at trust
// boundaries; direct casting bypasses validation.
package domain

import (
	"github.com/google/uuid"

	dErrors "tradegate/pkg/domain-errors"
)

type (
	// DocumentID identifies one compliance document aggregate.
	DocumentID uuid.UUID
	// ShipmentID identifies a shipment in the shipment registry.
	ShipmentID uuid.UUID
	// VersionID identifies one immutable document version.
	VersionID uuid.UUID
)

func (id DocumentID) String() string { return uuid.UUID(id).String() }
func (id ShipmentID) String() string { return uuid.UUID(id).String() }
func (id VersionID) String() string  { return uuid.UUID(id).String() }

func (id DocumentID) IsZero() bool { return uuid.UUID(id) == uuid.Nil }
func (id ShipmentID) IsZero() bool { return uuid.UUID(id) == uuid.Nil }
func (id VersionID) IsZero() bool  { return uuid.UUID(id) == uuid.Nil }

// parseUUID enforces the shared invariant: valid, non-empty, non-nil.
func parseUUID(raw, kind string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" id is required")
	}
	u, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" id is not a valid uuid")
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" id must not be the nil uuid")
	}
	return u, nil
}

// ParseDocumentID constructs a DocumentID from external input.
func ParseDocumentID(raw string) (DocumentID, error) {
	u, err := parseUUID(raw, "document")
	return DocumentID(u), err
}

// ParseShipmentID constructs a ShipmentID from external input.
func ParseShipmentID(raw string) (ShipmentID, error) {
	u, err := parseUUID(raw, "shipment")
	return ShipmentID(u), err
}

// ParseVersionID constructs a VersionID from external input.
func ParseVersionID(raw string) (VersionID, error) {
	u, err := parseUUID(raw, "version")
	return VersionID(u), err
}

// DocKey is the fixed identifier for a document kind.
type DocKey string

const (
	DocKeyPhytosanitary DocKey = "phytosanitary"
	DocKeyOrigin        DocKey = "origin"
	DocKeyInsurance     DocKey = "insurance"
)

// validDocKeys is the single source of truth for supported document kinds.
var validDocKeys = map[DocKey]bool{
	DocKeyPhytosanitary: true,
	DocKeyOrigin:        true,
	DocKeyInsurance:     true,
}

// ParseDocKey constructs a DocKey from external input, enforcing the allowlist.
func ParseDocKey(raw string) (DocKey, error) {
	k := DocKey(raw)
	if !validDocKeys[k] {
		return "", dErrors.New(dErrors.CodeInvalidInput, "unsupported document kind: "+raw)
	}
	return k, nil
}
