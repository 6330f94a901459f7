package models

import (
	"time"

	id "tradegate/pkg/domain"

	"tradegate/internal/compliance/status"
)

// Version is an immutable snapshot in the document's version ledger.
//
// Invariants, enforced by the store:
//   - numbers are strictly increasing and unique per document, starting at 1
//   - versions are never edited or removed once appended
//   - an Official version always becomes the document's current version
type Version struct {
	ID        id.VersionID
	Number    int
	Label     string
	CreatedAt time.Time
	CreatedBy string
	Status    status.Version
	// Official marks an authority-issued artifact.
	Official bool
	Note     string
	FileName string
}
