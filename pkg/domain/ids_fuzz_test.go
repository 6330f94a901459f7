package domain

import (
	"testing"

	"github.com/google/uuid"
)

// FuzzParseDocumentID checks the parser never panics and never accepts a
// value that fails to round-trip as a canonical non-nil uuid.
func FuzzParseDocumentID(f *testing.F) {
	f.Add("")
	f.Add("not-a-uuid")
	f.Add(uuid.Nil.String())
	f.Add(uuid.New().String())

	f.Fuzz(func(t *testing.T, raw string) {
		docID, err := ParseDocumentID(raw)
		if err != nil {
			return
		}
		if docID.IsZero() {
			t.Fatalf("accepted nil uuid from %q", raw)
		}
		again, err := ParseDocumentID(docID.String())
		if err != nil || again != docID {
			t.Fatalf("canonical form did not round-trip for %q", raw)
		}
	})
}
