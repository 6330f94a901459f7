package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "tradegate/pkg/domain-errors"
)

func TestParseIDs(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseDocumentID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseDocumentID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects nil uuid", func(t *testing.T) {
		_, err := ParseDocumentID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts valid uuid", func(t *testing.T) {
		raw := uuid.New()
		docID, err := ParseDocumentID(raw.String())
		require.NoError(t, err)
		assert.Equal(t, DocumentID(raw), docID)
		assert.Equal(t, raw.String(), docID.String())
	})

	t.Run("shipment and version ids share the invariant", func(t *testing.T) {
		_, err := ParseShipmentID("nope")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
		_, err = ParseVersionID("")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}

func TestParseDocKey(t *testing.T) {
	for _, raw := range []string{"phytosanitary", "origin", "insurance"} {
		key, err := ParseDocKey(raw)
		require.NoError(t, err)
		assert.Equal(t, DocKey(raw), key)
	}

	_, err := ParseDocKey("bill-of-lading")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func TestIsZero(t *testing.T) {
	assert.True(t, DocumentID{}.IsZero())
	assert.False(t, DocumentID(uuid.New()).IsZero())
}
