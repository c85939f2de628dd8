package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "vouch/pkg/domain-errors"
)

// Parsing enforces the invariant that subject IDs are valid, non-empty,
// non-nil UUIDs before they reach any service.
func TestParseUserID(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseUserID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseUserID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParseUserID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts valid UUID", func(t *testing.T) {
		valid := uuid.New()
		id, err := ParseUserID(valid.String())
		require.NoError(t, err)
		assert.Equal(t, UserID(valid), id)
		assert.False(t, id.IsNil())
	})
}

func TestParseBusinessID(t *testing.T) {
	_, err := ParseBusinessID("")
	require.Error(t, err)

	valid := uuid.New()
	id, err := ParseBusinessID(valid.String())
	require.NoError(t, err)
	assert.Equal(t, valid.String(), id.String())
}

// TestTypeDistinction documents the compile-time invariant: if UserID and
// BusinessID ever become aliases, the commented assignments below would start
// to compile and subject separation is lost.
func TestTypeDistinction(t *testing.T) {
	userID := NewUserID()
	businessID := NewBusinessID()

	// var _ UserID = businessID   // compile error
	// var _ BusinessID = userID   // compile error

	assert.NotEqual(t, uuid.UUID(userID), uuid.UUID(businessID))
}
