package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/gehma/internal/apperrors"
)

func TestCanonicalizePhone(t *testing.T) {
	t.Run("austrian mobile number", func(t *testing.T) {
		got, err := CanonicalizePhone("0664 12345678", "AT")
		require.NoError(t, err)
		assert.Equal(t, "+4366412345678", got)
	})

	t.Run("already international", func(t *testing.T) {
		got, err := CanonicalizePhone("+43 664 12345678", "AT")
		require.NoError(t, err)
		assert.Equal(t, "+4366412345678", got)
	})

	t.Run("lowercase region is accepted", func(t *testing.T) {
		got, err := CanonicalizePhone("066412345678", "at")
		require.NoError(t, err)
		assert.Equal(t, "+4366412345678", got)
	})

	t.Run("unknown country code", func(t *testing.T) {
		_, err := CanonicalizePhone("066412345678", "XX")
		require.Error(t, err)
		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperrors.KindInvalidInput, appErr.Kind)
	})

	t.Run("country code must be two letters", func(t *testing.T) {
		_, err := CanonicalizePhone("066412345678", "AUT")
		require.Error(t, err)
	})

	t.Run("invalid subscriber number", func(t *testing.T) {
		_, err := CanonicalizePhone("123", "AT")
		require.Error(t, err)
		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperrors.KindInvalidInput, appErr.Kind)
	})

	t.Run("garbage input", func(t *testing.T) {
		_, err := CanonicalizePhone("not a number", "AT")
		require.Error(t, err)
	})
}

func TestHashPhone(t *testing.T) {
	got := HashPhone("+4366412345678")

	assert.Equal(t, "4A4C700968B896ABFB1F44BB25D84161E98B45B1A79940D6B0CE8BCB3CEF93F0", got)
	assert.Len(t, got, 64)

	// Deterministic, and distinct inputs do not collide.
	assert.Equal(t, got, HashPhone("+4366412345678"))
	assert.NotEqual(t, got, HashPhone("+4365012345678"))
}
