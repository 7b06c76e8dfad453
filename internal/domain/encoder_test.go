package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCategoryEncoder(t *testing.T) {
	t.Run("sorts and assigns sequential codes", func(t *testing.T) {
		enc, err := NewCategoryEncoder([]string{"Kano", "Abia", "Lagos"})
		require.NoError(t, err)

		assert.Equal(t, []string{"Abia", "Kano", "Lagos"}, enc.Labels())

		code, ok := enc.Code("Abia")
		require.True(t, ok)
		assert.Equal(t, 0, code)

		code, ok = enc.Code("Kano")
		require.True(t, ok)
		assert.Equal(t, 1, code)

		code, ok = enc.Code("Lagos")
		require.True(t, ok)
		assert.Equal(t, 2, code)
	})

	t.Run("deduplicates labels", func(t *testing.T) {
		enc, err := NewCategoryEncoder([]string{"A", "B", "A", "B"})
		require.NoError(t, err)
		assert.Equal(t, 2, enc.Len())
		assert.Equal(t, []string{"A", "B"}, enc.Labels())
	})

	t.Run("empty class list fails", func(t *testing.T) {
		_, err := NewCategoryEncoder(nil)
		require.Error(t, err)
	})
}

func TestCategoryEncoderLookup(t *testing.T) {
	enc, err := NewCategoryEncoder([]string{"A", "B", "C"})
	require.NoError(t, err)

	t.Run("unknown label returns ok=false", func(t *testing.T) {
		_, ok := enc.Code("D")
		assert.False(t, ok)
		assert.False(t, enc.Contains("D"))
	})

	t.Run("lookup is case-sensitive", func(t *testing.T) {
		_, ok := enc.Code("a")
		assert.False(t, ok)
	})

	t.Run("Labels returns a copy", func(t *testing.T) {
		labels := enc.Labels()
		labels[0] = "mutated"

		fresh := enc.Labels()
		assert.Equal(t, "A", fresh[0])
	})
}
