package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitManualCode(t *testing.T) {
	t.Run("bare id", func(t *testing.T) {
		id, err := SubmitManualCode("3f8a9c0d1e2b")
		require.NoError(t, err)
		assert.Equal(t, "3f8a9c0d1e2b", id)
	})

	t.Run("full payload", func(t *testing.T) {
		id, err := SubmitManualCode("pagcore:3f8a9c0d1e2b")
		require.NoError(t, err)
		assert.Equal(t, "3f8a9c0d1e2b", id)
	})

	t.Run("surrounding whitespace", func(t *testing.T) {
		id, err := SubmitManualCode("  3f8a9c0d1e2b\n")
		require.NoError(t, err)
		assert.Equal(t, "3f8a9c0d1e2b", id)
	})

	t.Run("rejected locally", func(t *testing.T) {
		for _, typed := range []string{"", "   ", "not a code!", "otherapp:abc", "abc-def"} {
			_, err := SubmitManualCode(typed)
			assert.ErrorIs(t, err, ErrInvalidFormat, "input %q", typed)
		}
	})
}
