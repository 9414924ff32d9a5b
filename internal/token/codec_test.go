package token

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodec_RoundTrip(t *testing.T) {
	ids := []string{
		"a",
		"42",
		"3f8a9c0d1e2b4a5c6d7e8f9a0b1c2d3e",
		strings.Repeat("x", 64),
		"MixedCase123",
	}

	for _, id := range ids {
		payload := Encode(id)
		assert.True(t, strings.HasPrefix(payload, "pagcore:"))

		got, err := Decode(payload)
		require.NoError(t, err)
		assert.Equal(t, id, got)
	}
}

func TestCodec_DecodeRejectsGarbage(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"empty", ""},
		{"no prefix", "3f8a9c0d1e2b"},
		{"wrong namespace", "otherapp:3f8a9c0d1e2b"},
		{"prefix only", "pagcore:"},
		{"url payload", "https://example.com/pay?to=someone"},
		{"id too long", "pagcore:" + strings.Repeat("a", 65)},
		{"id with separator", "pagcore:abc:def"},
		{"id with space", "pagcore:abc def"},
		{"non ascii", "pagcore:abcé"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.payload)
			assert.ErrorIs(t, err, ErrMalformedPayload)
		})
	}
}

func TestValidateID(t *testing.T) {
	assert.NoError(t, ValidateID("abc123DEF"))
	assert.ErrorIs(t, ValidateID(""), ErrMalformedPayload)
	assert.ErrorIs(t, ValidateID("has-dash"), ErrMalformedPayload)
	assert.ErrorIs(t, ValidateID(strings.Repeat("a", 65)), ErrMalformedPayload)
}

func TestImage(t *testing.T) {
	png, err := Image("3f8a9c0d1e2b4a5c", 256)
	require.NoError(t, err)
	// PNG magic bytes
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, png[:4])
}
