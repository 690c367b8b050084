package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func raw(s string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(s))
}

func TestEncodeDecodeToken(t *testing.T) {
	fetchedAt := time.Date(2025, 5, 15, 14, 30, 45, 123456789, time.UTC)
	id := "0196d5a2-7c3e-7b1a-9f00-5c1d2e3f4a5b"

	token := EncodeToken(fetchedAt, id)
	assert.NotEmpty(t, token)
	assert.NotContains(t, token, "+", "token must be safe in a query string")
	assert.NotContains(t, token, "/")

	decodedAt, decodedID, err := DecodeToken(token)
	require.NoError(t, err)
	assert.True(t, fetchedAt.Equal(decodedAt))
	assert.Equal(t, id, decodedID)
}

func TestEncodeToken_NormalizesToUTC(t *testing.T) {
	local := time.Date(2025, 5, 15, 16, 30, 0, 0, time.FixedZone("CEST", 2*3600))

	decodedAt, _, err := DecodeToken(EncodeToken(local, "a"))
	require.NoError(t, err)
	assert.Equal(t, time.UTC, decodedAt.Location())
	assert.True(t, local.Equal(decodedAt))
}

func TestDecodeToken_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"not base64", "!!!"},
		{"no separator", raw("2025-05-15T00:00:00Z")},
		{"bad time", raw("yesterday|a")},
		{"empty id", raw("2025-05-15T00:00:00Z|")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := DecodeToken(tt.token)
			assert.Error(t, err)
		})
	}
}
