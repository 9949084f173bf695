package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateLicenseKeyFormat(t *testing.T) {
	key, err := GenerateLicenseKey()
	require.NoError(t, err)

	assert.Len(t, key, 19)
	assert.True(t, IsValidLicenseKeyFormat(key), "generated key %q should match the format", key)

	parts := strings.Split(key, "-")
	require.Len(t, parts, 4)
	for _, part := range parts {
		assert.Len(t, part, 4)
		for _, ch := range part {
			assert.Contains(t, licenseKeyAlphabet, string(ch))
		}
	}
}

func TestGenerateLicenseKeyUniqueness(t *testing.T) {
	seen := make(map[string]bool, 10000)
	for i := 0; i < 10000; i++ {
		key, err := GenerateLicenseKey()
		require.NoError(t, err)
		require.False(t, seen[key], "duplicate key %q after %d generations", key, i)
		seen[key] = true
	}
}

func TestGenerateLicenseKeyWithFormat(t *testing.T) {
	key, err := GenerateLicenseKeyWithFormat(2, 6)
	require.NoError(t, err)
	assert.Len(t, key, 13) // 6 + 1 + 6

	_, err = GenerateLicenseKeyWithFormat(0, 4)
	assert.Error(t, err)

	_, err = GenerateLicenseKeyWithFormat(4, 0)
	assert.Error(t, err)
}

func TestIsValidLicenseKeyFormat(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		valid bool
	}{
		{"valid key", "ABCD-1234-EFGH-5678", true},
		{"all letters", "ABCD-EFGH-IJKL-MNOP", true},
		{"all digits", "0123-4567-8901-2345", true},
		{"lowercase", "abcd-1234-efgh-5678", false},
		{"too short segment", "ABC-1234-EFGH-5678", false},
		{"too few segments", "ABCD-1234-EFGH", false},
		{"too many segments", "ABCD-1234-EFGH-5678-9012", false},
		{"no hyphens", "ABCD1234EFGH5678", false},
		{"empty", "", false},
		{"special characters", "AB!D-1234-EFGH-5678", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, IsValidLicenseKeyFormat(tt.key))
		})
	}
}

func TestGenerateID(t *testing.T) {
	id, err := GenerateID("lic")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(id, "lic-"))

	plain, err := GenerateID("")
	require.NoError(t, err)
	assert.Len(t, plain, 16)
	assert.NotContains(t, plain, "-")
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret-password")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-password", hash)

	assert.True(t, CheckPassword(hash, "s3cret-password"))
	assert.False(t, CheckPassword(hash, "wrong-password"))
	assert.False(t, CheckPassword("not-a-hash", "s3cret-password"))
}
