package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 100, cfg.RateLimitMax)
	assert.Equal(t, time.Hour, cfg.RateLimitWindow)
	assert.Equal(t, 90, cfg.LogRetentionDays)
	require.Len(t, cfg.SigningSecrets, 1)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("LICENSE_HTTP_ADDR", ":9090")
	t.Setenv("LICENSE_SIGNING_SECRETS", "new-secret,old-secret")
	t.Setenv("LICENSE_RATE_LIMIT_MAX", "10")
	t.Setenv("LICENSE_RATE_LIMIT_WINDOW", "30m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, []string{"new-secret", "old-secret"}, cfg.SigningSecrets)
	assert.Equal(t, 10, cfg.RateLimitMax)
	assert.Equal(t, 30*time.Minute, cfg.RateLimitWindow)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("LICENSE_DB_DRIVER", "postgres")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsEmptySigningSecret(t *testing.T) {
	t.Setenv("LICENSE_SIGNING_SECRETS", " ")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsZeroRateLimit(t *testing.T) {
	t.Setenv("LICENSE_RATE_LIMIT_MAX", "0")
	_, err := Load()
	assert.Error(t, err)
}
