package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "DATABASE_URL", "JWT_SECRET", "JWT_REFRESH_SECRET", "JWT_EXPIRE", "JWT_REFRESH_EXPIRE", "LOGIN_RATE_LIMIT", "STORE_TIMEOUT", "SWEEP_INTERVAL", "MINIO_BUCKET"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, 5000, cfg.Port)
	assert.Equal(t, 15*time.Minute, cfg.JWTExpire)
	assert.Equal(t, 7*24*time.Hour, cfg.JWTRefreshExpire)
	assert.Equal(t, 5*time.Second, cfg.StoreTimeout)
	assert.Equal(t, time.Hour, cfg.SweepInterval)
	assert.Equal(t, 10, cfg.LoginRateLimit)
	assert.Equal(t, "property-images", cfg.MinioBucket)
	assert.Len(t, cfg.JWTSecret, 32)
	assert.Len(t, cfg.JWTRefreshSecret, 32)
	assert.NotEqual(t, cfg.JWTSecret, cfg.JWTRefreshSecret)
	assert.ErrorIs(t, cfg.RequireDatabase(), ErrMissingDatabaseURL)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("DATABASE_URL", "postgres://localhost/rentalhub")
	t.Setenv("JWT_SECRET", "access")
	t.Setenv("JWT_EXPIRE", "30m")
	t.Setenv("STORE_TIMEOUT", "2s")
	t.Setenv("MINIO_USE_SSL", "true")

	cfg := Load()

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "access", cfg.JWTSecret)
	assert.Equal(t, 30*time.Minute, cfg.JWTExpire)
	assert.Equal(t, 2*time.Second, cfg.StoreTimeout)
	assert.True(t, cfg.MinioUseSSL)
	require.NoError(t, cfg.RequireDatabase())
}
