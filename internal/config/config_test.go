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

	assert.Equal(t, "5000", cfg.HTTPPort)
	assert.Equal(t, time.Hour, cfg.SweepInterval)
	assert.True(t, cfg.SweeperEnabled)
	assert.False(t, cfg.AdminAuthEnabled)
	assert.Empty(t, cfg.JWTSigningKey)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.False(t, cfg.CloudinaryConfigured())
	assert.False(t, cfg.Production())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("SWEEP_INTERVAL", "15m")
	t.Setenv("SWEEPER_ENABLED", "false")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("CLOUDINARY_CLOUD_NAME", "demo")
	t.Setenv("CLOUDINARY_API_KEY", "key")
	t.Setenv("CLOUDINARY_API_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.Production())
	assert.Equal(t, "9000", cfg.HTTPPort)
	assert.Equal(t, 15*time.Minute, cfg.SweepInterval)
	assert.False(t, cfg.SweeperEnabled)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.True(t, cfg.CloudinaryConfigured())
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("SWEEP_INTERVAL", "soon")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsNonPositiveInterval(t *testing.T) {
	t.Setenv("SWEEP_INTERVAL", "0s")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoadAdminAuthNeedsRealKey(t *testing.T) {
	t.Setenv("ADMIN_AUTH_ENABLED", "true")

	_, err := Load()
	assert.Error(t, err, "no key")

	t.Setenv("JWT_SIGNING_KEY", placeholderSigningKey)
	_, err = Load()
	assert.Error(t, err, "placeholder key")

	t.Setenv("JWT_SIGNING_KEY", "f3c1a9e07b2d4c55")
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.AdminAuthEnabled)
	assert.Equal(t, "f3c1a9e07b2d4c55", cfg.JWTSigningKey)
}
