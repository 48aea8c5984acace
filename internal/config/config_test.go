package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/prospecting")
	t.Setenv("PROSPECTING_TIMEZONE", "UTC")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, 40, cfg.DailyCap)
	assert.Equal(t, 15*time.Minute, cfg.Pacing)
	assert.Equal(t, 20, cfg.MinYield)
	assert.Equal(t, 3, cfg.MaxPages)
	assert.Equal(t, 2*time.Second, cfg.PageDelay)
	assert.Equal(t, time.Second, cfg.FailureDelay)
	assert.Equal(t, 30*time.Second, cfg.HTTPClientTimeout)
	assert.Equal(t, 587, cfg.MailPort)
	assert.Equal(t, "UTC", cfg.Timezone.String())
	assert.False(t, cfg.TrustProxyHeaders)
	assert.Empty(t, cfg.Warnings)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/prospecting")
	t.Setenv("PROSPECTING_TIMEZONE", "UTC")
	t.Setenv("PROSPECTING_DAILY_CAP", "25")
	t.Setenv("PROSPECTING_PACING", "20m")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("TRUST_PROXY_HEADERS", "true")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 25, cfg.DailyCap)
	assert.Equal(t, 20*time.Minute, cfg.Pacing)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.True(t, cfg.TrustProxyHeaders)
}

func TestLoadConfig_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/prospecting")
	t.Setenv("PROSPECTING_TIMEZONE", "UTC")
	t.Setenv("PROSPECTING_DAILY_CAP", "muitos")
	t.Setenv("PROSPECTING_PACING", "soon")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 40, cfg.DailyCap)
	assert.Equal(t, 15*time.Minute, cfg.Pacing)
	assert.Len(t, cfg.Warnings, 2)
}

func TestLoadConfig_RequiresDatabase(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("PROSPECTING_TIMEZONE", "UTC")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfig_BadTimezone(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/prospecting")
	t.Setenv("PROSPECTING_TIMEZONE", "Mars/Olympus")

	_, err := LoadConfig()
	assert.Error(t, err)
}
