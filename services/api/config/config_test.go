package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/divelog")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 200, cfg.DefaultLimit)
	assert.Equal(t, defaultGeocoderURL, cfg.GeocoderURL)
	assert.Equal(t, 10*time.Second, cfg.GeocoderTimeout)
	assert.Equal(t, 300*time.Millisecond, cfg.GeocoderDelay)
	assert.Equal(t, 10, cfg.ImportBatchSize)
	assert.Empty(t, cfg.ProbeHosts)
	assert.Equal(t, ":8080", cfg.ListenAddr())
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/divelog")
	t.Setenv("PORT", "9090")
	t.Setenv("GEOCODER_DELAY", "1s")
	t.Setenv("PROBE_HOSTS", "example.com:80, example.org:443 ,")
	t.Setenv("IMPORT_BATCH_SIZE", "25")
	t.Setenv("API_BEARER_TOKEN", "sekrit")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, time.Second, cfg.GeocoderDelay)
	assert.Equal(t, []string{"example.com:80", "example.org:443"}, cfg.ProbeHosts)
	assert.Equal(t, 25, cfg.ImportBatchSize)
	assert.Equal(t, "sekrit", cfg.BearerToken)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/divelog")

	t.Setenv("PORT", "zero")
	_, err := Load()
	assert.Error(t, err)
	t.Setenv("PORT", "")

	t.Setenv("GEOCODER_TIMEOUT", "soon")
	_, err = Load()
	assert.Error(t, err)
}
