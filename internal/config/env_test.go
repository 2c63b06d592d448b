package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://api.medescala.test")
	t.Setenv("API_TOKEN", "tok-123")
	t.Setenv("API_REQUEST_TIMEOUT", "20s")
	t.Setenv("SYNC_MIN_RELOAD_INTERVAL", "2s")
	t.Setenv("SYNC_SEARCH_DEBOUNCE", "300ms")
	t.Setenv("SYNC_FILTER_DEBOUNCE", "1s")
	t.Setenv("SYNC_REFRESH_INTERVAL", "10m")
	t.Setenv("CACHE_DSN", "/tmp/shiftsync.db")
	t.Setenv("CACHE_TTL", "720h")
	t.Setenv("CONFIG", "/etc/shiftsync.json")

	var cfg StructuredConfig
	require.NoError(t, parseEnv(&cfg))

	assert.Equal(t, "https://api.medescala.test", cfg.API.BaseURL)
	assert.Equal(t, "tok-123", cfg.API.Token)
	assert.Equal(t, 20*time.Second, cfg.API.RequestTimeout)
	assert.Equal(t, 2*time.Second, cfg.Sync.MinReloadInterval)
	assert.Equal(t, 300*time.Millisecond, cfg.Sync.SearchDebounce)
	assert.Equal(t, time.Second, cfg.Sync.FilterDebounce)
	assert.Equal(t, 10*time.Minute, cfg.Sync.RefreshInterval)
	assert.Equal(t, "/tmp/shiftsync.db", cfg.Cache.DSN)
	assert.Equal(t, 720*time.Hour, cfg.Cache.TTL)
	assert.Equal(t, "/etc/shiftsync.json", cfg.JSONFilePath)
}

func TestParseEnv_InvalidDuration(t *testing.T) {
	t.Setenv("API_REQUEST_TIMEOUT", "not-a-duration")

	var cfg StructuredConfig
	require.Error(t, parseEnv(&cfg))
}
