package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("BLACKBUY_TYPESENSE_HOST", "search.example.com")
	t.Setenv("BLACKBUY_TYPESENSE_API_KEY", "test-key")
	t.Setenv("BLACKBUY_BACKEND_BASE_URL", "https://api.example.com")
}

func TestLoadFromEnvironment(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "https://search.example.com", cfg.Typesense.Host)
	assert.Equal(t, "test-key", cfg.Typesense.APIKey)
	assert.Equal(t, "https://api.example.com", cfg.Backend.BaseURL)
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.Environment)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "products", cfg.Typesense.Collection)
	assert.Equal(t, "memory", cfg.Cache.Type)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, 50, cfg.Catalog.PageSize)
	assert.Equal(t, 5*time.Minute, cfg.Catalog.Freshness)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("BLACKBUY_SERVER_PORT", "9090")
	t.Setenv("BLACKBUY_TYPESENSE_COLLECTION", "products_v2")
	t.Setenv("BLACKBUY_LOG_FORMAT", "json")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "products_v2", cfg.Typesense.Collection)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadMissingCredentials(t *testing.T) {
	tests := []struct {
		name string
		omit string
	}{
		{"missing host", "BLACKBUY_TYPESENSE_HOST"},
		{"missing api key", "BLACKBUY_TYPESENSE_API_KEY"},
		{"missing backend url", "BLACKBUY_BACKEND_BASE_URL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(tt.omit, "")

			cfg, err := Load()
			require.Error(t, err)

			// The partial config still comes back so the server can
			// start in degraded mode.
			assert.NotNil(t, cfg)
		})
	}
}

func TestLoadRedisRequiresURL(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("BLACKBUY_CACHE_TYPE", "redis")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Redis URL")

	t.Setenv("BLACKBUY_CACHE_REDIS_URL", "redis://localhost:6379/0")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "redis", cfg.Cache.Type)
}

func TestLoadRejectsUnknownCacheType(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("BLACKBUY_CACHE_TYPE", "memcached")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cache type")
}

func TestEnsureHTTPS(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty passes through", "", ""},
		{"https untouched", "https://host.example.com", "https://host.example.com"},
		{"http upgraded", "http://host.example.com", "https://host.example.com"},
		{"bare host prefixed", "host.example.com", "https://host.example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ensureHTTPS(tt.input))
		})
	}
}
