package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kitconfig "github.com/shouni/go-storybook-kit/pkg/config"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, key := range []string{
		"STORYBOOK_API_URL", "STORYBOOK_STORE", "STORYBOOK_DATA_DIR", "STORYBOOK_OUTPUT_DIR",
		"REDIS_ADDR", "REDIS_DB", "STORYBOOK_HTTP_TIMEOUT", "STORYBOOK_RATE_INTERVAL", "STORYBOOK_LOG_LEVEL",
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	cfg := LoadConfig()
	assert.Equal(t, kitconfig.DefaultConfig(), cfg.Kit)
	assert.Equal(t, DefaultLogLevel, cfg.Options.LogLevel)
}

func TestLoadConfig_Env(t *testing.T) {
	t.Setenv("STORYBOOK_API_URL", "https://storybook.example.com")
	t.Setenv("STORYBOOK_STORE", "redis")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("STORYBOOK_HTTP_TIMEOUT", "90s")
	t.Setenv("STORYBOOK_RATE_INTERVAL", "2s")

	cfg := LoadConfig()
	assert.Equal(t, "https://storybook.example.com", cfg.Kit.BaseURL)
	assert.Equal(t, "redis", cfg.Kit.StoreBackend)
	assert.Equal(t, "localhost:6379", cfg.Kit.RedisAddr)
	assert.Equal(t, 2, cfg.Kit.RedisDB)
	assert.Equal(t, 90*time.Second, cfg.Kit.RequestTimeout)
	assert.Equal(t, 2*time.Second, cfg.Kit.RateInterval)
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	t.Setenv("REDIS_DB", "zero")
	t.Setenv("STORYBOOK_HTTP_TIMEOUT", "soon")
	t.Setenv("STORYBOOK_RATE_INTERVAL", "-1s")

	cfg := LoadConfig()
	assert.Equal(t, 0, cfg.Kit.RedisDB)
	assert.Equal(t, DefaultHTTPTimeout, cfg.Kit.RequestTimeout)
	assert.Equal(t, time.Duration(0), cfg.Kit.RateInterval)
}
