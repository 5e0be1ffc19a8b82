package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"PORT", "LOG_LEVEL", "DEBUG", "SERVICE_NAME", "ENVIRONMENT", "NOTION_TOKEN",
	"NOTION_VERSION", "NOTION_BASE_URL", "INTERNAL_WEBHOOK_URL", "UPSTREAM_TIMEOUT",
	"WEBHOOK_TIMEOUT", "MAX_BLOCK_DEPTH", "STRICT_ID_VALIDATION", "WORKER_COUNT",
	"QUEUE_CAPACITY", "ALLOWED_ORIGINS",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "notion-converter", cfg.ServiceName)
	assert.Equal(t, "2022-06-28", cfg.NotionVersion)
	assert.Equal(t, "https://api.notion.com", cfg.NotionBaseURL)
	assert.Empty(t, cfg.NotionToken)
	assert.False(t, cfg.WebhookEnabled())
	assert.Equal(t, 30*time.Second, cfg.UpstreamTimeout)
	assert.Equal(t, 10*time.Second, cfg.WebhookTimeout)
	assert.Equal(t, 3, cfg.MaxBlockDepth)
	assert.True(t, cfg.StrictIDValidation)
	assert.Equal(t, 2, cfg.WorkerCount)
	assert.Equal(t, 100, cfg.QueueCapacity)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.False(t, cfg.Debug)
}

func TestLoadConfig_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "8081")
	t.Setenv("NOTION_TOKEN", "  secret_abc123  ")
	t.Setenv("NOTION_BASE_URL", "http://localhost:9999/")
	t.Setenv("INTERNAL_WEBHOOK_URL", "http://hooks.internal/notion")
	t.Setenv("UPSTREAM_TIMEOUT", "5s")
	t.Setenv("STRICT_ID_VALIDATION", "false")
	t.Setenv("WORKER_COUNT", "0")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8081", cfg.Port)
	assert.Equal(t, "secret_abc123", cfg.NotionToken)
	assert.Equal(t, "http://localhost:9999", cfg.NotionBaseURL)
	assert.True(t, cfg.WebhookEnabled())
	assert.Equal(t, 5*time.Second, cfg.UpstreamTimeout)
	assert.False(t, cfg.StrictIDValidation)
	assert.Equal(t, 1, cfg.WorkerCount)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		key    string
		value  string
		errMsg string
	}{
		{name: "bad timeout", key: "UPSTREAM_TIMEOUT", value: "soon", errMsg: "UPSTREAM_TIMEOUT must be a duration"},
		{name: "negative timeout", key: "WEBHOOK_TIMEOUT", value: "-1s", errMsg: "WEBHOOK_TIMEOUT must be positive"},
		{name: "bad depth", key: "MAX_BLOCK_DEPTH", value: "deep", errMsg: "MAX_BLOCK_DEPTH must be an integer"},
		{name: "bad bool", key: "STRICT_ID_VALIDATION", value: "maybe", errMsg: "STRICT_ID_VALIDATION must be a boolean"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := LoadConfig()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
