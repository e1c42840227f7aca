package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every config key; viper treats an empty variable as unset.
func clearEnv(t *testing.T) {
	for _, key := range []string{
		"APP_PORT", "DATABASE_PATH", "ANTHROPIC_API_KEY", "ANTHROPIC_BASE_URL", "ANTHROPIC_VERSION",
		"DEFAULT_MODEL", "SUPPORT_MODEL", "MAX_TOKENS", "INITIAL_SYSTEM_PROMPT", "LOG_LEVEL",
		"COMPARISON_CONCURRENCY", "MAX_UPLOAD_BYTES", "ANALYZE_MAX_CHARS",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		viper.Reset()
		t.Chdir(t.TempDir())
		clearEnv(t)

		cfg, err := LoadConfig()
		require.NoError(t, err)

		assert.Equal(t, 8000, cfg.AppPort)
		assert.Equal(t, "https://api.anthropic.com", cfg.AnthropicBaseURL)
		assert.Equal(t, "2023-06-01", cfg.AnthropicVersion)
		assert.Equal(t, 4096, cfg.MaxTokens)
		assert.Equal(t, 4, cfg.ComparisonConcurrency)
		assert.Equal(t, int64(20<<20), cfg.MaxUploadBytes)
		assert.Equal(t, "INFO", cfg.LogLevel)
	})

	t.Run("Environment overrides defaults", func(t *testing.T) {
		viper.Reset()
		t.Chdir(t.TempDir())
		clearEnv(t)
		t.Setenv("ANTHROPIC_API_KEY", "sk-test")
		t.Setenv("MAX_TOKENS", "1024")
		t.Setenv("LOG_LEVEL", "DEBUG")

		cfg, err := LoadConfig()
		require.NoError(t, err)

		assert.Equal(t, "sk-test", cfg.AnthropicAPIKey)
		assert.Equal(t, 1024, cfg.MaxTokens)
		assert.Equal(t, "DEBUG", cfg.LogLevel)
	})
}
