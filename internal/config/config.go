package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds the bootstrap configuration read from the environment or a .env file.
// Runtime-editable values (system prompt, models) live in the settings table and are
// only seeded from here on first start.
type Config struct {
	AppPort               int    `mapstructure:"APP_PORT"`
	DatabasePath          string `mapstructure:"DATABASE_PATH"`
	AnthropicAPIKey       string `mapstructure:"ANTHROPIC_API_KEY"`
	AnthropicBaseURL      string `mapstructure:"ANTHROPIC_BASE_URL"`
	AnthropicVersion      string `mapstructure:"ANTHROPIC_VERSION"`
	DefaultModel          string `mapstructure:"DEFAULT_MODEL"`
	SupportModel          string `mapstructure:"SUPPORT_MODEL"`
	MaxTokens             int    `mapstructure:"MAX_TOKENS"`
	InitialSystemPrompt   string `mapstructure:"INITIAL_SYSTEM_PROMPT"`
	LogLevel              string `mapstructure:"LOG_LEVEL"`
	ComparisonConcurrency int    `mapstructure:"COMPARISON_CONCURRENCY"`
	MaxUploadBytes        int64  `mapstructure:"MAX_UPLOAD_BYTES"`
	AnalyzeMaxChars       int    `mapstructure:"ANALYZE_MAX_CHARS"`
}

func LoadConfig() (*Config, error) {
	viper.SetDefault("APP_PORT", 8000)
	viper.SetDefault("DATABASE_PATH", "/data/claude-chat.db")
	viper.SetDefault("ANTHROPIC_API_KEY", "")
	viper.SetDefault("ANTHROPIC_BASE_URL", "https://api.anthropic.com")
	viper.SetDefault("ANTHROPIC_VERSION", "2023-06-01")
	viper.SetDefault("DEFAULT_MODEL", "claude-sonnet-4-5")
	viper.SetDefault("SUPPORT_MODEL", "claude-haiku-4-5")
	viper.SetDefault("MAX_TOKENS", 4096)
	viper.SetDefault("INITIAL_SYSTEM_PROMPT", "You are a helpful assistant.")
	viper.SetDefault("LOG_LEVEL", "INFO")
	viper.SetDefault("COMPARISON_CONCURRENCY", 4)
	viper.SetDefault("MAX_UPLOAD_BYTES", 20<<20)
	viper.SetDefault("ANALYZE_MAX_CHARS", 100000)

	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./backend")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
