package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

// EnvPrefix is prepended to every environment variable the loader reads,
// e.g. FLASHFORGE_LLM_OPENAI_API_KEY for llm.openai_api_key.
const EnvPrefix = "FLASHFORGE"

// defaults lists every known key. Viper only resolves environment variables
// for keys it already knows about, so required keys are registered with
// zero values too.
var defaults = map[string]interface{}{
	"server.port":                     8080,
	"server.log_level":                "info",
	"server.log_format":               "json",
	"server.max_upload_bytes":         int64(25 << 20),
	"server.allowed_origins":          []string{"*"},
	"server.shutdown_timeout_seconds": 10,

	"database.url": "",

	"auth.jwt_secret":             "",
	"auth.token_lifetime_minutes": 1440,
	"auth.trial_days":             30,
	"auth.bcrypt_cost":            bcrypt.DefaultCost,

	"llm.provider":          "openai",
	"llm.openai_api_key":    "",
	"llm.openai_base_url":   "",
	"llm.openai_model":      "gpt-4o",
	"llm.gemini_api_key":    "",
	"llm.gemini_model":      "gemini-2.0-flash",
	"llm.temperature":       0.7,
	"llm.max_output_tokens": 1500,
	"llm.image_detail":      "low",
	"llm.timeout_seconds":   60,

	"transcription.provider":        "openai",
	"transcription.model":           "whisper-1",
	"transcription.language":        "",
	"transcription.timeout_seconds": 60,

	"rate_limit.redis_url":           "",
	"rate_limit.requests_per_minute": 10,
}

// Load configuration from environment variables and optionally a config file.
// A .env file in the working directory is loaded first when present; it never
// overrides variables that are already set. Environment variables take
// precedence over values from the config file.
// Returns a populated Config struct or an error if loading/validation fails.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the struct tags on cfg.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}
