package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server        ServerConfig        `mapstructure:"server"        validate:"required"`
	Database      DatabaseConfig      `mapstructure:"database"      validate:"required"`
	Auth          AuthConfig          `mapstructure:"auth"          validate:"required"`
	LLM           LLMConfig           `mapstructure:"llm"           validate:"required"`
	Transcription TranscriptionConfig `mapstructure:"transcription" validate:"required"`
	RateLimit     RateLimitConfig     `mapstructure:"rate_limit"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port      int    `mapstructure:"port"       validate:"required,gt=0,lt=65536"`
	LogLevel  string `mapstructure:"log_level"  validate:"required,oneof=debug info warn error"`
	LogFormat string `mapstructure:"log_format" validate:"required,oneof=json text"`
	// MaxUploadBytes bounds the multipart body of a generation request.
	// Uploaded files are held in memory for the whole request.
	MaxUploadBytes         int64    `mapstructure:"max_upload_bytes"         validate:"required,gt=0"`
	AllowedOrigins         []string `mapstructure:"allowed_origins"`
	ShutdownTimeoutSeconds int      `mapstructure:"shutdown_timeout_seconds" validate:"gte=1"`
}

// ShutdownTimeout returns the graceful shutdown window as a duration.
func (s ServerConfig) ShutdownTimeout() time.Duration {
	return time.Duration(s.ShutdownTimeoutSeconds) * time.Second
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret"             validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
	// TrialDays is the length of the trial window granted at registration.
	TrialDays  int `mapstructure:"trial_days"  validate:"required,gt=0"`
	BcryptCost int `mapstructure:"bcrypt_cost" validate:"required,gte=4,lte=31"`
}

// TrialDuration returns the trial window as a duration.
func (a AuthConfig) TrialDuration() time.Duration {
	return time.Duration(a.TrialDays) * 24 * time.Hour
}

// LLMConfig contains the generation backend settings.
type LLMConfig struct {
	Provider        string  `mapstructure:"provider"          validate:"required,oneof=openai gemini"`
	OpenAIAPIKey    string  `mapstructure:"openai_api_key"    validate:"required_if=Provider openai"`
	OpenAIBaseURL   string  `mapstructure:"openai_base_url"   validate:"omitempty,url"`
	OpenAIModel     string  `mapstructure:"openai_model"      validate:"required_if=Provider openai"`
	GeminiAPIKey    string  `mapstructure:"gemini_api_key"    validate:"required_if=Provider gemini"`
	GeminiModel     string  `mapstructure:"gemini_model"      validate:"required_if=Provider gemini"`
	Temperature     float32 `mapstructure:"temperature"       validate:"gte=0,lte=2"`
	MaxOutputTokens int     `mapstructure:"max_output_tokens" validate:"required,gt=0"`
	// ImageDetail trades cost and latency against image fidelity.
	ImageDetail    string `mapstructure:"image_detail"    validate:"required,oneof=low high"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" validate:"required,gt=0"`
}

// Timeout returns the per-call generation timeout.
func (l LLMConfig) Timeout() time.Duration {
	return time.Duration(l.TimeoutSeconds) * time.Second
}

// TranscriptionConfig contains the speech-to-text backend settings.
// Credentials are shared with LLMConfig for the same provider.
type TranscriptionConfig struct {
	Provider       string `mapstructure:"provider"        validate:"required,oneof=openai gemini"`
	Model          string `mapstructure:"model"           validate:"required"`
	Language       string `mapstructure:"language"        validate:"omitempty,len=2"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" validate:"required,gt=0"`
}

// Timeout returns the per-call transcription timeout.
func (t TranscriptionConfig) Timeout() time.Duration {
	return time.Duration(t.TimeoutSeconds) * time.Second
}

// RateLimitConfig configures the optional Redis-backed limiter on the
// generation endpoint. An empty RedisURL disables it.
type RateLimitConfig struct {
	RedisURL          string `mapstructure:"redis_url"           validate:"omitempty,url"`
	RequestsPerMinute int    `mapstructure:"requests_per_minute" validate:"gte=0"`
}

// Enabled reports whether rate limiting should be wired.
func (r RateLimitConfig) Enabled() bool {
	return r.RedisURL != "" && r.RequestsPerMinute > 0
}
