package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/flashforge/flashforge-api/internal/api"
	apiMiddleware "github.com/flashforge/flashforge-api/internal/api/middleware"
	"github.com/flashforge/flashforge-api/internal/config"
	"github.com/flashforge/flashforge-api/internal/domain"
	"github.com/flashforge/flashforge-api/internal/generation"
	"github.com/flashforge/flashforge-api/internal/platform/gemini"
	"github.com/flashforge/flashforge-api/internal/platform/openai"
	"github.com/flashforge/flashforge-api/internal/platform/postgres"
	"github.com/flashforge/flashforge-api/internal/platform/redis"
	"github.com/flashforge/flashforge-api/internal/service"
	"github.com/flashforge/flashforge-api/internal/service/access"
	"github.com/flashforge/flashforge-api/internal/service/auth"
	"github.com/flashforge/flashforge-api/internal/service/flashcards"
	goredis "github.com/redis/go-redis/v9"
	goopenai "github.com/sashabaranov/go-openai"
	"google.golang.org/genai"
)

// Provider names accepted by llm.provider and transcription.provider.
const (
	providerOpenAI = "openai"
	providerGemini = "gemini"
)

// application holds the shared dependencies of the server and takes care of
// releasing them on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB
	redis  *goredis.Client

	tokens     auth.JWTService
	accounts   service.AccountService
	gate       apiMiddleware.AccessChecker
	flashcards api.FlashcardGenerator

	// limiter is nil when rate limiting is disabled.
	limiter apiMiddleware.Limiter
}

// newApplication wires every service on top of an open database.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.tokens, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		slog.Int("token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes))

	accountStore := postgres.NewPostgresAccountStore(db)
	app.accounts = service.NewAccountService(
		accountStore,
		auth.NewBcryptHasher(cfg.Auth.BcryptCost),
		app.tokens,
		cfg.Auth.TrialDuration(),
		logger,
	)
	app.gate = access.NewGate(app.tokens, accountStore, time.Now)

	generator, transcriber, err := newBackends(ctx, cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("AI backends initialized",
		slog.String("llm_provider", cfg.LLM.Provider),
		slog.String("transcription_provider", cfg.Transcription.Provider))

	app.flashcards, err = newFlashcardService(cfg, generator, transcriber)
	if err != nil {
		return nil, err
	}

	if cfg.RateLimit.Enabled() {
		app.redis, err = redis.Connect(ctx, cfg.RateLimit.RedisURL, logger)
		if err != nil {
			app.cleanup()
			return nil, fmt.Errorf("failed to connect rate limiter: %w", err)
		}
		app.limiter, err = redis.NewFixedWindowLimiter(app.redis, cfg.RateLimit.RequestsPerMinute, time.Minute)
		if err != nil {
			app.cleanup()
			return nil, fmt.Errorf("failed to create rate limiter: %w", err)
		}
		logger.Info("rate limiting enabled",
			slog.Int("requests_per_minute", cfg.RateLimit.RequestsPerMinute))
	}

	logger.Info("application initialized successfully")
	return app, nil
}

// newFlashcardService builds the generation pipeline from the llm settings.
func newFlashcardService(
	cfg *config.Config,
	generator generation.Generator,
	transcriber generation.Transcriber,
) (*flashcards.Service, error) {
	detail, err := domain.ParseDetailLevel(cfg.LLM.ImageDetail)
	if err != nil {
		return nil, err
	}
	svc, err := flashcards.NewService(flashcards.Config{
		Generator:   generator,
		Transcriber: transcriber,
		Model: generation.ModelConfig{
			Temperature:     cfg.LLM.Temperature,
			MaxOutputTokens: cfg.LLM.MaxOutputTokens,
		},
		ImageDetail:          detail,
		GenerationTimeout:    cfg.LLM.Timeout(),
		TranscriptionTimeout: cfg.Transcription.Timeout(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create flashcard service: %w", err)
	}
	return svc, nil
}

// newBackends selects the generation and transcription adapters. SDK clients
// are created at most once per provider.
func newBackends(ctx context.Context, cfg *config.Config) (generation.Generator, generation.Transcriber, error) {
	var (
		openaiClient *goopenai.Client
		geminiModels *genai.Models
	)
	openaiFor := func() (*goopenai.Client, error) {
		if openaiClient == nil {
			c, err := openai.NewClient(cfg.LLM)
			if err != nil {
				return nil, err
			}
			openaiClient = c
		}
		return openaiClient, nil
	}
	geminiFor := func() (*genai.Models, error) {
		if geminiModels == nil {
			m, err := gemini.NewClient(ctx, cfg.LLM)
			if err != nil {
				return nil, err
			}
			geminiModels = m
		}
		return geminiModels, nil
	}

	var generator generation.Generator
	switch cfg.LLM.Provider {
	case providerOpenAI:
		client, err := openaiFor()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize LLM generator: %w", err)
		}
		if generator, err = openai.NewGenerator(client, cfg.LLM.OpenAIModel); err != nil {
			return nil, nil, fmt.Errorf("failed to initialize LLM generator: %w", err)
		}
	case providerGemini:
		models, err := geminiFor()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize LLM generator: %w", err)
		}
		if generator, err = gemini.NewGenerator(models, cfg.LLM.GeminiModel); err != nil {
			return nil, nil, fmt.Errorf("failed to initialize LLM generator: %w", err)
		}
	default:
		return nil, nil, fmt.Errorf("%w: unknown llm provider %q", generation.ErrInvalidConfig, cfg.LLM.Provider)
	}

	var transcriber generation.Transcriber
	switch cfg.Transcription.Provider {
	case providerOpenAI:
		client, err := openaiFor()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize transcriber: %w", err)
		}
		if transcriber, err = openai.NewTranscriber(client, cfg.Transcription.Model, cfg.Transcription.Language); err != nil {
			return nil, nil, fmt.Errorf("failed to initialize transcriber: %w", err)
		}
	case providerGemini:
		models, err := geminiFor()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize transcriber: %w", err)
		}
		model := geminiTranscriptionModel(cfg)
		if transcriber, err = gemini.NewTranscriber(models, model, cfg.Transcription.Language); err != nil {
			return nil, nil, fmt.Errorf("failed to initialize transcriber: %w", err)
		}
	default:
		return nil, nil, fmt.Errorf("%w: unknown transcription provider %q",
			generation.ErrInvalidConfig, cfg.Transcription.Provider)
	}

	return generator, transcriber, nil
}

// geminiTranscriptionModel falls back to the generation model when the
// transcription model is left at the Whisper default.
func geminiTranscriptionModel(cfg *config.Config) string {
	if cfg.Transcription.Model == "" || cfg.Transcription.Model == goopenai.Whisper1 {
		return cfg.LLM.GeminiModel
	}
	return cfg.Transcription.Model
}

// Run serves HTTP until ctx is canceled or the server fails.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup releases external connections.
func (app *application) cleanup() {
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("error closing redis connection", slog.Any("error", err))
		}
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", slog.Any("error", err))
		}
	}
	app.logger.Info("application shutdown completed")
}
