package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/flashforge/flashforge-api/internal/config"
	"github.com/flashforge/flashforge-api/internal/platform/logger"
	"github.com/flashforge/flashforge-api/internal/platform/postgres"
)

// commandContext lazily loads configuration and the logger shared by all
// subcommands. hash-password never touches it.
type commandContext struct {
	configFlag   *string
	logLevelFlag *string

	once   sync.Once
	config *config.Config
	logger *slog.Logger
	err    error
}

func newCommandContext(configFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, *slog.Logger, error) {
	c.once.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}

		cfg, err := config.Load(path)
		if err != nil {
			c.err = fmt.Errorf("failed to load configuration: %w", err)
			return
		}
		if c.logLevelFlag != nil && *c.logLevelFlag != "" {
			cfg.Server.LogLevel = strings.ToLower(strings.TrimSpace(*c.logLevelFlag))
		}

		log, err := logger.Setup(cfg.Server)
		if err != nil {
			c.err = fmt.Errorf("failed to set up logger: %w", err)
			return
		}

		log.Debug("configuration loaded",
			slog.Int("port", cfg.Server.Port),
			slog.String("log_level", cfg.Server.LogLevel),
			slog.String("llm_provider", cfg.LLM.Provider),
			slog.String("transcription_provider", cfg.Transcription.Provider),
			slog.Bool("rate_limit", cfg.RateLimit.Enabled()))

		c.config = cfg
		c.logger = log
	})
	return c.config, c.logger, c.err
}

// openDatabase loads configuration and connects to the account database.
// The caller owns the returned handle.
func (c *commandContext) openDatabase(ctx context.Context) (*config.Config, *slog.Logger, *sql.DB, error) {
	cfg, log, err := c.ensureConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	db, err := postgres.Open(ctx, cfg.Database.URL, log)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, log, db, nil
}
