package flashcards

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/flashforge/flashforge-api/internal/domain"
	"github.com/flashforge/flashforge-api/internal/generation"
	"github.com/flashforge/flashforge-api/internal/platform/logger"
	"github.com/flashforge/flashforge-api/internal/prompt"
)

// EmptyMessage is returned alongside an empty card list.
const EmptyMessage = generation.NoFlashcardsSentinel

// Result is the outcome of a successful pipeline run. Empty results are not
// errors: the model simply found nothing worth a card.
type Result struct {
	Flashcards []domain.Flashcard
	Empty      bool
	Message    string
	Source     domain.SourceKind
}

// Config wires the pipeline.
type Config struct {
	Generator   generation.Generator
	Transcriber generation.Transcriber
	Model       generation.ModelConfig
	ImageDetail domain.DetailLevel

	// Zero timeouts leave the calls bounded only by the request context.
	GenerationTimeout    time.Duration
	TranscriptionTimeout time.Duration
}

// Service runs the flashcard pipeline.
type Service struct {
	normalizer *prompt.Normalizer
	generator  generation.Generator
	model      generation.ModelConfig
	timeout    time.Duration
}

// NewService validates cfg and builds a Service.
func NewService(cfg Config) (*Service, error) {
	if cfg.Generator == nil {
		return nil, fmt.Errorf("%w: generator cannot be nil", generation.ErrInvalidConfig)
	}
	if cfg.Transcriber == nil {
		return nil, fmt.Errorf("%w: transcriber cannot be nil", generation.ErrInvalidConfig)
	}
	if cfg.Model.MaxOutputTokens <= 0 {
		return nil, fmt.Errorf("%w: max output tokens must be positive", generation.ErrInvalidConfig)
	}

	detail := cfg.ImageDetail
	if detail == "" {
		detail = domain.DetailLow
	}

	normalizer, err := prompt.NewNormalizer(
		&boundedTranscriber{next: cfg.Transcriber, timeout: cfg.TranscriptionTimeout},
		detail,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", generation.ErrInvalidConfig, err)
	}

	return &Service{
		normalizer: normalizer,
		generator:  cfg.Generator,
		model:      cfg.Model,
		timeout:    cfg.GenerationTimeout,
	}, nil
}

// Generate runs the pipeline for sub.
//
// Errors:
//   - domain.ErrValidation (wrapping ErrNoInput or ErrEmptyMedia) before any external call
//   - *generation.TranscriptionError when the audio could not be transcribed
//   - *generation.GenerationError when the completion backend failed
func (s *Service) Generate(ctx context.Context, sub domain.Submission) (*Result, error) {
	log := logger.FromContext(ctx)

	src, err := sub.Primary()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	message, err := s.normalizer.NormalizeAndBuild(ctx, sub)
	if err != nil {
		return nil, err
	}

	raw, err := s.generate(ctx, message)
	if err != nil {
		genErr := generation.AsGenerationError(ctx, err)
		log.ErrorContext(ctx, "flashcard generation failed",
			slog.Int("status", genErr.Status),
			slog.String("source", string(src.Kind)),
			slog.Duration("duration", time.Since(start)))
		return nil, genErr
	}

	cards, empty := generation.ParseFlashcards(raw)
	result := &Result{Flashcards: cards, Empty: empty, Source: src.Kind}
	if empty {
		result.Message = EmptyMessage
	}

	degenerate := 0
	for _, c := range cards {
		if c.Degenerate() {
			degenerate++
		}
	}

	log.InfoContext(ctx, "flashcards generated",
		slog.String("source", string(src.Kind)),
		slog.Int("card_count", len(cards)),
		slog.Int("degenerate_count", degenerate),
		slog.Bool("empty", empty),
		slog.Duration("duration", time.Since(start)))

	return result, nil
}

func (s *Service) generate(ctx context.Context, message domain.PromptMessage) (string, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	raw, err := s.generator.Generate(ctx, message, s.model)
	if err != nil {
		return "", generation.AsGenerationError(ctx, err)
	}
	return raw, nil
}

// boundedTranscriber applies the transcription timeout to every call.
type boundedTranscriber struct {
	next    generation.Transcriber
	timeout time.Duration
}

func (b *boundedTranscriber) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	if b.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}

	text, err := b.next.Transcribe(ctx, audio, mimeType)
	if err != nil {
		return "", generation.AsTranscriptionError(ctx, err)
	}
	return text, nil
}

// IsValidation reports whether err is a client-fixable input problem.
func IsValidation(err error) bool {
	return errors.Is(err, domain.ErrValidation)
}
