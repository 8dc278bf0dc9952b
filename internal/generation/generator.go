package generation

import (
	"context"

	"github.com/flashforge/flashforge-api/internal/domain"
)

// ModelConfig carries the sampling settings for one generation call.
type ModelConfig struct {
	// Temperature controls randomness; 0.7 is a good default for study cards.
	Temperature float32
	// MaxOutputTokens caps the length of the completion.
	MaxOutputTokens int
}

// DefaultModelConfig returns the recommended sampling settings.
func DefaultModelConfig() ModelConfig {
	return ModelConfig{Temperature: 0.7, MaxOutputTokens: 1500}
}

// Generator invokes a multimodal completion backend.
type Generator interface {
	// Generate sends prompt to the backend once, without streaming or retries,
	// and returns the trimmed text of the top completion choice.
	// Failures are returned as *GenerationError.
	Generate(ctx context.Context, prompt domain.PromptMessage, cfg ModelConfig) (string, error)
}

// Transcriber converts recorded audio to text.
type Transcriber interface {
	// Transcribe returns the recognized text verbatim. Failures are returned
	// as *TranscriptionError and are never retried.
	Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error)
}
