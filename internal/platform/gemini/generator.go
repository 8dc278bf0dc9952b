package gemini

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/flashforge/flashforge-api/internal/domain"
	"github.com/flashforge/flashforge-api/internal/generation"
	"github.com/flashforge/flashforge-api/internal/platform/logger"
	"google.golang.org/genai"
)

// Generator implements generation.Generator with GenerateContent.
type Generator struct {
	client modelsClient
	model  string
}

var _ generation.Generator = (*Generator)(nil)

// NewGenerator creates a Generator for model.
func NewGenerator(client modelsClient, model string) (*Generator, error) {
	if client == nil {
		return nil, fmt.Errorf("%w: client cannot be nil", generation.ErrInvalidConfig)
	}
	if model == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}
	return &Generator{client: client, model: model}, nil
}

// Generate sends prompt as a single user turn and returns the trimmed text
// of the first candidate.
func (g *Generator) Generate(
	ctx context.Context,
	prompt domain.PromptMessage,
	cfg generation.ModelConfig,
) (string, error) {
	log := logger.FromContext(ctx)

	content, resolution, err := toContent(prompt)
	if err != nil {
		return "", generation.NewGenerationError(generation.InternalStatus, "internal", err)
	}

	genConfig := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(cfg.Temperature),
		MaxOutputTokens: int32(cfg.MaxOutputTokens),
		MediaResolution: resolution,
	}

	start := time.Now()
	resp, err := g.client.GenerateContent(ctx, g.model, []*genai.Content{content}, genConfig)
	if err != nil {
		if status, msg, ok := apiStatus(err); ok {
			log.WarnContext(ctx, "gemini generation rejected",
				slog.Int("status", status),
				slog.Duration("duration", time.Since(start)))
			return "", generation.NewGenerationError(status, msg, err)
		}
		return "", generation.AsGenerationError(ctx, err)
	}

	text, blocked, err := responseText(resp)
	if err != nil {
		return "", generation.NewGenerationError(generation.InternalStatus, "internal", err)
	}
	if blocked {
		return "", generation.NewGenerationError(generation.InternalStatus, "content blocked", generation.ErrContentBlocked)
	}

	log.InfoContext(ctx, "gemini generation finished",
		slog.String("model", g.model),
		slog.Int("response_length", len(text)),
		slog.Duration("duration", time.Since(start)))

	return strings.TrimSpace(text), nil
}

// toContent converts prompt into a user Content. Image parts are decoded
// from their data URIs into inline blobs. The returned resolution follows
// the highest detail level requested by any image.
func toContent(prompt domain.PromptMessage) (*genai.Content, genai.MediaResolution, error) {
	var resolution genai.MediaResolution
	parts := make([]*genai.Part, 0, len(prompt.Parts))

	for _, p := range prompt.Parts {
		if p.Kind != domain.PartImage {
			parts = append(parts, &genai.Part{Text: p.Text})
			continue
		}

		mimeType, data, err := decodeDataURI(p.DataURI)
		if err != nil {
			return nil, "", err
		}
		parts = append(parts, &genai.Part{InlineData: &genai.Blob{Data: data, MIMEType: mimeType}})

		if p.Detail == domain.DetailHigh {
			resolution = genai.MediaResolutionHigh
		} else if resolution == "" {
			resolution = genai.MediaResolutionLow
		}
	}

	return &genai.Content{Role: genai.RoleUser, Parts: parts}, resolution, nil
}

// decodeDataURI splits a "data:<mime>;base64,<payload>" URI.
func decodeDataURI(uri string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return "", nil, fmt.Errorf("image part is not a data URI")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, fmt.Errorf("image data URI has no payload")
	}
	mimeType, ok := strings.CutSuffix(meta, ";base64")
	if !ok {
		return "", nil, fmt.Errorf("image data URI is not base64 encoded")
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("failed to decode image data URI: %w", err)
	}
	return mimeType, data, nil
}
