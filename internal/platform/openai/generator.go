package openai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/flashforge/flashforge-api/internal/domain"
	"github.com/flashforge/flashforge-api/internal/generation"
	"github.com/flashforge/flashforge-api/internal/platform/logger"
	goopenai "github.com/sashabaranov/go-openai"
)

// Generator implements generation.Generator with chat completions.
type Generator struct {
	client chatClient
	model  string
}

var _ generation.Generator = (*Generator)(nil)

// NewGenerator creates a Generator for model.
func NewGenerator(client chatClient, model string) (*Generator, error) {
	if client == nil {
		return nil, fmt.Errorf("%w: client cannot be nil", generation.ErrInvalidConfig)
	}
	if model == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}
	return &Generator{client: client, model: model}, nil
}

// Generate sends prompt as a single user message and returns the trimmed
// content of the first choice.
func (g *Generator) Generate(
	ctx context.Context,
	prompt domain.PromptMessage,
	cfg generation.ModelConfig,
) (string, error) {
	log := logger.FromContext(ctx)

	req := goopenai.ChatCompletionRequest{
		Model: g.model,
		Messages: []goopenai.ChatCompletionMessage{{
			Role:         goopenai.ChatMessageRoleUser,
			MultiContent: toMessageParts(prompt),
		}},
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxOutputTokens,
	}

	start := time.Now()
	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		if status, msg, ok := apiStatus(err); ok {
			log.WarnContext(ctx, "openai completion rejected",
				slog.Int("status", status),
				slog.Duration("duration", time.Since(start)))
			return "", generation.NewGenerationError(status, msg, err)
		}
		return "", generation.AsGenerationError(ctx, err)
	}

	if len(resp.Choices) == 0 {
		return "", generation.NewGenerationError(generation.InternalStatus, "internal", generation.ErrEmptyResponse)
	}

	choice := resp.Choices[0]
	text := strings.TrimSpace(choice.Message.Content)
	if text == "" && choice.FinishReason == goopenai.FinishReasonContentFilter {
		return "", generation.NewGenerationError(generation.InternalStatus, "content blocked", generation.ErrContentBlocked)
	}

	log.InfoContext(ctx, "openai completion finished",
		slog.String("model", g.model),
		slog.Int("prompt_tokens", resp.Usage.PromptTokens),
		slog.Int("completion_tokens", resp.Usage.CompletionTokens),
		slog.String("finish_reason", string(choice.FinishReason)),
		slog.Duration("duration", time.Since(start)))

	return text, nil
}

func toMessageParts(prompt domain.PromptMessage) []goopenai.ChatMessagePart {
	parts := make([]goopenai.ChatMessagePart, 0, len(prompt.Parts))
	for _, p := range prompt.Parts {
		switch p.Kind {
		case domain.PartImage:
			parts = append(parts, goopenai.ChatMessagePart{
				Type: goopenai.ChatMessagePartTypeImageURL,
				ImageURL: &goopenai.ChatMessageImageURL{
					URL:    p.DataURI,
					Detail: imageDetail(p.Detail),
				},
			})
		default:
			parts = append(parts, goopenai.ChatMessagePart{
				Type: goopenai.ChatMessagePartTypeText,
				Text: p.Text,
			})
		}
	}
	return parts
}

func imageDetail(d domain.DetailLevel) goopenai.ImageURLDetail {
	if d == domain.DetailHigh {
		return goopenai.ImageURLDetailHigh
	}
	return goopenai.ImageURLDetailLow
}
