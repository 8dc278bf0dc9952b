package openai

import (
	"context"
	"errors"
	"fmt"

	"github.com/flashforge/flashforge-api/internal/config"
	"github.com/flashforge/flashforge-api/internal/generation"
	goopenai "github.com/sashabaranov/go-openai"
)

// chatClient is the subset of *goopenai.Client used by Generator.
type chatClient interface {
	CreateChatCompletion(ctx context.Context, req goopenai.ChatCompletionRequest) (goopenai.ChatCompletionResponse, error)
}

// audioClient is the subset of *goopenai.Client used by Transcriber.
type audioClient interface {
	CreateTranscription(ctx context.Context, req goopenai.AudioRequest) (goopenai.AudioResponse, error)
}

// NewClient builds an SDK client from the llm settings.
func NewClient(cfg config.LLMConfig) (*goopenai.Client, error) {
	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("%w: openai api key cannot be empty", generation.ErrInvalidConfig)
	}
	clientConfig := goopenai.DefaultConfig(cfg.OpenAIAPIKey)
	if cfg.OpenAIBaseURL != "" {
		clientConfig.BaseURL = cfg.OpenAIBaseURL
	}
	return goopenai.NewClientWithConfig(clientConfig), nil
}

// apiStatus extracts the HTTP status and message from an SDK error.
// ok is false when the error carries no structured status.
func apiStatus(err error) (status int, message string, ok bool) {
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode != 0 {
		return apiErr.HTTPStatusCode, apiErr.Message, true
	}
	var reqErr *goopenai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
		msg := ""
		if reqErr.Err != nil {
			msg = reqErr.Err.Error()
		}
		return reqErr.HTTPStatusCode, msg, true
	}
	return 0, "", false
}
