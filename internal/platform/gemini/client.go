package gemini

import (
	"context"
	"errors"
	"fmt"

	"github.com/flashforge/flashforge-api/internal/config"
	"github.com/flashforge/flashforge-api/internal/generation"
	"google.golang.org/genai"
)

// modelsClient is the subset of *genai.Models used by the adapters.
type modelsClient interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// NewClient creates a Gemini API client and returns its Models service.
func NewClient(ctx context.Context, cfg config.LLMConfig) (*genai.Models, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini api key cannot be empty", generation.ErrInvalidConfig)
	}

	clientConfig := &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", generation.ErrInvalidConfig, err)
	}
	return client.Models, nil
}

// apiStatus extracts the HTTP status and message from a Gemini API error.
func apiStatus(err error) (status int, message string, ok bool) {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && apiErr.Code != 0 {
		return apiErr.Code, apiErr.Message, true
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil && apiErrPtr.Code != 0 {
		return apiErrPtr.Code, apiErrPtr.Message, true
	}
	return 0, "", false
}

// responseText concatenates the text parts of the first candidate.
// blocked is set when Gemini withheld the answer on safety grounds.
func responseText(resp *genai.GenerateContentResponse) (text string, blocked bool, err error) {
	if resp == nil {
		return "", false, generation.ErrEmptyResponse
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return "", true, nil
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return "", false, generation.ErrEmptyResponse
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return "", true, nil
	}
	if candidate.Content == nil {
		return "", false, generation.ErrEmptyResponse
	}

	for _, part := range candidate.Content.Parts {
		if part != nil {
			text += part.Text
		}
	}
	return text, false, nil
}
