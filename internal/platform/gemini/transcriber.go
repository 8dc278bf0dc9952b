package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"mime"
	"strings"
	"time"

	"github.com/flashforge/flashforge-api/internal/generation"
	"github.com/flashforge/flashforge-api/internal/platform/logger"
	"google.golang.org/genai"
)

// TranscriptionInstruction asks the model for a plain verbatim transcript.
const TranscriptionInstruction = "Transcribe this audio recording verbatim. " +
	"Respond with the transcript only, without commentary, timestamps or speaker labels."

// Transcriber implements generation.Transcriber by prompting a Gemini model
// with inline audio.
type Transcriber struct {
	client   modelsClient
	model    string
	language string
}

var _ generation.Transcriber = (*Transcriber)(nil)

// NewTranscriber creates a Transcriber. language is an optional ISO-639-1 hint.
func NewTranscriber(client modelsClient, model, language string) (*Transcriber, error) {
	if client == nil {
		return nil, fmt.Errorf("%w: client cannot be nil", generation.ErrInvalidConfig)
	}
	if model == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}
	return &Transcriber{client: client, model: model, language: language}, nil
}

// Transcribe returns the text spoken in audio.
func (t *Transcriber) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	log := logger.FromContext(ctx)

	if mediaType, _, err := mime.ParseMediaType(mimeType); err == nil {
		mimeType = mediaType
	}

	instruction := TranscriptionInstruction
	if t.language != "" {
		instruction += fmt.Sprintf(" The speaker uses the language with ISO-639-1 code %q.", t.language)
	}

	content := &genai.Content{
		Role: genai.RoleUser,
		Parts: []*genai.Part{
			{Text: instruction},
			{InlineData: &genai.Blob{Data: audio, MIMEType: mimeType}},
		},
	}

	start := time.Now()
	resp, err := t.client.GenerateContent(ctx, t.model, []*genai.Content{content}, &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0),
	})
	if err != nil {
		if status, msg, ok := apiStatus(err); ok {
			log.WarnContext(ctx, "gemini transcription rejected",
				slog.Int("status", status),
				slog.String("mime_type", mimeType))
			return "", generation.NewTranscriptionError(status, msg, err)
		}
		return "", generation.AsTranscriptionError(ctx, err)
	}

	text, blocked, err := responseText(resp)
	if err != nil {
		return "", generation.NewTranscriptionError(generation.InternalStatus, "internal", err)
	}
	if blocked {
		return "", generation.NewTranscriptionError(generation.InternalStatus, "content blocked", generation.ErrContentBlocked)
	}

	log.InfoContext(ctx, "gemini transcription finished",
		slog.String("model", t.model),
		slog.Int("audio_bytes", len(audio)),
		slog.Int("text_length", len(text)),
		slog.Duration("duration", time.Since(start)))

	return strings.TrimSpace(text), nil
}
