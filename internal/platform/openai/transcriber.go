package openai

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"mime"
	"time"

	"github.com/flashforge/flashforge-api/internal/generation"
	"github.com/flashforge/flashforge-api/internal/platform/logger"
	"github.com/gabriel-vasile/mimetype"
	goopenai "github.com/sashabaranov/go-openai"
)

const defaultAudioExtension = ".webm"

// Transcriber implements generation.Transcriber with the Whisper endpoint.
type Transcriber struct {
	client   audioClient
	model    string
	language string
}

var _ generation.Transcriber = (*Transcriber)(nil)

// NewTranscriber creates a Transcriber. language is an optional ISO-639-1 hint.
func NewTranscriber(client audioClient, model, language string) (*Transcriber, error) {
	if client == nil {
		return nil, fmt.Errorf("%w: client cannot be nil", generation.ErrInvalidConfig)
	}
	if model == "" {
		model = goopenai.Whisper1
	}
	return &Transcriber{client: client, model: model, language: language}, nil
}

// Transcribe uploads audio and returns the recognized text verbatim.
func (t *Transcriber) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	log := logger.FromContext(ctx)
	start := time.Now()

	resp, err := t.client.CreateTranscription(ctx, goopenai.AudioRequest{
		Model: t.model,
		// The API infers the container from the file name.
		FilePath: "voice-note" + audioExtension(mimeType),
		Reader:   bytes.NewReader(audio),
		Language: t.language,
	})
	if err != nil {
		if status, msg, ok := apiStatus(err); ok {
			log.WarnContext(ctx, "whisper transcription rejected",
				slog.Int("status", status),
				slog.String("mime_type", mimeType))
			return "", generation.NewTranscriptionError(status, msg, err)
		}
		return "", generation.AsTranscriptionError(ctx, err)
	}

	log.InfoContext(ctx, "whisper transcription finished",
		slog.String("model", t.model),
		slog.Int("audio_bytes", len(audio)),
		slog.Int("text_length", len(resp.Text)),
		slog.Duration("duration", time.Since(start)))

	return resp.Text, nil
}

// audioExtension maps a MIME type to a file extension Whisper accepts.
func audioExtension(mimeType string) string {
	if mediaType, _, err := mime.ParseMediaType(mimeType); err == nil {
		mimeType = mediaType
	}
	if m := mimetype.Lookup(mimeType); m != nil && m.Extension() != "" {
		return m.Extension()
	}
	return defaultAudioExtension
}
