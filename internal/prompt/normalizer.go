package prompt

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"

	"github.com/flashforge/flashforge-api/internal/domain"
	"github.com/flashforge/flashforge-api/internal/generation"
	"github.com/flashforge/flashforge-api/internal/platform/logger"
)

// Lead-in lines placed before textual study material.
const (
	NotesPrefix      = "Here are some study notes:\n"
	TranscriptPrefix = "Here are notes transcribed from audio:\n"
)

// Normalizer converts a Submission into the primary prompt parts.
type Normalizer struct {
	transcriber generation.Transcriber
	detail      domain.DetailLevel
}

// NewNormalizer creates a Normalizer. The transcriber is only called for
// audio submissions; detail is the resolution requested for image parts.
func NewNormalizer(transcriber generation.Transcriber, detail domain.DetailLevel) (*Normalizer, error) {
	if transcriber == nil {
		return nil, fmt.Errorf("transcriber cannot be nil")
	}
	if _, err := domain.ParseDetailLevel(string(detail)); err != nil {
		return nil, err
	}
	return &Normalizer{transcriber: transcriber, detail: detail}, nil
}

// Normalize selects the primary source of sub and renders it as prompt parts.
//
// Returns domain.ErrNoInput (a validation error) without calling any
// external service when sub carries nothing usable. Transcription failures
// are returned as *generation.TranscriptionError.
func (n *Normalizer) Normalize(ctx context.Context, sub domain.Submission) ([]domain.PromptPart, error) {
	src, err := sub.Primary()
	if err != nil {
		return nil, err
	}

	log := logger.FromContext(ctx)

	switch src.Kind {
	case domain.SourceAudio:
		log.DebugContext(ctx, "transcribing audio submission",
			slog.String("mime_type", src.Media.MIMEType),
			slog.Int("audio_bytes", len(src.Media.Data)))

		text, err := n.transcriber.Transcribe(ctx, src.Media.Data, src.Media.MIMEType)
		if err != nil {
			return nil, generation.AsTranscriptionError(ctx, err)
		}
		return []domain.PromptPart{domain.TextPart(TranscriptPrefix + text)}, nil

	case domain.SourceText:
		return []domain.PromptPart{domain.TextPart(NotesPrefix + src.Text)}, nil

	case domain.SourceImage:
		log.DebugContext(ctx, "encoding image submission",
			slog.String("mime_type", src.Media.MIMEType),
			slog.Int("image_bytes", len(src.Media.Data)),
			slog.String("detail", string(n.detail)))

		return []domain.PromptPart{domain.ImagePart(DataURI(src.Media.MIMEType, src.Media.Data), n.detail)}, nil

	default:
		return nil, fmt.Errorf("unsupported source kind %q", src.Kind)
	}
}

// NormalizeAndBuild runs Normalize and appends the instruction part.
func (n *Normalizer) NormalizeAndBuild(ctx context.Context, sub domain.Submission) (domain.PromptMessage, error) {
	primary, err := n.Normalize(ctx, sub)
	if err != nil {
		return domain.PromptMessage{}, err
	}
	return Build(primary), nil
}

// DataURI encodes data as an RFC 2397 base64 data URI.
func DataURI(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
