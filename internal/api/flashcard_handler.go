package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/flashforge/flashforge-api/internal/api/shared"
	"github.com/flashforge/flashforge-api/internal/domain"
	"github.com/flashforge/flashforge-api/internal/platform/logger"
	"github.com/flashforge/flashforge-api/internal/service/flashcards"
)

// Form fields read by the generation endpoint. A file may arrive under any
// of the file fields; its kind is decided by sniffing, not by the name.
const (
	FieldNotes = "notes"
	FieldFile  = "file"
	FieldImage = "image"
	FieldAudio = "audio"
)

var fileFields = []string{FieldFile, FieldImage, FieldAudio}

// containerTypes are formats browsers record voice notes in that sniff as
// video. They are accepted as audio when the client declared audio.
var containerTypes = []string{"video/webm", "video/ogg", "application/ogg", "video/mp4", "video/quicktime"}

// FlashcardGenerator runs the flashcard pipeline. *flashcards.Service
// implements it.
type FlashcardGenerator interface {
	Generate(ctx context.Context, sub domain.Submission) (*flashcards.Result, error)
}

// FlashcardHandler serves the generation endpoint.
type FlashcardHandler struct {
	generator      FlashcardGenerator
	maxUploadBytes int64
}

// NewFlashcardHandler creates a FlashcardHandler. maxUploadBytes caps the
// whole request body.
func NewFlashcardHandler(generator FlashcardGenerator, maxUploadBytes int64) *FlashcardHandler {
	return &FlashcardHandler{generator: generator, maxUploadBytes: maxUploadBytes}
}

// Generate handles POST /api/flashcards/generate.
func (h *FlashcardHandler) Generate(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	sub, err := h.readSubmission(w, r)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	result, err := h.generator.Generate(r.Context(), sub)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	resp := GenerateResponse{Flashcards: toFlashcardResponses(result.Flashcards)}
	if result.Empty {
		resp.Error = result.Message
		log.InfoContext(r.Context(), "generation produced no flashcards", "source", string(result.Source))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// readSubmission parses the form body into a Submission.
func (h *FlashcardHandler) readSubmission(w http.ResponseWriter, r *http.Request) (domain.Submission, error) {
	if h.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	}

	if err := parseForm(r, h.maxUploadBytes); err != nil {
		return domain.Submission{}, err
	}

	sub := domain.Submission{Notes: r.FormValue(FieldNotes)}
	if r.MultipartForm == nil {
		return sub, nil
	}

	for _, field := range fileFields {
		for _, header := range r.MultipartForm.File[field] {
			media, err := readMedia(header)
			if err != nil {
				return domain.Submission{}, err
			}
			switch {
			case media.Kind == domain.MediaAudio && sub.Audio == nil:
				sub.Audio = media
			case media.Kind == domain.MediaImage && sub.Image == nil:
				sub.Image = media
			}
		}
	}
	return sub, nil
}

func parseForm(r *http.Request, maxMemory int64) error {
	if maxMemory <= 0 {
		maxMemory = 32 << 20
	}

	err := r.ParseMultipartForm(maxMemory)
	if errors.Is(err, http.ErrNotMultipart) {
		err = r.ParseForm()
	}
	if err == nil {
		return nil
	}

	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return fmt.Errorf("%w: limit is %d bytes", ErrPayloadTooLarge, maxErr.Limit)
	}
	return fmt.Errorf("%w: %v", ErrInvalidForm, err)
}

// readMedia loads an uploaded file and classifies it by its content.
func readMedia(header *multipart.FileHeader) (*domain.Media, error) {
	f, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidForm, err)
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidForm, err)
	}
	if len(data) == 0 {
		return nil, domain.ErrEmptyMedia
	}

	kind, mimeType, err := classifyMedia(data, header.Header.Get("Content-Type"))
	if err != nil {
		return nil, err
	}
	return &domain.Media{Kind: kind, Data: data, MIMEType: mimeType}, nil
}

// classifyMedia sniffs data. Images and audio are accepted as detected;
// recording containers that sniff as video count as audio only when the
// client declared an audio type, and then keep the declared type.
func classifyMedia(data []byte, declared string) (domain.MediaKind, string, error) {
	detected := mimetype.Detect(data)
	detectedType := detected.String()
	if mediaType, _, err := mime.ParseMediaType(detectedType); err == nil {
		detectedType = mediaType
	}

	switch {
	case strings.HasPrefix(detectedType, "image/"):
		return domain.MediaImage, detectedType, nil
	case strings.HasPrefix(detectedType, "audio/"):
		return domain.MediaAudio, detectedType, nil
	}

	declaredType, _, err := mime.ParseMediaType(declared)
	if err == nil && strings.HasPrefix(declaredType, "audio/") {
		for _, container := range containerTypes {
			if detected.Is(container) {
				return domain.MediaAudio, declaredType, nil
			}
		}
	}

	return "", "", fmt.Errorf("%w: detected %s", ErrUnsupportedMedia, detectedType)
}
