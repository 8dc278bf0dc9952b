package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"strings"
	"testing"

	"github.com/flashforge/flashforge-api/internal/api/shared"
	"github.com/flashforge/flashforge-api/internal/domain"
	"github.com/flashforge/flashforge-api/internal/generation"
	"github.com/flashforge/flashforge-api/internal/mocks"
	"github.com/flashforge/flashforge-api/internal/prompt"
	"github.com/flashforge/flashforge-api/internal/service/flashcards"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	pngBytes  = append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 32)...)
	wavBytes  = append([]byte("RIFF\x24\x00\x00\x00WAVEfmt "), bytes.Repeat([]byte{0}, 32)...)
	webmBytes = append([]byte("\x1a\x45\xdf\xa3\x9f\x42\x86\x81\x01\x42\x82\x84webm"), bytes.Repeat([]byte{0}, 32)...)
)

func padded(prefix []byte, extra int) []byte {
	out := make([]byte, 0, len(prefix)+extra)
	out = append(out, prefix...)
	return append(out, make([]byte, extra)...)
}

type filePart struct {
	field       string
	filename    string
	contentType string
	data        []byte
}

func multipartBody(t *testing.T, notes string, files ...filePart) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	if notes != "" {
		require.NoError(t, mw.WriteField(FieldNotes, notes))
	}
	for _, f := range files {
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, f.field, f.filename))
		if f.contentType != "" {
			h.Set("Content-Type", f.contentType)
		}
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return body, mw.FormDataContentType()
}

type pipeline struct {
	generator   *mocks.MockGenerator
	transcriber *mocks.MockTranscriber
	handler     *FlashcardHandler
}

func newPipeline(t *testing.T, generator *mocks.MockGenerator, maxUpload int64) *pipeline {
	t.Helper()

	transcriber := &mocks.MockTranscriber{Text: "Mitochondria produce ATP."}
	svc, err := flashcards.NewService(flashcards.Config{
		Generator:   generator,
		Transcriber: transcriber,
		Model:       generation.DefaultModelConfig(),
		ImageDetail: domain.DetailLow,
	})
	require.NoError(t, err)

	return &pipeline{
		generator:   generator,
		transcriber: transcriber,
		handler:     NewFlashcardHandler(svc, maxUpload),
	}
}

func (p *pipeline) do(body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/flashcards/generate", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	p.handler.Generate(w, req)
	return w
}

func decodeGenerate(t *testing.T, w *httptest.ResponseRecorder) GenerateResponse {
	t.Helper()
	var resp GenerateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestGenerate_FromNotes(t *testing.T) {
	t.Parallel()

	p := newPipeline(t, mocks.NewMockGeneratorWithText(
		"Q: What does photosynthesis convert?\nA: Light to energy."), 1<<20)
	body, ct := multipartBody(t, "Photosynthesis converts light to energy.")

	w := p.do(body, ct)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeGenerate(t, w)
	assert.Equal(t, []FlashcardResponse{
		{Question: "What does photosynthesis convert?", Answer: "Light to energy."},
	}, resp.Flashcards)
	assert.Empty(t, resp.Error)

	msg, ok := p.generator.LastPrompt()
	require.True(t, ok)
	require.Len(t, msg.Parts, 2)
	assert.Equal(t, prompt.NotesPrefix+"Photosynthesis converts light to energy.", msg.Parts[0].Text)
}

func TestGenerate_URLEncodedNotes(t *testing.T) {
	t.Parallel()

	p := newPipeline(t, mocks.NewMockGeneratorWithDefaultCards(), 1<<20)
	form := url.Values{FieldNotes: {"Hexagonal architecture notes"}}

	w := p.do(bytes.NewBufferString(form.Encode()), "application/x-www-form-urlencoded")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeGenerate(t, w).Flashcards, 2)
}

func TestGenerate_ImageUpload(t *testing.T) {
	t.Parallel()

	p := newPipeline(t, mocks.NewMockGeneratorWithDefaultCards(), 1<<20)
	body, ct := multipartBody(t, "", filePart{field: FieldImage, filename: "notes.png", data: pngBytes})

	w := p.do(body, ct)

	require.Equal(t, http.StatusOK, w.Code)
	msg, ok := p.generator.LastPrompt()
	require.True(t, ok)
	require.Equal(t, domain.PartImage, msg.Parts[0].Kind)
	assert.True(t, strings.HasPrefix(msg.Parts[0].DataURI, "data:image/png;base64,"))
	assert.Zero(t, p.transcriber.CallCount())
}

func TestGenerate_AudioWinsOverNotes(t *testing.T) {
	t.Parallel()

	p := newPipeline(t, mocks.NewMockGeneratorWithDefaultCards(), 1<<20)
	body, ct := multipartBody(t, "ignored notes",
		filePart{field: FieldFile, filename: "memo.wav", contentType: "audio/wav", data: wavBytes})

	w := p.do(body, ct)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 1, p.transcriber.CallCount())
	msg, ok := p.generator.LastPrompt()
	require.True(t, ok)
	assert.Equal(t, prompt.TranscriptPrefix+"Mitochondria produce ATP.", msg.Parts[0].Text)
}

func TestGenerate_BrowserVoiceNote(t *testing.T) {
	t.Parallel()

	p := newPipeline(t, mocks.NewMockGeneratorWithDefaultCards(), 1<<20)
	body, ct := multipartBody(t, "",
		filePart{field: FieldAudio, filename: "blob", contentType: "audio/webm;codecs=opus", data: webmBytes})

	w := p.do(body, ct)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 1, p.transcriber.CallCount())
	assert.Equal(t, []string{"audio/webm"}, p.transcriber.TranscribeCalls.MIMETypes)
}

func TestGenerate_EmptyResultIsNotAnError(t *testing.T) {
	t.Parallel()

	p := newPipeline(t, mocks.MockGeneratorWithNoCards(), 1<<20)
	body, ct := multipartBody(t, "lorem ipsum")

	w := p.do(body, ct)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeGenerate(t, w)
	assert.NotNil(t, resp.Flashcards)
	assert.Empty(t, resp.Flashcards)
	assert.Equal(t, generation.NoFlashcardsSentinel, resp.Error)
	assert.Contains(t, w.Body.String(), `"flashcards":[]`)
}

func TestGenerate_Rejections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		notes       string
		files       []filePart
		maxUpload   int64
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "no input",
			maxUpload:   1 << 20,
			wantStatus:  http.StatusBadRequest,
			wantMessage: "no input provided",
		},
		{
			name:        "whitespace notes",
			notes:       "   \n\t",
			maxUpload:   1 << 20,
			wantStatus:  http.StatusBadRequest,
			wantMessage: "no input provided",
		},
		{
			name:        "empty file",
			files:       []filePart{{field: FieldFile, filename: "x.png", data: nil}},
			maxUpload:   1 << 20,
			wantStatus:  http.StatusBadRequest,
			wantMessage: "attached file is empty",
		},
		{
			name:       "text file",
			files:      []filePart{{field: FieldFile, filename: "notes.txt", data: []byte("plain old text")}},
			maxUpload:  1 << 20,
			wantStatus: http.StatusUnsupportedMediaType,
		},
		{
			name: "webm without audio declaration",
			files: []filePart{{
				field: FieldFile, filename: "clip.webm", contentType: "video/webm", data: webmBytes,
			}},
			maxUpload:  1 << 20,
			wantStatus: http.StatusUnsupportedMediaType,
		},
		{
			name:       "too large",
			files:      []filePart{{field: FieldImage, filename: "big.png", data: padded(pngBytes, 4096)}},
			maxUpload:  1024,
			wantStatus: http.StatusRequestEntityTooLarge,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			p := newPipeline(t, mocks.NewMockGeneratorWithDefaultCards(), tc.maxUpload)
			body, ct := multipartBody(t, tc.notes, tc.files...)

			w := p.do(body, ct)

			assert.Equal(t, tc.wantStatus, w.Code)
			assert.Zero(t, p.generator.CallCount(), "generation must not be attempted")
			assert.Zero(t, p.transcriber.CallCount(), "transcription must not be attempted")

			var resp shared.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			if tc.wantMessage != "" {
				assert.Equal(t, tc.wantMessage, resp.Error)
			}
		})
	}
}

func TestGenerate_BackendErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "rate limited upstream",
			err:         generation.NewGenerationError(http.StatusTooManyRequests, "Rate limit reached", nil),
			wantStatus:  http.StatusTooManyRequests,
			wantMessage: "Rate limit reached",
		},
		{
			name:        "unstructured failure",
			err:         fmt.Errorf("connection reset"),
			wantStatus:  http.StatusInternalServerError,
			wantMessage: generationFailedMessage,
		},
		{
			name:        "timeout",
			err:         context.DeadlineExceeded,
			wantStatus:  http.StatusGatewayTimeout,
			wantMessage: "timeout",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			p := newPipeline(t, mocks.NewMockGeneratorWithError(tc.err), 1<<20)
			body, ct := multipartBody(t, "some notes")

			w := p.do(body, ct)

			assert.Equal(t, tc.wantStatus, w.Code)
			var resp shared.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tc.wantMessage, resp.Error)
		})
	}
}

func TestGenerate_TranscriptionFailure(t *testing.T) {
	t.Parallel()

	p := newPipeline(t, mocks.NewMockGeneratorWithDefaultCards(), 1<<20)
	p.transcriber.Err = generation.NewTranscriptionError(http.StatusBadRequest, "Invalid file format.", nil)
	body, ct := multipartBody(t, "", filePart{field: FieldAudio, filename: "memo.wav", data: wavBytes})

	w := p.do(body, ct)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid file format.")
	assert.Zero(t, p.generator.CallCount())
}

func TestClassifyMedia(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		data     []byte
		declared string
		wantKind domain.MediaKind
		wantMIME string
		wantErr  bool
	}{
		{name: "png", data: pngBytes, wantKind: domain.MediaImage, wantMIME: "image/png"},
		{name: "wav", data: wavBytes, declared: "application/octet-stream", wantKind: domain.MediaAudio, wantMIME: "audio/wav"},
		{name: "webm voice note", data: webmBytes, declared: "audio/webm", wantKind: domain.MediaAudio, wantMIME: "audio/webm"},
		{name: "webm video", data: webmBytes, declared: "video/webm", wantErr: true},
		{name: "text", data: []byte("hello"), declared: "audio/mpeg", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			kind, mimeType, err := classifyMedia(tc.data, tc.declared)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedMedia)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantKind, kind)
			assert.Equal(t, tc.wantMIME, mimeType)
		})
	}
}
