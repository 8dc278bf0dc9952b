package gemini

import (
	"context"
	"net/http"
	"testing"

	"github.com/flashforge/flashforge-api/internal/generation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestNewTranscriber_Validation(t *testing.T) {
	t.Parallel()

	_, err := NewTranscriber(nil, "gemini-2.0-flash", "")
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)

	_, err = NewTranscriber(&fakeModels{}, "", "")
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)
}

func TestTranscriber_SendsInlineAudio(t *testing.T) {
	t.Parallel()

	audio := []byte("OggS-fake-audio")
	client := &fakeModels{resp: textResponse(genai.FinishReasonStop, "  the mitochondria is the powerhouse \n")}
	tr, err := NewTranscriber(client, "gemini-2.0-flash", "en")
	require.NoError(t, err)

	text, err := tr.Transcribe(context.Background(), audio, "audio/ogg; codecs=opus")

	require.NoError(t, err)
	assert.Equal(t, "the mitochondria is the powerhouse", text)

	require.Len(t, client.calls, 1)
	parts := client.calls[0].contents[0].Parts
	require.Len(t, parts, 2)
	assert.Contains(t, parts[0].Text, TranscriptionInstruction)
	assert.Contains(t, parts[0].Text, `"en"`)
	require.NotNil(t, parts[1].InlineData)
	assert.Equal(t, "audio/ogg", parts[1].InlineData.MIMEType, "codec parameters are dropped")
	assert.Equal(t, audio, parts[1].InlineData.Data)
	require.NotNil(t, client.calls[0].config.Temperature)
	assert.Zero(t, *client.calls[0].config.Temperature)
}

func TestTranscriber_APIErrorKeepsStatus(t *testing.T) {
	t.Parallel()

	client := &fakeModels{err: &genai.APIError{Code: http.StatusBadRequest, Message: "Unsupported MIME type"}}
	tr, err := NewTranscriber(client, "gemini-2.0-flash", "")
	require.NoError(t, err)

	_, err = tr.Transcribe(context.Background(), []byte("x"), "audio/x-unknown")

	var trErr *generation.TranscriptionError
	require.ErrorAs(t, err, &trErr)
	assert.Equal(t, http.StatusBadRequest, trErr.Status)
	assert.Equal(t, "Unsupported MIME type", trErr.Detail)
}

func TestTranscriber_EmptyResponse(t *testing.T) {
	t.Parallel()

	tr, err := NewTranscriber(&fakeModels{resp: &genai.GenerateContentResponse{}}, "gemini-2.0-flash", "")
	require.NoError(t, err)

	_, err = tr.Transcribe(context.Background(), []byte("x"), "audio/webm")

	var trErr *generation.TranscriptionError
	require.ErrorAs(t, err, &trErr)
	assert.Equal(t, http.StatusInternalServerError, trErr.Status)
	assert.ErrorIs(t, err, generation.ErrEmptyResponse)
}
