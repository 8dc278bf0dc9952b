package domain_test

import (
	"testing"

	"github.com/flashforge/flashforge-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmission_Primary(t *testing.T) {
	t.Parallel()

	audio := &domain.Media{Kind: domain.MediaAudio, Data: []byte("RIFF"), MIMEType: "audio/wav"}
	image := &domain.Media{Kind: domain.MediaImage, Data: []byte{0x89, 'P', 'N', 'G'}, MIMEType: "image/png"}

	tests := []struct {
		name     string
		sub      domain.Submission
		wantKind domain.SourceKind
		wantText string
	}{
		{
			name:     "notes only",
			sub:      domain.Submission{Notes: "  mitochondria  "},
			wantKind: domain.SourceText,
			wantText: "mitochondria",
		},
		{
			name:     "image only",
			sub:      domain.Submission{Image: image},
			wantKind: domain.SourceImage,
		},
		{
			name:     "audio only",
			sub:      domain.Submission{Audio: audio},
			wantKind: domain.SourceAudio,
		},
		{
			name:     "audio beats notes",
			sub:      domain.Submission{Notes: "typed notes", Audio: audio},
			wantKind: domain.SourceAudio,
		},
		{
			name:     "notes beat image",
			sub:      domain.Submission{Notes: "typed notes", Image: image},
			wantKind: domain.SourceText,
			wantText: "typed notes",
		},
		{
			name:     "audio beats everything",
			sub:      domain.Submission{Notes: "typed notes", Image: image, Audio: audio},
			wantKind: domain.SourceAudio,
		},
		{
			name:     "blank notes fall through to image",
			sub:      domain.Submission{Notes: " \n\t", Image: image},
			wantKind: domain.SourceImage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src, err := tt.sub.Primary()

			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, src.Kind)
			assert.Equal(t, tt.wantText, src.Text)
			switch tt.wantKind {
			case domain.SourceAudio:
				assert.Same(t, audio, src.Media)
			case domain.SourceImage:
				assert.Same(t, image, src.Media)
			default:
				assert.Nil(t, src.Media)
			}
		})
	}
}

func TestSubmission_PrimaryErrors(t *testing.T) {
	t.Parallel()

	_, err := domain.Submission{}.Primary()
	assert.ErrorIs(t, err, domain.ErrNoInput)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = domain.Submission{Notes: "   "}.Primary()
	assert.ErrorIs(t, err, domain.ErrNoInput)

	_, err = domain.Submission{Audio: &domain.Media{Kind: domain.MediaAudio}}.Primary()
	assert.ErrorIs(t, err, domain.ErrEmptyMedia)
}

func TestParseDetailLevel(t *testing.T) {
	t.Parallel()

	level, err := domain.ParseDetailLevel("low")
	require.NoError(t, err)
	assert.Equal(t, domain.DetailLow, level)

	level, err = domain.ParseDetailLevel("high")
	require.NoError(t, err)
	assert.Equal(t, domain.DetailHigh, level)

	_, err = domain.ParseDetailLevel("auto")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestFlashcard_Degenerate(t *testing.T) {
	t.Parallel()

	assert.False(t, domain.Flashcard{Question: "q", Answer: "a"}.Degenerate())
	assert.True(t, domain.Flashcard{Question: "q"}.Degenerate())
	assert.True(t, domain.Flashcard{Answer: "a"}.Degenerate())
}
