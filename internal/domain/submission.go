package domain

import "strings"

// MediaKind distinguishes the two binary payloads a submission can carry.
type MediaKind string

// Supported media kinds.
const (
	MediaImage MediaKind = "image"
	MediaAudio MediaKind = "audio"
)

// Media is an uploaded file held in memory for the duration of one request.
type Media struct {
	Kind     MediaKind
	Data     []byte
	MIMEType string
}

// Submission is the caller-provided study material for one generation
// request. Any combination of fields may be set; Primary decides which one
// the pipeline actually uses.
type Submission struct {
	Notes string
	Image *Media
	Audio *Media
}

// SourceKind identifies which part of a submission drives generation.
type SourceKind string

// Source kinds, listed in precedence order.
const (
	SourceAudio SourceKind = "audio"
	SourceText  SourceKind = "text"
	SourceImage SourceKind = "image"
)

// Source is the single primary content of a submission. Text is set for
// SourceText; Media is set for SourceAudio and SourceImage.
type Source struct {
	Kind  SourceKind
	Text  string
	Media *Media
}

// Primary selects the one content source the pipeline will use.
// Audio wins over notes, and notes win over an image; the others are
// ignored rather than merged. Whitespace-only notes count as absent.
// Returns ErrNoInput when nothing usable is present and ErrEmptyMedia when
// the winning file has no bytes.
func (s Submission) Primary() (Source, error) {
	notes := strings.TrimSpace(s.Notes)

	switch {
	case s.Audio != nil:
		if len(s.Audio.Data) == 0 {
			return Source{}, ErrEmptyMedia
		}
		return Source{Kind: SourceAudio, Media: s.Audio}, nil
	case notes != "":
		return Source{Kind: SourceText, Text: notes}, nil
	case s.Image != nil:
		if len(s.Image.Data) == 0 {
			return Source{}, ErrEmptyMedia
		}
		return Source{Kind: SourceImage, Media: s.Image}, nil
	default:
		return Source{}, ErrNoInput
	}
}
