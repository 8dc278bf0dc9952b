package domain

import "fmt"

// PartKind tags a PromptPart.
type PartKind string

// Prompt part kinds.
const (
	PartText  PartKind = "text"
	PartImage PartKind = "image"
)

// DetailLevel controls how much image resolution the generation backend spends.
type DetailLevel string

// Image detail levels.
const (
	DetailLow  DetailLevel = "low"
	DetailHigh DetailLevel = "high"
)

// ParseDetailLevel validates a configured detail level.
func ParseDetailLevel(s string) (DetailLevel, error) {
	switch DetailLevel(s) {
	case DetailLow, DetailHigh:
		return DetailLevel(s), nil
	default:
		return "", fmt.Errorf("%w: unknown image detail level %q", ErrValidation, s)
	}
}

// PromptPart is one element of a PromptMessage. Text is set for PartText;
// DataURI and Detail are set for PartImage.
type PromptPart struct {
	Kind    PartKind
	Text    string
	DataURI string
	Detail  DetailLevel
}

// TextPart builds a text part.
func TextPart(text string) PromptPart {
	return PromptPart{Kind: PartText, Text: text}
}

// ImagePart builds an image part from a base64 data URI.
func ImagePart(dataURI string, detail DetailLevel) PromptPart {
	return PromptPart{Kind: PartImage, DataURI: dataURI, Detail: detail}
}

// PromptMessage is the ordered content sent to the generation backend in a
// single user turn. It is built fresh per request and never persisted.
type PromptMessage struct {
	Parts []PromptPart
}
