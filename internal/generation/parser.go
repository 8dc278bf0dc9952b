package generation

import (
	"strings"

	"github.com/flashforge/flashforge-api/internal/domain"
)

// NoFlashcardsSentinel is the exact reply the model is instructed to give
// when the material contains nothing worth a card.
const NoFlashcardsSentinel = "No flashcards could be generated."

const (
	questionPrefix = "Q:"
	answerPrefix   = "A:"
)

// ParseFlashcards reads a completion shaped as blank-line separated
// "Q: ...\nA: ..." blocks into flashcards, preserving their order.
//
// The parser is lenient: a block without an answer line, or without the
// Q:/A: prefixes, still yields a card with whatever text is there. Lines
// after the second one in a block are ignored. empty is true when no card
// was produced, including when the model replied with NoFlashcardsSentinel.
func ParseFlashcards(raw string) (cards []domain.Flashcard, empty bool) {
	text := strings.ReplaceAll(raw, "\r\n", "\n")
	if strings.TrimSpace(text) == NoFlashcardsSentinel {
		return []domain.Flashcard{}, true
	}

	cards = []domain.Flashcard{}
	for _, segment := range strings.Split(text, "\n\n") {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}

		lines := strings.SplitN(segment, "\n", 3)
		card := domain.Flashcard{Question: cleanLine(lines[0], questionPrefix)}
		if len(lines) > 1 {
			card.Answer = cleanLine(lines[1], answerPrefix)
		}
		cards = append(cards, card)
	}

	return cards, len(cards) == 0
}

func cleanLine(line, prefix string) string {
	line = strings.TrimSpace(line)
	line = strings.TrimPrefix(line, prefix)
	return strings.TrimSpace(line)
}
