package prompt

import "github.com/flashforge/flashforge-api/internal/domain"

// Instruction is appended as the last part of every prompt. It must stay in
// step with generation.ParseFlashcards, which splits the reply on blank lines
// and reads two lines per card.
const Instruction = "Based on the provided study materials, generate a list of distinct flashcards. " +
	"Each flashcard MUST strictly follow the format 'Q: [Question]\nA: [Answer]'. " +
	"There MUST be exactly one blank line between each flashcard. " +
	"Do NOT include any other text. " +
	"Provide at least 3–5 flashcards if possible. " +
	"If no relevant concepts are found, respond with exactly 'No flashcards could be generated.'"

// Build returns a prompt consisting of primary followed by the instruction part.
// primary is copied, never modified.
func Build(primary []domain.PromptPart) domain.PromptMessage {
	parts := make([]domain.PromptPart, 0, len(primary)+1)
	parts = append(parts, primary...)
	parts = append(parts, domain.TextPart(Instruction))
	return domain.PromptMessage{Parts: parts}
}
