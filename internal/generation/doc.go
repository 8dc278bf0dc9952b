// Package generation defines the boundary between the flashcard pipeline and
// the external AI services it depends on: the multimodal Generator that turns
// a prompt into raw text, and the Transcriber that turns a voice note into
// text. Concrete adapters live under internal/platform (OpenAI, Gemini).
//
// The package also owns the Flashcard Parser, which reads the generator's
// free-text "Q: ...\nA: ..." output back into domain.Flashcard records. The
// parser's split rules and the instruction template in internal/prompt form
// one contract and change together.
package generation
