// Package openai implements generation.Generator and generation.Transcriber
// on the OpenAI API: multimodal chat completions for flashcard generation
// and Whisper for voice notes. Any OpenAI compatible endpoint works through
// the base URL setting.
package openai
