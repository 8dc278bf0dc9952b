// Package prompt turns a caller's submission into the single multimodal
// message sent to the generation backend.
//
// It has two halves. The Normalizer picks the one primary content source
// of a submission (transcribed audio, then notes, then image) and renders it
// as prompt parts, calling the Transcriber when the source is audio. Build
// then appends the fixed instruction that tells the model to answer in the
// blank-line separated "Q:/A:" format read by generation.ParseFlashcards.
package prompt
