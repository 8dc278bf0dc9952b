// Package gemini implements generation.Generator and generation.Transcriber
// on Google's Gemini API through the google.golang.org/genai client.
//
// Images arrive from the prompt layer as base64 data URIs and are sent back
// to Gemini as inline blobs. Voice notes are transcribed by asking the same
// model for a verbatim transcript of the inline audio.
//
// API errors keep the HTTP status Gemini reported so the caller can pass it
// through unchanged. Responses stopped by the safety filters surface as
// generation.ErrContentBlocked.
package gemini
