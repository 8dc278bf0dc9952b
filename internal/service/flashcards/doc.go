// Package flashcards runs the generation pipeline for one request:
// normalize the submission (transcribing audio when needed), build the
// prompt, call the generator once and parse its reply.
//
// The pipeline is strictly sequential and keeps no state between requests.
// Each external call is bounded by its own timeout derived from the request
// context, so a dropped client connection also cancels in-flight calls.
package flashcards
