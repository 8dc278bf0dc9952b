// Package access decides whether a caller may run the flashcard pipeline.
//
// The decision is recomputed on every request from the session token and the
// account's subscription and trial state. Nothing is cached and nothing is
// written.
package access
