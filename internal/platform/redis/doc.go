// Package redis provides the Redis-backed request limiter used to cap how
// often a single account may call the flashcard generation endpoint.
package redis
