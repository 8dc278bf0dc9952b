// Package domain contains the core business entities, value objects, and
// domain logic of the application: accounts and their trial window, study
// material submissions, prompt messages and flashcards. It is independent of
// any specific infrastructure or delivery mechanism.
package domain
