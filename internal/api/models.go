package api

import (
	"time"

	"github.com/flashforge/flashforge-api/internal/domain"
	"github.com/google/uuid"
)

// RegisterRequest defines the payload for the account registration endpoint.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=32"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest defines the payload for the login endpoint.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	UserID uuid.UUID `json:"user_id"`

	// AccessToken is the bearer token for the generation endpoint.
	AccessToken string `json:"token"`

	// ExpiresAt is the RFC 3339 timestamp when the token expires.
	ExpiresAt string `json:"expires_at"`

	TrialEndsAt string `json:"trial_ends_at"`
}

// AccountResponse describes the caller's account and what it may do right now.
type AccountResponse struct {
	ID                uuid.UUID `json:"id"`
	Username          string    `json:"username"`
	TrialEndsAt       string    `json:"trial_ends_at"`
	IsSubscribed      bool      `json:"is_subscribed"`
	TrialActive       bool      `json:"trial_active"`
	GenerationAllowed bool      `json:"generation_allowed"`
}

// FlashcardResponse is one generated card.
type FlashcardResponse struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// GenerateResponse is the body of a successful generation request. Error is
// only set for the empty result, which is still a 200.
type GenerateResponse struct {
	Flashcards []FlashcardResponse `json:"flashcards"`
	Error      string              `json:"error,omitempty"`
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func toAccountResponse(account *domain.Account, now time.Time) AccountResponse {
	return AccountResponse{
		ID:                account.ID,
		Username:          account.Username,
		TrialEndsAt:       formatTime(account.TrialEndDate),
		IsSubscribed:      account.IsSubscribed,
		TrialActive:       account.TrialActive(now),
		GenerationAllowed: account.CanGenerate(now),
	}
}

func toFlashcardResponses(cards []domain.Flashcard) []FlashcardResponse {
	out := make([]FlashcardResponse, 0, len(cards))
	for _, c := range cards {
		out = append(out, FlashcardResponse{Question: c.Question, Answer: c.Answer})
	}
	return out
}
