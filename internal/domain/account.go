package domain

import (
	"regexp"
	"time"

	"github.com/google/uuid"
)

// Password length limits. The upper bound is bcrypt's input limit.
const (
	MinPasswordLength = 8
	MaxPasswordLength = 72
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9._-]{3,32}$`)

// Account is a registered user together with the subscription state that
// decides whether they may generate flashcards.
type Account struct {
	ID             uuid.UUID `json:"id"`
	Username       string    `json:"username"`
	HashedPassword string    `json:"-"`
	TrialEndDate   time.Time `json:"trial_end_date"`
	IsSubscribed   bool      `json:"is_subscribed"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewAccount creates an account whose trial window starts at now and lasts
// for trial. The password is only validated here; hashing it is the caller's
// job.
func NewAccount(username, password string, now time.Time, trial time.Duration) (*Account, error) {
	if err := ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}

	now = now.UTC()
	return &Account{
		ID:           uuid.New(),
		Username:     username,
		TrialEndDate: now.Add(trial),
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// TrialActive reports whether now falls strictly before the trial end.
func (a *Account) TrialActive(now time.Time) bool {
	return now.Before(a.TrialEndDate)
}

// CanGenerate reports whether the account may use the generation pipeline
// at now: subscribers always may, everyone else only during the trial.
func (a *Account) CanGenerate(now time.Time) bool {
	return a.IsSubscribed || a.TrialActive(now)
}

// ValidateUsername checks the username format.
func ValidateUsername(username string) error {
	if !usernamePattern.MatchString(username) {
		return ErrInvalidUsername
	}
	return nil
}

// ValidatePassword checks the password length bounds.
func ValidatePassword(password string) error {
	switch {
	case len(password) < MinPasswordLength:
		return ErrPasswordTooShort
	case len(password) > MaxPasswordLength:
		return ErrPasswordTooLong
	}
	return nil
}
