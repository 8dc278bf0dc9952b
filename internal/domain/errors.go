package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity or input fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrNoInput is returned when a submission carries no notes, image or audio.
	ErrNoInput = fmt.Errorf("%w: no input provided", ErrValidation)

	// ErrInvalidUsername is returned when a username is empty or malformed.
	ErrInvalidUsername = fmt.Errorf("%w: username must be 3-32 letters, digits, '.', '_' or '-'", ErrValidation)

	// ErrPasswordTooShort is returned when a password is shorter than MinPasswordLength.
	ErrPasswordTooShort = fmt.Errorf("%w: password must be at least 8 characters long", ErrValidation)

	// ErrPasswordTooLong is returned when a password exceeds bcrypt's 72 byte limit.
	ErrPasswordTooLong = fmt.Errorf("%w: password must be at most 72 characters long", ErrValidation)

	// ErrEmptyMedia is returned when an attached image or audio payload has no bytes.
	ErrEmptyMedia = fmt.Errorf("%w: attached file is empty", ErrValidation)
)
