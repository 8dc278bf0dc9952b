package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/flashforge/flashforge-api/internal/api/shared"
	"github.com/flashforge/flashforge-api/internal/domain"
	"github.com/flashforge/flashforge-api/internal/generation"
	"github.com/flashforge/flashforge-api/internal/redact"
	"github.com/flashforge/flashforge-api/internal/service"
	"github.com/flashforge/flashforge-api/internal/service/access"
	"github.com/flashforge/flashforge-api/internal/service/auth"
	"github.com/flashforge/flashforge-api/internal/store"
)

// Request decoding errors raised by the handlers themselves.
var (
	// ErrInvalidForm is returned when the body is not a readable form.
	ErrInvalidForm = fmt.Errorf("%w: invalid form data", domain.ErrValidation)

	// ErrInvalidJSON is returned when the body is not the expected JSON.
	ErrInvalidJSON = fmt.Errorf("%w: invalid request format", domain.ErrValidation)

	// ErrUnsupportedMedia is returned for uploads that are neither image nor audio.
	ErrUnsupportedMedia = errors.New("unsupported media type")

	// ErrPayloadTooLarge is returned when the body exceeds the upload limit.
	ErrPayloadTooLarge = errors.New("request body too large")
)

// Fallback messages for backend failures that carry nothing worth showing.
const (
	generationFailedMessage    = "Failed to generate flashcards."
	transcriptionFailedMessage = "Failed to transcribe audio."
	unexpectedErrorMessage     = "An unexpected error occurred"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	var genErr *generation.GenerationError
	var trErr *generation.TranscriptionError

	switch {
	// Backend failures keep the status the backend reported
	case errors.As(err, &trErr):
		return backendStatus(trErr.Status)
	case errors.As(err, &genErr):
		return backendStatus(genErr.Status)

	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized

	case errors.Is(err, ErrPayloadTooLarge):
		return http.StatusRequestEntityTooLarge

	case errors.Is(err, ErrUnsupportedMedia):
		return http.StatusUnsupportedMediaType

	case errors.Is(err, access.ErrStoreUnavailable):
		return http.StatusServiceUnavailable

	case store.IsNotFoundError(err):
		return http.StatusNotFound

	case store.IsDuplicateError(err):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return unexpectedErrorMessage
	}

	var genErr *generation.GenerationError
	var trErr *generation.TranscriptionError

	switch {
	case errors.As(err, &trErr):
		return backendMessage(trErr.Status, trErr.Detail, transcriptionFailedMessage)
	case errors.As(err, &genErr):
		return backendMessage(genErr.Status, genErr.Body, generationFailedMessage)

	case errors.Is(err, service.ErrInvalidCredentials):
		return "Invalid credentials"
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken):
		return "Invalid token"

	case errors.Is(err, ErrPayloadTooLarge):
		return "Uploaded file is too large"
	case errors.Is(err, ErrUnsupportedMedia):
		return "Unsupported file type: upload an image or an audio recording"
	case errors.Is(err, access.ErrStoreUnavailable):
		return "Service temporarily unavailable"

	case errors.Is(err, store.ErrAccountNotFound):
		return "Account not found"
	case errors.Is(err, store.ErrUsernameExists):
		return "Username already exists"

	case errors.Is(err, domain.ErrNoInput),
		errors.Is(err, domain.ErrEmptyMedia),
		errors.Is(err, domain.ErrInvalidUsername),
		errors.Is(err, domain.ErrPasswordTooShort),
		errors.Is(err, domain.ErrPasswordTooLong),
		errors.Is(err, ErrInvalidForm),
		errors.Is(err, ErrInvalidJSON):
		return validationDetail(err)
	case errors.Is(err, domain.ErrValidation):
		return SanitizeValidationError(err)

	default:
		return unexpectedErrorMessage
	}
}

// HandleAPIError writes the mapped status and safe message for err and logs
// the redacted error.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error) {
	status := MapErrorToStatusCode(err)
	shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err)
}

// backendStatus keeps error statuses from a backend and turns anything else
// into 500.
func backendStatus(status int) int {
	if status >= http.StatusBadRequest && status <= 599 {
		return status
	}
	return http.StatusInternalServerError
}

// backendMessage passes a backend's own explanation through for statuses it
// reported itself. Plain internal failures get the fallback.
func backendMessage(status int, detail, fallback string) string {
	detail = strings.TrimSpace(detail)
	if status == http.StatusInternalServerError || detail == "" || detail == "internal" {
		return fallback
	}
	return redact.String(detail)
}

// validationDetail strips the umbrella prefix from a domain validation error.
func validationDetail(err error) string {
	var target error
	for _, sentinel := range []error{
		domain.ErrNoInput,
		domain.ErrEmptyMedia,
		domain.ErrInvalidUsername,
		domain.ErrPasswordTooShort,
		domain.ErrPasswordTooLong,
		ErrInvalidForm,
		ErrInvalidJSON,
	} {
		if errors.Is(err, sentinel) {
			target = sentinel
			break
		}
	}
	if target == nil {
		return "Validation error"
	}
	return strings.TrimPrefix(target.Error(), domain.ErrValidation.Error()+": ")
}

// SanitizeValidationError turns a validator error into a short message that
// names the failing field without echoing the submitted value.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	// Example: "Key: 'RegisterRequest.Username' Error:Field validation for 'Username' failed on the 'min' tag"
	if strings.Contains(errMsg, "Field validation") {
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := strings.ToLower(fieldParts[1])
				if len(fieldParts) >= 5 && fieldParts[3] != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(fieldParts[3]))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
