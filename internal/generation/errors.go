package generation

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrInvalidConfig is returned when an adapter is constructed with unusable settings.
	ErrInvalidConfig = errors.New("invalid generator configuration")

	// ErrEmptyResponse is returned when the backend answered without any content.
	ErrEmptyResponse = errors.New("empty response from language model")

	// ErrContentBlocked is returned when the backend refused the content on safety grounds.
	ErrContentBlocked = errors.New("content blocked by language model safety filters")

	// ErrTimeout marks an external call that exceeded its deadline.
	ErrTimeout = errors.New("timeout")
)

// InternalStatus is reported when a backend failure carries no status of its own.
const InternalStatus = http.StatusInternalServerError

// GenerationError is a failure of the completion backend. Status is the
// backend's HTTP status when it reported a structured error, otherwise 500.
type GenerationError struct {
	Status int
	Body   string
	Err    error
}

func (e *GenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("generation failed (status %d): %s: %v", e.Status, e.Body, e.Err)
	}
	return fmt.Sprintf("generation failed (status %d): %s", e.Status, e.Body)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *GenerationError) Unwrap() error {
	return e.Err
}

// NewGenerationError wraps err with the given status and body. A zero status
// becomes InternalStatus.
func NewGenerationError(status int, body string, err error) *GenerationError {
	if status == 0 {
		status = InternalStatus
	}
	return &GenerationError{Status: status, Body: body, Err: err}
}

// TranscriptionError is a failure of the speech-to-text backend.
type TranscriptionError struct {
	Status int
	Detail string
	Err    error
}

func (e *TranscriptionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transcription failed (status %d): %s: %v", e.Status, e.Detail, e.Err)
	}
	return fmt.Sprintf("transcription failed (status %d): %s", e.Status, e.Detail)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *TranscriptionError) Unwrap() error {
	return e.Err
}

// NewTranscriptionError wraps err with the given status and detail. A zero
// status becomes InternalStatus.
func NewTranscriptionError(status int, detail string, err error) *TranscriptionError {
	if status == 0 {
		status = InternalStatus
	}
	return &TranscriptionError{Status: status, Detail: detail, Err: err}
}

// TimedOut reports whether err was caused by an expired deadline on ctx.
// It looks at the context first because SDKs do not always wrap
// context.DeadlineExceeded in the error they return.
func TimedOut(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	return ctx != nil && errors.Is(ctx.Err(), context.DeadlineExceeded)
}

// AsGenerationError normalizes any adapter error into a *GenerationError.
// Deadline expiry becomes 504 "timeout".
func AsGenerationError(ctx context.Context, err error) *GenerationError {
	if TimedOut(ctx, err) {
		return NewGenerationError(http.StatusGatewayTimeout, ErrTimeout.Error(), errors.Join(ErrTimeout, err))
	}
	var genErr *GenerationError
	if errors.As(err, &genErr) {
		return genErr
	}
	return NewGenerationError(InternalStatus, "internal", err)
}

// AsTranscriptionError normalizes any adapter error into a *TranscriptionError.
// Deadline expiry becomes 504 "timeout".
func AsTranscriptionError(ctx context.Context, err error) *TranscriptionError {
	if TimedOut(ctx, err) {
		return NewTranscriptionError(http.StatusGatewayTimeout, ErrTimeout.Error(), errors.Join(ErrTimeout, err))
	}
	var trErr *TranscriptionError
	if errors.As(err, &trErr) {
		return trErr
	}
	return NewTranscriptionError(InternalStatus, "internal", err)
}
