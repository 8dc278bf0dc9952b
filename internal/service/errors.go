package service

import "errors"

// Common service errors. The API layer maps these to HTTP status codes.
var (
	// ErrInvalidCredentials indicates a login with an unknown username or a
	// wrong password. The two cases are deliberately indistinguishable.
	// API layer should map this to HTTP 401 Unauthorized.
	ErrInvalidCredentials = errors.New("invalid username or password")
)
