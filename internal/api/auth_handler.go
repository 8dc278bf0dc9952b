package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/flashforge/flashforge-api/internal/api/shared"
	"github.com/flashforge/flashforge-api/internal/domain"
	"github.com/flashforge/flashforge-api/internal/service"
)

// AuthHandler handles registration, login and account lookup.
type AuthHandler struct {
	accounts service.AccountService
	now      func() time.Time
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(accounts service.AccountService) *AuthHandler {
	return &AuthHandler{accounts: accounts, now: time.Now}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	session, err := h.accounts.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, authResponse(session))
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	session, err := h.accounts.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, authResponse(session))
}

// GetAccount handles GET /api/account. It requires the auth middleware.
func (h *AuthHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	accountID, ok := shared.AccountIDFromContext(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid token")
		return
	}

	account, err := h.accounts.GetAccount(r.Context(), accountID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, toAccountResponse(account, h.now()))
}

func authResponse(session *service.Session) AuthResponse {
	return AuthResponse{
		UserID:      session.Account.ID,
		AccessToken: session.Token.Value,
		ExpiresAt:   formatTime(session.Token.ExpiresAt),
		TrialEndsAt: formatTime(session.Account.TrialEndDate),
	}
}

// decodeAndValidate decodes a JSON body into v and runs its validation
// tags. It writes the error response itself and reports whether the
// handler may continue.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := shared.DecodeJSON(r, v); err != nil {
		HandleAPIError(w, r, fmt.Errorf("%w: %v", ErrInvalidJSON, err))
		return false
	}
	if err := shared.ValidateRequest(v); err != nil {
		HandleAPIError(w, r, fmt.Errorf("%w: %v", domain.ErrValidation, err))
		return false
	}
	return true
}
