package api

import (
	"net/http"

	"github.com/huwdunnit/snookerup/internal/domain/model"
)

// TokenHandler exchanges HTTP Basic credentials for a bearer token.
type TokenHandler struct {
	deps Dependencies
}

// NewTokenHandler creates a new token handler.
func NewTokenHandler(deps Dependencies) *TokenHandler {
	return &TokenHandler{deps: deps}
}

// tokenResponse mirrors the OpenAPI schema for POST /api/v1/auth/token.
type tokenResponse struct {
	Token     string         `json:"token"`
	ExpiresAt model.DateTime `json:"expiresAt"`
}

// HandleIssueToken handles POST /api/v1/auth/token requests. The caller
// authenticates with HTTP Basic; the response carries a signed token
// usable as a Bearer credential until it expires.
func (h *TokenHandler) HandleIssueToken(w http.ResponseWriter, r *http.Request) {
	email, password, ok := r.BasicAuth()
	if !ok {
		writeUnauthorized(w)
		return
	}

	u, err := h.deps.Authenticate(r.Context(), email, password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	token, expiresAt, err := h.deps.IssueToken(u)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{
		Token:     token,
		ExpiresAt: model.NewDateTime(expiresAt),
	})
}
