package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/huwdunnit/snookerup/internal/domain/model"
)

// UsersHandler handles user registration and retrieval requests.
type UsersHandler struct {
	deps   Dependencies
	limits PageLimits
}

// NewUsersHandler creates a new users handler.
func NewUsersHandler(deps Dependencies, limits PageLimits) *UsersHandler {
	return &UsersHandler{deps: deps, limits: limits}
}

// userRequest mirrors the OpenAPI schema for POST /api/v1/users.
type userRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

func (u userRequest) validate() error {
	switch {
	case strings.TrimSpace(u.Email) == "":
		return fmt.Errorf("%w: missing email", ErrBadRequest)
	case u.Password == "":
		return fmt.Errorf("%w: missing password", ErrBadRequest)
	}
	return nil
}

// HandleCreateUser handles POST /api/v1/users requests. Registration is
// open; the admin flag on the stored user is always false.
func (h *UsersHandler) HandleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	u := model.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	}
	created, err := h.deps.CreateUser(r.Context(), u, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// HandleListUsers handles GET /api/v1/users requests. Admin only.
func (h *UsersHandler) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	pg, err := parsePage(r.URL.Query(), h.limits)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	result, err := h.deps.ListUsers(r.Context(), pg)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// HandleGetUser handles GET /api/v1/users/{id} requests. Callers can
// fetch their own record; admins can fetch anyone's.
func (h *UsersHandler) HandleGetUser(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	p, ok := PrincipalFrom(r.Context())
	if !ok {
		writeUnauthorized(w)
		return
	}
	if !p.Admin && p.ID != id {
		writeForbidden(w)
		return
	}

	u, err := h.deps.GetUser(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}
