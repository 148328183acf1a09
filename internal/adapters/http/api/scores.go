package api

import (
	"encoding/json"
	"net/http"

	"github.com/huwdunnit/snookerup/internal/domain/access"
	"github.com/huwdunnit/snookerup/internal/domain/model"
)

// ScoresHandler handles score submission, listing, and deletion
// requests.
type ScoresHandler struct {
	deps   Dependencies
	limits PageLimits
}

// NewScoresHandler creates a new scores handler.
func NewScoresHandler(deps Dependencies, limits PageLimits) *ScoresHandler {
	return &ScoresHandler{deps: deps, limits: limits}
}

// HandleAddScore handles POST /api/v1/scores requests. Callers can only
// submit scores under their own user id unless they are admins.
func (h *ScoresHandler) HandleAddScore(w http.ResponseWriter, r *http.Request) {
	p, ok := PrincipalFrom(r.Context())
	if !ok {
		writeUnauthorized(w)
		return
	}

	var sc model.Score
	if err := json.NewDecoder(r.Body).Decode(&sc); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if sc.UserID == "" {
		sc.UserID = p.ID
	}
	if !p.Admin && sc.UserID != p.ID {
		writeForbidden(w)
		return
	}

	added, err := h.deps.AddScore(r.Context(), sc)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, added)
}

// HandleListScores handles GET /api/v1/scores requests. Admin only;
// all filter parameters are optional.
func (h *ScoresHandler) HandleListScores(w http.ResponseWriter, r *http.Request) {
	p, ok := PrincipalFrom(r.Context())
	if !ok {
		writeUnauthorized(w)
		return
	}
	q := r.URL.Query()

	pg, err := parsePage(q, h.limits)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	crit, err := parseScoreCriteria(q)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	result, err := h.deps.ListScores(r.Context(), access.Resolve(p), crit, pg)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// HandleListUserScores handles GET /api/v1/users/{userid}/scores
// requests. Callers can list their own scores; admins can list
// anyone's. The path user id overrides any userId query parameter.
func (h *ScoresHandler) HandleListUserScores(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userid")

	p, ok := PrincipalFrom(r.Context())
	if !ok {
		writeUnauthorized(w)
		return
	}
	if !p.Admin && p.ID != userID {
		writeForbidden(w)
		return
	}
	q := r.URL.Query()

	pg, err := parsePage(q, h.limits)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	crit, err := parseScoreCriteria(q)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	crit.UserID = &userID

	result, err := h.deps.ListScores(r.Context(), access.Resolve(p), crit, pg)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// HandleGetScore handles GET /api/v1/scores/{id} requests. Non-admins
// can only see their own scores; anything else reads as missing.
func (h *ScoresHandler) HandleGetScore(w http.ResponseWriter, r *http.Request) {
	p, ok := PrincipalFrom(r.Context())
	if !ok {
		writeUnauthorized(w)
		return
	}

	sc, err := h.deps.GetScore(r.Context(), access.Resolve(p), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sc)
}

// HandleDeleteScore handles DELETE /api/v1/scores/{id} requests.
// Deleting a foreign score as a non-admin reads as missing.
func (h *ScoresHandler) HandleDeleteScore(w http.ResponseWriter, r *http.Request) {
	p, ok := PrincipalFrom(r.Context())
	if !ok {
		writeUnauthorized(w)
		return
	}

	if err := h.deps.DeleteScore(r.Context(), access.Resolve(p), r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
