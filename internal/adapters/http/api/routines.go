package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/huwdunnit/snookerup/internal/domain/criteria"
	"github.com/huwdunnit/snookerup/internal/domain/model"
)

// RoutinesHandler handles practice routine requests.
type RoutinesHandler struct {
	deps   Dependencies
	limits PageLimits
}

// NewRoutinesHandler creates a new routines handler.
func NewRoutinesHandler(deps Dependencies, limits PageLimits) *RoutinesHandler {
	return &RoutinesHandler{deps: deps, limits: limits}
}

// HandleCreateRoutine handles POST /api/v1/routines requests. Admin
// only; routed through requireAdmin.
func (h *RoutinesHandler) HandleCreateRoutine(w http.ResponseWriter, r *http.Request) {
	var routine model.Routine
	if err := json.NewDecoder(r.Body).Decode(&routine); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if strings.TrimSpace(routine.Title) == "" {
		writeError(w, http.StatusBadRequest, "missing title", nil)
		return
	}

	created, err := h.deps.CreateRoutine(r.Context(), routine)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// HandleListRoutines handles GET /api/v1/routines requests. An optional
// tags filter matches routines carrying any of the supplied tags.
func (h *RoutinesHandler) HandleListRoutines(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	pg, err := parsePage(q, h.limits)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	crit := criteria.RoutineCriteria{Tags: parseTags(q)}

	result, err := h.deps.ListRoutines(r.Context(), crit, pg)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// HandleGetRoutine handles GET /api/v1/routines/{id} requests.
func (h *RoutinesHandler) HandleGetRoutine(w http.ResponseWriter, r *http.Request) {
	routine, err := h.deps.GetRoutine(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, routine)
}
