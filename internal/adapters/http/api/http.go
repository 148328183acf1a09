// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/huwdunnit/snookerup/internal/app"
	"github.com/huwdunnit/snookerup/internal/domain/access"
	"github.com/huwdunnit/snookerup/internal/domain/criteria"
	"github.com/huwdunnit/snookerup/internal/domain/model"
	"github.com/huwdunnit/snookerup/internal/domain/page"
	"github.com/huwdunnit/snookerup/internal/domain/validation"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	CreateUser(ctx context.Context, u model.User, password string) (model.User, error)
	ListUsers(ctx context.Context, pg page.Request) (page.Result[model.User], error)
	GetUser(ctx context.Context, id string) (model.User, error)

	CreateRoutine(ctx context.Context, r model.Routine) (model.Routine, error)
	ListRoutines(ctx context.Context, crit criteria.RoutineCriteria, pg page.Request) (page.Result[model.Routine], error)
	GetRoutine(ctx context.Context, id string) (model.Routine, error)

	AddScore(ctx context.Context, sc model.Score) (model.Score, error)
	ListScores(ctx context.Context, scope access.Scope, crit criteria.ScoreCriteria, pg page.Request) (page.Result[model.Score], error)
	GetScore(ctx context.Context, scope access.Scope, id string) (model.Score, error)
	DeleteScore(ctx context.Context, scope access.Scope, id string) error

	Authenticate(ctx context.Context, email, password string) (model.User, error)
	IssueToken(user model.User) (token string, expiresAt time.Time, err error)
	VerifyToken(ctx context.Context, token string) (model.User, error)
}

// PageLimits carries the listing defaults handed down from config.
type PageLimits struct {
	DefaultSize int
	MaxSize     int
}

// Server wires HTTP routes for the business API.
type Server struct {
	deps Dependencies

	healthHandler   *HealthHandler
	tokenHandler    *TokenHandler
	usersHandler    *UsersHandler
	routinesHandler *RoutinesHandler
	scoresHandler   *ScoresHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, limits PageLimits) *Server {
	return &Server{
		deps:            deps,
		healthHandler:   NewHealthHandler(),
		tokenHandler:    NewTokenHandler(deps),
		usersHandler:    NewUsersHandler(deps, limits),
		routinesHandler: NewRoutinesHandler(deps, limits),
		scoresHandler:   NewScoresHandler(deps, limits),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	auth := s.authenticated
	admin := func(next http.HandlerFunc) http.HandlerFunc {
		return s.authenticated(requireAdmin(next))
	}

	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("POST /api/v1/auth/token", MetricsMiddleware(s.tokenHandler.HandleIssueToken, "auth_token"))

	mux.HandleFunc("POST /api/v1/users", MetricsMiddleware(s.usersHandler.HandleCreateUser, "users"))
	mux.HandleFunc("GET /api/v1/users", MetricsMiddleware(admin(s.usersHandler.HandleListUsers), "users"))
	mux.HandleFunc("GET /api/v1/users/{id}", MetricsMiddleware(auth(s.usersHandler.HandleGetUser), "user"))
	mux.HandleFunc("GET /api/v1/users/{userid}/scores", MetricsMiddleware(auth(s.scoresHandler.HandleListUserScores), "user_scores"))

	mux.HandleFunc("POST /api/v1/routines", MetricsMiddleware(admin(s.routinesHandler.HandleCreateRoutine), "routines"))
	mux.HandleFunc("GET /api/v1/routines", MetricsMiddleware(auth(s.routinesHandler.HandleListRoutines), "routines"))
	mux.HandleFunc("GET /api/v1/routines/{id}", MetricsMiddleware(auth(s.routinesHandler.HandleGetRoutine), "routine"))

	mux.HandleFunc("POST /api/v1/scores", MetricsMiddleware(auth(s.scoresHandler.HandleAddScore), "scores"))
	mux.HandleFunc("GET /api/v1/scores", MetricsMiddleware(admin(s.scoresHandler.HandleListScores), "scores"))
	mux.HandleFunc("GET /api/v1/scores/{id}", MetricsMiddleware(auth(s.scoresHandler.HandleGetScore), "score"))
	mux.HandleFunc("DELETE /api/v1/scores/{id}", MetricsMiddleware(auth(s.scoresHandler.HandleDeleteScore), "score"))
}

// errorResponse mirrors the wire shape of every error body.
type errorResponse struct {
	ErrorMessage string            `json:"errorMessage"`
	Context      map[string]string `json:"context,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string, errCtx map[string]string) {
	writeJSON(w, status, errorResponse{ErrorMessage: message, Context: errCtx})
}

// writeServiceError translates service-layer errors into wire status
// codes and bodies.
func writeServiceError(w http.ResponseWriter, err error) {
	var fieldErr *validation.FieldError
	switch {
	case errors.As(err, &fieldErr):
		writeError(w, http.StatusBadRequest, fieldErr.Error(), map[string]string{"field": fieldErr.Field})
	case errors.Is(err, app.ErrUserNotFound),
		errors.Is(err, app.ErrRoutineNotFound),
		errors.Is(err, app.ErrScoreNotFound),
		errors.Is(err, app.ErrRoutineForScoreNotFound):
		writeError(w, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, app.ErrEmailTaken):
		writeError(w, http.StatusConflict, err.Error(), nil)
	case errors.Is(err, app.ErrBadCredentials), errors.Is(err, app.ErrInvalidToken):
		writeUnauthorized(w)
	default:
		writeError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError), nil)
	}
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Basic realm="snookerup"`)
	writeError(w, http.StatusUnauthorized, "authentication required", nil)
}

func writeForbidden(w http.ResponseWriter) {
	writeError(w, http.StatusForbidden, "insufficient permissions", nil)
}
