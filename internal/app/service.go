// Package app provides the core business service that implements the
// dependencies required by the HTTP API.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/huwdunnit/snookerup/internal/adapters/repository"
	"github.com/huwdunnit/snookerup/internal/domain/access"
	"github.com/huwdunnit/snookerup/internal/domain/criteria"
	"github.com/huwdunnit/snookerup/internal/domain/model"
	"github.com/huwdunnit/snookerup/internal/domain/page"
	"github.com/huwdunnit/snookerup/internal/domain/validation"
	"github.com/huwdunnit/snookerup/pkg/logger"
	"github.com/huwdunnit/snookerup/pkg/metrics"
)

// Service implements the business operations over the record store.
// It holds no mutable state across calls; all cross-request invariants
// live in the store.
type Service struct {
	store  repository.Store
	logger logger.Logger

	bcryptCost  int
	tokenSecret []byte
	tokenTTL    time.Duration

	now func() time.Time
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithBcryptCost sets the bcrypt work factor for password hashing.
func WithBcryptCost(cost int) Option {
	return func(s *Service) {
		if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			s.bcryptCost = cost
		}
	}
}

// WithTokenSecret sets the signing secret for access tokens.
func WithTokenSecret(secret []byte) Option {
	return func(s *Service) {
		if len(secret) > 0 {
			s.tokenSecret = secret
		}
	}
}

// WithTokenTTL sets the access token validity duration.
func WithTokenTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.tokenTTL = ttl
		}
	}
}

// WithClock overrides the time source. Used by tests to pin "now".
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a Service on top of the given store.
func New(store repository.Store, opts ...Option) *Service {
	s := &Service{
		store:      store,
		bcryptCost: bcrypt.DefaultCost,
		tokenTTL:   time.Hour,
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	return s
}

// CreateUser registers a new user. The admin flag is always forced off
// and the password is stored as a bcrypt hash.
func (s *Service) CreateUser(ctx context.Context, u model.User, password string) (model.User, error) {
	s.logger.Debug(ctx, "create user", logger.String("email", u.Email))

	// Callers can never create themselves as admins.
	u.Admin = false

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return model.User{}, fmt.Errorf("hash password: %w", err)
	}
	u.Password = string(hash)
	u.ID = model.NewID()

	created, err := s.store.InsertUser(ctx, u)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return model.User{}, ErrEmailTaken
		}
		return model.User{}, err
	}
	return created, nil
}

// EnsureAdmin creates an admin account with the given credentials if no
// user holds the email yet. Called once at startup; the API itself never
// grants the admin role.
func (s *Service) EnsureAdmin(ctx context.Context, email, password string) error {
	_, err := s.store.GetUserByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	_, err = s.store.InsertUser(ctx, model.User{
		ID:        model.NewID(),
		FirstName: "Admin",
		Email:     email,
		Password:  string(hash),
		Admin:     true,
	})
	if err != nil {
		return err
	}
	s.logger.Info(ctx, "bootstrapped admin account", logger.String("email", email))
	return nil
}

// ListUsers returns one page of all users.
func (s *Service) ListUsers(ctx context.Context, pg page.Request) (page.Result[model.User], error) {
	users, total, err := s.store.ListUsers(ctx, pg)
	if err != nil {
		return page.Result[model.User]{}, err
	}
	return page.NewResult(users, pg, total), nil
}

// GetUser returns the user with the given id.
func (s *Service) GetUser(ctx context.Context, id string) (model.User, error) {
	u, err := s.store.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.User{}, fmt.Errorf("%w, ID=%s", ErrUserNotFound, id)
		}
		return model.User{}, err
	}
	return u, nil
}

// CreateRoutine stores a new routine under a fresh id.
func (s *Service) CreateRoutine(ctx context.Context, r model.Routine) (model.Routine, error) {
	s.logger.Debug(ctx, "create routine", logger.String("title", r.Title))

	r.ID = model.NewID()
	return s.store.InsertRoutine(ctx, r)
}

// ListRoutines returns one page of routines matching the criteria.
func (s *Service) ListRoutines(ctx context.Context, crit criteria.RoutineCriteria, pg page.Request) (page.Result[model.Routine], error) {
	routines, total, err := s.store.ListRoutines(ctx, crit, pg)
	if err != nil {
		return page.Result[model.Routine]{}, err
	}
	return page.NewResult(routines, pg, total), nil
}

// GetRoutine returns the routine with the given id.
func (s *Service) GetRoutine(ctx context.Context, id string) (model.Routine, error) {
	r, err := s.store.GetRoutine(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Routine{}, fmt.Errorf("%w, ID=%s", ErrRoutineNotFound, id)
		}
		return model.Routine{}, err
	}
	return r, nil
}

// AddScore validates a submitted score against its parent routine's
// allow-lists and stores it. The pipeline short-circuits on the first
// failure; nothing is written unless every stage passes.
func (s *Service) AddScore(ctx context.Context, sc model.Score) (model.Score, error) {
	s.logger.Debug(ctx, "add score",
		logger.String("routineId", sc.RoutineID),
		logger.String("userId", sc.UserID),
		logger.Int("value", sc.Value),
	)

	routine, err := s.store.GetRoutine(ctx, sc.RoutineID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Score{}, fmt.Errorf("%w, ID=%s", ErrRoutineForScoreNotFound, sc.RoutineID)
		}
		return model.Score{}, err
	}

	if err := validation.CheckScore(sc, routine); err != nil {
		var fieldErr *validation.FieldError
		if errors.As(err, &fieldErr) {
			metrics.RecordScoreRejected(fieldErr.Field)
		}
		return model.Score{}, err
	}

	sc.ID = model.NewID()
	if sc.DateTime.IsZero() {
		sc.DateTime = model.NewDateTime(s.now())
	}

	added, err := s.store.InsertScore(ctx, sc)
	if err != nil {
		return model.Score{}, err
	}
	metrics.RecordScoreAccepted()
	return added, nil
}

// ListScores returns one page of scores matching the criteria, bounded
// by the caller's scope. Owner-bound scopes override any caller-supplied
// user id filter.
func (s *Service) ListScores(ctx context.Context, scope access.Scope, crit criteria.ScoreCriteria, pg page.Request) (page.Result[model.Score], error) {
	scores, total, err := s.store.ListScores(ctx, crit.WithScope(scope), pg)
	if err != nil {
		return page.Result[model.Score]{}, err
	}
	return page.NewResult(scores, pg, total), nil
}

// GetScore returns the score with the given id when it is visible in
// the caller's scope. Scores outside the scope are indistinguishable
// from missing ones.
func (s *Service) GetScore(ctx context.Context, scope access.Scope, id string) (model.Score, error) {
	sc, err := s.store.GetScore(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Score{}, fmt.Errorf("%w, ID=%s", ErrScoreNotFound, id)
		}
		return model.Score{}, err
	}
	if !scope.Allows(sc.UserID) {
		return model.Score{}, fmt.Errorf("%w, ID=%s", ErrScoreNotFound, id)
	}
	return sc, nil
}

// DeleteScore removes the score with the given id when it is visible in
// the caller's scope.
func (s *Service) DeleteScore(ctx context.Context, scope access.Scope, id string) error {
	sc, err := s.store.GetScore(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w, ID=%s", ErrScoreNotFound, id)
		}
		return err
	}
	if !scope.Allows(sc.UserID) {
		return fmt.Errorf("%w, ID=%s", ErrScoreNotFound, id)
	}
	return s.store.DeleteScore(ctx, id)
}

// Counts reports per-collection record counts when the backing store
// supports it. Used by the metrics updater.
func (s *Service) Counts(ctx context.Context) (users, routines, scores int, ok bool) {
	counter, supported := s.store.(interface {
		Counts(ctx context.Context) (int, int, int)
	})
	if !supported {
		return 0, 0, 0, false
	}
	users, routines, scores = counter.Counts(ctx)
	return users, routines, scores, true
}
