package repository

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/huwdunnit/snookerup/internal/domain/criteria"
	"github.com/huwdunnit/snookerup/internal/domain/model"
	"github.com/huwdunnit/snookerup/internal/domain/page"
	"github.com/huwdunnit/snookerup/pkg/metrics"
)

// MemoryStore is a mutex-guarded, in-memory Store implementation.
// Records are kept in insertion order, which defines the native paging
// order. Reads return copies so loaded records stay immutable
// snapshots.
type MemoryStore struct {
	mu       sync.RWMutex
	users    []model.User
	emails   map[string]struct{}
	routines []model.Routine
	scores   []model.Score
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(_ context.Context) *MemoryStore {
	return &MemoryStore{
		emails: make(map[string]struct{}),
	}
}

var _ Store = (*MemoryStore)(nil)

func (s *MemoryStore) InsertUser(_ context.Context, u model.User) (model.User, error) {
	defer observe("insert_user", time.Now())
	s.mu.Lock()
	defer s.mu.Unlock()

	// Uniqueness check and append happen under one lock, so concurrent
	// inserts of the same email yield exactly one success.
	if _, taken := s.emails[u.Email]; taken {
		return model.User{}, ErrDuplicateEmail
	}
	s.emails[u.Email] = struct{}{}
	s.users = append(s.users, u)
	return u, nil
}

func (s *MemoryStore) GetUser(_ context.Context, id string) (model.User, error) {
	defer observe("get_user", time.Now())
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return model.User{}, ErrNotFound
}

func (s *MemoryStore) GetUserByEmail(_ context.Context, email string) (model.User, error) {
	defer observe("get_user_by_email", time.Now())
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, ErrNotFound
}

func (s *MemoryStore) ListUsers(_ context.Context, pg page.Request) ([]model.User, int64, error) {
	defer observe("list_users", time.Now())
	s.mu.RLock()
	defer s.mu.RUnlock()

	return pageSlice(slices.Clone(s.users), pg), int64(len(s.users)), nil
}

func (s *MemoryStore) InsertRoutine(_ context.Context, r model.Routine) (model.Routine, error) {
	defer observe("insert_routine", time.Now())
	s.mu.Lock()
	defer s.mu.Unlock()

	s.routines = append(s.routines, cloneRoutine(r))
	return r, nil
}

func (s *MemoryStore) GetRoutine(_ context.Context, id string) (model.Routine, error) {
	defer observe("get_routine", time.Now())
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.routines {
		if r.ID == id {
			return cloneRoutine(r), nil
		}
	}
	return model.Routine{}, ErrNotFound
}

func (s *MemoryStore) ListRoutines(_ context.Context, crit criteria.RoutineCriteria, pg page.Request) ([]model.Routine, int64, error) {
	defer observe("list_routines", time.Now())
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]model.Routine, 0, len(s.routines))
	for _, r := range s.routines {
		if crit.Matches(r) {
			matched = append(matched, cloneRoutine(r))
		}
	}
	return pageSlice(matched, pg), int64(len(matched)), nil
}

func (s *MemoryStore) InsertScore(_ context.Context, sc model.Score) (model.Score, error) {
	defer observe("insert_score", time.Now())
	s.mu.Lock()
	defer s.mu.Unlock()

	s.scores = append(s.scores, cloneScore(sc))
	return sc, nil
}

func (s *MemoryStore) GetScore(_ context.Context, id string) (model.Score, error) {
	defer observe("get_score", time.Now())
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, sc := range s.scores {
		if sc.ID == id {
			return cloneScore(sc), nil
		}
	}
	return model.Score{}, ErrNotFound
}

func (s *MemoryStore) ListScores(_ context.Context, crit criteria.ScoreCriteria, pg page.Request) ([]model.Score, int64, error) {
	defer observe("list_scores", time.Now())
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]model.Score, 0, len(s.scores))
	for _, sc := range s.scores {
		if crit.Matches(sc) {
			matched = append(matched, cloneScore(sc))
		}
	}
	return pageSlice(matched, pg), int64(len(matched)), nil
}

func (s *MemoryStore) DeleteScore(_ context.Context, id string) error {
	defer observe("delete_score", time.Now())
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, sc := range s.scores {
		if sc.ID == id {
			s.scores = append(s.scores[:i], s.scores[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// Close is a no-op for the in-memory backend.
func (s *MemoryStore) Close() error {
	return nil
}

// Counts returns the number of records per collection, for metrics.
func (s *MemoryStore) Counts(_ context.Context) (users, routines, scores int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users), len(s.routines), len(s.scores)
}

func cloneRoutine(r model.Routine) model.Routine {
	r.Description = slices.Clone(r.Description)
	r.Tags = slices.Clone(r.Tags)
	r.CushionLimits = slices.Clone(r.CushionLimits)
	r.Colours = slices.Clone(r.Colours)
	r.Images = slices.Clone(r.Images)
	if r.Balls != nil {
		balls := model.Balls{Options: slices.Clone(r.Balls.Options), Unit: r.Balls.Unit}
		r.Balls = &balls
	}
	return r
}

func cloneScore(sc model.Score) model.Score {
	if sc.CushionLimit != nil {
		v := *sc.CushionLimit
		sc.CushionLimit = &v
	}
	if sc.Colours != nil {
		v := *sc.Colours
		sc.Colours = &v
	}
	if sc.NumBalls != nil {
		v := *sc.NumBalls
		sc.NumBalls = &v
	}
	return sc
}

// observe records a store operation latency in milliseconds.
func observe(op string, start time.Time) {
	metrics.RecordStoreQueryLatency(op, float64(time.Since(start).Microseconds())/1000.0)
}
