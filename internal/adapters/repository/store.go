// Package repository defines the record store interface and errors.
package repository

import (
	"context"

	"github.com/huwdunnit/snookerup/internal/domain/criteria"
	"github.com/huwdunnit/snookerup/internal/domain/model"
	"github.com/huwdunnit/snookerup/internal/domain/page"
)

// Store provides access to the three record collections. List methods
// take one criteria value evaluated as a single conjunctive predicate
// inside the store, plus page constraints, and return the matching page
// together with the total match count. Item order is the store's native
// insertion order.
type Store interface {
	// InsertUser adds a user. Returns ErrDuplicateEmail when another
	// user already holds the same email address; the check and insert
	// are atomic.
	InsertUser(ctx context.Context, u model.User) (model.User, error)
	// GetUser returns the user with the given id, or ErrNotFound.
	GetUser(ctx context.Context, id string) (model.User, error)
	// GetUserByEmail returns the user with the given email, or
	// ErrNotFound.
	GetUserByEmail(ctx context.Context, email string) (model.User, error)
	// ListUsers returns one page of users and the total user count.
	ListUsers(ctx context.Context, pg page.Request) ([]model.User, int64, error)

	// InsertRoutine adds a routine.
	InsertRoutine(ctx context.Context, r model.Routine) (model.Routine, error)
	// GetRoutine returns the routine with the given id, or ErrNotFound.
	GetRoutine(ctx context.Context, id string) (model.Routine, error)
	// ListRoutines returns one page of routines matching the criteria
	// and the total match count.
	ListRoutines(ctx context.Context, crit criteria.RoutineCriteria, pg page.Request) ([]model.Routine, int64, error)

	// InsertScore adds a score.
	InsertScore(ctx context.Context, sc model.Score) (model.Score, error)
	// GetScore returns the score with the given id, or ErrNotFound.
	GetScore(ctx context.Context, id string) (model.Score, error)
	// ListScores returns one page of scores matching the criteria and
	// the total match count.
	ListScores(ctx context.Context, crit criteria.ScoreCriteria, pg page.Request) ([]model.Score, int64, error)
	// DeleteScore removes the score with the given id, or returns
	// ErrNotFound.
	DeleteScore(ctx context.Context, id string) error

	// Close releases backend resources.
	Close() error
}

// pageSlice cuts one page out of the full match set. Used by backends
// that filter in memory.
func pageSlice[T any](items []T, pg page.Request) []T {
	if pg.Size <= 0 {
		return nil
	}
	start := pg.Offset()
	if start >= len(items) {
		return []T{}
	}
	end := start + pg.Size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
