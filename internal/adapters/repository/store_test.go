package repository

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/huwdunnit/snookerup/internal/domain/criteria"
	"github.com/huwdunnit/snookerup/internal/domain/model"
	"github.com/huwdunnit/snookerup/internal/domain/page"
)

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }
func boolPtr(v bool) *bool    { return &v }

// backends returns a named constructor per Store implementation so the
// contract tests run identically against both.
func backends(t *testing.T) map[string]func(t *testing.T) Store {
	t.Helper()
	return map[string]func(t *testing.T) Store{
		"memory": func(t *testing.T) Store {
			t.Helper()
			return NewMemoryStore(context.Background())
		},
		"sqlite": func(t *testing.T) Store {
			t.Helper()
			store, err := NewSQLiteStore(context.Background(), filepath.Join(t.TempDir(), "store.db"))
			require.NoError(t, err)
			return store
		},
	}
}

func mustDateTime(t *testing.T, s string) model.DateTime {
	t.Helper()
	dt, err := model.ParseDateTime(s)
	require.NoError(t, err)
	return dt
}

func TestStoreUsers(t *testing.T) {
	for name, newStore := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := newStore(t)
			defer func() { require.NoError(t, store.Close()) }()

			u := model.User{ID: "u1", FirstName: "Ronnie", Email: "ronnie@example.com", Password: "hash"}
			_, err := store.InsertUser(ctx, u)
			require.NoError(t, err)

			got, err := store.GetUser(ctx, "u1")
			require.NoError(t, err)
			require.Equal(t, u, got)

			got, err = store.GetUserByEmail(ctx, "ronnie@example.com")
			require.NoError(t, err)
			require.Equal(t, "u1", got.ID)

			_, err = store.GetUser(ctx, "missing")
			require.ErrorIs(t, err, ErrNotFound)

			_, err = store.GetUserByEmail(ctx, "missing@example.com")
			require.ErrorIs(t, err, ErrNotFound)

			_, err = store.InsertUser(ctx, model.User{ID: "u2", Email: "ronnie@example.com"})
			require.ErrorIs(t, err, ErrDuplicateEmail)

			users, total, err := store.ListUsers(ctx, page.Request{Number: 0, Size: 10})
			require.NoError(t, err)
			require.EqualValues(t, 1, total)
			require.Len(t, users, 1)
		})
	}
}

func TestStoreUserPaging(t *testing.T) {
	for name, newStore := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := newStore(t)
			defer func() { require.NoError(t, store.Close()) }()

			for i := 0; i < 3; i++ {
				_, err := store.InsertUser(ctx, model.User{
					ID:    fmt.Sprintf("u%d", i+1),
					Email: fmt.Sprintf("u%d@example.com", i+1),
				})
				require.NoError(t, err)
			}

			first, total, err := store.ListUsers(ctx, page.Request{Number: 0, Size: 2})
			require.NoError(t, err)
			require.EqualValues(t, 3, total)
			require.Len(t, first, 2)
			require.Equal(t, "u1", first[0].ID)
			require.Equal(t, "u2", first[1].ID)

			second, total, err := store.ListUsers(ctx, page.Request{Number: 1, Size: 2})
			require.NoError(t, err)
			require.EqualValues(t, 3, total)
			require.Len(t, second, 1)
			require.Equal(t, "u3", second[0].ID)

			beyond, _, err := store.ListUsers(ctx, page.Request{Number: 5, Size: 2})
			require.NoError(t, err)
			require.Empty(t, beyond)

			// A page number large enough to overflow the offset
			// arithmetic must read as an empty page, not panic.
			huge, total, err := store.ListUsers(ctx, page.Request{Number: 1 << 62, Size: 50})
			require.NoError(t, err)
			require.EqualValues(t, 3, total)
			require.Empty(t, huge)
		})
	}
}

func TestStoreRoutines(t *testing.T) {
	for name, newStore := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := newStore(t)
			defer func() { require.NoError(t, store.Close()) }()

			lineUp := model.Routine{
				ID:            "r1",
				Title:         "The Line Up",
				Description:   []string{"Pot a line of reds along the spots."},
				Tags:          []string{"break-building", "positional-play"},
				CushionLimits: []int{0, 3, 5, 7},
				Colours:       []string{"all", "black"},
				Balls:         &model.Balls{Options: []int{3, 5, 10}, Unit: "reds"},
				CanLoop:       true,
			}
			safety := model.Routine{ID: "r2", Title: "Safety Exchange", Tags: []string{"safety"}}
			bare := model.Routine{ID: "r3", Title: "Clearing the Colours"}

			for _, r := range []model.Routine{lineUp, safety, bare} {
				_, err := store.InsertRoutine(ctx, r)
				require.NoError(t, err)
			}

			got, err := store.GetRoutine(ctx, "r1")
			require.NoError(t, err)
			require.Equal(t, lineUp, got)

			_, err = store.GetRoutine(ctx, "missing")
			require.ErrorIs(t, err, ErrNotFound)

			all, total, err := store.ListRoutines(ctx, criteria.RoutineCriteria{}, page.Request{Size: 10})
			require.NoError(t, err)
			require.EqualValues(t, 3, total)
			require.Len(t, all, 3)

			tagged, total, err := store.ListRoutines(ctx,
				criteria.RoutineCriteria{Tags: []string{"safety", "positional-play"}},
				page.Request{Size: 10})
			require.NoError(t, err)
			require.EqualValues(t, 2, total)
			require.Len(t, tagged, 2)
			require.Equal(t, "r1", tagged[0].ID)
			require.Equal(t, "r2", tagged[1].ID)

			none, total, err := store.ListRoutines(ctx,
				criteria.RoutineCriteria{Tags: []string{"potting"}},
				page.Request{Size: 10})
			require.NoError(t, err)
			require.EqualValues(t, 0, total)
			require.Empty(t, none)
		})
	}
}

func TestStoreScores(t *testing.T) {
	for name, newStore := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := newStore(t)
			defer func() { require.NoError(t, store.Close()) }()

			scores := []model.Score{
				{ID: "s1", Value: 30, UserID: "u1", RoutineID: "r1", DateTime: mustDateTime(t, "25/2/2025 19:00")},
				{ID: "s2", Value: 45, UserID: "u1", RoutineID: "r1", DateTime: mustDateTime(t, "25/2/2025 19:30"), CushionLimit: intPtr(3)},
				{ID: "s3", Value: 60, UserID: "u2", RoutineID: "r2", DateTime: mustDateTime(t, "26/2/2025 10:00"), Colours: strPtr("black"), Loop: true},
			}
			for _, sc := range scores {
				_, err := store.InsertScore(ctx, sc)
				require.NoError(t, err)
			}

			got, err := store.GetScore(ctx, "s2")
			require.NoError(t, err)
			// Compare the timestamp by instant; the location differs
			// between backends.
			require.True(t, got.DateTime.Equal(scores[1].DateTime.Time))
			got.DateTime = scores[1].DateTime
			require.Equal(t, scores[1], got)

			_, err = store.GetScore(ctx, "missing")
			require.ErrorIs(t, err, ErrNotFound)

			t.Run("unfiltered", func(t *testing.T) {
				all, total, err := store.ListScores(ctx, criteria.ScoreCriteria{}, page.Request{Size: 10})
				require.NoError(t, err)
				require.EqualValues(t, 3, total)
				require.Len(t, all, 3)
			})

			t.Run("by user", func(t *testing.T) {
				mine, total, err := store.ListScores(ctx,
					criteria.ScoreCriteria{UserID: strPtr("u1")}, page.Request{Size: 10})
				require.NoError(t, err)
				require.EqualValues(t, 2, total)
				require.Len(t, mine, 2)
			})

			t.Run("date range inclusive", func(t *testing.T) {
				from := mustDateTime(t, "25/2/2025 19:30").Time
				to := mustDateTime(t, "26/2/2025 10:00").Time
				ranged, total, err := store.ListScores(ctx,
					criteria.ScoreCriteria{From: &from, To: &to}, page.Request{Size: 10})
				require.NoError(t, err)
				require.EqualValues(t, 2, total)
				require.Equal(t, "s2", ranged[0].ID)
				require.Equal(t, "s3", ranged[1].ID)
			})

			t.Run("optional field equality", func(t *testing.T) {
				limited, total, err := store.ListScores(ctx,
					criteria.ScoreCriteria{CushionLimit: intPtr(3)}, page.Request{Size: 10})
				require.NoError(t, err)
				require.EqualValues(t, 1, total)
				require.Equal(t, "s2", limited[0].ID)

				looped, total, err := store.ListScores(ctx,
					criteria.ScoreCriteria{Loop: boolPtr(true)}, page.Request{Size: 10})
				require.NoError(t, err)
				require.EqualValues(t, 1, total)
				require.Equal(t, "s3", looped[0].ID)
			})

			t.Run("conjunction", func(t *testing.T) {
				_, total, err := store.ListScores(ctx,
					criteria.ScoreCriteria{UserID: strPtr("u1"), RoutineID: strPtr("r2")},
					page.Request{Size: 10})
				require.NoError(t, err)
				require.EqualValues(t, 0, total)
			})

			t.Run("delete", func(t *testing.T) {
				require.NoError(t, store.DeleteScore(ctx, "s1"))
				require.ErrorIs(t, store.DeleteScore(ctx, "s1"), ErrNotFound)

				_, total, err := store.ListScores(ctx, criteria.ScoreCriteria{}, page.Request{Size: 10})
				require.NoError(t, err)
				require.EqualValues(t, 2, total)
			})
		})
	}
}

func TestStoreScoreCopies(t *testing.T) {
	for name, newStore := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := newStore(t)
			defer func() { require.NoError(t, store.Close()) }()

			limit := 3
			sc := model.Score{
				ID: "s1", Value: 30, UserID: "u1", RoutineID: "r1",
				DateTime:     mustDateTime(t, "25/2/2025 19:00"),
				CushionLimit: &limit,
			}
			_, err := store.InsertScore(ctx, sc)
			require.NoError(t, err)

			// Mutating the caller's value after insert must not reach the
			// stored record.
			limit = 99

			got, err := store.GetScore(ctx, "s1")
			require.NoError(t, err)
			require.Equal(t, 3, *got.CushionLimit)

			// Nor may a mutation on a loaded record leak back in.
			*got.CushionLimit = 42
			again, err := store.GetScore(ctx, "s1")
			require.NoError(t, err)
			require.Equal(t, 3, *again.CushionLimit)
		})
	}
}

func TestStoreCounts(t *testing.T) {
	type counter interface {
		Counts(ctx context.Context) (int, int, int)
	}

	for name, newStore := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := newStore(t)
			defer func() { require.NoError(t, store.Close()) }()

			_, err := store.InsertUser(ctx, model.User{ID: "u1", Email: "u1@example.com"})
			require.NoError(t, err)
			_, err = store.InsertRoutine(ctx, model.Routine{ID: "r1", Title: "The Line Up"})
			require.NoError(t, err)
			_, err = store.InsertScore(ctx, model.Score{ID: "s1", UserID: "u1", RoutineID: "r1", DateTime: mustDateTime(t, "25/2/2025 19:00")})
			require.NoError(t, err)

			c, ok := store.(counter)
			require.True(t, ok)
			users, routines, scores := c.Counts(ctx)
			require.Equal(t, 1, users)
			require.Equal(t, 1, routines)
			require.Equal(t, 1, scores)
		})
	}
}
