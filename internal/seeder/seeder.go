// Package seeder populates a running SnookerUp instance with sample
// users, routines, and scores over the HTTP API. Intended for local
// smoke testing.
package seeder

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// Config holds seeding parameters.
type Config struct {
	// BaseURL of the running instance, e.g. http://localhost:8080.
	BaseURL string

	// AdminEmail and AdminPassword authenticate routine creation and
	// must match a bootstrapped admin account.
	AdminEmail    string
	AdminPassword string

	// Users, Routines, and Scores are the number of records to create.
	Users    int
	Routines int
	Scores   int

	// Workers is the concurrency for score submission.
	Workers int

	// Timeout bounds each HTTP request.
	Timeout time.Duration

	// Password assigned to every generated user.
	Password string
}

// Stats summarizes a seeding run.
type Stats struct {
	UsersCreated    int
	RoutinesCreated int
	ScoresAccepted  int
	ScoresFailed    int
	Elapsed         time.Duration
}

type createdUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type createdRoutine struct {
	ID string `json:"id"`

	template routineTemplate
}

// Run seeds the instance and returns run statistics. Routine creation
// failures abort the run; individual score rejections are counted and
// skipped.
func Run(ctx context.Context, cfg Config) (*Stats, error) {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.Password == "" {
		cfg.Password = "practice123"
	}

	start := time.Now()
	c := newClient(cfg.Timeout)
	stats := &Stats{}

	routines, err := createRoutines(ctx, c, cfg)
	if err != nil {
		return nil, err
	}
	stats.RoutinesCreated = len(routines)

	users, err := createUsers(ctx, c, cfg)
	if err != nil {
		return nil, err
	}
	stats.UsersCreated = len(users)

	accepted, failed := submitScores(ctx, c, cfg, users, routines)
	stats.ScoresAccepted = accepted
	stats.ScoresFailed = failed
	stats.Elapsed = time.Since(start)
	return stats, nil
}

func createRoutines(ctx context.Context, c *client, cfg Config) ([]createdRoutine, error) {
	url := cfg.BaseURL + "/api/v1/routines"
	routines := make([]createdRoutine, 0, cfg.Routines)

	for i := 0; i < cfg.Routines; i++ {
		t := sampleRoutine(i)
		var created createdRoutine
		if err := c.postJSON(ctx, url, cfg.AdminEmail, cfg.AdminPassword, t, &created, http.StatusCreated); err != nil {
			return nil, fmt.Errorf("create routine %q: %w", t.Title, err)
		}
		created.template = t
		routines = append(routines, created)
	}
	return routines, nil
}

func createUsers(ctx context.Context, c *client, cfg Config) ([]createdUser, error) {
	url := cfg.BaseURL + "/api/v1/users"
	suffix := time.Now().UnixNano()
	users := make([]createdUser, 0, cfg.Users)

	for i := 0; i < cfg.Users; i++ {
		body := map[string]string{
			"firstName": fmt.Sprintf("Player%d", i+1),
			"lastName":  "Seed",
			"email":     fmt.Sprintf("player%d.%d@seed.local", i+1, suffix),
			"password":  cfg.Password,
		}
		var created createdUser
		if err := c.postJSON(ctx, url, "", "", body, &created, http.StatusCreated); err != nil {
			return nil, fmt.Errorf("create user %d: %w", i+1, err)
		}
		users = append(users, created)
	}
	return users, nil
}

func submitScores(ctx context.Context, c *client, cfg Config, users []createdUser, routines []createdRoutine) (accepted, failed int) {
	if len(users) == 0 || len(routines) == 0 || cfg.Scores == 0 {
		return 0, 0
	}

	url := cfg.BaseURL + "/api/v1/scores"
	var okCount, failCount int64

	jobs := make(chan int, cfg.Workers*2)
	var wg sync.WaitGroup

	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))

			for range jobs {
				select {
				case <-ctx.Done():
					return
				default:
				}

				u := users[rng.Intn(len(users))]
				r := routines[rng.Intn(len(routines))]
				body := scoreBody(rng, r.ID, r.template)

				if err := c.postJSON(ctx, url, u.Email, cfg.Password, body, nil, http.StatusCreated); err != nil {
					atomic.AddInt64(&failCount, 1)
					continue
				}
				atomic.AddInt64(&okCount, 1)
			}
		}(time.Now().UnixNano() + int64(w))
	}

	go func() {
		defer close(jobs)
		for i := 0; i < cfg.Scores; i++ {
			select {
			case <-ctx.Done():
				return
			case jobs <- i:
			}
		}
	}()

	wg.Wait()
	return int(atomic.LoadInt64(&okCount)), int(atomic.LoadInt64(&failCount))
}
