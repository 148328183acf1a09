package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/huwdunnit/snookerup/internal/seeder"
)

// Default configuration constants.
const (
	defaultUsers    = 5
	defaultRoutines = 4
	defaultScores   = 50
	defaultWorkers  = 4
	defaultTimeout  = 10 * time.Second
	defaultRunLimit = 5 * time.Minute
)

func main() {
	var (
		baseURL       = flag.String("url", "http://localhost:8080", "Base URL of the service")
		adminEmail    = flag.String("admin-email", "", "Admin email for routine creation (required)")
		adminPassword = flag.String("admin-password", "", "Admin password (required)")
		users         = flag.Int("users", defaultUsers, "Number of users to create")
		routines      = flag.Int("routines", defaultRoutines, "Number of routines to create")
		scores        = flag.Int("scores", defaultScores, "Number of scores to submit")
		workers       = flag.Int("workers", defaultWorkers, "Number of concurrent score submitters")
		timeout       = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
	)
	flag.Parse()

	if *adminEmail == "" || *adminPassword == "" {
		os.Stderr.WriteString("missing -admin-email or -admin-password\n")
		flag.Usage()
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunLimit)
	defer cancel()

	stats, err := seeder.Run(ctx, seeder.Config{
		BaseURL:       *baseURL,
		AdminEmail:    *adminEmail,
		AdminPassword: *adminPassword,
		Users:         *users,
		Routines:      *routines,
		Scores:        *scores,
		Workers:       *workers,
		Timeout:       *timeout,
	})
	if err != nil {
		os.Stderr.WriteString("seeding failed: " + err.Error() + "\n")
		os.Exit(1)
	}

	fmt.Printf(`Seeding completed in %s:
  Users created:    %d
  Routines created: %d
  Scores accepted:  %d
  Scores failed:    %d
`, stats.Elapsed.Round(time.Millisecond), stats.UsersCreated, stats.RoutinesCreated, stats.ScoresAccepted, stats.ScoresFailed)
}
