package seeder

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"
	"golang.org/x/crypto/bcrypt"

	"github.com/huwdunnit/snookerup/internal/adapters/http/api"
	"github.com/huwdunnit/snookerup/internal/adapters/repository"
	"github.com/huwdunnit/snookerup/internal/app"
	"github.com/huwdunnit/snookerup/pkg/logger"
)

func TestSeederRun(t *testing.T) {
	convey.Convey("Given a live instance", t, func() {
		convey.So(logger.Init(), convey.ShouldBeNil)

		ctx := context.Background()
		store := repository.NewMemoryStore(ctx)
		svc := app.New(store,
			app.WithBcryptCost(bcrypt.MinCost),
			app.WithTokenSecret([]byte("seed-secret")),
		)
		convey.So(svc.EnsureAdmin(ctx, "admin@example.com", "changeit"), convey.ShouldBeNil)

		mux := http.NewServeMux()
		api.NewServer(svc, api.PageLimits{DefaultSize: 50, MaxSize: 500}).Register(ctx, mux)
		srv := httptest.NewServer(mux)
		defer srv.Close()

		convey.Convey("When seeding users, routines, and scores", func() {
			stats, err := Run(ctx, Config{
				BaseURL:       srv.URL,
				AdminEmail:    "admin@example.com",
				AdminPassword: "changeit",
				Users:         2,
				Routines:      3,
				Scores:        10,
				Workers:       2,
				Timeout:       5 * time.Second,
			})

			convey.Convey("Then the records should land in the store", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(stats.UsersCreated, convey.ShouldEqual, 2)
				convey.So(stats.RoutinesCreated, convey.ShouldEqual, 3)
				convey.So(stats.ScoresAccepted, convey.ShouldEqual, 10)
				convey.So(stats.ScoresFailed, convey.ShouldEqual, 0)

				users, routines, scores := store.Counts(ctx)
				convey.So(users, convey.ShouldEqual, 3) // includes the admin
				convey.So(routines, convey.ShouldEqual, 3)
				convey.So(scores, convey.ShouldEqual, 10)
			})
		})

		convey.Convey("When the admin credentials are wrong", func() {
			_, err := Run(ctx, Config{
				BaseURL:       srv.URL,
				AdminEmail:    "admin@example.com",
				AdminPassword: "nope",
				Users:         1,
				Routines:      1,
				Scores:        1,
				Timeout:       5 * time.Second,
			})

			convey.Convey("Then the run should abort", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})
	})
}
