package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/smartystreets/goconvey/convey"
)

func TestDefaults(t *testing.T) {
	convey.Convey("Given a default configuration", t, func() {
		cfg := New()

		convey.Convey("Then sensible defaults should be set", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
			convey.So(cfg.Store, convey.ShouldEqual, StoreMemory)
			convey.So(cfg.DefaultPageSize, convey.ShouldEqual, 50)
			convey.So(cfg.MaxPageSize, convey.ShouldEqual, 500)
			convey.So(cfg.BcryptCost, convey.ShouldEqual, 10)
			convey.So(cfg.TokenTTLMinutes, convey.ShouldEqual, 60)
		})
	})
}

func TestLoad(t *testing.T) {
	convey.Convey("Given the layered loader", t, func() {
		ctx := context.Background()

		convey.Convey("When nothing overrides the defaults", func() {
			cfg, err := Load(ctx)

			convey.Convey("Then defaults should survive", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.Store, convey.ShouldEqual, StoreMemory)
			})
		})

		convey.Convey("When environment variables override", func() {
			_ = os.Setenv("SNOOKERUP_ADDR", ":9999")
			_ = os.Setenv("SNOOKERUP_DEFAULT_PAGE_SIZE", "25")
			defer func() {
				_ = os.Unsetenv("SNOOKERUP_ADDR")
				_ = os.Unsetenv("SNOOKERUP_DEFAULT_PAGE_SIZE")
			}()

			cfg, err := Load(ctx)

			convey.Convey("Then the env values should win", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9999")
				convey.So(cfg.DefaultPageSize, convey.ShouldEqual, 25)
			})
		})

		convey.Convey("When a YAML file is supplied", func() {
			path := filepath.Join(t.TempDir(), "config.yaml")
			yaml := "addr: \":7070\"\nstore: sqlite\nsqlite_path: /tmp/test.db\n"
			convey.So(os.WriteFile(path, []byte(yaml), 0o600), convey.ShouldBeNil)

			_ = os.Setenv("SNOOKERUP_CONFIG", path)
			defer func() { _ = os.Unsetenv("SNOOKERUP_CONFIG") }()

			cfg, err := Load(ctx)

			convey.Convey("Then the file values should apply", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.Store, convey.ShouldEqual, StoreSQLite)
				convey.So(cfg.SQLitePath, convey.ShouldEqual, "/tmp/test.db")
			})

			convey.Convey("And env should still override the file", func() {
				_ = os.Setenv("SNOOKERUP_ADDR", ":6060")
				defer func() { _ = os.Unsetenv("SNOOKERUP_ADDR") }()

				cfg, err := Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":6060")
			})
		})

		convey.Convey("When the config file is missing", func() {
			_ = os.Setenv("SNOOKERUP_CONFIG", "/does/not/exist.yaml")
			defer func() { _ = os.Unsetenv("SNOOKERUP_CONFIG") }()

			_, err := Load(ctx)

			convey.Convey("Then loading should fail with ErrLoadConfig", func() {
				convey.So(errors.Is(err, ErrLoadConfig), convey.ShouldBeTrue)
			})
		})
	})
}

func TestValidation(t *testing.T) {
	convey.Convey("Given configuration validation", t, func() {
		convey.Convey("When the store backend is unknown", func() {
			cfg := New()
			cfg.Store = "mongo"

			convey.Convey("Then validation should fail", func() {
				convey.So(errors.Is(cfg.validate(), ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When page bounds are inverted", func() {
			cfg := New()
			cfg.DefaultPageSize = 100
			cfg.MaxPageSize = 10

			convey.Convey("Then validation should fail", func() {
				convey.So(errors.Is(cfg.validate(), ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the token TTL is not positive", func() {
			cfg := New()
			cfg.TokenTTLMinutes = 0

			convey.Convey("Then validation should fail", func() {
				convey.So(errors.Is(cfg.validate(), ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the address is empty", func() {
			cfg := New()
			cfg.Addr = ""

			convey.Convey("Then validation should fail", func() {
				convey.So(errors.Is(cfg.validate(), ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})
	})
}
