// Package config defines service configuration structures and loading
// hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load(ctx) layers defaults, optional YAML file, and env vars.
// - External errors are wrapped via this package's error kinds.
package config

// Store backend names accepted in Config.Store.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// Store selects the persistence backend: memory or sqlite.
	Store string `koanf:"store"`

	// SQLitePath locates the database file for the sqlite backend.
	SQLitePath string `koanf:"sqlite_path"`

	// DefaultPageSize is used when a listing request omits pageSize.
	DefaultPageSize int `koanf:"default_page_size"`

	// MaxPageSize caps the pageSize a caller may request.
	MaxPageSize int `koanf:"max_page_size"`

	// BcryptCost sets the bcrypt work factor for password hashing.
	BcryptCost int `koanf:"bcrypt_cost"`

	// TokenSecret signs access tokens. Must be set in production.
	TokenSecret string `koanf:"token_secret"`

	// TokenTTLMinutes bounds access token validity.
	TokenTTLMinutes int `koanf:"token_ttl_minutes"`

	// AdminEmail and AdminPassword bootstrap the first admin account at
	// startup. Registration over the API never grants the admin role, so
	// without these an instance has no admin. Ignored when empty.
	AdminEmail    string `koanf:"admin_email"`
	AdminPassword string `koanf:"admin_password"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:        "info",
		Addr:            ":8080",
		Store:           StoreMemory,
		SQLitePath:      "snookerup.db",
		DefaultPageSize: 50,
		MaxPageSize:     500,
		BcryptCost:      10,
		TokenSecret:     "",
		TokenTTLMinutes: 60,
		AdminEmail:      "",
		AdminPassword:   "",
	}
}
