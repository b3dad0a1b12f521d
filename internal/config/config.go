// Package config loads server configuration from environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config contains every knob the server reads. main loads it once and the
// composition root passes the pieces down — no package reads the
// environment on its own.
type Config struct {
	Port     int      `env:"PORT" envDefault:"8080"`
	LogLevel int      `env:"LOG_LEVEL" envDefault:"0"`
	Database Database `envPrefix:"DB_"`
	Session  Session  `envPrefix:"SESSION_"`
	Google   Google   `envPrefix:"GOOGLE_"`
	Admin    Admin    `envPrefix:"ADMIN_"`
}

// Database contains storage parameters. Path accepts any SQLite DSN,
// including ":memory:" for an ephemeral store.
type Database struct {
	Path string `env:"PATH" envDefault:"data/users.db"`
}

// Session contains session-store parameters. Secret signs the OAuth state
// parameter and must be long random data in production.
type Session struct {
	TTL           time.Duration `env:"TTL" envDefault:"24h"`
	SweepInterval time.Duration `env:"SWEEP_INTERVAL" envDefault:"10m"`
	Secret        string        `env:"SECRET"`
}

// Google contains the OAuth client registration.
type Google struct {
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
	CallbackURL  string `env:"CALLBACK_URL"`
}

// Admin configures the authorization predicate: an email granting admin
// access either starts with Prefix or ends with Domain, compared
// case-sensitively. The defaults are the deployment this console was built
// for; set both empty to lock the admin surface entirely.
type Admin struct {
	Prefix string `env:"EMAIL_PREFIX" envDefault:"hamkuu"`
	Domain string `env:"EMAIL_DOMAIN" envDefault:"@nablas.com"`
}

// Load parses configuration from the environment.
func Load() (*Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("config: parsing environment: %w", err)
	}

	return &cfg, nil
}
