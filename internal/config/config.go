// Package config loads and validates application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
//
// A variable that is set but empty counts as set: it replaces the default
// and must parse as the field's type. Unset it to get the default.
type Config struct {
	// Port is the TCP port the HTTP server listens on.
	Port string `env:"PORT" env-default:"8080"`

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string `env:"DATABASE_URL"`

	// LogLevel controls the minimum log level.
	// Valid values: debug, info, warn, error.
	LogLevel string `env:"LOG_LEVEL" env-default:"info"`

	// CORSOrigins is the list of allowed cross-origin request origins,
	// set as a comma-separated list. Defaults to the React dev server.
	CORSOrigins List `env:"CORS_ORIGINS" env-default:"http://localhost:3000"`

	// JWTSecret signs and verifies bearer tokens. Required.
	JWTSecret string `env:"JWT_SECRET"`

	// TokenTTL is how long an issued token stays valid.
	TokenTTL time.Duration `env:"TOKEN_TTL" env-default:"24h"`

	// ImageDir is where uploaded vacation images are stored.
	ImageDir string `env:"IMAGE_DIR" env-default:"./static/images"`

	// MaxBodyBytes caps request bodies, image uploads included.
	MaxBodyBytes int64 `env:"MAX_BODY_BYTES" env-default:"5242880"`

	// SignInRate and SignInBurst throttle sign-in attempts per client IP.
	SignInRate  float64 `env:"SIGNIN_RATE" env-default:"1"`
	SignInBurst int     `env:"SIGNIN_BURST" env-default:"5"`

	// MigrateOnStart applies pending database migrations at boot.
	MigrateOnStart bool `env:"MIGRATE_ON_START" env-default:"true"`

	// AdminEmails lists the accounts that get the admin role when they sign up.
	AdminEmails List `env:"ADMIN_EMAILS"`
}

// List is a comma-separated list read from a single variable.
// Entries are trimmed and empty entries dropped.
type List []string

// SetValue implements cleanenv.Setter.
func (o *List) SetValue(s string) error {
	*o = splitCSV(s)
	return nil
}

// Load reads configuration from environment variables and returns a Config.
// A .env file in the working directory, if present, is loaded first without
// overriding variables that are already set.
// Returns an error listing any required variables that are not set.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("config: reading .env: %w", err)
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}

	var missing []string
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if cfg.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	if cfg.TokenTTL <= 0 {
		return Config{}, fmt.Errorf("config: TOKEN_TTL must be positive, got %s", cfg.TokenTTL)
	}
	if cfg.MaxBodyBytes <= 0 {
		return Config{}, fmt.Errorf("config: MAX_BODY_BYTES must be positive, got %d", cfg.MaxBodyBytes)
	}
	if cfg.SignInRate <= 0 || cfg.SignInBurst <= 0 {
		return Config{}, errors.New("config: SIGNIN_RATE and SIGNIN_BURST must be positive")
	}

	return cfg, nil
}

// Description returns a help text listing every variable Load reads.
func Description() string {
	var cfg Config
	text, err := cleanenv.GetDescription(&cfg, nil)
	if err != nil {
		return err.Error()
	}
	return text
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
