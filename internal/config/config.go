// internal/config/config.go
//
// Process configuration. A .env file (if present) is loaded first, then the
// environment is parsed into Config; unset variables take their defaults.

package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Config holds every setting the server and CLI read from the environment.
type Config struct {
	Port     string `env:"PORT" envDefault:"5175"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	DBPath   string `env:"DB_PATH" envDefault:"./data/dq1password.db"`

	JWTSecret      string `env:"JWT_SECRET" envDefault:"dev_secret_change_me"`
	JWTExpiresDays int    `env:"JWT_EXPIRES_DAYS" envDefault:"14"`
	CookieName     string `env:"COOKIE_NAME" envDefault:"dq1_token"`
	ClientOrigin   string `env:"CLIENT_ORIGIN" envDefault:"http://localhost:5173"`
	Production     bool   `env:"PRODUCTION" envDefault:"false"`

	// GenerateMaxLimit caps the limit accepted by POST /password/generate.
	GenerateMaxLimit int `env:"GENERATE_MAX_LIMIT" envDefault:"200"`
	// CatalogFile replaces the embedded item/equipment names when set.
	CatalogFile string `env:"CATALOG_FILE"`
}

// Load reads .env (optional) and the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return Parse()
}

// Parse reads the environment only.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.GenerateMaxLimit <= 0 {
		return Config{}, fmt.Errorf("parse env: GENERATE_MAX_LIMIT must be positive, got %d", cfg.GenerateMaxLimit)
	}
	if cfg.JWTExpiresDays <= 0 {
		return Config{}, fmt.Errorf("parse env: JWT_EXPIRES_DAYS must be positive, got %d", cfg.JWTExpiresDays)
	}
	return cfg, nil
}

// Level returns the configured zerolog level, falling back to info.
func (c Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}
