/*
Package config reads process configuration for the award engine binaries.

SOURCES (later wins):
  1. envDefault tags below
  2. Environment variables
  3. Command-line flags, but only those set explicitly

VARIABLES:
  ADDR              HTTP listen address            (:8080)
  DB_PATH           SQLite path, ":memory:" or ""  (awards.db)
                    Empty selects the in-memory store
  LOG_LEVEL         debug | info | warn | error    (info)
  LOG_FORMAT        json | console                 (json)
  CORS_ORIGINS      Comma separated origins
  DEFAULT_YEAR      Financial year used when a request names none
  SEED_DEFAULTS     Store preset awards and tables into an empty store
  TIMEZONE          Zone for shift timestamps without an offset
  READ_TIMEOUT, WRITE_TIMEOUT, IDLE_TIMEOUT, SHUTDOWN_TIMEOUT

SEE ALSO:
  - config/logger.go: zap logger built from LOG_LEVEL / LOG_FORMAT
  - cmd/server/main.go: Main consumer
*/
package config

import (
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/warp/award-engine/pay"
)

// Config holds server configuration.
type Config struct {
	Addr   string `env:"ADDR" envDefault:":8080"`
	DBPath string `env:"DB_PATH" envDefault:"awards.db"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173,http://localhost:8080"`

	DefaultYear  string `env:"DEFAULT_YEAR"`
	SeedDefaults bool   `env:"SEED_DEFAULTS" envDefault:"true"`
	Timezone     string `env:"TIMEZONE" envDefault:"Local"`

	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"15s"`
	IdleTimeout     time.Duration `env:"IDLE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
}

// Parse reads the environment, then applies flags from args (without the
// program name).
func Parse(args []string) (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.DefaultYear == "" {
		cfg.DefaultYear = pay.DefaultYear
	}

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	addr := fs.String("addr", cfg.Addr, "HTTP listen address")
	db := fs.String("db", cfg.DBPath, `SQLite database path (":memory:" or "" for in-memory)`)
	level := fs.String("log-level", cfg.LogLevel, "log level")
	format := fs.String("log-format", cfg.LogFormat, "log format (json or console)")
	year := fs.String("year", cfg.DefaultYear, "default financial year")
	seed := fs.Bool("seed", cfg.SeedDefaults, "seed preset awards and tables into an empty store")
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "addr":
			cfg.Addr = *addr
		case "db":
			cfg.DBPath = *db
		case "log-level":
			cfg.LogLevel = *level
		case "log-format":
			cfg.LogFormat = *format
		case "year":
			cfg.DefaultYear = *year
		case "seed":
			cfg.SeedDefaults = *seed
		}
	})

	if _, err := cfg.Location(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Location resolves Timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// InMemory reports whether DBPath selects the in-memory store.
func (c *Config) InMemory() bool {
	return c.DBPath == ""
}
