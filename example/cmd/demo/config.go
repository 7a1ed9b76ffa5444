package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	adapterPGXPool = "pgx.pool"
	adapterSQLDB   = "sql.db"
	adapterSQLXDB  = "sqlx.db"

	logFormatText = "text"
	logFormatJSON = "json"
)

var (
	errUnknownAdapterType = errors.New("unknown adapter type")
	errUnknownLogFormat   = errors.New("unknown log format")
	errUnknownLogLevel    = errors.New("unknown log level")
)

// Config is the demo configuration read from the environment.
type Config struct {
	StoreName            string        `env:"STORE_NAME"            envDefault:"todos"`
	LogLevel             string        `env:"LOG_LEVEL"             envDefault:"info"`
	LogFormat            string        `env:"LOG_FORMAT"            envDefault:"text"`
	PostgresDSN          string        `env:"POSTGRES_DSN"`
	AdapterType          string        `env:"ADAPTER_TYPE"          envDefault:"pgx.pool"`
	SnapshotTable        string        `env:"SNAPSHOT_TABLE"        envDefault:"store_snapshots"`
	FinalSaveTimeout     time.Duration `env:"FINAL_SAVE_TIMEOUT"    envDefault:"5s"`
	ObservabilityEnabled bool          `env:"OBSERVABILITY_ENABLED" envDefault:"false"`
}

// LoadConfig parses and validates the configuration.
func LoadConfig() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks the enumerated settings.
func (c Config) Validate() error {
	switch c.AdapterType {
	case adapterPGXPool, adapterSQLDB, adapterSQLXDB:
	default:
		return fmt.Errorf("%w: %q", errUnknownAdapterType, c.AdapterType)
	}

	switch c.LogFormat {
	case logFormatText, logFormatJSON:
	default:
		return fmt.Errorf("%w: %q", errUnknownLogFormat, c.LogFormat)
	}

	if _, err := c.SlogLevel(); err != nil {
		return err
	}

	return nil
}

// SlogLevel maps LogLevel to a slog.Level.
func (c Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return slog.LevelInfo, fmt.Errorf("%w: %q", errUnknownLogLevel, c.LogLevel)
	}

	return level, nil
}

// UsesPostgres reports whether snapshots go to PostgreSQL.
func (c Config) UsesPostgres() bool {
	return c.PostgresDSN != ""
}
