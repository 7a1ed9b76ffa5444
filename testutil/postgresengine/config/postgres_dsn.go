package config

import (
	"testing"

	"github.com/caarlos0/env/v11"
)

// EnvTestDSN names the environment variable holding the test database DSN.
const EnvTestDSN = "POSTGRES_TEST_DSN"

type testDatabase struct {
	DSN string `env:"POSTGRES_TEST_DSN"`
}

// PostgresTestDSN returns the configured test DSN, or "" if none is set.
func PostgresTestDSN() (string, error) {
	cfg, err := env.ParseAs[testDatabase]()
	if err != nil {
		return "", err
	}

	return cfg.DSN, nil
}

// SkipWithoutDatabase returns the test DSN or skips t if none is configured.
func SkipWithoutDatabase(t testing.TB) string {
	t.Helper()

	dsn, err := PostgresTestDSN()
	if err != nil {
		t.Fatalf("reading %s failed: %v", EnvTestDSN, err)
	}

	if dsn == "" {
		t.Skipf("%s is not set", EnvTestDSN)
	}

	return dsn
}
