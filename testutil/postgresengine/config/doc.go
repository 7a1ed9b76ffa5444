// Package config opens PostgreSQL connections for the snapshot store integration tests.
//
// The DSN comes from POSTGRES_TEST_DSN. When it is unset, SkipWithoutDatabase skips the calling test,
// so the unit test suite runs without a database.
package config
