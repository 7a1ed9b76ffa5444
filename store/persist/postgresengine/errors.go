package postgresengine

import (
	"errors"
)

var (
	// ErrNilDatabaseConnection is returned when a constructor receives a nil connection.
	ErrNilDatabaseConnection = errors.New("database connection must not be nil")

	// ErrEmptyTableName is returned when an empty table name is configured.
	ErrEmptyTableName = errors.New("table name must not be empty")

	// ErrBuildingQueryFailed is returned when goqu cannot render a statement.
	ErrBuildingQueryFailed = errors.New("building query failed")

	// ErrScanningRowFailed is returned when a snapshot row cannot be scanned.
	ErrScanningRowFailed = errors.New("scanning snapshot row failed")

	// ErrVersionOutOfRange is returned when a version does not fit into a bigint column.
	ErrVersionOutOfRange = errors.New("snapshot version exceeds the bigint range")
)
