package postgresengine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/AntonStoeckl/composable-store-go/store"
	"github.com/AntonStoeckl/composable-store-go/store/persist"
	"github.com/AntonStoeckl/composable-store-go/store/persist/postgresengine/internal/adapters"
)

const (
	defaultTableName = "store_snapshots"

	logMsgBuildQueryFailed = "failed to build query"
	logMsgDBQueryFailed    = "database query execution failed"
	logMsgDBExecFailed     = "database execution failed"
	logMsgCloseRowsFailed  = "failed to close database rows"
	logMsgScanRowFailed    = "failed to scan snapshot row"
	logMsgSQLExecuted      = "executed sql for: "
	logAttrQuery           = "query"
	logAttrStoreName       = "store_name"
	logAttrVersion         = "version"
	logAttrDurationMS      = "duration_ms"
	logAttrRowsAffected    = "rows_affected"
	logActionSave          = "save"
	logActionLoad          = "load"
	logActionDelete        = "delete"

	colStoreName    = "store_name"
	colVersion      = "version"
	colData         = "data"
	colSavedAt      = "saved_at"
	dialectPostgres = "postgres"
	castJsonb       = "?::jsonb"
	castTimestamp   = "?::timestamp with time zone"
	excludedPrefix  = "EXCLUDED."
)

// SnapshotStore is a persist.SnapshotStore backed by a PostgreSQL table.
type SnapshotStore struct {
	db        adapters.DBAdapter
	tableName string
	observer  store.Observer
}

// NewSnapshotStoreFromPGXPool creates a SnapshotStore using a pgx pool.
func NewSnapshotStoreFromPGXPool(db *pgxpool.Pool, options ...Option) (*SnapshotStore, error) {
	if db == nil {
		return nil, ErrNilDatabaseConnection
	}

	return newSnapshotStore(adapters.NewPGXAdapter(db), options...)
}

// NewSnapshotStoreFromSQLDB creates a SnapshotStore using a database/sql connection.
func NewSnapshotStoreFromSQLDB(db *sql.DB, options ...Option) (*SnapshotStore, error) {
	if db == nil {
		return nil, ErrNilDatabaseConnection
	}

	return newSnapshotStore(adapters.NewSQLAdapter(db), options...)
}

// NewSnapshotStoreFromSQLX creates a SnapshotStore using a sqlx connection.
func NewSnapshotStoreFromSQLX(db *sqlx.DB, options ...Option) (*SnapshotStore, error) {
	if db == nil {
		return nil, ErrNilDatabaseConnection
	}

	return newSnapshotStore(adapters.NewSQLXAdapter(db), options...)
}

func newSnapshotStore(db adapters.DBAdapter, options ...Option) (*SnapshotStore, error) {
	s := &SnapshotStore{
		db:        db,
		tableName: defaultTableName,
	}

	for _, option := range options {
		if err := option(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// CreateTableSQL returns the DDL of the snapshot table.
func CreateTableSQL(tableName string) string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	%s text PRIMARY KEY,
	%s bigint NOT NULL,
	%s jsonb NOT NULL,
	%s timestamptz NOT NULL
)`, pq.QuoteIdentifier(tableName), colStoreName, colVersion, colData, colSavedAt)
}

// SaveSnapshot upserts snapshot. An existing row is only replaced if its version is lower.
func (s *SnapshotStore) SaveSnapshot(ctx context.Context, snapshot persist.Snapshot) error {
	if err := snapshot.Validate(); err != nil {
		return err
	}

	if snapshot.Version > math.MaxInt64 {
		return errors.Join(persist.ErrSavingSnapshotFailed, ErrVersionOutOfRange)
	}

	sqlQuery, err := s.buildSaveQuery(snapshot)
	if err != nil {
		s.observer.Error(ctx, logMsgBuildQueryFailed, err, logAttrStoreName, snapshot.StoreName)
		return errors.Join(persist.ErrSavingSnapshotFailed, ErrBuildingQueryFailed, err)
	}

	start := time.Now()

	rowsAffected, err := s.db.Exec(ctx, sqlQuery)
	if err != nil {
		s.observer.Error(ctx, logMsgDBExecFailed, err, logAttrQuery, sqlQuery)
		return errors.Join(persist.ErrSavingSnapshotFailed, err)
	}

	s.observer.Debug(ctx, logMsgSQLExecuted+logActionSave,
		logAttrQuery, sqlQuery,
		logAttrStoreName, snapshot.StoreName,
		logAttrVersion, snapshot.Version,
		logAttrRowsAffected, rowsAffected,
		logAttrDurationMS, store.ToMilliseconds(time.Since(start)))

	return nil
}

// LoadSnapshot returns the snapshot of storeName or persist.ErrSnapshotNotFound.
func (s *SnapshotStore) LoadSnapshot(ctx context.Context, storeName string) (persist.Snapshot, error) {
	if storeName == "" {
		return persist.Snapshot{}, persist.ErrEmptyStoreName
	}

	sqlQuery, err := s.buildLoadQuery(storeName)
	if err != nil {
		s.observer.Error(ctx, logMsgBuildQueryFailed, err, logAttrStoreName, storeName)
		return persist.Snapshot{}, errors.Join(persist.ErrLoadingSnapshotFailed, ErrBuildingQueryFailed, err)
	}

	start := time.Now()

	rows, err := s.db.Query(ctx, sqlQuery)
	if err != nil {
		s.observer.Error(ctx, logMsgDBQueryFailed, err, logAttrQuery, sqlQuery)
		return persist.Snapshot{}, errors.Join(persist.ErrLoadingSnapshotFailed, err)
	}
	defer s.closeRows(ctx, rows)

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return persist.Snapshot{}, errors.Join(persist.ErrLoadingSnapshotFailed, err)
		}

		return persist.Snapshot{}, persist.ErrSnapshotNotFound
	}

	var (
		name    string
		version int64
		data    []byte
		savedAt time.Time
	)

	if err := rows.Scan(&name, &version, &data, &savedAt); err != nil {
		s.observer.Error(ctx, logMsgScanRowFailed, err, logAttrStoreName, storeName)
		return persist.Snapshot{}, errors.Join(persist.ErrLoadingSnapshotFailed, ErrScanningRowFailed, err)
	}

	s.observer.Debug(ctx, logMsgSQLExecuted+logActionLoad,
		logAttrQuery, sqlQuery,
		logAttrStoreName, storeName,
		logAttrVersion, version,
		logAttrDurationMS, store.ToMilliseconds(time.Since(start)))

	return persist.Snapshot{
		StoreName: name,
		Version:   uint64(version), //nolint:gosec // the column only ever receives non-negative values
		Data:      data,
		SavedAt:   savedAt,
	}, nil
}

// DeleteSnapshot removes the snapshot of storeName. Deleting a missing snapshot is not an error.
func (s *SnapshotStore) DeleteSnapshot(ctx context.Context, storeName string) error {
	if storeName == "" {
		return persist.ErrEmptyStoreName
	}

	sqlQuery, _, err := goqu.Dialect(dialectPostgres).
		Delete(s.tableName).
		Where(goqu.C(colStoreName).Eq(storeName)).
		ToSQL()
	if err != nil {
		s.observer.Error(ctx, logMsgBuildQueryFailed, err, logAttrStoreName, storeName)
		return errors.Join(persist.ErrDeletingSnapshotFailed, ErrBuildingQueryFailed, err)
	}

	start := time.Now()

	if _, err := s.db.Exec(ctx, sqlQuery); err != nil {
		s.observer.Error(ctx, logMsgDBExecFailed, err, logAttrQuery, sqlQuery)
		return errors.Join(persist.ErrDeletingSnapshotFailed, err)
	}

	s.observer.Debug(ctx, logMsgSQLExecuted+logActionDelete,
		logAttrQuery, sqlQuery,
		logAttrStoreName, storeName,
		logAttrDurationMS, store.ToMilliseconds(time.Since(start)))

	return nil
}

func (s *SnapshotStore) buildSaveQuery(snapshot persist.Snapshot) (string, error) {
	sqlQuery, _, err := goqu.Dialect(dialectPostgres).
		Insert(s.tableName).
		Rows(goqu.Record{
			colStoreName: snapshot.StoreName,
			colVersion:   int64(snapshot.Version), //nolint:gosec // range checked by the caller
			colData:      goqu.L(castJsonb, string(snapshot.Data)),
			colSavedAt:   goqu.L(castTimestamp, snapshot.SavedAt.UTC().Format(time.RFC3339Nano)),
		}).
		OnConflict(goqu.DoUpdate(colStoreName, goqu.Record{
			colVersion: goqu.L(excludedPrefix + colVersion),
			colData:    goqu.L(excludedPrefix + colData),
			colSavedAt: goqu.L(excludedPrefix + colSavedAt),
		}).Where(goqu.T(s.tableName).Col(colVersion).Lt(goqu.L(excludedPrefix + colVersion)))).
		ToSQL()

	return sqlQuery, err
}

func (s *SnapshotStore) buildLoadQuery(storeName string) (string, error) {
	sqlQuery, _, err := goqu.Dialect(dialectPostgres).
		From(s.tableName).
		Select(colStoreName, colVersion, colData, colSavedAt).
		Where(goqu.C(colStoreName).Eq(storeName)).
		Limit(1).
		ToSQL()

	return sqlQuery, err
}

func (s *SnapshotStore) closeRows(ctx context.Context, rows adapters.DBRows) {
	if err := rows.Close(); err != nil {
		s.observer.Warn(ctx, logMsgCloseRowsFailed, "error", err.Error())
	}
}

var _ persist.SnapshotStore = (*SnapshotStore)(nil)
