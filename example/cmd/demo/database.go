package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // postgres driver for sql.DB and sqlx

	"github.com/AntonStoeckl/composable-store-go/store/persist"
	"github.com/AntonStoeckl/composable-store-go/store/persist/postgresengine"
)

const (
	defaultMaxConnections  = 10
	defaultMaxConnIdleTime = time.Minute * 5
	defaultConnectTimeout  = time.Second * 5
)

// snapshotStore is a persist.SnapshotStore with the connection it owns.
type snapshotStore struct {
	persist.SnapshotStore
	close func()
}

// openSnapshotStore opens the configured snapshot store and makes sure its table exists.
func openSnapshotStore(ctx context.Context, cfg Config, logger *slog.Logger) (snapshotStore, error) {
	if !cfg.UsesPostgres() {
		logger.Info("POSTGRES_DSN not set, snapshots are kept in memory")
		return snapshotStore{SnapshotStore: persist.NewMemorySnapshotStore(), close: func() {}}, nil
	}

	options := []postgresengine.Option{
		postgresengine.WithTableName(cfg.SnapshotTable),
		postgresengine.WithLogger(logger),
	}

	switch cfg.AdapterType {
	case adapterSQLDB:
		db, err := sql.Open("postgres", cfg.PostgresDSN)
		if err != nil {
			return snapshotStore{}, err
		}
		configureSQLPool(db)

		return finishSnapshotStore(ctx, func(ctx context.Context, ddl string) error {
			_, err := db.ExecContext(ctx, ddl)
			return err
		}, func() (*postgresengine.SnapshotStore, error) {
			return postgresengine.NewSnapshotStoreFromSQLDB(db, options...)
		}, func() { _ = db.Close() }, cfg)

	case adapterSQLXDB:
		db, err := sqlx.Open("postgres", cfg.PostgresDSN)
		if err != nil {
			return snapshotStore{}, err
		}
		configureSQLPool(db.DB)

		return finishSnapshotStore(ctx, func(ctx context.Context, ddl string) error {
			_, err := db.ExecContext(ctx, ddl)
			return err
		}, func() (*postgresengine.SnapshotStore, error) {
			return postgresengine.NewSnapshotStoreFromSQLX(db, options...)
		}, func() { _ = db.Close() }, cfg)

	default:
		poolConfig, err := pgxpool.ParseConfig(cfg.PostgresDSN)
		if err != nil {
			return snapshotStore{}, err
		}
		poolConfig.MaxConns = defaultMaxConnections
		poolConfig.MaxConnIdleTime = defaultMaxConnIdleTime
		poolConfig.ConnConfig.ConnectTimeout = defaultConnectTimeout

		pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			return snapshotStore{}, err
		}

		return finishSnapshotStore(ctx, func(ctx context.Context, ddl string) error {
			_, err := pool.Exec(ctx, ddl)
			return err
		}, func() (*postgresengine.SnapshotStore, error) {
			return postgresengine.NewSnapshotStoreFromPGXPool(pool, options...)
		}, pool.Close, cfg)
	}
}

func configureSQLPool(db *sql.DB) {
	db.SetMaxOpenConns(defaultMaxConnections)
	db.SetConnMaxIdleTime(defaultMaxConnIdleTime)
}

func finishSnapshotStore(
	ctx context.Context,
	exec func(ctx context.Context, ddl string) error,
	build func() (*postgresengine.SnapshotStore, error),
	closeConn func(),
	cfg Config,
) (snapshotStore, error) {
	if err := exec(ctx, postgresengine.CreateTableSQL(cfg.SnapshotTable)); err != nil {
		closeConn()
		return snapshotStore{}, fmt.Errorf("creating snapshot table %q via %s: %w", cfg.SnapshotTable, cfg.AdapterType, err)
	}

	snapshots, err := build()
	if err != nil {
		closeConn()
		return snapshotStore{}, err
	}

	return snapshotStore{SnapshotStore: snapshots, close: closeConn}, nil
}
