// Command demo runs the todo application with logging, optional OpenTelemetry and snapshot persistence.
//
// Configuration is read from the environment:
//
//	STORE_NAME             name of the store and its snapshot (default "todos")
//	LOG_LEVEL              debug, info, warn or error (default "info")
//	LOG_FORMAT             text or json (default "text")
//	POSTGRES_DSN           snapshot database; snapshots stay in memory when empty
//	ADAPTER_TYPE           pgx.pool, sql.db or sqlx.db (default "pgx.pool")
//	SNAPSHOT_TABLE         snapshot table, created if missing (default "store_snapshots")
//	FINAL_SAVE_TIMEOUT     bound of the snapshot save on shutdown (default "5s")
//	OBSERVABILITY_ENABLED  wire OpenTelemetry metrics and tracing (default false)
//
// The demo hydrates the store from the latest snapshot, loads todos, adds and completes a few,
// and saves the final state when it stops.
package main
