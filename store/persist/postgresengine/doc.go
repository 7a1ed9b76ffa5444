// Package postgresengine implements persist.SnapshotStore on PostgreSQL.
//
// One row per store name holds the latest snapshot as jsonb. Saves are upserts that only replace
// rows with an older version, so concurrent or delayed writers can never roll a snapshot back.
// The store runs on pgxpool.Pool, sql.DB or sqlx.DB.
//
// The table is not created automatically; CreateTableSQL returns the DDL.
package postgresengine
