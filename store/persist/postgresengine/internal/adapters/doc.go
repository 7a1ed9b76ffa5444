// Package adapters lets the snapshot store run on pgx.Pool, sql.DB or sqlx.DB through one DBAdapter interface.
package adapters
