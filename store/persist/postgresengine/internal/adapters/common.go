package adapters

import (
	"context"
)

// DBAdapter runs the snapshot store's statements: one select per load, one upsert or delete per write.
type DBAdapter interface {
	// Query runs a select and returns its rows. The caller closes them.
	Query(ctx context.Context, query string) (DBRows, error)

	// Exec runs an upsert or delete and reports how many rows it touched.
	Exec(ctx context.Context, query string) (rowsAffected int64, err error)
}

// DBRows is the read side of a snapshot select. *sql.Rows satisfies it as is.
type DBRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}
