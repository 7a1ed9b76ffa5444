package adapters

import (
	"context"
	"database/sql"
)

// sqlConn is what *sql.DB and *sqlx.DB have in common for snapshot statements.
type sqlConn interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// SQLAdapter implements DBAdapter for database/sql style connections.
type SQLAdapter struct {
	conn sqlConn
}

// NewSQLAdapter wraps a sql.DB.
func NewSQLAdapter(db *sql.DB) *SQLAdapter {
	return &SQLAdapter{conn: db}
}

// Query implements DBAdapter.
func (s *SQLAdapter) Query(ctx context.Context, query string) (DBRows, error) {
	rows, err := s.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}

	return rows, nil
}

// Exec implements DBAdapter.
func (s *SQLAdapter) Exec(ctx context.Context, query string) (int64, error) {
	result, err := s.conn.ExecContext(ctx, query)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}
