package adapters

import (
	"github.com/jmoiron/sqlx"
)

// NewSQLXAdapter wraps a sqlx.DB. Snapshot statements need nothing beyond database/sql,
// so sqlx connections share the SQLAdapter.
func NewSQLXAdapter(db *sqlx.DB) *SQLAdapter {
	return &SQLAdapter{conn: db}
}
