package postgresengine

import (
	"context"
	"errors"
	"time"

	"github.com/AntonStoeckl/composable-store-go/store/persist/postgresengine/internal/adapters"
)

var errScanMismatch = errors.New("scan destination does not match the row")

type fakeDB struct {
	queries      []string
	execs        []string
	rows         [][]any
	rowsErr      error
	closeErr     error
	queryErr     error
	execErr      error
	rowsAffected int64
	closed       int
}

func (f *fakeDB) Query(_ context.Context, query string) (adapters.DBRows, error) {
	f.queries = append(f.queries, query)
	if f.queryErr != nil {
		return nil, f.queryErr
	}

	return &fakeRows{db: f, rows: f.rows, pos: -1}, nil
}

func (f *fakeDB) Exec(_ context.Context, query string) (int64, error) {
	f.execs = append(f.execs, query)
	if f.execErr != nil {
		return 0, f.execErr
	}

	return f.rowsAffected, nil
}

type fakeRows struct {
	db   *fakeDB
	rows [][]any
	pos  int
}

func (r *fakeRows) Next() bool {
	r.pos++
	return r.pos < len(r.rows)
}

func (r *fakeRows) Scan(dest ...any) error {
	row := r.rows[r.pos]
	if len(row) != len(dest) {
		return errScanMismatch
	}

	for i, value := range row {
		var ok bool

		switch d := dest[i].(type) {
		case *string:
			*d, ok = value.(string)
		case *int64:
			*d, ok = value.(int64)
		case *[]byte:
			*d, ok = value.([]byte)
		case *time.Time:
			*d, ok = value.(time.Time)
		}

		if !ok {
			return errScanMismatch
		}
	}

	return nil
}

func (r *fakeRows) Err() error {
	return r.db.rowsErr
}

func (r *fakeRows) Close() error {
	r.db.closed++
	return r.db.closeErr
}
