package postgresengine

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/composable-store-go/store/persist"
	"github.com/AntonStoeckl/composable-store-go/testutil/observability/testdoubles"
)

var errDatabaseDown = errors.New("database down")

func givenSnapshot(version uint64) persist.Snapshot {
	return persist.Snapshot{
		StoreName: "todos",
		Version:   version,
		Data:      []byte(`{"count":1}`),
		SavedAt:   time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC),
	}
}

func Test_Constructors_RejectNilConnections(t *testing.T) {
	_, err := NewSnapshotStoreFromPGXPool(nil)
	assert.ErrorIs(t, err, ErrNilDatabaseConnection)

	_, err = NewSnapshotStoreFromSQLDB(nil)
	assert.ErrorIs(t, err, ErrNilDatabaseConnection)

	_, err = NewSnapshotStoreFromSQLX(nil)
	assert.ErrorIs(t, err, ErrNilDatabaseConnection)
}

func Test_WithTableName_RejectsEmptyName(t *testing.T) {
	_, err := newSnapshotStore(&fakeDB{}, WithTableName(""))

	assert.ErrorIs(t, err, ErrEmptyTableName)
}

func Test_SaveSnapshot_RendersVersionGuardedUpsert(t *testing.T) {
	// arrange
	db := &fakeDB{rowsAffected: 1}
	s, err := newSnapshotStore(db)
	require.NoError(t, err)

	// act
	err = s.SaveSnapshot(context.Background(), givenSnapshot(3))

	// assert
	require.NoError(t, err)
	require.Len(t, db.execs, 1)

	query := db.execs[0]
	assert.Contains(t, query, `INSERT INTO "store_snapshots"`)
	assert.Contains(t, query, `'todos'`)
	assert.Contains(t, query, `'{"count":1}'::jsonb`)
	assert.Contains(t, query, `::timestamp with time zone`)
	assert.Contains(t, query, `ON CONFLICT (store_name) DO UPDATE SET`)
	assert.Contains(t, query, `"store_snapshots"."version" < EXCLUDED.version`)
	assert.Contains(t, query, "EXCLUDED.data")
}

func Test_SaveSnapshot_UsesConfiguredTableName(t *testing.T) {
	// arrange
	db := &fakeDB{}
	s, err := newSnapshotStore(db, WithTableName("app_snapshots"))
	require.NoError(t, err)

	// act
	err = s.SaveSnapshot(context.Background(), givenSnapshot(1))

	// assert
	require.NoError(t, err)
	assert.Contains(t, db.execs[0], `INSERT INTO "app_snapshots"`)
	assert.Contains(t, db.execs[0], `"app_snapshots"."version" < EXCLUDED.version`)
}

func Test_SaveSnapshot_RejectsInvalidSnapshots_WithoutTouchingTheDatabase(t *testing.T) {
	tests := []struct {
		name          string
		snapshot      persist.Snapshot
		expectedError error
	}{
		{
			name:          "empty_store_name",
			snapshot:      persist.Snapshot{Version: 1, Data: []byte(`{}`)},
			expectedError: persist.ErrEmptyStoreName,
		},
		{
			name:          "invalid_json_data",
			snapshot:      persist.Snapshot{StoreName: "todos", Version: 1, Data: []byte(`{invalid json`)},
			expectedError: persist.ErrInvalidSnapshotJSON,
		},
		{
			name:          "version_beyond_bigint",
			snapshot:      givenSnapshot(math.MaxInt64 + 1),
			expectedError: ErrVersionOutOfRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// arrange
			db := &fakeDB{}
			s, err := newSnapshotStore(db)
			require.NoError(t, err)

			// act
			err = s.SaveSnapshot(context.Background(), tt.snapshot)

			// assert
			assert.ErrorIs(t, err, tt.expectedError)
			assert.Empty(t, db.execs)
		})
	}
}

func Test_SaveSnapshot_WrapsExecErrors(t *testing.T) {
	// arrange
	db := &fakeDB{execErr: errDatabaseDown}
	s, err := newSnapshotStore(db)
	require.NoError(t, err)

	// act
	err = s.SaveSnapshot(context.Background(), givenSnapshot(1))

	// assert
	assert.ErrorIs(t, err, persist.ErrSavingSnapshotFailed)
	assert.ErrorIs(t, err, errDatabaseDown)
}

func Test_LoadSnapshot_SelectsTheRowOfTheStore(t *testing.T) {
	// arrange
	savedAt := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	db := &fakeDB{rows: [][]any{{"todos", int64(7), []byte(`{"count":7}`), savedAt}}}
	s, err := newSnapshotStore(db)
	require.NoError(t, err)

	// act
	snapshot, err := s.LoadSnapshot(context.Background(), "todos")

	// assert
	require.NoError(t, err)
	assert.Equal(t, "todos", snapshot.StoreName)
	assert.Equal(t, uint64(7), snapshot.Version)
	assert.JSONEq(t, `{"count":7}`, string(snapshot.Data))
	assert.Equal(t, savedAt, snapshot.SavedAt)

	require.Len(t, db.queries, 1)
	assert.Contains(t, db.queries[0], `FROM "store_snapshots"`)
	assert.Contains(t, db.queries[0], `"store_name" = 'todos'`)
	assert.Contains(t, db.queries[0], "LIMIT 1")
	assert.Equal(t, 1, db.closed, "rows must be closed")
}

func Test_LoadSnapshot_ReturnsNotFound_ForMissingRow(t *testing.T) {
	// arrange
	db := &fakeDB{}
	s, err := newSnapshotStore(db)
	require.NoError(t, err)

	// act
	_, err = s.LoadSnapshot(context.Background(), "todos")

	// assert
	assert.ErrorIs(t, err, persist.ErrSnapshotNotFound)
	assert.Equal(t, 1, db.closed)
}

func Test_LoadSnapshot_PrefersRowsErrorOverNotFound(t *testing.T) {
	// arrange
	db := &fakeDB{rowsErr: errDatabaseDown}
	s, err := newSnapshotStore(db)
	require.NoError(t, err)

	// act
	_, err = s.LoadSnapshot(context.Background(), "todos")

	// assert
	assert.ErrorIs(t, err, persist.ErrLoadingSnapshotFailed)
	assert.ErrorIs(t, err, errDatabaseDown)
	assert.NotErrorIs(t, err, persist.ErrSnapshotNotFound)
}

func Test_LoadSnapshot_FailsOnQueryAndScanErrors(t *testing.T) {
	t.Run("query", func(t *testing.T) {
		s, err := newSnapshotStore(&fakeDB{queryErr: errDatabaseDown})
		require.NoError(t, err)

		_, err = s.LoadSnapshot(context.Background(), "todos")

		assert.ErrorIs(t, err, persist.ErrLoadingSnapshotFailed)
		assert.ErrorIs(t, err, errDatabaseDown)
	})

	t.Run("scan", func(t *testing.T) {
		s, err := newSnapshotStore(&fakeDB{rows: [][]any{{"todos", "not a version", []byte(`{}`), time.Now()}}})
		require.NoError(t, err)

		_, err = s.LoadSnapshot(context.Background(), "todos")

		assert.ErrorIs(t, err, ErrScanningRowFailed)
	})

	t.Run("empty_store_name", func(t *testing.T) {
		db := &fakeDB{}
		s, err := newSnapshotStore(db)
		require.NoError(t, err)

		_, err = s.LoadSnapshot(context.Background(), "")

		assert.ErrorIs(t, err, persist.ErrEmptyStoreName)
		assert.Empty(t, db.queries)
	})
}

func Test_LoadSnapshot_LogsWarning_WhenRowsCannotBeClosed(t *testing.T) {
	// arrange
	spy := testdoubles.NewLogHandlerSpy(false)
	db := &fakeDB{closeErr: errDatabaseDown}
	s, err := newSnapshotStore(db, WithLogger(slog.New(spy)))
	require.NoError(t, err)

	// act
	_, err = s.LoadSnapshot(context.Background(), "todos")

	// assert
	assert.ErrorIs(t, err, persist.ErrSnapshotNotFound)
	assert.True(t, spy.HasLog(slog.LevelWarn, logMsgCloseRowsFailed))
}

func Test_DeleteSnapshot_RendersDelete(t *testing.T) {
	// arrange
	db := &fakeDB{}
	s, err := newSnapshotStore(db)
	require.NoError(t, err)

	// act
	err = s.DeleteSnapshot(context.Background(), "todos")

	// assert
	require.NoError(t, err)
	require.Len(t, db.execs, 1)
	assert.Contains(t, db.execs[0], `DELETE FROM "store_snapshots"`)
	assert.Contains(t, db.execs[0], `"store_name" = 'todos'`)
}

func Test_DeleteSnapshot_WrapsExecErrors(t *testing.T) {
	s, err := newSnapshotStore(&fakeDB{execErr: errDatabaseDown})
	require.NoError(t, err)

	err = s.DeleteSnapshot(context.Background(), "todos")

	assert.ErrorIs(t, err, persist.ErrDeletingSnapshotFailed)
	assert.ErrorIs(t, err, errDatabaseDown)
}

func Test_Operations_LogExecutedSQL_AtDebugLevel(t *testing.T) {
	// arrange
	spy := testdoubles.NewLogHandlerSpy(false)
	db := &fakeDB{rowsAffected: 1}
	s, err := newSnapshotStore(db, WithLogger(slog.New(spy)))
	require.NoError(t, err)

	// act
	require.NoError(t, s.SaveSnapshot(context.Background(), givenSnapshot(2)))
	require.NoError(t, s.DeleteSnapshot(context.Background(), "todos"))

	// assert
	assert.True(t, spy.HasLogWithMessage(slog.LevelDebug, logMsgSQLExecuted+logActionSave).
		WithAttr(logAttrStoreName, "todos").
		WithAttr(logAttrVersion, "2").
		WithAttr(logAttrRowsAffected, "1").
		WithAttrKey(logAttrQuery).
		WithDurationMS().
		Assert())
	assert.True(t, spy.HasLogWithMessage(slog.LevelDebug, logMsgSQLExecuted+logActionDelete).
		WithAttr(logAttrStoreName, "todos").
		Assert())
}

func Test_CreateTableSQL_DescribesTheSnapshotTable(t *testing.T) {
	ddl := CreateTableSQL("app_snapshots")

	assert.Contains(t, ddl, `CREATE TABLE IF NOT EXISTS "app_snapshots"`)
	assert.Contains(t, ddl, "store_name text PRIMARY KEY")
	assert.Contains(t, ddl, "version bigint NOT NULL")
	assert.Contains(t, ddl, "data jsonb NOT NULL")
	assert.Contains(t, ddl, "saved_at timestamptz NOT NULL")
}

func Test_CreateTableSQL_EscapesTheTableName(t *testing.T) {
	ddl := CreateTableSQL(`odd"name`)

	assert.Contains(t, ddl, `CREATE TABLE IF NOT EXISTS "odd""name" (`)
}
