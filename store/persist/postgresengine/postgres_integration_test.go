package postgresengine_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/composable-store-go/store/persist"
	"github.com/AntonStoeckl/composable-store-go/store/persist/postgresengine"
	"github.com/AntonStoeckl/composable-store-go/testutil/postgresengine/config"
)

const integrationTable = "store_snapshots_test"

type counter struct {
	Count int `json:"count"`
}

// givenSnapshotStores opens one snapshot store per supported connection type.
func givenSnapshotStores(t *testing.T, ctx context.Context) map[string]*postgresengine.SnapshotStore {
	t.Helper()

	dsn := config.SkipWithoutDatabase(t)

	pool, err := config.PostgresPGXPool(ctx, dsn)
	require.NoError(t, err, "opening pgx pool")
	t.Cleanup(pool.Close)

	sqlDB, err := config.PostgresSQLDB(ctx, dsn)
	require.NoError(t, err, "opening sql.DB")
	t.Cleanup(func() { _ = sqlDB.Close() })

	sqlxDB, err := config.PostgresSQLX(ctx, dsn)
	require.NoError(t, err, "opening sqlx.DB")
	t.Cleanup(func() { _ = sqlxDB.Close() })

	_, err = pool.Exec(ctx, postgresengine.CreateTableSQL(integrationTable))
	require.NoError(t, err, "creating snapshot table")

	fromPool, err := postgresengine.NewSnapshotStoreFromPGXPool(pool, postgresengine.WithTableName(integrationTable))
	require.NoError(t, err)

	fromSQL, err := postgresengine.NewSnapshotStoreFromSQLDB(sqlDB, postgresengine.WithTableName(integrationTable))
	require.NoError(t, err)

	fromSQLX, err := postgresengine.NewSnapshotStoreFromSQLX(sqlxDB, postgresengine.WithTableName(integrationTable))
	require.NoError(t, err)

	return map[string]*postgresengine.SnapshotStore{
		"pgx.pool": fromPool,
		"sql.db":   fromSQL,
		"sqlx.db":  fromSQLX,
	}
}

func Test_Integration_SaveLoadDelete_WithEveryAdapter(t *testing.T) {
	// setup
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for adapterType, snapshots := range givenSnapshotStores(t, ctx) {
		t.Run(adapterType, func(t *testing.T) {
			// arrange
			storeName := "integration-" + adapterType
			require.NoError(t, snapshots.DeleteSnapshot(ctx, storeName))

			newer, err := persist.BuildSnapshot(storeName, 2, counter{Count: 2})
			require.NoError(t, err)

			older, err := persist.BuildSnapshot(storeName, 1, counter{Count: 1})
			require.NoError(t, err)

			// act
			require.NoError(t, snapshots.SaveSnapshot(ctx, newer))
			require.NoError(t, snapshots.SaveSnapshot(ctx, older))
			loaded, loadErr := snapshots.LoadSnapshot(ctx, storeName)

			// assert
			require.NoError(t, loadErr)
			assert.Equal(t, uint64(2), loaded.Version, "an older version must not replace a newer one")
			assert.JSONEq(t, string(newer.Data), string(loaded.Data))
			assert.WithinDuration(t, newer.SavedAt, loaded.SavedAt, time.Second)

			require.NoError(t, snapshots.DeleteSnapshot(ctx, storeName))
			_, err = snapshots.LoadSnapshot(ctx, storeName)
			assert.ErrorIs(t, err, persist.ErrSnapshotNotFound)
		})
	}
}

func Test_Integration_Hydrate_ReadsWhatThePersisterWrote(t *testing.T) {
	// setup
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	snapshots := givenSnapshotStores(t, ctx)["pgx.pool"]
	storeName := "integration-hydrate"
	require.NoError(t, snapshots.DeleteSnapshot(ctx, storeName))

	snapshot, err := persist.BuildSnapshot(storeName, 5, counter{Count: 42})
	require.NoError(t, err)
	require.NoError(t, snapshots.SaveSnapshot(ctx, snapshot))

	// act
	state, version, err := persist.Hydrate(ctx, snapshots, storeName, counter{})

	// assert
	require.NoError(t, err)
	assert.Equal(t, counter{Count: 42}, state)
	assert.Equal(t, uint64(5), version)
}
