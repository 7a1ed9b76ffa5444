package persist_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/composable-store-go/store/persist"
)

func Test_BuildSnapshot_EncodesStateAsJSON(t *testing.T) {
	// act
	snapshot, err := persist.BuildSnapshot("counter", 3, counter{Count: 2, Tags: []string{"a"}})

	// assert
	require.NoError(t, err)
	assert.Equal(t, "counter", snapshot.StoreName)
	assert.Equal(t, uint64(3), snapshot.Version)
	assert.JSONEq(t, `{"count":2,"tags":["a"]}`, string(snapshot.Data))
	assert.False(t, snapshot.SavedAt.IsZero())

	decoded, err := persist.DecodeState[counter](snapshot)
	require.NoError(t, err)
	assert.Equal(t, counter{Count: 2, Tags: []string{"a"}}, decoded)
}

func Test_BuildSnapshot_EmptyStoreName_Fails(t *testing.T) {
	_, err := persist.BuildSnapshot("", 1, counter{})

	assert.ErrorIs(t, err, persist.ErrEmptyStoreName)
}

func Test_BuildSnapshot_UnencodableState_Fails(t *testing.T) {
	_, err := persist.BuildSnapshot("counter", 1, unencodable{})

	assert.ErrorIs(t, err, persist.ErrEncodingStateFailed)
}

func Test_Snapshot_Validate_RejectsInvalidJSON(t *testing.T) {
	snapshot := persist.Snapshot{StoreName: "counter", Data: json.RawMessage(`{"count":`)}

	assert.ErrorIs(t, snapshot.Validate(), persist.ErrInvalidSnapshotJSON)
}

func Test_DecodeState_WrongShape_Fails(t *testing.T) {
	// arrange
	snapshot := persist.Snapshot{StoreName: "counter", Version: 4, Data: json.RawMessage(`{"count":"many"}`)}

	// act
	_, err := persist.DecodeState[counter](snapshot)

	// assert
	assert.ErrorIs(t, err, persist.ErrDecodingStateFailed)
	assert.Contains(t, err.Error(), `store "counter" version 4`)
}

func Test_Hydrate_WithoutSnapshot_ReturnsFallback(t *testing.T) {
	// act
	state, version, err := persist.Hydrate(context.Background(), persist.NewMemorySnapshotStore(), "counter", counter{Count: 42})

	// assert
	require.NoError(t, err)
	assert.Equal(t, counter{Count: 42}, state)
	assert.Zero(t, version)
}

func Test_Hydrate_RestoresStateAndVersion(t *testing.T) {
	// arrange
	ctx := context.Background()
	snapshots := persist.NewMemorySnapshotStore()
	snapshot, err := persist.BuildSnapshot("counter", 5, counter{Count: 9})
	require.NoError(t, err)
	require.NoError(t, snapshots.SaveSnapshot(ctx, snapshot))

	// act
	state, version, err := persist.Hydrate(ctx, snapshots, "counter", counter{})

	// assert
	require.NoError(t, err)
	assert.Equal(t, counter{Count: 9}, state)
	assert.Equal(t, uint64(5), version)
}

func Test_Hydrate_LoadError_ReturnsFallbackAndError(t *testing.T) {
	// arrange
	loadErr := errors.New("connection refused")

	// act
	state, _, err := persist.Hydrate(context.Background(), failingLoader{err: loadErr}, "counter", counter{Count: 1})

	// assert
	assert.ErrorIs(t, err, loadErr)
	assert.Equal(t, counter{Count: 1}, state)
}
