package snapshot

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(5)

	for i := 0; i < 3; i++ {
		require.NoError(t, store.Save(ctx, Snapshot{ID: fmt.Sprintf("snap-%d", i)}))
	}

	snapshots, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, snapshots, 3)
	assert.Equal(t, "snap-2", snapshots[0].ID)
	assert.Equal(t, "snap-0", snapshots[2].ID)
}

func TestMemoryStoreEvictsOldestPastCap(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(30)

	for i := 0; i < 35; i++ {
		require.NoError(t, store.Save(ctx, Snapshot{
			ID:         fmt.Sprintf("snap-%d", i),
			CapturedAt: time.Date(2026, 3, 2, 10, 0, i, 0, time.UTC),
		}))
	}

	snapshots, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, snapshots, 30)
	assert.Equal(t, "snap-34", snapshots[0].ID)
	// snap-0 through snap-4 were evicted oldest-first.
	assert.Equal(t, "snap-5", snapshots[29].ID)
}

func TestMemoryStoreDeleteAll(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(0) // falls back to DefaultRetention

	require.NoError(t, store.Save(ctx, Snapshot{ID: "snap"}))
	require.NoError(t, store.DeleteAll(ctx))

	snapshots, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, snapshots)
}
