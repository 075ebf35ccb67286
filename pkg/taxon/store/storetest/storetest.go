// Package storetest holds the behavior every store.Store implementation
// must share.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/taxon/pkg/taxon/internalerr"
	"github.com/cognicore/taxon/pkg/taxon/snapshot"
	"github.com/cognicore/taxon/pkg/taxon/store"
)

// Run exercises a fresh store returned by open for each subtest.
func Run(t *testing.T, open func(t *testing.T) store.Store) {
	t.Run("SaveAndGet", func(t *testing.T) { testSaveAndGet(t, open(t)) })
	t.Run("GetMissing", func(t *testing.T) { testGetMissing(t, open(t)) })
	t.Run("LatestAndList", func(t *testing.T) { testLatestAndList(t, open(t)) })
	t.Run("Replace", func(t *testing.T) { testReplace(t, open(t)) })
	t.Run("Delete", func(t *testing.T) { testDelete(t, open(t)) })
	t.Run("EmptySnapshot", func(t *testing.T) { testEmptySnapshot(t, open(t)) })
}

func snap(id, name string, at time.Time, paths ...string) snapshot.Snapshot {
	return snapshot.Snapshot{ID: id, Name: name, CreatedAt: at.UTC(), Paths: paths}
}

var base = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func testSaveAndGet(t *testing.T, st store.Store) {
	ctx := context.Background()
	in := snap("01J00000000000000000000001", "main", base, "animal", "animal,mammal", "plant")
	require.NoError(t, st.SaveSnapshot(ctx, in))

	out, err := st.GetSnapshot(ctx, in.ID)
	require.NoError(t, err)
	assert.Equal(t, in.ID, out.ID)
	assert.Equal(t, in.Name, out.Name)
	assert.True(t, in.CreatedAt.Equal(out.CreatedAt))
	assert.Equal(t, in.Paths, out.Paths)
}

func testGetMissing(t *testing.T, st store.Store) {
	_, err := st.GetSnapshot(context.Background(), "nope")
	assert.ErrorIs(t, err, internalerr.ErrNotFound)

	_, ok, err := st.LatestSnapshot(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, ok)
}

func testLatestAndList(t *testing.T, st store.Store) {
	ctx := context.Background()
	require.NoError(t, st.SaveSnapshot(ctx, snap("01J00000000000000000000001", "main", base, "a")))
	require.NoError(t, st.SaveSnapshot(ctx, snap("01J00000000000000000000003", "main", base.Add(2*time.Minute), "c")))
	require.NoError(t, st.SaveSnapshot(ctx, snap("01J00000000000000000000002", "main", base.Add(time.Minute), "b")))
	require.NoError(t, st.SaveSnapshot(ctx, snap("01J00000000000000000000009", "other", base.Add(time.Hour), "z")))

	latest, ok, err := st.LatestSnapshot(ctx, "main")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "01J00000000000000000000003", latest.ID)
	assert.Equal(t, []string{"c"}, latest.Paths)

	all, err := st.ListSnapshots(ctx, "main", 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "01J00000000000000000000003", all[0].ID)
	assert.Equal(t, "01J00000000000000000000002", all[1].ID)
	assert.Equal(t, "01J00000000000000000000001", all[2].ID)
	for _, s := range all {
		assert.Empty(t, s.Paths, "listings carry headers only")
	}

	limited, err := st.ListSnapshots(ctx, "main", 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func testReplace(t *testing.T, st store.Store) {
	ctx := context.Background()
	require.NoError(t, st.SaveSnapshot(ctx, snap("01J00000000000000000000001", "main", base, "a", "b", "c")))
	require.NoError(t, st.SaveSnapshot(ctx, snap("01J00000000000000000000001", "main", base, "x")))

	out, err := st.GetSnapshot(ctx, "01J00000000000000000000001")
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, out.Paths)
}

func testDelete(t *testing.T, st store.Store) {
	ctx := context.Background()
	require.NoError(t, st.SaveSnapshot(ctx, snap("01J00000000000000000000001", "main", base, "a")))
	require.NoError(t, st.DeleteSnapshot(ctx, "01J00000000000000000000001"))
	require.NoError(t, st.DeleteSnapshot(ctx, "01J00000000000000000000001"))

	_, err := st.GetSnapshot(ctx, "01J00000000000000000000001")
	assert.ErrorIs(t, err, internalerr.ErrNotFound)
}

func testEmptySnapshot(t *testing.T, st store.Store) {
	ctx := context.Background()
	require.NoError(t, st.SaveSnapshot(ctx, snap("01J00000000000000000000001", "empty", base)))

	out, ok, err := st.LatestSnapshot(ctx, "empty")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Empty(t, out.Paths)
}
