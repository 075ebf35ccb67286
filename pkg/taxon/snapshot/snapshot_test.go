package snapshot

import (
	"strings"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/taxon/pkg/taxon/internalerr"
	"github.com/cognicore/taxon/pkg/taxon/trie"
)

func buildTree(t *testing.T, paths ...string) *trie.Tree {
	t.Helper()
	tr := trie.New()
	for _, p := range paths {
		_, err := tr.Insert(trie.ParsePath(p))
		require.NoError(t, err)
	}
	return tr
}

func TestTake(t *testing.T) {
	tr := buildTree(t, "animal,mammal,dog", "animal,mammal", "animal", "plant")
	b := NewBuilder()
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	b.now = func() time.Time { return fixed }

	s := b.Take("base", tr)
	assert.Equal(t, "base", s.Name)
	assert.Equal(t, fixed, s.CreatedAt)
	assert.Equal(t, []string{"animal,mammal,dog", "animal,mammal", "animal", "plant"}, s.Paths)

	id, err := ulid.ParseStrict(s.ID)
	require.NoError(t, err)
	assert.Equal(t, ulid.Timestamp(fixed), id.Time())
}

func TestTakeIDsAreMonotonic(t *testing.T) {
	b := NewBuilder()
	tr := trie.New()
	prev := b.Take("x", tr).ID
	for i := 0; i < 50; i++ {
		next := b.Take("x", tr).ID
		assert.Greater(t, next, prev)
		prev = next
	}
}

func TestRestoreRoundTrip(t *testing.T) {
	src := buildTree(t, "animal,mammal,dog", "animal,bird", "animal,mammal", "animal", "plant,tree", "plant")
	s := NewBuilder().Take("roundtrip", src)

	dst := buildTree(t, "junk")
	require.NoError(t, Restore(dst, s))

	assert.Equal(t, src.Print(), dst.Print())
	assert.Equal(t, src.Size(), dst.Size())
	assert.False(t, dst.Contains([]string{"junk"}))
}

func TestRestoreInvalidLeavesTreeUntouched(t *testing.T) {
	tr := buildTree(t, "animal,bird", "animal")
	before := tr.Print()

	err := Restore(tr, Snapshot{ID: "x", Paths: []string{"ok", "plant,Tree"}})
	assert.ErrorIs(t, err, internalerr.ErrInvalidLabel)
	assert.Equal(t, before, tr.Print())
	assert.Equal(t, 2, tr.Size())
}

func TestExportLoadRoundTrip(t *testing.T) {
	src := buildTree(t, "animal,mammal", "animal")
	exported := Export(NewBuilder().Take("export", src))
	assert.Equal(t, "animal,mammal\nanimal\n", exported)

	dst := trie.New()
	n, err := dst.Load(strings.NewReader(exported))
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, "animal_animal,mammal_", dst.Print())
	assert.Equal(t, src.Print(), dst.Print())
	assert.Equal(t, src.Size(), dst.Size())
}

func TestExportLoadRoundTripDeepTaxonomy(t *testing.T) {
	src := buildTree(t, "x,y", "animal,mammal,dog", "animal,bird", "animal,mammal", "animal", "plant,tree", "plant", "x")

	dst := trie.New()
	_, err := dst.Load(strings.NewReader(Export(NewBuilder().Take("export", src))))
	require.NoError(t, err)
	assert.Equal(t, src.Print(), dst.Print())
	assert.Equal(t, src.Size(), dst.Size())
}

func TestExport(t *testing.T) {
	assert.Equal(t, "", Export(Snapshot{}))
	assert.Equal(t, "a\na,b\n", Export(Snapshot{Paths: []string{"a", "a,b"}}))
}
