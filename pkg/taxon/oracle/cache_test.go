package oracle

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingOracle struct {
	calls  int
	answer string
	err    error
}

func (o *countingOracle) Choose(context.Context, string, []string) (string, error) {
	o.calls++
	return o.answer, o.err
}

func openMemCache(t *testing.T) *Cache {
	t.Helper()
	c, err := OpenCache(CacheConfig{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestCacheServesRepeatedQuestions(t *testing.T) {
	c := openMemCache(t)
	next := &countingOracle{answer: "mammal"}
	o := c.Wrap(next)

	for i := 0; i < 3; i++ {
		got, err := o.Choose(context.Background(), "a dog", []string{"mammal", "bird"})
		require.NoError(t, err)
		assert.Equal(t, "mammal", got)
	}
	assert.Equal(t, 1, next.calls)
}

func TestCacheKeysOnCandidates(t *testing.T) {
	c := openMemCache(t)
	next := &countingOracle{answer: "x"}
	o := c.Wrap(next)

	_, err := o.Choose(context.Background(), "text", []string{"a", "b"})
	require.NoError(t, err)
	_, err = o.Choose(context.Background(), "text", []string{"a"})
	require.NoError(t, err)
	_, err = o.Choose(context.Background(), "other", []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, 3, next.calls)
}

func TestCacheServesDocumentSizedText(t *testing.T) {
	c := openMemCache(t)
	next := &countingOracle{answer: "bird"}
	o := c.Wrap(next)
	text := strings.Repeat("a bird sings ", 80*1024/13)
	require.Greater(t, len(text), 64*1024)

	for i := 0; i < 2; i++ {
		got, err := o.Choose(context.Background(), text, []string{"mammal", "bird"})
		require.NoError(t, err)
		assert.Equal(t, "bird", got)
	}
	assert.Equal(t, 1, next.calls)

	got, ok, err := c.Lookup(text, []string{"mammal", "bird"})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "bird", got)
}

func TestCacheKeySeparatesCandidateBoundaries(t *testing.T) {
	c := openMemCache(t)
	require.NoError(t, c.Store("t", []string{"a,b"}, "a,b"))

	_, ok, err := c.Lookup("t", []string{"a", "b"})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Len(t, cacheKey(strings.Repeat("x", 100000), []string{"a"}), len(keyPrefix)+32)
}

func TestCacheRemembersEmptyAnswer(t *testing.T) {
	c := openMemCache(t)
	require.NoError(t, c.Store("t", []string{"a"}, ""))

	got, ok, err := c.Lookup("t", []string{"a"})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "", got)

	_, ok, err = c.Lookup("t", []string{"b"})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCacheDoesNotStoreErrors(t *testing.T) {
	c := openMemCache(t)
	boom := errors.New("boom")
	next := &countingOracle{err: boom}
	o := c.Wrap(next)

	_, err := o.Choose(context.Background(), "t", []string{"a"})
	assert.ErrorIs(t, err, boom)
	_, ok, err := c.Lookup("t", []string{"a"})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCachePersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	c, err := OpenCache(CacheConfig{Dir: dir})
	require.NoError(t, err)
	require.NoError(t, c.Store("t", []string{"a", "b"}, "b"))
	require.NoError(t, c.Close())

	c2, err := OpenCache(CacheConfig{Dir: dir})
	require.NoError(t, err)
	defer c2.Close()
	got, ok, err := c2.Lookup("t", []string{"a", "b"})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "b", got)
}

func TestOpenCacheRequiresDir(t *testing.T) {
	_, err := OpenCache(CacheConfig{})
	assert.Error(t, err)
}
