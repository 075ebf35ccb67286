package trie

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/taxon/pkg/taxon/internalerr"
)

func TestLoad(t *testing.T) {
	tr := New()
	input := "animal,mammal,dog\r\nanimal,mammal\n\nanimal,bird,\nanimal\nanimal\n"

	n, err := tr.Load(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, 4, tr.Size())
	assert.Equal(t, "animal_animal,mammal_animal,mammal,dog_animal,bird_", tr.Print())
}

func TestLoadAbortsOnInvalidLine(t *testing.T) {
	tr := New()
	input := "a\nb\nBad\nc\n"

	n, err := tr.Load(strings.NewReader(input))
	require.ErrorIs(t, err, internalerr.ErrInvalidLabel)
	assert.Contains(t, err.Error(), "line 3")
	assert.Equal(t, 2, n)
	assert.Equal(t, "a_b_", tr.Print())
}

func TestLoadSkipInvalid(t *testing.T) {
	tr := New()
	input := "a\nBad\nc,D\nc\n"

	var skipped []int
	n, err := tr.Load(strings.NewReader(input), SkipInvalid(func(line int, err error) {
		assert.ErrorIs(t, err, internalerr.ErrInvalidLabel)
		skipped = append(skipped, line)
	}))
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []int{2, 3}, skipped)
	assert.Equal(t, 2, tr.Size())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taxonomy.txt")
	require.NoError(t, os.WriteFile(path, []byte("x,y\nx\n"), 0644))

	tr := New()
	n, err := tr.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.True(t, tr.Contains([]string{"x"}))
	assert.True(t, tr.Contains([]string{"x", "y"}))
}

func TestLoadFileMissing(t *testing.T) {
	tr := New()
	_, err := tr.LoadFile(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
	assert.True(t, tr.Empty())
}
