// Package snapshot captures a tree's classifications as a flat, ordered list
// of comma-joined paths and restores trees from such lists.
//
// Paths are kept in replay order: descendants ahead of their ancestors, as
// trie.(*Tree).PostOrderPaths returns them. Inserting them one by one, as
// trie.Load does, rebuilds the tree exactly.
package snapshot

import (
	"crypto/rand"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/taxon/pkg/taxon/trie"
)

// Snapshot is an immutable export of a tree.
type Snapshot struct {
	ID        string
	Name      string
	CreatedAt time.Time
	Paths     []string // comma-joined, in replay order
}

// Builder stamps snapshots with monotonically increasing ULIDs.
type Builder struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
	now     func() time.Time
}

// NewBuilder creates a snapshot builder.
func NewBuilder() *Builder {
	return &Builder{
		entropy: ulid.Monotonic(rand.Reader, 0),
		now:     time.Now,
	}
}

// Take exports tr under name.
func (b *Builder) Take(name string, tr *trie.Tree) Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now().UTC()
	paths := tr.PostOrderPaths()
	flat := make([]string, len(paths))
	for i, p := range paths {
		flat[i] = trie.JoinPath(p)
	}
	return Snapshot{
		ID:        ulid.MustNew(ulid.Timestamp(now), b.entropy).String(),
		Name:      name,
		CreatedAt: now,
		Paths:     flat,
	}
}

// Restore replaces the contents of tr with the classifications in s. Every
// path is validated first; on error tr is left untouched.
func Restore(tr *trie.Tree, s Snapshot) error {
	paths := make([][]string, len(s.Paths))
	for i, p := range s.Paths {
		paths[i] = trie.ParsePath(p)
		for _, label := range paths[i] {
			if err := trie.ValidateLabel(label); err != nil {
				return fmt.Errorf("snapshot: restore %s: path %d: %w", s.ID, i, err)
			}
		}
	}

	tr.Clear()
	for _, p := range paths {
		if _, err := tr.Insert(p); err != nil {
			return fmt.Errorf("snapshot: restore %s: %w", s.ID, err)
		}
	}
	return nil
}

// Export renders s one path per line. Loading the result with trie.Load
// rebuilds the exported tree.
func Export(s Snapshot) string {
	if len(s.Paths) == 0 {
		return ""
	}
	return strings.Join(s.Paths, "\n") + "\n"
}
