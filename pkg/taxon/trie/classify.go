package trie

import (
	"context"
	"fmt"

	"github.com/cognicore/taxon/pkg/taxon/oracle"
)

// Classify descends the tree one level at a time. At each level the labels of
// the terminal children are offered to o, and descent continues into the child
// whose label equals the answer. It stops when a level has no terminal
// children or when the answer is not one of the offered labels; both are
// ordinary outcomes and yield the path accumulated so far.
//
// An error returned by the oracle also stops descent. The partial path is
// returned alongside it.
func (t *Tree) Classify(ctx context.Context, text string, o oracle.Oracle) ([]string, error) {
	path := []string{}
	current := t.root
	for {
		candidates := current.terminalLabels()
		if len(candidates) == 0 {
			return path, nil
		}

		answer, err := o.Choose(ctx, text, candidates)
		if err != nil {
			return path, fmt.Errorf("trie: classify at depth %d: %w", len(path), err)
		}

		next := current.terminalChild(answer)
		if next == nil {
			return path, nil
		}
		path = append(path, next.label)
		current = next
	}
}
