package trie

import "strings"

// entrySeparator terminates every classification in Print output.
const entrySeparator = "_"

// Print renders every classification as its comma-joined path followed by an
// underscore, in pre-order and child insertion order. An empty tree renders as
// the empty string.
func (t *Tree) Print() string {
	var b strings.Builder
	t.walk(false, func(path []string) {
		b.WriteString(JoinPath(path))
		b.WriteString(entrySeparator)
	})
	return b.String()
}

// Paths returns every classification in the same order Print uses.
func (t *Tree) Paths() [][]string {
	return t.collect(false)
}

// PostOrderPaths returns every classification with descendants ahead of
// their ancestors. Inserting the result in order into an empty tree rebuilds
// t exactly: no insert retracts an ancestor that is registered later, and
// siblings are first reached in their original order.
func (t *Tree) PostOrderPaths() [][]string {
	return t.collect(true)
}

func (t *Tree) collect(post bool) [][]string {
	var out [][]string
	t.walk(post, func(path []string) {
		out = append(out, append([]string(nil), path...))
	})
	return out
}

// walk visits terminal nodes depth first, reporting a node before its
// children, or after them when post is set. The slice passed to fn is reused
// between calls.
func (t *Tree) walk(post bool, fn func(path []string)) {
	var path []string
	var visit func(n *node)
	visit = func(n *node) {
		path = append(path, n.label)
		if n.terminal && !post {
			fn(path)
		}
		for _, c := range n.children {
			visit(c)
		}
		if n.terminal && post {
			fn(path)
		}
		path = path[:len(path)-1]
	}
	for _, c := range t.root.children {
		visit(c)
	}
}
