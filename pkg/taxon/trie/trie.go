// Package trie holds a hierarchical taxonomy of classification labels as a
// prefix tree and classifies text by descending it with an oracle.
//
// A classification is a path of labels from general to specific, for example
// animal,mammal,dog. Only paths explicitly registered with Insert are
// terminal; intermediate nodes exist solely to hold deeper paths. A Tree is
// not safe for concurrent use.
package trie

// Tree is a taxonomy of classification paths.
type Tree struct {
	root  *node
	count int
}

// New returns an empty tree.
func New() *Tree {
	return &Tree{root: newNode("")}
}

// Insert registers path as a classification.
//
// Labels are validated one at a time as the descent reaches them, so when a
// later label is invalid the nodes created for earlier labels stay in place.
// Every terminal node passed on the way down loses its terminal status: a
// classification is never a proper prefix of another one.
//
// Insert returns false when path is already registered. The empty path names
// the root, which is never a classification, and is reported as false.
func (t *Tree) Insert(path []string) (bool, error) {
	if len(path) == 0 {
		return false, nil
	}

	current := t.root
	for _, label := range path {
		if err := ValidateLabel(label); err != nil {
			return false, err
		}

		if current.terminal {
			current.terminal = false
			t.count--
		}

		next, _ := current.child(label)
		if next == nil {
			next = newNode(label)
			current.children = append(current.children, next)
		}
		current = next
	}

	if current.terminal {
		return false, nil
	}
	current.terminal = true
	t.count++
	return true, nil
}

// step is one edge of a walked path.
type step struct {
	parent *node
	child  *node
}

// Erase unregisters path and prunes ancestors left childless and non-terminal.
// It returns false when path does not exist or is not a classification.
func (t *Tree) Erase(path []string) bool {
	if len(path) == 0 {
		return false
	}

	walked := make([]step, 0, len(path))
	current := t.root
	for _, label := range path {
		next, _ := current.child(label)
		if next == nil {
			return false
		}
		walked = append(walked, step{parent: current, child: next})
		current = next
	}

	if !current.terminal {
		return false
	}
	current.terminal = false
	t.count--

	for i := len(walked) - 1; i >= 0; i-- {
		s := walked[i]
		if s.child.terminal || len(s.child.children) > 0 {
			break
		}
		if _, idx := s.parent.child(s.child.label); idx >= 0 {
			s.parent.removeChild(idx)
		}
	}
	return true
}

// Contains reports whether path is a registered classification.
func (t *Tree) Contains(path []string) bool {
	if len(path) == 0 {
		return false
	}
	current := t.root
	for _, label := range path {
		next, _ := current.child(label)
		if next == nil {
			return false
		}
		current = next
	}
	return current.terminal
}

// Size returns the number of registered classifications.
func (t *Tree) Size() int {
	return t.count
}

// Empty reports whether no classification is registered.
func (t *Tree) Empty() bool {
	return t.count == 0
}

// Clear drops every node below the root.
func (t *Tree) Clear() {
	t.root = newNode("")
	t.count = 0
}
