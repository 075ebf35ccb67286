package trie

// node is one taxonomy segment. Children are kept in insertion order because
// that order is visible in Print and in the candidate lists offered to an oracle.
type node struct {
	label    string
	terminal bool
	children []*node
}

func newNode(label string) *node {
	return &node{label: label}
}

// child returns the direct child carrying label and its index, or nil, -1.
func (n *node) child(label string) (*node, int) {
	for i, c := range n.children {
		if c.label == label {
			return c, i
		}
	}
	return nil, -1
}

// removeChild detaches the child at index i, keeping sibling order intact.
func (n *node) removeChild(i int) {
	copy(n.children[i:], n.children[i+1:])
	n.children[len(n.children)-1] = nil
	n.children = n.children[:len(n.children)-1]
}

// terminalLabels returns the labels of terminal children in child order.
func (n *node) terminalLabels() []string {
	var labels []string
	for _, c := range n.children {
		if c.terminal {
			labels = append(labels, c.label)
		}
	}
	return labels
}

// terminalChild returns the terminal child whose label equals label exactly.
func (n *node) terminalChild(label string) *node {
	for _, c := range n.children {
		if c.terminal && c.label == label {
			return c
		}
	}
	return nil
}
