package smt

type visitResult byte

const (
	visitChildren visitResult = iota
	skipChildren
	stopWalk
)

// Traverse walks the trie depth-first calling f for every node with its
// distance from the root. Children are visited in slot order and loaded from
// the store as needed. Returning false from f skips the subtree of the node.
func (t *Trie) Traverse(f func(n Node, depth int) bool) error {
	_, err := walk(t.store, t.readBound(), t.root, 0, func(n Node, depth int) visitResult {
		if f(n, depth) {
			return visitChildren
		}
		return skipChildren
	})
	return err
}

// walk returns false once f has asked to stop, nothing is loaded after that.
func walk(s Store, before uint64, n Node, depth int, f func(Node, int) visitResult) (bool, error) {
	switch f(n, depth) {
	case stopWalk:
		return false, nil
	case skipChildren:
		return true, nil
	}
	b, ok := n.(*BranchNode)
	if !ok {
		return true, nil
	}
	for i := 0; i < childrenCount; i++ {
		child, err := b.loadChild(s, before, byte(i))
		if err != nil {
			return false, err
		}
		if child == nil {
			continue
		}
		more, err := walk(s, before, child, depth+1, f)
		if err != nil || !more {
			return false, err
		}
	}
	return true, nil
}

// Leaves calls f for every leaf of the trie in address order until f
// returns false.
func (t *Trie) Leaves(f func(l *LeafNode) bool) error {
	_, err := walk(t.store, t.readBound(), t.root, 0, func(n Node, _ int) visitResult {
		if l, ok := n.(*LeafNode); ok && !f(l) {
			return stopWalk
		}
		return visitChildren
	})
	return err
}
