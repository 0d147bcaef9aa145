package ast

// WalkStatus instructs Walk how to proceed after visiting a node.
type WalkStatus int

const (
	// WalkContinue descends into the node's children.
	WalkContinue WalkStatus = iota
	// WalkSkipChildren continues with the next sibling.
	WalkSkipChildren
	// WalkStop aborts the walk.
	WalkStop
)

// Walker is called twice per node, entering and leaving. The ancestors slice
// is the path from the root to the node's parent; it is owned by Walk and
// must not be retained.
type Walker func(n *Node, ancestors []*Node, entering bool) (WalkStatus, error)

// Walk traverses the tree depth-first, carrying an explicit ancestor stack
// instead of parent pointers.
func Walk(n *Node, walker Walker) error {
	_, err := walk(n, nil, walker)
	return err
}

func walk(n *Node, ancestors []*Node, walker Walker) (WalkStatus, error) {
	status, err := walker(n, ancestors, true)
	if err != nil || status == WalkStop {
		return status, err
	}

	if status != WalkSkipChildren {
		ancestors = append(ancestors, n)
		for _, c := range n.Children {
			if st, err := walk(c, ancestors, walker); err != nil || st == WalkStop {
				return WalkStop, err
			}
		}
		ancestors = ancestors[:len(ancestors)-1]
	}

	status, err = walker(n, ancestors, false)
	if err != nil || status == WalkStop {
		return WalkStop, err
	}
	return WalkContinue, nil
}

// FindNode returns the first node in the subtree for which fn returns true.
func FindNode(n *Node, fn func(*Node) bool) *Node {
	if n == nil {
		return nil
	}
	if fn(n) {
		return n
	}
	for _, c := range n.Children {
		if found := FindNode(c, fn); found != nil {
			return found
		}
	}
	return nil
}
