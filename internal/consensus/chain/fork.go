package chain

// LastCommonAncestor returns the highest node that both a and b descend from.
// Both nodes must belong to the same index; branches always meet at genesis.
func LastCommonAncestor(a, b *Node) *Node {
	if a == nil || b == nil || a.index != b.index {
		panic("chain: last common ancestor of unrelated nodes")
	}

	if a.height > b.height {
		a = a.Ancestor(b.height)
	} else if b.height > a.height {
		b = b.Ancestor(a.height)
	}

	for a != b && a != nil && b != nil {
		a = a.Parent()
		b = b.Parent()
	}
	if a != b {
		panic("chain: branches do not meet")
	}
	return a
}
