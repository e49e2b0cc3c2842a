package tdf

import "github.com/sharedcode/ocaf/arena"

// node is the arena-resident storage of a label. Children form a singly linked sibling list
// in creation order. Detached nodes stay linked so their label handles remain valid.
type node struct {
	tag         int
	depth       int
	father      arena.Index
	firstChild  arena.Index
	lastChild   arena.Index
	nextSibling arena.Index
	attrs       []Attribute
	transaction int
	attached    bool
}

func (n *node) find(k Kind) int {
	for i, a := range n.attrs {
		if a.Kind() == k {
			return i
		}
	}
	return -1
}
