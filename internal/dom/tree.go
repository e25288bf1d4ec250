package dom

import "tacopt/internal/cfg"

// Tree is a dominator tree: Idom[b] is b's immediate dominator (absent
// for the entry), and Children[d] lists the blocks d immediately
// dominates, in reverse-post-order.
type Tree struct {
	Entry    string
	Idom     map[string]string
	Children map[string][]string
}

// BuildTree derives the dominator tree from the dom-set relation: a
// block's immediate dominator is the strict dominator that itself has
// the most dominators, i.e. the one closest to b along any dominator
// chain. This holds because dominators of a reachable block are totally
// ordered by the dominance relation.
func BuildTree(c *cfg.CFG, sets Sets) *Tree {
	rpo := ReversePostOrder(c)
	t := &Tree{
		Entry:    c.Entry,
		Idom:     make(map[string]string),
		Children: make(map[string][]string),
	}

	for _, b := range rpo {
		if b == c.Entry {
			continue
		}
		var best string
		bestSize := -1
		for d := range sets[b] {
			if d == b {
				continue
			}
			if size := len(sets[d]); size > bestSize {
				bestSize = size
				best = d
			}
		}
		t.Idom[b] = best
		t.Children[best] = append(t.Children[best], b)
	}

	return t
}

// Walk visits the tree in pre-order (a block before its dominator-tree
// children), calling visit on each label.
func (t *Tree) Walk(visit func(label string)) {
	var rec func(label string)
	rec = func(label string) {
		visit(label)
		for _, child := range t.Children[label] {
			rec(child)
		}
	}
	rec(t.Entry)
}
