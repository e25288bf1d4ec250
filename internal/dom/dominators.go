package dom

import "tacopt/internal/cfg"

// Sets is the dominator relation: Sets[b] is the set of labels that
// dominate b, b included.
type Sets map[string]map[string]bool

// Dominators computes dom[b] for every block reachable from the entry,
// by the standard iterative fixpoint: dom[entry] = {entry},
// dom[b] = all-nodes for every other b, then repeatedly
// dom[b] = {b} ∪ ⋂ dom[p] over defined preds p, until no set changes.
// Terminates on any reducible or irreducible CFG with finitely many
// nodes.
func Dominators(c *cfg.CFG) Sets {
	rpo := ReversePostOrder(c)
	reachable := make(map[string]bool, len(rpo))
	for _, l := range rpo {
		reachable[l] = true
	}

	all := make(map[string]bool, len(rpo))
	for _, l := range rpo {
		all[l] = true
	}

	dom := make(Sets, len(rpo))
	dom[c.Entry] = map[string]bool{c.Entry: true}
	for _, l := range rpo {
		if l == c.Entry {
			continue
		}
		dom[l] = cloneSet(all)
	}

	changed := true
	for changed {
		changed = false
		for _, b := range rpo {
			if b == c.Entry {
				continue
			}
			var inter map[string]bool
			for _, p := range c.Preds(b) {
				if !reachable[p] {
					continue
				}
				pd, ok := dom[p]
				if !ok {
					continue
				}
				if inter == nil {
					inter = cloneSet(pd)
				} else {
					inter = intersect(inter, pd)
				}
			}
			if inter == nil {
				inter = map[string]bool{}
			}
			inter[b] = true
			if !equalSets(inter, dom[b]) {
				dom[b] = inter
				changed = true
			}
		}
	}
	return dom
}

// Dominates reports whether a dominates b (a ∈ dom[b]).
func (s Sets) Dominates(a, b string) bool {
	set, ok := s[b]
	return ok && set[a]
}

// StrictlyDominates reports whether a dominates b and a != b.
func (s Sets) StrictlyDominates(a, b string) bool {
	return a != b && s.Dominates(a, b)
}

func cloneSet(m map[string]bool) map[string]bool {
	out := make(map[string]bool, len(m))
	for k, v := range m {
		if v {
			out[k] = true
		}
	}
	return out
}

func intersect(a, b map[string]bool) map[string]bool {
	out := make(map[string]bool)
	for k := range a {
		if b[k] {
			out[k] = true
		}
	}
	return out
}

func equalSets(a, b map[string]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if !b[k] {
			return false
		}
	}
	return true
}
