package dom

import (
	"sort"

	"tacopt/internal/cfg"
)

// Frontier maps each label to its dominance frontier.
type Frontier map[string]map[string]bool

// DominanceFrontiers computes DF[a] for every block:
// for every pair (a, b) with a ∈ dom[b], for every successor c of b: if
// a does not strictly dominate c (c sits just outside the region a
// dominates) add c to DF[a]. Phrased the other way: a lands in DF[a]'s
// target set exactly when some predecessor of that target is dominated
// by a but a itself is not a strict dominator of the target — the
// "b ∉ dom[c]" wording only holds for b = a itself; checking it against
// b rather than a (as a literal reading suggests) wrongly pulls in
// every ancestor of a join point, so the dominance check below is
// against a.
func DominanceFrontiers(c *cfg.CFG, dom Sets) Frontier {
	df := make(Frontier)
	for _, label := range c.Order {
		df[label] = map[string]bool{}
	}

	for b := range dom {
		for _, succ := range c.Succs(b) {
			for a := range dom[b] {
				if dom.StrictlyDominates(a, succ) {
					continue
				}
				if df[a] == nil {
					df[a] = map[string]bool{}
				}
				df[a][succ] = true
			}
		}
	}
	return df
}

// Of returns the sorted members of a's dominance frontier, mainly for
// deterministic tests.
func (f Frontier) Of(a string) []string {
	set := f[a]
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
