// Package licm implements loop-invariant code motion with pre-header
// insertion, consuming loop structure through a small LoopInfo
// interface treated as an external collaborator.
package licm

import "tacopt/internal/cfg"

// LoopHandle opaquely identifies one natural loop.
type LoopHandle int

// LoopInfo is the external loop-analysis collaborator's interface: an
// iterable of loop handles, plus header/membership lookups. The core
// LICM pass never inspects a LoopInfo implementation's internals.
type LoopInfo interface {
	Loops() []LoopHandle
	Header(h LoopHandle) string
	Members(h LoopHandle) map[string]bool
}

// natural is the concrete, in-process LoopInfo shipped with this repo;
// nothing in the core assumes a specific implementation. It finds
// natural loops from back edges b -> h where h dominates b.
type natural struct {
	headers []string
	members []map[string]bool
}

func (n *natural) Loops() []LoopHandle {
	out := make([]LoopHandle, len(n.headers))
	for i := range n.headers {
		out[i] = LoopHandle(i)
	}
	return out
}

func (n *natural) Header(h LoopHandle) string           { return n.headers[h] }
func (n *natural) Members(h LoopHandle) map[string]bool { return n.members[h] }

// Dominance is the minimal dominator query LICM and NaturalLoops need,
// satisfied by dom.Sets.
type Dominance interface {
	Dominates(a, b string) bool
}

// NaturalLoops finds every natural loop in c: for each back edge n -> h
// (h dominates n), the loop body is h plus every block that can reach n
// without passing through h. Back edges sharing a header are merged
// into one loop, matching how a reducible CFG is usually summarized.
func NaturalLoops(c *cfg.CFG, dominance Dominance) LoopInfo {
	bodies := map[string]map[string]bool{}
	var order []string

	for _, b := range c.Order {
		for _, succ := range c.Succs(b) {
			if !dominance.Dominates(succ, b) {
				continue // not a back edge
			}
			header := succ
			if bodies[header] == nil {
				bodies[header] = map[string]bool{header: true}
				order = append(order, header)
			}
			body := bodies[header]
			addToLoop(c, body, b)
		}
	}

	n := &natural{}
	for _, h := range order {
		n.headers = append(n.headers, h)
		n.members = append(n.members, bodies[h])
	}
	return n
}

// addToLoop walks predecessors backward from the back-edge tail,
// collecting every block that reaches tail without leaving the loop,
// per the textbook natural-loop construction.
func addToLoop(c *cfg.CFG, body map[string]bool, tail string) {
	if body[tail] {
		return
	}
	body[tail] = true
	var stack = []string{tail}
	for len(stack) > 0 {
		m := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, p := range c.Preds(m) {
			if !body[p] {
				body[p] = true
				stack = append(stack, p)
			}
		}
	}
}
