package ssa

import (
	"fmt"

	"tacopt/internal/cfg"
	"tacopt/internal/dom"
)

// uninitializedUseError reports a use with no dominating definition,
// tagged with the block it was found in so callers can attach that
// block as the diagnostic's position.
type uninitializedUseError struct {
	block string
	use   string
}

func (e *uninitializedUseError) Error() string {
	return fmt.Sprintf("block %q: use of %q has no dominating definition", e.block, e.use)
}

// renamer carries the per-variable stacks and counters used by
// dominator-tree renaming.
type renamer struct {
	c        *cfg.CFG
	tree     *dom.Tree
	phiVarAt map[string]map[int]string
	stacks   map[string][]string
	counters map[string]int
}

func newRenamer(c *cfg.CFG, tree *dom.Tree, phiVarAt map[string]map[int]string) *renamer {
	return &renamer{
		c:        c,
		tree:     tree,
		phiVarAt: phiVarAt,
		stacks:   map[string][]string{},
		counters: map[string]int{},
	}
}

func (r *renamer) seedArg(name string) {
	r.stacks[name] = []string{name}
}

func (r *renamer) top(v string) (string, bool) {
	st := r.stacks[v]
	if len(st) == 0 {
		return "", false
	}
	return st[len(st)-1], true
}

func (r *renamer) push(v string) string {
	r.counters[v]++
	name := fmt.Sprintf("%s.%d", v, r.counters[v])
	r.stacks[v] = append(r.stacks[v], name)
	return name
}

// rename walks the dominator tree from label (normally the entry),
// rewriting uses to the current stack top, pushing a fresh name for
// every definition, patching successors' φ incoming slots, recursing
// into dominator-tree children, and popping exactly what this block
// pushed on the way out.
func (r *renamer) rename(label string) error {
	block := r.c.Block(label)
	var pushed []string

	for i := range block.Instrs {
		instr := &block.Instrs[i]
		if instr.IsLabel() {
			continue
		}

		if !instr.IsPhi() {
			for j, a := range instr.Args {
				name, ok := r.top(a)
				if !ok {
					return &uninitializedUseError{block: label, use: a}
				}
				instr.Args[j] = name
			}
		}

		if instr.HasDest() {
			origVar := instr.Dest
			if instr.IsPhi() {
				if v, ok := r.phiVarAt[label][i]; ok {
					origVar = v
				}
			}
			newName := r.push(origVar)
			pushed = append(pushed, origVar)
			instr.Dest = newName
		}
	}

	for _, succ := range r.c.Succs(label) {
		sb := r.c.Block(succ)
		for i := range sb.Instrs {
			if !sb.Instrs[i].IsPhi() {
				continue
			}
			v, ok := r.phiVarAt[succ][i]
			if !ok {
				continue
			}
			name, ok := r.top(v)
			if !ok {
				// No definition of v reaches this edge; the slot keeps
				// the unrenamed name.
				continue
			}
			for k, l := range sb.Instrs[i].Labels {
				if l == label {
					sb.Instrs[i].Args[k] = name
				}
			}
		}
	}

	for _, child := range r.tree.Children[label] {
		if err := r.rename(child); err != nil {
			return err
		}
	}

	for _, v := range pushed {
		r.stacks[v] = r.stacks[v][:len(r.stacks[v])-1]
	}
	return nil
}
