package licm

import (
	"fmt"

	"tacopt/internal/cfg"
	"tacopt/internal/ir"
)

// externalEntries returns the loop-member blocks that receive at least
// one edge from outside the loop. A reducible natural loop has exactly
// one: its header. More than one means the region is irreducible and
// LICM must skip it.
func externalEntries(c *cfg.CFG, members map[string]bool) []string {
	seen := map[string]bool{}
	var entries []string
	for m := range members {
		for _, p := range c.Preds(m) {
			if !members[p] {
				if !seen[m] {
					seen[m] = true
					entries = append(entries, m)
				}
				break
			}
		}
	}
	return entries
}

// freshBlockLabel picks an unused label derived from header, following
// the same "skip anything already present" rule used for synthesized
// block labels elsewhere.
func freshBlockLabel(c *cfg.CFG, header string) string {
	base := header + ".preheader"
	name := base
	n := 0
	for {
		if c.Block(name) == nil {
			return name
		}
		n++
		name = fmt.Sprintf("%s%d", base, n)
	}
}

// insertPreheader creates a pre-header P immediately before header,
// redirects every external predecessor's edge into header to target P
// instead, and splits header's φ-nodes so the values that used to arrive
// on each external edge now arrive on a single edge from P. Predecessors
// inside the loop (back edges) are left pointing at header.
func insertPreheader(c *cfg.CFG, header string, members map[string]bool) *cfg.Block {
	label := freshBlockLabel(c, header)
	headerBlock := c.Block(header)

	external := map[string]bool{}
	for _, p := range c.Preds(header) {
		if !members[p] {
			external[p] = true
		}
	}

	pre := &cfg.Block{Label: label, Instrs: []ir.Instruction{{Label: label}}}

	forwardSuffix := 0
	for i := range headerBlock.Instrs {
		instr := &headerBlock.Instrs[i]
		if !instr.IsPhi() {
			continue
		}

		var keepLabels, keepArgs []string
		var extLabels, extArgs []string
		for j, l := range instr.Labels {
			if external[l] {
				extLabels = append(extLabels, l)
				extArgs = append(extArgs, instr.Args[j])
			} else {
				keepLabels = append(keepLabels, l)
				keepArgs = append(keepArgs, instr.Args[j])
			}
		}
		if len(extLabels) == 0 {
			continue
		}

		forwardSuffix++
		forwardDest := fmt.Sprintf("%s.pre%d", instr.Dest, forwardSuffix)
		pre.Instrs = append(pre.Instrs, ir.Instruction{
			Op: ir.OpPhi, Dest: forwardDest, Args: extArgs, Labels: extLabels,
		})

		instr.Labels = append(keepLabels, label)
		instr.Args = append(keepArgs, forwardDest)
	}

	pre.Instrs = append(pre.Instrs, ir.Instruction{Op: ir.OpJmp, Labels: []string{header}})

	for p := range external {
		predBlock := c.Block(p)
		term := &predBlock.Instrs[len(predBlock.Instrs)-1]
		for i, l := range term.Labels {
			if l == header {
				term.Labels[i] = label
			}
		}
	}

	c.InsertBlockBefore(header, pre)
	c.RecomputeEdges()
	return pre
}
