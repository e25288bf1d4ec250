package ssa

import (
	"tacopt/internal/cfg"
	"tacopt/internal/dom"
	"tacopt/internal/ir"
)

// computeDefs returns, for every variable, the set of block labels that
// define it.
func computeDefs(c *cfg.CFG) map[string]map[string]bool {
	defs := make(map[string]map[string]bool)
	for _, label := range c.Order {
		for _, instr := range c.Block(label).Instrs {
			if !instr.HasDest() {
				continue
			}
			if defs[instr.Dest] == nil {
				defs[instr.Dest] = map[string]bool{}
			}
			defs[instr.Dest][label] = true
		}
	}
	return defs
}

// placePhis inserts φ-nodes using the iterated dominance frontier
// iterated-dominance-frontier algorithm, mutating the CFG's blocks in place. A φ is
// represented, at insertion time, as an ir.Instruction with op=phi,
// dest=v (not yet renamed), and parallel Args/Labels listing, per
// predecessor of the target block, a placeholder of v and that
// predecessor's label.
func placePhis(c *cfg.CFG, df dom.Frontier, defs map[string]map[string]bool) {
	for v, defBlocks := range defs {
		hasPhi := map[string]bool{}
		everOnWorklist := map[string]bool{}
		var worklist []string
		for b := range defBlocks {
			worklist = append(worklist, b)
			everOnWorklist[b] = true
		}

		for len(worklist) > 0 {
			d := worklist[0]
			worklist = worklist[1:]

			for f := range df[d] {
				if hasPhi[f] {
					continue
				}
				insertPhi(c, f, v)
				hasPhi[f] = true
				if !everOnWorklist[f] {
					everOnWorklist[f] = true
					worklist = append(worklist, f)
				}
			}
		}
	}
}

// insertPhi inserts a φ for v at the head of block f, immediately after
// its label.
func insertPhi(c *cfg.CFG, f, v string) {
	block := c.Block(f)
	preds := c.Preds(f)

	labels := append([]string(nil), preds...)
	args := make([]string, len(preds))
	for i := range args {
		args[i] = v
	}

	phi := ir.Instruction{Op: ir.OpPhi, Dest: v, Args: args, Labels: labels}
	instrs := make([]ir.Instruction, 0, len(block.Instrs)+1)
	instrs = append(instrs, block.Instrs[0])
	instrs = append(instrs, phi)
	instrs = append(instrs, block.Instrs[1:]...)
	block.Instrs = instrs
}

// snapshotPhiVars records, for every φ currently in the CFG, the
// variable it was placed for (its Dest, which is still the unrenamed
// original name at this point). This is captured before renaming
// overwrites Dest, so the renamer can recover a φ's source variable
// from a block that has already been renamed when a later-processed
// predecessor patches its incoming slot.
func snapshotPhiVars(c *cfg.CFG) map[string]map[int]string {
	out := make(map[string]map[int]string)
	for _, label := range c.Order {
		for i, instr := range c.Block(label).Instrs {
			if instr.IsPhi() {
				if out[label] == nil {
					out[label] = map[int]string{}
				}
				out[label][i] = instr.Dest
			}
		}
	}
	return out
}
