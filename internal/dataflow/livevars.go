package dataflow

import (
	"tacopt/internal/cfg"
	"tacopt/internal/ir"
)

// LiveVars runs the backward, union-merge live-variables analysis of
// a backward gen/kill analysis, seeding every block ending in ret with empty liveness.
func LiveVars(c *cfg.CFG) Result {
	seed := map[string]State{}
	for _, label := range c.Order {
		if c.Block(label).Terminator().Op == ir.OpRet {
			seed[label] = VarSet{}
		}
	}
	return Solve(Problem{
		CFG:       c,
		Direction: Backward,
		Merge:     UnionMerge,
		Transfer:  liveTransfer,
		Seed:      seed,
		Bottom:    VarSet{},
	})
}

// liveTransfer computes in(B) = gen(B) ∪ (out(B) - kill(B)), where gen(B)
// is the set of upward-exposed uses (arguments used before any
// redefinition earlier in the block) and kill(B) is every variable the
// block defines.
func liveTransfer(block *cfg.Block, out State) State {
	gen := VarSet{}
	defined := VarSet{}
	for _, instr := range block.Instrs {
		for _, arg := range instr.Args {
			if !defined.Has(arg) {
				gen[arg] = struct{}{}
			}
		}
		if instr.HasDest() {
			defined[instr.Dest] = struct{}{}
		}
	}

	in := out.(VarSet).Clone()
	for v := range defined {
		delete(in, v)
	}
	return in.Union(gen)
}
