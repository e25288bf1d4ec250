package dataflow

import "tacopt/internal/cfg"

// DefinedVars runs the forward, union-merge defined-variables analysis
// out = in ∪ {dest of each instruction in block},
// seeded at the entry with the function's formal argument names.
func DefinedVars(c *cfg.CFG) Result {
	seed := map[string]State{
		c.Entry: NewVarSet(argNames(c)...),
	}
	return Solve(Problem{
		CFG:       c,
		Direction: Forward,
		Merge:     UnionMerge,
		Transfer:  definedTransfer,
		Seed:      seed,
		Bottom:    VarSet{},
	})
}

func definedTransfer(block *cfg.Block, state State) State {
	out := state.(VarSet).Clone()
	for _, instr := range block.Instrs {
		if instr.HasDest() {
			out[instr.Dest] = struct{}{}
		}
	}
	return out
}

func argNames(c *cfg.CFG) []string {
	names := make([]string, len(c.Args))
	for i, a := range c.Args {
		names[i] = a.Name
	}
	return names
}
