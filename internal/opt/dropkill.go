package opt

import (
	"tacopt/internal/cfg"
	"tacopt/internal/ir"
)

// DropKill applies the block-local drop-kill rule to
// every block: if a variable is redefined later in the same block with
// no intervening use, the earlier defining instruction is dropped.
func DropKill(fn *ir.Function) (*ir.Function, bool) {
	blocks := cfg.Partition(fn.Clone().Instrs)
	changed := false
	for _, b := range blocks {
		kept, blockChanged := dropKillBlock(b.Instrs)
		if blockChanged {
			changed = true
			b.Instrs = kept
		}
	}
	return &ir.Function{Name: fn.Name, Args: append([]ir.Argument(nil), fn.Args...), Instrs: cfg.Flatten(blocks)}, changed
}

func dropKillBlock(instrs []ir.Instruction) ([]ir.Instruction, bool) {
	lastDef := make(map[string]int)
	removed := make(map[int]bool)

	for idx, instr := range instrs {
		for _, a := range instr.Args {
			delete(lastDef, a)
		}
		if instr.HasDest() {
			if prevIdx, ok := lastDef[instr.Dest]; ok {
				removed[prevIdx] = true
			}
			lastDef[instr.Dest] = idx
		}
	}

	if len(removed) == 0 {
		return instrs, false
	}

	out := make([]ir.Instruction, 0, len(instrs)-len(removed))
	for idx, instr := range instrs {
		if removed[idx] {
			continue
		}
		out = append(out, instr)
	}
	return out, true
}
