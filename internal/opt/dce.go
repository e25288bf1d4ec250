// Package opt implements the local and global transforms: trivial and
// reachability dead-code elimination, block-local drop-kill, and local
// value numbering, plus the pass pipeline that strings them together.
package opt

import "tacopt/internal/ir"

// TrivialDCE deletes every value-producing instruction whose dest is
// never used anywhere in the function. Purely effectful instructions
// (no dest) are kept unconditionally. A single pass is correct but may
// leave cascading dead values; callers wanting a fixpoint should loop
// until the returned bool is false.
func TrivialDCE(fn *ir.Function) (*ir.Function, bool) {
	used := usedVars(fn)

	out := fn.Clone()
	kept := out.Instrs[:0]
	changed := false
	for _, instr := range out.Instrs {
		if instr.HasDest() && !used[instr.Dest] {
			changed = true
			continue
		}
		kept = append(kept, instr)
	}
	out.Instrs = kept
	return out, changed
}

func usedVars(fn *ir.Function) map[string]bool {
	used := make(map[string]bool)
	for _, instr := range fn.Instrs {
		for _, a := range instr.Args {
			used[a] = true
		}
	}
	return used
}

// ReachabilityRoots decides which opcodes are observably effectful for
// the purposes of reachability DCE: ret, br, print, store and call, so a
// side-effecting instruction is never pruned just because its own dest
// goes unused.
var ReachabilityRoots = map[string]bool{
	ir.OpPrint: true,
	ir.OpBr:    true,
	ir.OpRet:   true,
	"store":    true,
	"call":     true,
}

// ReachabilityDCE builds a use-graph (dest -> each arg, for every
// value-producing instruction), marks as roots every argument to an
// observable-effect instruction, computes the variables transitively
// reachable from those roots, and keeps every instruction whose dest is
// reachable or which has no dest.
func ReachabilityDCE(fn *ir.Function) (*ir.Function, bool) {
	return ReachabilityDCEWithRoots(fn, ReachabilityRoots)
}

// ReachabilityDCEWithRoots is ReachabilityDCE parameterized on the root
// opcode set, so a caller running several functions concurrently can
// supply its own roots without mutating the shared package default.
func ReachabilityDCEWithRoots(fn *ir.Function, roots map[string]bool) (*ir.Function, bool) {
	defOf := make(map[string]ir.Instruction, len(fn.Instrs))
	for _, instr := range fn.Instrs {
		if instr.HasDest() {
			defOf[instr.Dest] = instr
		}
	}

	reachable := make(map[string]bool)
	var stack []string
	push := func(name string) {
		if !reachable[name] {
			reachable[name] = true
			stack = append(stack, name)
		}
	}

	for _, instr := range fn.Instrs {
		if !roots[instr.Op] {
			continue
		}
		for _, a := range instr.Args {
			push(a)
		}
	}

	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if def, ok := defOf[v]; ok {
			for _, a := range def.Args {
				push(a)
			}
		}
	}

	out := fn.Clone()
	kept := out.Instrs[:0]
	changed := false
	for _, instr := range out.Instrs {
		if instr.HasDest() && !reachable[instr.Dest] {
			changed = true
			continue
		}
		kept = append(kept, instr)
	}
	out.Instrs = kept
	return out, changed
}
