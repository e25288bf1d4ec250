package licm

import (
	"fmt"

	"tacopt/internal/cfg"
	"tacopt/internal/dom"
	"tacopt/internal/ir"
	"tacopt/internal/terr"
)

type site struct {
	block string
	index int
}

// Run applies LICM with pre-header insertion to fn.
// Loops with multiple entry blocks are skipped with a warning rather
// than failing the whole function.
func Run(fn *ir.Function) (*ir.Function, []*terr.Diagnostic) {
	work := fn.Clone()
	c, err := cfg.Build(work)
	if err != nil {
		return fn, []*terr.Diagnostic{terr.New(terr.CodeMalformedIR, fn.Name, err.Error())}
	}

	domSets := dom.Dominators(c)
	loops := NaturalLoops(c, domSets)

	var diags []*terr.Diagnostic
	for _, h := range loops.Loops() {
		header := loops.Header(h)
		members := loops.Members(h)

		entries := externalEntries(c, members)
		if len(entries) > 1 {
			diags = append(diags, terr.Warning(terr.CodeMultipleLoopHeaders, fn.Name,
				fmt.Sprintf("loop has multiple entry blocks %v; skipped", entries)).At(header))
			continue
		}

		pre := insertPreheader(c, header, members)
		hoistInvariants(c, pre, members)
	}

	return c.ToFunction(fn.Name), diags
}

// hoistInvariants finds the loop's invariant instructions by fixpoint
// and moves them into the pre-header, preserving
// their original intra-loop relative order (step 4).
func hoistInvariants(c *cfg.CFG, pre *cfg.Block, members map[string]bool) {
	invariantVar := map[string]bool{}
	for _, label := range c.Order {
		if members[label] {
			continue
		}
		for _, instr := range c.Block(label).Instrs {
			if instr.HasDest() {
				invariantVar[instr.Dest] = true
			}
		}
	}
	for _, a := range c.Args {
		invariantVar[a.Name] = true
	}
	for label := range members {
		for _, instr := range c.Block(label).Instrs {
			if instr.HasDest() {
				delete(invariantVar, instr.Dest)
			}
		}
	}

	var sites []site
	marked := map[string]map[int]bool{}

	changed := true
	for changed {
		changed = false
		for _, label := range c.Order {
			if !members[label] || label == pre.Label {
				continue
			}
			block := c.Block(label)
			for idx, instr := range block.Instrs {
				if instr.IsLabel() || instr.IsTerminator() || instr.IsPhi() || !instr.HasDest() || instr.Op == "call" {
					continue
				}
				if marked[label] != nil && marked[label][idx] {
					continue
				}
				if !allInvariant(instr.Args, invariantVar) {
					continue
				}
				invariantVar[instr.Dest] = true
				if marked[label] == nil {
					marked[label] = map[int]bool{}
				}
				marked[label][idx] = true
				sites = append(sites, site{block: label, index: idx})
				changed = true
			}
		}
	}

	if len(sites) == 0 {
		return
	}

	hoisted := make([]ir.Instruction, len(sites))
	for i, s := range sites {
		hoisted[i] = c.Block(s.block).Instrs[s.index]
	}

	for _, label := range c.Order {
		if marked[label] == nil {
			continue
		}
		block := c.Block(label)
		out := block.Instrs[:0:0]
		for idx, instr := range block.Instrs {
			if marked[label][idx] {
				continue
			}
			out = append(out, instr)
		}
		block.Instrs = out
	}

	jmpIdx := len(pre.Instrs) - 1
	newInstrs := make([]ir.Instruction, 0, len(pre.Instrs)+len(hoisted))
	newInstrs = append(newInstrs, pre.Instrs[:jmpIdx]...)
	newInstrs = append(newInstrs, hoisted...)
	newInstrs = append(newInstrs, pre.Instrs[jmpIdx])
	pre.Instrs = newInstrs
}

func allInvariant(args []string, invariantVar map[string]bool) bool {
	for _, a := range args {
		if !invariantVar[a] {
			return false
		}
	}
	return true
}
