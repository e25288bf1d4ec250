// Package cfg partitions a function's flat instruction stream into basic
// blocks and builds the control-flow graph over them.
package cfg

import (
	"fmt"

	"tacopt/internal/ir"
)

// Block is a non-empty contiguous run of instructions whose first entry
// is a label pseudo-instruction and whose last entry is a terminator.
// Block identity is its label.
type Block struct {
	Label  string
	Instrs []ir.Instruction
}

// Terminator returns the block's final (terminating) instruction.
func (b *Block) Terminator() ir.Instruction {
	return b.Instrs[len(b.Instrs)-1]
}

// Body returns the block's instructions excluding the leading label.
func (b *Block) Body() []ir.Instruction {
	return b.Instrs[1:]
}

// Partition splits instrs into basic blocks and applies the label and
// terminator synthesis fix-ups, in that order.
func Partition(instrs []ir.Instruction) []*Block {
	blocks := rawPartition(instrs)
	synthesizeLabels(blocks, instrs)
	synthesizeTerminators(blocks)
	return blocks
}

// rawPartition performs the initial split: a new block starts whenever a
// label is seen (flushing the current block) or whenever the previous
// instruction was a terminator.
func rawPartition(instrs []ir.Instruction) []*Block {
	var blocks []*Block
	var cur []ir.Instruction

	flush := func() {
		if len(cur) > 0 {
			blocks = append(blocks, &Block{Instrs: cur})
			cur = nil
		}
	}

	for _, instr := range instrs {
		if instr.IsLabel() {
			flush()
			cur = append(cur, instr)
			continue
		}
		cur = append(cur, instr)
		if instr.IsTerminator() {
			flush()
		}
	}
	flush()
	return blocks
}

// synthesizeLabels gives every block lacking a leading label a fresh
// name, chosen from a "b0", "b1", ... counter that skips any name
// already present among the function's user-provided labels.
func synthesizeLabels(blocks []*Block, original []ir.Instruction) {
	used := make(map[string]bool)
	for _, instr := range original {
		if instr.IsLabel() {
			used[instr.Label] = true
		}
	}

	counter := 0
	nextName := func() string {
		for {
			name := fmt.Sprintf("b%d", counter)
			counter++
			if !used[name] {
				used[name] = true
				return name
			}
		}
	}

	for _, b := range blocks {
		if len(b.Instrs) == 0 || !b.Instrs[0].IsLabel() {
			label := ir.Instruction{Label: nextName()}
			b.Instrs = append([]ir.Instruction{label}, b.Instrs...)
		}
		b.Label = b.Instrs[0].Label
	}
}

// synthesizeTerminators appends a jmp to the next block (or a ret for the
// final block) to any block not already ending in a terminator.
func synthesizeTerminators(blocks []*Block) {
	for i, b := range blocks {
		if len(b.Instrs) > 1 && b.Instrs[len(b.Instrs)-1].IsTerminator() {
			continue
		}
		if i+1 < len(blocks) {
			b.Instrs = append(b.Instrs, ir.Instruction{Op: ir.OpJmp, Labels: []string{blocks[i+1].Label}})
		} else {
			b.Instrs = append(b.Instrs, ir.Instruction{Op: ir.OpRet})
		}
	}
}

// Flatten reassembles blocks, in order, into a single instruction stream.
func Flatten(blocks []*Block) []ir.Instruction {
	var out []ir.Instruction
	for _, b := range blocks {
		out = append(out, b.Instrs...)
	}
	return out
}
