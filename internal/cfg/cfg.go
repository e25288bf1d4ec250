package cfg

import (
	"fmt"

	"tacopt/internal/ir"
)

// CFG is a control-flow graph over a partitioned function: blocks keyed
// by label, predecessor/successor label sets per block, an explicit
// entry label, and a copy of the function's formal arguments.
type CFG struct {
	Entry string
	Order []string

	blocks map[string]*Block
	succs  map[string][]string
	preds  map[string][]string
	Args   []ir.Argument
}

// Block looks up a block by label.
func (c *CFG) Block(label string) *Block { return c.blocks[label] }

// Succs returns the successor labels of a block, in terminator order.
func (c *CFG) Succs(label string) []string { return c.succs[label] }

// Preds returns the predecessor labels of a block, in discovery order.
func (c *CFG) Preds(label string) []string { return c.preds[label] }

// Blocks returns every block in the CFG, in function order.
func (c *CFG) Blocks() []*Block {
	out := make([]*Block, len(c.Order))
	for i, l := range c.Order {
		out[i] = c.blocks[l]
	}
	return out
}

// Build partitions fn and constructs its CFG. It is O(N+E) in the
// number of instructions and edges.
func Build(fn *ir.Function) (*CFG, error) {
	blocks := Partition(fn.Instrs)
	if len(blocks) == 0 {
		return nil, fmt.Errorf("function %q has no instructions", fn.Name)
	}

	c := &CFG{
		Entry:  blocks[0].Label,
		blocks: make(map[string]*Block, len(blocks)),
		succs:  make(map[string][]string, len(blocks)),
		preds:  make(map[string][]string, len(blocks)),
		Args:   append([]ir.Argument(nil), fn.Args...),
	}

	for _, b := range blocks {
		if _, dup := c.blocks[b.Label]; dup {
			return nil, fmt.Errorf("function %q: duplicate block label %q", fn.Name, b.Label)
		}
		c.blocks[b.Label] = b
		c.Order = append(c.Order, b.Label)
	}

	for _, b := range blocks {
		for _, target := range b.Terminator().Labels {
			if _, ok := c.blocks[target]; !ok {
				return nil, fmt.Errorf("function %q: block %q targets unknown label %q", fn.Name, b.Label, target)
			}
			c.succs[b.Label] = append(c.succs[b.Label], target)
			c.preds[target] = append(c.preds[target], b.Label)
		}
	}

	return c, nil
}

// ToFunction reassembles the CFG's current blocks (in original order)
// back into an ir.Function, for passes that mutate block contents and
// then need to serialize the result.
func (c *CFG) ToFunction(name string) *ir.Function {
	return &ir.Function{
		Name:   name,
		Args:   append([]ir.Argument(nil), c.Args...),
		Instrs: Flatten(c.Blocks()),
	}
}

// InsertBlockBefore splices a newly synthesized block into the CFG's
// order immediately before the named block, and registers it in the
// block map. Used by LICM pre-header synthesis. It does not itself wire
// predecessor/successor edges; callers must call RecomputeEdges after
// any terminator rewrites.
func (c *CFG) InsertBlockBefore(before string, b *Block) {
	c.blocks[b.Label] = b
	idx := 0
	for i, l := range c.Order {
		if l == before {
			idx = i
			break
		}
	}
	order := make([]string, 0, len(c.Order)+1)
	order = append(order, c.Order[:idx]...)
	order = append(order, b.Label)
	order = append(order, c.Order[idx:]...)
	c.Order = order
}

// RecomputeEdges rebuilds the predecessor/successor tables from the
// current blocks' terminators. Call after any edge-redirecting rewrite.
func (c *CFG) RecomputeEdges() {
	c.succs = make(map[string][]string, len(c.Order))
	c.preds = make(map[string][]string, len(c.Order))
	for _, label := range c.Order {
		b := c.blocks[label]
		for _, target := range b.Terminator().Labels {
			c.succs[label] = append(c.succs[label], target)
			c.preds[target] = append(c.preds[target], label)
		}
	}
}
