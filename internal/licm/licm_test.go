package licm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tacopt/internal/cfg"
	"tacopt/internal/dom"
	"tacopt/internal/ir"
	"tacopt/internal/licm"
)

// a -> h; h -branches-> body, exit; body computes an invariant t = k*k
// (both operands defined outside the loop) then i = i + t, and jumps
// back to h.
func loopWithInvariant() *ir.Function {
	return &ir.Function{
		Name: "f",
		Args: []ir.Argument{{Name: "n", Type: "int"}, {Name: "k", Type: "int"}},
		Instrs: []ir.Instruction{
			{Label: "a"},
			{Dest: "i", Op: "const", Value: int64(0)},
			{Op: ir.OpJmp, Labels: []string{"h"}},
			{Label: "h"},
			{Dest: "cond", Op: "lt", Args: []string{"i", "n"}},
			{Op: ir.OpBr, Args: []string{"cond"}, Labels: []string{"body", "exit"}},
			{Label: "body"},
			{Dest: "t", Op: "mul", Args: []string{"k", "k"}},
			{Dest: "i", Op: "add", Args: []string{"i", "t"}},
			{Op: ir.OpJmp, Labels: []string{"h"}},
			{Label: "exit"},
			{Op: ir.OpPrint, Args: []string{"i"}},
			{Op: ir.OpRet},
		},
	}
}

func TestNaturalLoopsFindsBackEdge(t *testing.T) {
	c, err := cfg.Build(loopWithInvariant())
	require.NoError(t, err)
	sets := dom.Dominators(c)
	loops := licm.NaturalLoops(c, sets)

	require.Len(t, loops.Loops(), 1)
	h := loops.Loops()[0]
	assert.Equal(t, "h", loops.Header(h))
	assert.True(t, loops.Members(h)["body"])
	assert.False(t, loops.Members(h)["exit"])
}

func TestRunHoistsInvariantMulIntoPreheader(t *testing.T) {
	out, diags := licm.Run(loopWithInvariant())
	assert.Empty(t, diags)

	c, err := cfg.Build(out)
	require.NoError(t, err)

	var preLabel string
	for _, l := range c.Order {
		if l != "a" && l != "h" && l != "body" && l != "exit" {
			preLabel = l
		}
	}
	require.NotEmpty(t, preLabel, "expected a synthesized pre-header block")

	pre := c.Block(preLabel)
	foundMul := false
	for _, i := range pre.Instrs {
		if i.Op == "mul" {
			foundMul = true
		}
	}
	assert.True(t, foundMul, "expected the invariant mul hoisted into the pre-header")

	body := c.Block("body")
	for _, i := range body.Instrs {
		assert.NotEqual(t, "mul", i.Op, "mul should have been hoisted out of the loop body")
	}
}
