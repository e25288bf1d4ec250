package cfg_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tacopt/internal/cfg"
	"tacopt/internal/ir"
)

func diamond() *ir.Function {
	return &ir.Function{
		Name: "f",
		Args: []ir.Argument{{Name: "cond", Type: "bool"}},
		Instrs: []ir.Instruction{
			{Label: "a"},
			{Op: ir.OpBr, Args: []string{"cond"}, Labels: []string{"b", "c"}},
			{Label: "b"},
			{Op: ir.OpJmp, Labels: []string{"d"}},
			{Label: "c"},
			{Op: ir.OpJmp, Labels: []string{"d"}},
			{Label: "d"},
			{Op: ir.OpRet},
		},
	}
}

func TestBuildWiresPredsAndSuccs(t *testing.T) {
	c, err := cfg.Build(diamond())
	require.NoError(t, err)

	assert.Equal(t, "a", c.Entry)
	assert.ElementsMatch(t, []string{"b", "c"}, c.Succs("a"))
	assert.ElementsMatch(t, []string{"b", "c"}, c.Preds("d"))
	assert.Empty(t, c.Succs("d"))
}

func TestBuildRejectsUnknownTarget(t *testing.T) {
	fn := &ir.Function{
		Name: "f",
		Instrs: []ir.Instruction{
			{Label: "a"},
			{Op: ir.OpJmp, Labels: []string{"nowhere"}},
		},
	}
	_, err := cfg.Build(fn)
	assert.Error(t, err)
}

func TestToFunctionRoundTrips(t *testing.T) {
	fn := diamond()
	c, err := cfg.Build(fn)
	require.NoError(t, err)
	out := c.ToFunction(fn.Name)
	assert.Equal(t, fn.Instrs, out.Instrs)
}

func TestInsertBlockBeforeAndRecomputeEdges(t *testing.T) {
	fn := diamond()
	c, err := cfg.Build(fn)
	require.NoError(t, err)

	pre := &cfg.Block{Label: "pre", Instrs: []ir.Instruction{
		{Label: "pre"},
		{Op: ir.OpJmp, Labels: []string{"a"}},
	}}
	c.InsertBlockBefore("a", pre)
	c.RecomputeEdges()

	assert.Equal(t, []string{"a"}, c.Succs("pre"))
	assert.Contains(t, c.Order, "pre")
}
