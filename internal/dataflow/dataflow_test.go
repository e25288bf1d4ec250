package dataflow_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tacopt/internal/cfg"
	"tacopt/internal/dataflow"
	"tacopt/internal/ir"
)

// diamond: a(cond) -branches-> b, c -both jmp-> d(print x; ret)
// a defines nothing new beyond the arg; b defines x; c defines x; d uses x.
func diamondFn() *ir.Function {
	return &ir.Function{
		Name: "f",
		Args: []ir.Argument{{Name: "cond", Type: "bool"}},
		Instrs: []ir.Instruction{
			{Label: "a"},
			{Op: ir.OpBr, Args: []string{"cond"}, Labels: []string{"b", "c"}},
			{Label: "b"},
			{Dest: "x", Op: "const", Value: int64(1)},
			{Op: ir.OpJmp, Labels: []string{"d"}},
			{Label: "c"},
			{Dest: "x", Op: "const", Value: int64(2)},
			{Op: ir.OpJmp, Labels: []string{"d"}},
			{Label: "d"},
			{Op: ir.OpPrint, Args: []string{"x"}},
			{Op: ir.OpRet},
		},
	}
}

func TestDefinedVarsFixpointOverDiamond(t *testing.T) {
	c, err := cfg.Build(diamondFn())
	require.NoError(t, err)

	res := dataflow.DefinedVars(c)

	assert.True(t, res.Out["a"].(dataflow.VarSet).Has("cond"))
	assert.False(t, res.Out["a"].(dataflow.VarSet).Has("x"))
	assert.True(t, res.Out["b"].(dataflow.VarSet).Has("x"))
	assert.True(t, res.In["d"].(dataflow.VarSet).Has("x"))
}

func TestLiveVarsAcrossDiamond(t *testing.T) {
	c, err := cfg.Build(diamondFn())
	require.NoError(t, err)

	res := dataflow.LiveVars(c)

	assert.True(t, res.In["d"].(dataflow.VarSet).Has("x"))
	assert.True(t, res.Out["b"].(dataflow.VarSet).Has("x"))
	assert.True(t, res.In["a"].(dataflow.VarSet).Has("cond"))
	assert.False(t, res.Out["d"].(dataflow.VarSet).Has("x"))
}

func TestVarSetEqual(t *testing.T) {
	a := dataflow.NewVarSet("x", "y")
	b := dataflow.NewVarSet("y", "x")
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(dataflow.NewVarSet("x")))
}

func TestUnionMergeEmptyIsBottom(t *testing.T) {
	merged := dataflow.UnionMerge(nil)
	assert.Equal(t, 0, len(merged.(dataflow.VarSet)))
}
