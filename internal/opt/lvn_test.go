package opt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tacopt/internal/ir"
	"tacopt/internal/opt"
	"tacopt/internal/terr"
)

// A redundant commutative computation collapses
// to an id of the first.
func TestLVNCollapsesCommutativeRedundancy(t *testing.T) {
	fn := &ir.Function{
		Name: "f",
		Args: []ir.Argument{{Name: "a", Type: "int"}, {Name: "b", Type: "int"}},
		Instrs: []ir.Instruction{
			{Label: "entry"},
			{Dest: "x", Op: "add", Args: []string{"a", "b"}},
			{Dest: "y", Op: "add", Args: []string{"b", "a"}},
			{Op: ir.OpPrint, Args: []string{"y"}},
			{Op: ir.OpRet},
		},
	}
	out, diags := opt.LVN(fn, opt.LVNOptions{})
	assert.Empty(t, diags)

	var yInstr *ir.Instruction
	for i := range out.Instrs {
		if out.Instrs[i].Dest == "y" {
			yInstr = &out.Instrs[i]
		}
	}
	require.NotNil(t, yInstr)
	assert.Equal(t, ir.OpID, yInstr.Op)
	assert.Equal(t, []string{"x"}, yInstr.Args)
}

func TestLVNRenamesOverwrittenDest(t *testing.T) {
	fn := &ir.Function{
		Name: "f",
		Instrs: []ir.Instruction{
			{Label: "entry"},
			{Dest: "x", Op: "const", Value: int64(1)},
			{Dest: "y", Op: "id", Args: []string{"x"}},
			{Dest: "x", Op: "const", Value: int64(2)},
			{Op: ir.OpPrint, Args: []string{"y"}},
			{Op: ir.OpRet},
		},
	}
	out, _ := opt.LVN(fn, opt.LVNOptions{})

	var defs []string
	for _, i := range out.Instrs {
		if i.HasDest() {
			defs = append(defs, i.Dest)
		}
	}
	assert.NotEqual(t, "x", defs[0]) // renamed on overwrite
	assert.Equal(t, "x", defs[2])
}

func TestLVNFoldsConstantsWhenEnabled(t *testing.T) {
	fn := &ir.Function{
		Name: "f",
		Instrs: []ir.Instruction{
			{Label: "entry"},
			{Dest: "a", Op: "const", Value: int64(2)},
			{Dest: "b", Op: "const", Value: int64(3)},
			{Dest: "c", Op: "add", Args: []string{"a", "b"}},
			{Op: ir.OpPrint, Args: []string{"c"}},
			{Op: ir.OpRet},
		},
	}
	out, _ := opt.LVN(fn, opt.LVNOptions{FoldConstants: true})

	var c *ir.Instruction
	for i := range out.Instrs {
		if out.Instrs[i].Dest == "c" {
			c = &out.Instrs[i]
		}
	}
	require.NotNil(t, c)
	assert.Equal(t, ir.OpConst, c.Op)
	assert.Equal(t, int64(5), c.Value)
}

func TestLVNWarnsOnUnsupportedOpcode(t *testing.T) {
	fn := &ir.Function{
		Name: "f",
		Instrs: []ir.Instruction{
			{Label: "entry"},
			{Dest: "x", Op: "fdiv", Args: []string{}},
			{Op: ir.OpRet},
		},
	}
	_, diags := opt.LVN(fn, opt.LVNOptions{})
	require.Len(t, diags, 1)
	assert.Equal(t, terr.CodeUnsupportedOpcodeLVN, diags[0].Code)
}
