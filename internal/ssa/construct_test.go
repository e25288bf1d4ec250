package ssa_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tacopt/internal/ir"
	"tacopt/internal/ssa"
	"tacopt/internal/terr"
)

// Loop: a -> h; h -branches-> body, exit; body -> h (back edge). x is
// defined before the loop and reassigned inside it, so h needs a φ for x.
func loopFn() *ir.Function {
	return &ir.Function{
		Name: "f",
		Args: []ir.Argument{{Name: "n", Type: "int"}},
		Instrs: []ir.Instruction{
			{Label: "a"},
			{Dest: "x", Op: "const", Value: int64(0)},
			{Op: ir.OpJmp, Labels: []string{"h"}},
			{Label: "h"},
			{Dest: "cond", Op: "lt", Args: []string{"x", "n"}},
			{Op: ir.OpBr, Args: []string{"cond"}, Labels: []string{"body", "exit"}},
			{Label: "body"},
			{Dest: "x", Op: "add", Args: []string{"x", "x"}},
			{Op: ir.OpJmp, Labels: []string{"h"}},
			{Label: "exit"},
			{Op: ir.OpPrint, Args: []string{"x"}},
			{Op: ir.OpRet},
		},
	}
}

func TestConstructPlacesPhiAtLoopHeader(t *testing.T) {
	out, err := ssa.Construct(loopFn())
	require.NoError(t, err)

	h := blockInstrs(out, "h")
	require.NotEmpty(t, h)
	assert.True(t, h[1].IsPhi(), "expected a phi as the second instruction in h, got %+v", h[1])
	assert.Len(t, h[1].Args, 2)
	assert.Len(t, h[1].Labels, 2)
}

func TestConstructRenamesEveryDestinationUniquely(t *testing.T) {
	out, err := ssa.Construct(loopFn())
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, i := range out.Instrs {
		if !i.HasDest() {
			continue
		}
		assert.False(t, seen[i.Dest], "dest %q assigned more than once", i.Dest)
		seen[i.Dest] = true
	}
}

func TestConstructReportsUninitializedUse(t *testing.T) {
	fn := &ir.Function{
		Name: "f",
		Instrs: []ir.Instruction{
			{Label: "a"},
			{Op: ir.OpPrint, Args: []string{"never_defined"}},
			{Op: ir.OpRet},
		},
	}
	out, err := ssa.Construct(fn)
	require.Error(t, err)
	assert.Equal(t, fn, out)

	diag, ok := err.(*terr.Diagnostic)
	require.True(t, ok)
	assert.Equal(t, "a", diag.Position)
}

func blockInstrs(fn *ir.Function, label string) []ir.Instruction {
	var out []ir.Instruction
	in := false
	for _, i := range fn.Instrs {
		if i.IsLabel() {
			in = i.Label == label
		}
		if in {
			out = append(out, i)
		}
		if in && i.IsTerminator() {
			break
		}
	}
	return out
}
