package opt_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"tacopt/internal/ir"
	"tacopt/internal/opt"
	"tacopt/internal/terr"
)

func TestPipelineRunsPassesInOrderAndLogs(t *testing.T) {
	fn := &ir.Function{
		Name: "f",
		Instrs: []ir.Instruction{
			{Dest: "a", Op: "const", Value: int64(1)},
			{Dest: "dead", Op: "const", Value: int64(2)},
			{Op: ir.OpPrint, Args: []string{"a"}},
			{Op: ir.OpRet},
		},
	}

	var log bytes.Buffer
	p := opt.NewPipeline(&log).Add(opt.TrivialDCEPass())
	out, diags := p.Run(fn)

	assert.Empty(t, diags)
	assert.Len(t, out.Instrs, 3)
	assert.Contains(t, log.String(), "dce/trivial")
}

func TestPipelineStopsAfterFatalDiagnostic(t *testing.T) {
	fn := &ir.Function{Name: "f", Instrs: []ir.Instruction{{Op: ir.OpRet}}}

	secondRan := false
	failing := opt.NewPass("boom", func(fn *ir.Function) (*ir.Function, bool, []*terr.Diagnostic) {
		return fn, false, []*terr.Diagnostic{terr.New(terr.CodeMalformedIR, fn.Name, "simulated failure")}
	})
	second := opt.NewPass("never", func(fn *ir.Function) (*ir.Function, bool, []*terr.Diagnostic) {
		secondRan = true
		return fn, false, nil
	})

	p := opt.NewPipeline(nil).Add(failing).Add(second)
	_, diags := p.Run(fn)

	assert.Len(t, diags, 1)
	assert.False(t, secondRan)
}
