package pipeline_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tacopt/internal/ir"
	"tacopt/internal/pipeline"
)

func TestLoadConfigParsesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pipeline.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
passes:
  - dce/trivial
  - lvn
fold_constants: true
`), 0o644))

	cfg, err := pipeline.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"dce/trivial", "lvn"}, cfg.Passes)
	assert.True(t, cfg.FoldConstants)
}

func TestLoadConfigRejectsUnknownPass(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pipeline.yaml")
	require.NoError(t, os.WriteFile(path, []byte("passes:\n  - not-a-real-pass\n"), 0o644))

	_, err := pipeline.LoadConfig(path)
	assert.Error(t, err)
}

func TestRunProgramAppliesPassesPerFunctionConcurrently(t *testing.T) {
	p := &ir.Program{Functions: []*ir.Function{
		{
			Name: "f",
			Instrs: []ir.Instruction{
				{Dest: "a", Op: "const", Value: int64(1)},
				{Dest: "dead", Op: "const", Value: int64(2)},
				{Op: ir.OpPrint, Args: []string{"a"}},
				{Op: ir.OpRet},
			},
		},
		{
			Name: "g",
			Instrs: []ir.Instruction{
				{Dest: "x", Op: "const", Value: int64(9)},
				{Op: ir.OpPrint, Args: []string{"x"}},
				{Op: ir.OpRet},
			},
		},
	}}
	cfg := &pipeline.Config{Passes: []string{"dce/trivial"}}

	out, results := pipeline.RunProgram(p, cfg, nil)
	require.Len(t, out.Functions, 2)
	require.Contains(t, results, "f")
	require.Contains(t, results, "g")
	assert.NotEmpty(t, results["f"].RunID)
	assert.NotEqual(t, results["f"].RunID, results["g"].RunID)

	for _, fn := range out.Functions {
		if fn.Name == "f" {
			assert.Len(t, fn.Instrs, 3)
		}
	}
}
