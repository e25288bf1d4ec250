package textir_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tacopt/internal/ir"
	"tacopt/internal/textir"
)

const source = `
@main(a: int, b: int) {
  x: int = const 4;
  y: int = add x a;
  cond: bool = lt y b;
  br cond .then .else;
  .then:
  print y;
  ret;
  .else:
  print x;
  ret;
}
`

func TestParseBuildsExpectedProgram(t *testing.T) {
	p, err := textir.Parse(source)
	require.NoError(t, err)
	require.Len(t, p.Functions, 1)

	fn := p.Functions[0]
	assert.Equal(t, "main", fn.Name)
	assert.Equal(t, []string{"a", "b"}, fn.ArgNames())

	var constX, br *ir.Instruction
	for i := range fn.Instrs {
		switch {
		case fn.Instrs[i].Dest == "x":
			constX = &fn.Instrs[i]
		case fn.Instrs[i].Op == ir.OpBr:
			br = &fn.Instrs[i]
		}
	}
	require.NotNil(t, constX)
	assert.Equal(t, int64(4), constX.Value)

	require.NotNil(t, br)
	assert.Equal(t, []string{"then", "else"}, br.Labels)
	assert.Equal(t, []string{"cond"}, br.Args)
}

func TestParseThenPrintRoundTrips(t *testing.T) {
	p, err := textir.Parse(source)
	require.NoError(t, err)

	printed := textir.Print(p)
	reparsed, err := textir.Parse(printed)
	require.NoError(t, err)

	assert.Equal(t, p, reparsed)
}

func TestParseRejectsMalformedSyntax(t *testing.T) {
	_, err := textir.Parse("@main( {")
	assert.Error(t, err)
}
