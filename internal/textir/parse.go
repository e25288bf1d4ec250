package textir

import (
	"github.com/alecthomas/participle/v2"

	"tacopt/internal/ir"
)

var parser = participle.MustBuild[Program](
	participle.Lexer(Lexer),
	participle.Elide("Whitespace", "Comment"),
	participle.UseLookahead(2),
)

// Parse translates source text in the textual IR syntax into an
// ir.Program, suitable for DecodeProgram's JSON-based callers.
func Parse(src string) (*ir.Program, error) {
	ast, err := parser.ParseString("", src)
	if err != nil {
		return nil, err
	}
	return toIR(ast), nil
}
