// Package textir implements a human-writable textual syntax for the
// flat IR: a thin front end that parses into the same ir.Program the
// JSON codec produces, and a printer that goes the other way. Neither
// direction is consulted by any analysis; both exist purely for
// authoring fixtures and reading pass output.
package textir

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// Lexer is narrowed to what a flat instruction stream needs. A leading
// "." always introduces a block label, never a variable, so the
// grammar can tell ".loop" and "loop" apart without backtracking.
var Lexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{"Comment", `#[^\n]*`, nil},
		{"Float", `[0-9]+\.[0-9]+`, nil},
		{"Integer", `-?[0-9]+`, nil},
		{"Ident", `[a-zA-Z_][a-zA-Z0-9_]*`, nil},
		{"Dot", `\.`, nil},
		{"Punctuation", `[:;,(){}=@]`, nil},
		{"Whitespace", `[ \t\r\n]+`, nil},
	},
})
