// Package terr implements a small error taxonomy shared by every pass:
// diagnostics are colorized, leveled, and coded.
package terr

// Code identifies a diagnostic kind for documentation and tooling. It
// uses a T0xxx range distinct from any front-end error codes so the
// two never collide if ever vendored side by side.
type Code string

const (
	// CodeMalformedIR: JSON did not decode to the expected instruction
	// schema, or a structural invariant was violated before any pass ran.
	CodeMalformedIR Code = "T0001"

	// CodeUninitializedUse: SSA renaming found a use with no dominating
	// definition.
	CodeUninitializedUse Code = "T0002"

	// CodeUnsupportedOpcodeLVN: LVN saw a value-producing opcode its
	// commutativity/algebraic table does not cover. Non-fatal.
	CodeUnsupportedOpcodeLVN Code = "T0003"

	// CodeMultipleLoopHeaders: LICM found a loop candidate with more
	// than one header and skipped it. Non-fatal.
	CodeMultipleLoopHeaders Code = "T0004"
)
