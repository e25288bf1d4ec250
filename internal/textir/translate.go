package textir

import (
	"strconv"

	"tacopt/internal/ir"
)

func toIR(ast *Program) *ir.Program {
	out := &ir.Program{}
	for _, fn := range ast.Functions {
		out.Functions = append(out.Functions, toIRFunction(fn))
	}
	return out
}

func toIRFunction(fn *Function) *ir.Function {
	out := &ir.Function{Name: fn.Name}
	for _, p := range fn.Params {
		out.Args = append(out.Args, ir.Argument{Name: p.Name, Type: p.Type})
	}
	for _, line := range fn.Instrs {
		out.Instrs = append(out.Instrs, toIRInstruction(line))
	}
	return out
}

func toIRInstruction(line *Line) ir.Instruction {
	if line.Label != nil {
		return ir.Instruction{Label: line.Label.Name}
	}

	op := line.Op
	instr := ir.Instruction{Dest: op.Dest, Type: op.DestType, Op: op.Op}

	if op.Op == ir.OpConst && len(op.Operands) == 1 && op.Operands[0].Label == "" {
		instr.Value = decodeLiteral(op.Operands[0].Value)
		return instr
	}

	for _, operand := range op.Operands {
		if operand.Label != "" {
			instr.Labels = append(instr.Labels, operand.Label)
			continue
		}
		instr.Args = append(instr.Args, operand.Value)
	}
	return instr
}

// decodeLiteral turns a const operand's raw token text into the typed
// value ir.Instruction.Value holds: bool for true/false, int64 for an
// integer token, float64 otherwise. (The JSON codec decodes every
// number as float64.)
func decodeLiteral(text string) any {
	switch text {
	case "true":
		return true
	case "false":
		return false
	}
	if n, err := strconv.ParseInt(text, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(text, 64); err == nil {
		return f
	}
	return text
}
