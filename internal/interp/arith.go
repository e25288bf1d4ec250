package interp

import "fmt"

// evalArith evaluates the scalar int/bool opcodes the reference
// interpreter supports beyond the control-flow and φ handling in
// machine.call: the arithmetic, comparison and boolean ops a Bril-style
// program actually emits.
func evalArith(op string, args []string, env map[string]any) (any, error) {
	switch op {
	case "add", "sub", "mul", "div":
		a, b, err := ints(op, args, env)
		if err != nil {
			return nil, err
		}
		switch op {
		case "add":
			return a + b, nil
		case "sub":
			return a - b, nil
		case "mul":
			return a * b, nil
		case "div":
			if b == 0 {
				return nil, fmt.Errorf("division by zero")
			}
			return a / b, nil
		}
	case "eq", "lt", "gt", "le", "ge":
		a, b, err := ints(op, args, env)
		if err != nil {
			return nil, err
		}
		switch op {
		case "eq":
			return a == b, nil
		case "lt":
			return a < b, nil
		case "gt":
			return a > b, nil
		case "le":
			return a <= b, nil
		case "ge":
			return a >= b, nil
		}
	case "and", "or":
		if len(args) != 2 {
			return nil, fmt.Errorf("%s: expected 2 args, got %d", op, len(args))
		}
		a, ok1 := env[args[0]].(bool)
		b, ok2 := env[args[1]].(bool)
		if !ok1 || !ok2 {
			return nil, fmt.Errorf("%s: non-boolean operand", op)
		}
		if op == "and" {
			return a && b, nil
		}
		return a || b, nil
	case "not":
		if len(args) != 1 {
			return nil, fmt.Errorf("not: expected 1 arg, got %d", len(args))
		}
		a, ok := env[args[0]].(bool)
		if !ok {
			return nil, fmt.Errorf("not: non-boolean operand")
		}
		return !a, nil
	case "nop":
		return nil, nil
	}
	return nil, fmt.Errorf("unsupported opcode %q", op)
}

func ints(op string, args []string, env map[string]any) (int64, int64, error) {
	if len(args) != 2 {
		return 0, 0, fmt.Errorf("%s: expected 2 args, got %d", op, len(args))
	}
	a, err := asInt(env[args[0]])
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %w", op, err)
	}
	b, err := asInt(env[args[1]])
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %w", op, err)
	}
	return a, b, nil
}

func asInt(v any) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case float64:
		return int64(n), nil
	default:
		return 0, fmt.Errorf("expected integer operand, got %T", v)
	}
}
