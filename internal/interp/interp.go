// Package interp implements a reference interpreter: a small
// tree-walking evaluator over the flat IR used purely for validating
// that a pass preserves observable behaviour. It is an external
// collaborator from the core's point of view, never consulted by any
// analysis or transform.
package interp

import (
	"bytes"
	"fmt"
	"strings"

	"tacopt/internal/cfg"
	"tacopt/internal/ir"
)

// Result is the interpreter's observable output: the program's stdout
// text and a dynamic instruction count for comparing work done across
// optimization levels.
type Result struct {
	Stdout       string
	DynInstCount int
}

// Run executes the named function (the program's entry point) with the
// given integer/boolean arguments, in argument-declaration order.
func Run(p *ir.Program, entry string, args []any) (Result, error) {
	fns := make(map[string]*ir.Function, len(p.Functions))
	blocksByFn := make(map[string][]*cfg.Block, len(p.Functions))
	for _, f := range p.Functions {
		fns[f.Name] = f
		blocksByFn[f.Name] = cfg.Partition(f.Instrs)
	}

	m := &machine{fns: fns, blocks: blocksByFn, out: &bytes.Buffer{}}
	_, err := m.call(entry, args)
	return Result{Stdout: m.out.String(), DynInstCount: m.dyn}, err
}

type machine struct {
	fns    map[string]*ir.Function
	blocks map[string][]*cfg.Block
	out    *bytes.Buffer
	dyn    int
}

func (m *machine) call(name string, args []any) (any, error) {
	fn, ok := m.fns[name]
	if !ok {
		return nil, fmt.Errorf("call to undefined function %q", name)
	}
	blocks := m.blocks[name]
	byLabel := make(map[string]*cfg.Block, len(blocks))
	for _, b := range blocks {
		byLabel[b.Label] = b
	}

	env := make(map[string]any, len(fn.Args)+8)
	for i, a := range fn.Args {
		if i < len(args) {
			env[a.Name] = args[i]
		}
	}

	curLabel := blocks[0].Label
	lastLabel := ""

	for {
		block := byLabel[curLabel]
		var branched string
		var returned any
		hasReturned := false

		for _, instr := range block.Instrs {
			if instr.IsLabel() {
				continue
			}
			m.dyn++

			switch instr.Op {
			case ir.OpPhi:
				idx := indexOf(instr.Labels, lastLabel)
				if idx >= 0 {
					env[instr.Dest] = env[instr.Args[idx]]
				}
			case ir.OpConst:
				env[instr.Dest] = instr.Value
			case ir.OpID:
				env[instr.Dest] = env[instr.Args[0]]
			case ir.OpPrint:
				parts := make([]string, len(instr.Args))
				for i, a := range instr.Args {
					parts[i] = format(env[a])
				}
				fmt.Fprintln(m.out, strings.Join(parts, " "))
			case ir.OpJmp:
				branched = instr.Labels[0]
			case ir.OpBr:
				cond := truthy(env[instr.Args[0]])
				if cond {
					branched = instr.Labels[0]
				} else {
					branched = instr.Labels[1]
				}
			case ir.OpRet:
				hasReturned = true
				if len(instr.Args) == 1 {
					returned = env[instr.Args[0]]
				}
			case "call":
				fname, _ := instr.Value.(string)
				callArgs := make([]any, len(instr.Args))
				for i, a := range instr.Args {
					callArgs[i] = env[a]
				}
				res, err := m.call(fname, callArgs)
				if err != nil {
					return nil, err
				}
				if instr.HasDest() {
					env[instr.Dest] = res
				}
			default:
				val, err := evalArith(instr.Op, instr.Args, env)
				if err != nil {
					return nil, fmt.Errorf("function %q: %w", name, err)
				}
				if instr.HasDest() {
					env[instr.Dest] = val
				}
			}
		}

		if hasReturned {
			return returned, nil
		}
		lastLabel = curLabel
		curLabel = branched
	}
}

func indexOf(ss []string, v string) int {
	for i, s := range ss {
		if s == v {
			return i
		}
	}
	return -1
}

func truthy(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case int64:
		return b != 0
	case float64:
		return b != 0
	default:
		return false
	}
}

func format(v any) string {
	switch n := v.(type) {
	case bool:
		return fmt.Sprintf("%v", n)
	case float64:
		return fmt.Sprintf("%v", int64(n))
	default:
		return fmt.Sprintf("%v", n)
	}
}
