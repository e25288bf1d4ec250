package opt

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"tacopt/internal/cfg"
	"tacopt/internal/ir"
	"tacopt/internal/terr"
)

// CommutativeOps lists the opcodes LVN treats as commutative when
// canonicalizing operand order: every reflexive/symmetric arithmetic
// and comparison op. sub and div are order-sensitive and stay out.
var CommutativeOps = map[string]bool{
	"add": true,
	"mul": true,
	"and": true,
	"or":  true,
	"eq":  true,
}

// canonicalizableOps are the opcodes LVN's algebraic table fully
// understands: const and id get dedicated handling, the rest participate
// in ordinary structural value numbering. Anything else is an
// "unsupported opcode": LVN still renumbers its dest but
// never folds it into the value table, and emits a warning diagnostic.
var canonicalizableOps = map[string]bool{
	ir.OpConst: true, ir.OpID: true,
	"add": true, "sub": true, "mul": true, "and": true, "or": true, "eq": true,
}

// LVNOptions configures the local value numbering pass.
type LVNOptions struct {
	// FoldConstants enables the constant-folding extension. Off by
	// default so a redundant commutative computation collapses to the
	// literal `id x` rewrite and no further folding.
	FoldConstants bool
}

// LVN runs local value numbering independently over every basic block of
// fn.
func LVN(fn *ir.Function, opts LVNOptions) (*ir.Function, []*terr.Diagnostic) {
	blocks := cfg.Partition(fn.Clone().Instrs)
	var diags []*terr.Diagnostic
	for _, b := range blocks {
		ds := lvnBlock(b, opts, fn.Name)
		diags = append(diags, ds...)
	}
	out := &ir.Function{
		Name:   fn.Name,
		Args:   append([]ir.Argument(nil), fn.Args...),
		Instrs: cfg.Flatten(blocks),
	}
	return out, diags
}

type lvnTableEntry struct {
	num int
	var_ string
}

func lvnBlock(b *cfg.Block, opts LVNOptions, fnName string) []*terr.Diagnostic {
	var diags []*terr.Diagnostic

	lastDef := make(map[string]int)
	for i, instr := range b.Instrs {
		if instr.HasDest() {
			lastDef[instr.Dest] = i
		}
	}

	var2num := map[string]int{}
	num2var := map[int]string{}
	table := map[string]lvnTableEntry{}
	constVal := map[int]int64{}
	counter := 0
	fresh := 0

	numberOf := func(name string) int {
		if n, ok := var2num[name]; ok {
			return n
		}
		counter++
		var2num[name] = counter
		num2var[counter] = name
		return counter
	}

	for i := range b.Instrs {
		instr := &b.Instrs[i]
		if instr.IsLabel() || instr.IsPhi() {
			continue
		}

		argNums := make([]int, len(instr.Args))
		for j, a := range instr.Args {
			argNums[j] = numberOf(a)
			instr.Args[j] = num2var[argNums[j]]
		}
		if instr.IsTerminator() || !instr.HasDest() {
			continue
		}

		origDest := instr.Dest

		if instr.Op == ir.OpID {
			if len(argNums) == 1 {
				var2num[origDest] = argNums[0]
			}
			continue
		}

		if !canonicalizableOps[instr.Op] {
			diags = append(diags, terr.Warning(terr.CodeUnsupportedOpcodeLVN, fnName,
				fmt.Sprintf("opcode %q is not covered by the LVN algebraic table; treated conservatively", instr.Op)))
			counter++
			var2num[origDest] = counter
			num2var[counter] = origDest
			continue
		}

		if opts.FoldConstants && instr.Op != ir.OpConst && len(argNums) == 2 {
			if folded, ok := foldArith(instr.Op, constVal, argNums); ok {
				instr.Op = ir.OpConst
				instr.Value = folded
				instr.Args = nil
			}
		}

		sortedNums := append([]int(nil), argNums...)
		if CommutativeOps[instr.Op] {
			sort.Ints(sortedNums)
		}

		key := canonicalKey(instr.Op, instr.Value, sortedNums)

		overwritten := lastDef[origDest] != i
		destName := origDest
		if overwritten {
			fresh++
			destName = fmt.Sprintf("%s.lvn%d", origDest, fresh)
		}

		if entry, ok := table[key]; ok {
			instr.Op = ir.OpID
			instr.Args = []string{entry.var_}
			instr.Value = nil
			instr.Dest = destName
			var2num[origDest] = entry.num
			continue
		}

		counter++
		table[key] = lvnTableEntry{num: counter, var_: destName}
		num2var[counter] = destName
		var2num[origDest] = counter
		instr.Dest = destName
		if instr.Op == ir.OpConst {
			if n, ok := asInt64(instr.Value); ok {
				constVal[counter] = n
			}
		}
	}

	for i := range b.Instrs {
		instr := &b.Instrs[i]
		if !instr.IsPhi() {
			continue
		}
		for j, a := range instr.Args {
			if n, ok := var2num[a]; ok {
				if name, ok := num2var[n]; ok {
					instr.Args[j] = name
				}
			}
		}
	}

	return diags
}

// asInt64 extracts an integer value from a decoded JSON literal, which
// encoding/json hands back as float64 for numeric `value` fields.
func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case float64:
		return int64(n), true
	default:
		return 0, false
	}
}

// foldArith computes the constant result of a binary arithmetic op when
// both operands are known constants.
func foldArith(op string, constVal map[int]int64, argNums []int) (int64, bool) {
	a, ok := constVal[argNums[0]]
	if !ok {
		return 0, false
	}
	b, ok := constVal[argNums[1]]
	if !ok {
		return 0, false
	}
	switch op {
	case "add":
		return a + b, true
	case "sub":
		return a - b, true
	case "mul":
		return a * b, true
	default:
		return 0, false
	}
}

// canonicalKey builds the {op, sorted-arg-numbers} tuple key,
// additionally keying const instructions on their literal value so
// repeated identical constants also dedupe.
func canonicalKey(op string, value any, nums []int) string {
	var b strings.Builder
	b.WriteString(op)
	if op == ir.OpConst {
		b.WriteByte('#')
		b.WriteString(fmt.Sprint(value))
	}
	for _, n := range nums {
		b.WriteByte('|')
		b.WriteString(strconv.Itoa(n))
	}
	return b.String()
}
