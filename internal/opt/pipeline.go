package opt

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"tacopt/internal/ir"
	"tacopt/internal/terr"
)

// Pass is a single named transformation over one function. It returns
// the (possibly unchanged) result, whether it made any change, and any
// diagnostics raised along the way.
type Pass interface {
	Name() string
	Apply(fn *ir.Function) (*ir.Function, bool, []*terr.Diagnostic)
}

// Pipeline runs an ordered sequence of named passes over a function,
// with a log line per pass reporting whether it changed anything.
type Pipeline struct {
	passes []Pass
	out    io.Writer
}

// NewPipeline returns an empty pipeline that logs pass status to out.
func NewPipeline(out io.Writer) *Pipeline {
	return &Pipeline{out: out}
}

// Add appends a pass to the pipeline.
func (p *Pipeline) Add(pass Pass) *Pipeline {
	p.passes = append(p.passes, pass)
	return p
}

// Run applies every pass in order, short-circuiting the remaining
// passes if one returns a fatal diagnostic.
func (p *Pipeline) Run(fn *ir.Function) (*ir.Function, []*terr.Diagnostic) {
	var all []*terr.Diagnostic
	cur := fn
	for _, pass := range p.passes {
		next, changed, diags := pass.Apply(cur)
		all = append(all, diags...)
		for _, d := range diags {
			if d.Level == terr.LevelFatal {
				if p.out != nil {
					fmt.Fprintf(p.out, "  %s %s: %s\n", color.RedString("x"), pass.Name(), d.Reason)
				}
				return cur, all
			}
		}
		if p.out != nil {
			mark := "-"
			if changed {
				mark = color.GreenString("+")
			}
			fmt.Fprintf(p.out, "  %s %s\n", mark, pass.Name())
		}
		cur = next
	}
	return cur, all
}

// namedPass adapts a plain function into a Pass.
type namedPass struct {
	name string
	fn   func(*ir.Function) (*ir.Function, bool, []*terr.Diagnostic)
}

func (n *namedPass) Name() string { return n.name }
func (n *namedPass) Apply(fn *ir.Function) (*ir.Function, bool, []*terr.Diagnostic) {
	return n.fn(fn)
}

// NewPass wraps fn as a Pass.
func NewPass(name string, fn func(*ir.Function) (*ir.Function, bool, []*terr.Diagnostic)) Pass {
	return &namedPass{name: name, fn: fn}
}

// TrivialDCEPass wraps TrivialDCE, re-running it to a fixpoint since a
// single pass may leave cascading dead values.
func TrivialDCEPass() Pass {
	return NewPass("dce/trivial", func(fn *ir.Function) (*ir.Function, bool, []*terr.Diagnostic) {
		cur := fn
		anyChanged := false
		for {
			next, changed := TrivialDCE(cur)
			if !changed {
				return next, anyChanged, nil
			}
			anyChanged = true
			cur = next
		}
	})
}

// ReachabilityDCEPass wraps ReachabilityDCE.
func ReachabilityDCEPass() Pass {
	return ReachabilityDCEPassWithRoots(ReachabilityRoots)
}

// ReachabilityDCEPassWithRoots wraps ReachabilityDCEWithRoots, letting a
// caller override which opcodes count as observably effectful.
func ReachabilityDCEPassWithRoots(roots map[string]bool) Pass {
	return NewPass("dce/reachability", func(fn *ir.Function) (*ir.Function, bool, []*terr.Diagnostic) {
		next, changed := ReachabilityDCEWithRoots(fn, roots)
		return next, changed, nil
	})
}

// DropKillPass wraps DropKill.
func DropKillPass() Pass {
	return NewPass("dce/drop-kill", func(fn *ir.Function) (*ir.Function, bool, []*terr.Diagnostic) {
		next, changed := DropKill(fn)
		return next, changed, nil
	})
}

// LVNPass wraps LVN.
func LVNPass(opts LVNOptions) Pass {
	return NewPass("lvn", func(fn *ir.Function) (*ir.Function, bool, []*terr.Diagnostic) {
		next, diags := LVN(fn, opts)
		return next, instrsDiffer(fn, next), diags
	})
}

func instrsDiffer(a, b *ir.Function) bool {
	if len(a.Instrs) != len(b.Instrs) {
		return true
	}
	for i := range a.Instrs {
		ai, bi := a.Instrs[i], b.Instrs[i]
		if ai.Op != bi.Op || ai.Dest != bi.Dest || len(ai.Args) != len(bi.Args) {
			return true
		}
		for j := range ai.Args {
			if ai.Args[j] != bi.Args[j] {
				return true
			}
		}
	}
	return false
}
