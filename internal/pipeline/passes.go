package pipeline

import (
	"io"

	"tacopt/internal/ir"
	"tacopt/internal/licm"
	"tacopt/internal/opt"
	"tacopt/internal/ssa"
	"tacopt/internal/terr"
)

// passFactories maps a config pass name to a constructor taking the
// enclosing Config, so options like fold_constants and
// reachability_roots reach the right pass without a special case in
// the caller.
var passFactories = map[string]func(cfg *Config) opt.Pass{
	"dce/trivial": func(*Config) opt.Pass { return opt.TrivialDCEPass() },
	"dce/reachability": func(cfg *Config) opt.Pass {
		if len(cfg.ReachabilityRoots) == 0 {
			return opt.ReachabilityDCEPass()
		}
		roots := make(map[string]bool, len(cfg.ReachabilityRoots))
		for _, name := range cfg.ReachabilityRoots {
			roots[name] = true
		}
		return opt.ReachabilityDCEPassWithRoots(roots)
	},
	"dce/drop-kill": func(*Config) opt.Pass { return opt.DropKillPass() },
	"lvn": func(cfg *Config) opt.Pass {
		return opt.LVNPass(opt.LVNOptions{FoldConstants: cfg.FoldConstants})
	},
	"ssa":  func(*Config) opt.Pass { return ssaPass() },
	"licm": func(*Config) opt.Pass { return licmPass() },
}

// ssaPass adapts ssa.Construct to the opt.Pass interface.
func ssaPass() opt.Pass {
	return opt.NewPass("ssa", func(fn *ir.Function) (*ir.Function, bool, []*terr.Diagnostic) {
		next, err := ssa.Construct(fn)
		if err != nil {
			diag, ok := err.(*terr.Diagnostic)
			if !ok {
				diag = terr.New(terr.CodeMalformedIR, fn.Name, err.Error())
			}
			return fn, false, []*terr.Diagnostic{diag}
		}
		return next, true, nil
	})
}

// licmPass adapts licm.Run to the opt.Pass interface.
func licmPass() opt.Pass {
	return opt.NewPass("licm", func(fn *ir.Function) (*ir.Function, bool, []*terr.Diagnostic) {
		next, diags := licm.Run(fn)
		return next, next != fn, diags
	})
}

// Build turns a Config's pass-name list into a ready opt.Pipeline that
// logs each pass's status to out (pass nil to stay silent).
func Build(cfg *Config, out io.Writer) *opt.Pipeline {
	p := opt.NewPipeline(out)
	for _, name := range cfg.Passes {
		p.Add(passFactories[name](cfg))
	}
	return p
}
