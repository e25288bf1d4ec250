// Package ssa converts a function into static single assignment form:
// φ-placement via iterated dominance frontiers, then renaming by
// dominator-tree traversal with a stack of versions per variable.
package ssa

import (
	"errors"

	"tacopt/internal/cfg"
	"tacopt/internal/dom"
	"tacopt/internal/ir"
	"tacopt/internal/terr"
)

// Construct builds the SSA form of fn. On an uninitialized use — a read
// with no dominating definition — it returns the unmodified original fn
// alongside a fatal *terr.Diagnostic.
func Construct(fn *ir.Function) (*ir.Function, error) {
	work := fn.Clone()

	c, err := cfg.Build(work)
	if err != nil {
		return fn, terr.New(terr.CodeMalformedIR, fn.Name, err.Error())
	}

	domSets := dom.Dominators(c)
	frontiers := dom.DominanceFrontiers(c, domSets)
	tree := dom.BuildTree(c, domSets)

	defs := computeDefs(c)
	placePhis(c, frontiers, defs)
	phiVarAt := snapshotPhiVars(c)

	r := newRenamer(c, tree, phiVarAt)
	for _, a := range fn.Args {
		r.seedArg(a.Name)
	}

	if err := r.rename(c.Entry); err != nil {
		diag := terr.New(terr.CodeUninitializedUse, fn.Name, err.Error())
		var u *uninitializedUseError
		if errors.As(err, &u) {
			diag = diag.At(u.block)
		}
		return fn, diag
	}

	return c.ToFunction(fn.Name), nil
}
