package passpipe

import (
	"github.com/irtools/passpipe/ir"
	"github.com/irtools/passpipe/manager"
)

// New creates an empty pass manager anchored at the given operation kind.
// An empty anchor means "any", the wildcard anchor.
func New(anchorOp string, ctx *ir.Context) (*manager.PassManager, error) {
	return manager.New(anchorOp, ctx)
}

// Parse builds a pass manager from a textual pipeline description.
// The manager is anchored at "any"; the text may itself open a nested
// anchor, e.g. "module(canonicalize,cse)".
func Parse(pipeline string, ctx *ir.Context) (*manager.PassManager, error) {
	return manager.Parse(pipeline, ctx)
}
