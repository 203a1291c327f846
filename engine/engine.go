package engine

import (
	"go.uber.org/zap"

	"github.com/irtools/passpipe/errors"
	"github.com/irtools/passpipe/ir"
	"github.com/irtools/passpipe/pipeline"
	"github.com/irtools/passpipe/registry"
)

// Pipeline is the executable view of a pass manager: its anchor, node
// tree, and run-time toggles.
type Pipeline struct {
	Anchor        string
	Nodes         []*pipeline.Node
	VerifyEach    bool
	PrintAfterAll bool
}

// Run executes the pipeline over mod. The module is mutated in place; on
// failure it is left in whatever state the aborted run produced.
func Run(p Pipeline, mod *ir.Module) error {
	if p.VerifyEach {
		if err := ir.Verify(mod); err != nil {
			Logger().Error("module verification failed before pipeline",
				zap.Error(err))
			return errors.VerifyFailed()
		}
	}

	for _, target := range anchorTargets(p.Anchor, mod.Root()) {
		if err := runList(p, p.Nodes, target, mod); err != nil {
			return err
		}
	}
	return nil
}

// anchorTargets resolves the operations a pipeline anchored at anchor runs
// against. The wildcard "any" targets the module root; a concrete kind
// targets every matching operation in pre-order, the root included.
func anchorTargets(anchor string, root *ir.Operation) []*ir.Operation {
	if anchor == "" || anchor == "any" {
		return []*ir.Operation{root}
	}
	return matchingOps(anchor, root, true)
}

func matchingOps(anchor string, op *ir.Operation, includeSelf bool) []*ir.Operation {
	var matched []*ir.Operation
	ir.Walk(op, func(o *ir.Operation) bool {
		if o == op && !includeSelf {
			return true
		}
		if anchor == "any" || o.Kind == anchor {
			matched = append(matched, o)
		}
		return true
	})
	return matched
}

func runList(p Pipeline, nodes []*pipeline.Node, target *ir.Operation, mod *ir.Module) error {
	for _, node := range nodes {
		if node.IsNested() {
			// Snapshot the matching operations before descending; a nested
			// pipeline that rewrites the tree sees a stable target list.
			for _, op := range matchingOps(node.Anchor, target, false) {
				if err := runList(p, node.Nested, op, mod); err != nil {
					return err
				}
			}
			continue
		}
		if err := runLeaf(p, node, target, mod); err != nil {
			return err
		}
	}
	return nil
}

func runLeaf(p Pipeline, node *pipeline.Node, target *ir.Operation, mod *ir.Module) error {
	factory, ok := registry.Lookup(node.Pass)
	if !ok {
		Logger().Error("pass vanished from registry between parse and run",
			zap.String("pass", node.Pass))
		return errors.ExecutionFailed()
	}
	pass, err := factory(node.Options)
	if err != nil {
		Logger().Error("pass construction failed",
			zap.String("pass", node.Pass), zap.Error(err))
		return errors.ExecutionFailed()
	}

	runErr := pass.Run(target)

	// The IR snapshot is taken whether the pass succeeded or not, so a
	// failing pass still shows the state it left the module in.
	if p.PrintAfterAll {
		Logger().Info("ir after pass",
			zap.String("pass", node.Pass),
			zap.String("ir", mod.String()))
	}

	if runErr != nil {
		Logger().Error("pass failed",
			zap.String("pass", node.Pass),
			zap.String("target", target.Kind),
			zap.Error(runErr))
		return errors.ExecutionFailed()
	}

	if p.VerifyEach {
		if err := ir.Verify(mod); err != nil {
			Logger().Error("module verification failed after pass",
				zap.String("pass", node.Pass),
				zap.Error(err))
			return errors.VerifyFailed()
		}
	}
	return nil
}
