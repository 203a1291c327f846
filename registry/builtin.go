package registry

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/irtools/passpipe/ir"
)

func init() {
	Register("canonicalize", newCanonicalize)
	Register("cse", newCSE)
	Register("symbol-dce", newSymbolDCE)
	Register("inline", newInline)
	Register("sccp", newSCCP)
	Register("strip-debuginfo", newStripDebugInfo)
}

// canonicalize removes nop operations and operations marked dead=true.
type canonicalizePass struct {
	topDown bool
}

func newCanonicalize(opts Options) (Pass, error) {
	if err := rejectUnknown("canonicalize", opts, "top-down"); err != nil {
		return nil, err
	}
	p := &canonicalizePass{topDown: true}
	if v, ok := opts.Get("top-down"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("pass %q: option top-down: %w", "canonicalize", err)
		}
		p.topDown = b
	}
	return p, nil
}

func (p *canonicalizePass) Name() string { return "canonicalize" }

func (p *canonicalizePass) Run(op *ir.Operation) error {
	if p.topDown {
		pruneDead(op)
	}
	for _, child := range op.Children {
		if err := p.Run(child); err != nil {
			return err
		}
	}
	if !p.topDown {
		pruneDead(op)
	}
	return nil
}

func pruneDead(op *ir.Operation) {
	kept := op.Children[:0]
	for _, child := range op.Children {
		if child.Kind == "nop" {
			continue
		}
		if v, ok := child.Attr("dead"); ok && v == "true" {
			continue
		}
		kept = append(kept, child)
	}
	op.Children = kept
}

// cse removes later sibling duplicates of pure leaf operations: same kind
// and attributes, no symbol, no body.
type csePass struct{}

func newCSE(opts Options) (Pass, error) {
	if err := rejectUnknown("cse", opts); err != nil {
		return nil, err
	}
	return csePass{}, nil
}

func (csePass) Name() string { return "cse" }

func (p csePass) Run(op *ir.Operation) error {
	seen := make(map[string]bool)
	kept := op.Children[:0]
	for _, child := range op.Children {
		if child.Symbol == "" && len(child.Children) == 0 {
			key := child.Kind + "{" + attrOptions(child).String() + "}"
			if seen[key] {
				continue
			}
			seen[key] = true
		}
		kept = append(kept, child)
	}
	op.Children = kept

	for _, child := range op.Children {
		if err := p.Run(child); err != nil {
			return err
		}
	}
	return nil
}

func attrOptions(op *ir.Operation) Options {
	opts := make(Options, len(op.Attrs))
	for i, a := range op.Attrs {
		opts[i] = Option{Key: a.Key, Value: a.Value}
	}
	return opts
}

// symbol-dce deletes symbol-defining operations that are never referenced.
// A symbol is live if it is named by any attribute value anywhere in the
// target, exported via visibility=public, called main, or listed in the
// keep option.
type symbolDCEPass struct {
	keep map[string]bool
}

func newSymbolDCE(opts Options) (Pass, error) {
	if err := rejectUnknown("symbol-dce", opts, "keep"); err != nil {
		return nil, err
	}
	p := &symbolDCEPass{keep: map[string]bool{"main": true}}
	if v, ok := opts.Get("keep"); ok {
		for _, sym := range strings.Split(v, ",") {
			p.keep[sym] = true
		}
	}
	return p, nil
}

func (p *symbolDCEPass) Name() string { return "symbol-dce" }

func (p *symbolDCEPass) Run(op *ir.Operation) error {
	live := make(map[string]bool)
	ir.Walk(op, func(o *ir.Operation) bool {
		for _, a := range o.Attrs {
			live[a.Value] = true
		}
		return true
	})

	p.sweep(op, live)
	return nil
}

func (p *symbolDCEPass) sweep(op *ir.Operation, live map[string]bool) {
	kept := op.Children[:0]
	for _, child := range op.Children {
		if child.Symbol != "" && !p.retain(child, live) {
			continue
		}
		p.sweep(child, live)
		kept = append(kept, child)
	}
	op.Children = kept
}

func (p *symbolDCEPass) retain(op *ir.Operation, live map[string]bool) bool {
	if p.keep[op.Symbol] || live[op.Symbol] {
		return true
	}
	if v, ok := op.Attr("visibility"); ok && v == "public" {
		return true
	}
	return false
}

// inline replaces call operations with a copy of the callee's body. The
// callee must be a symbol-defining operation inside the pass target.
type inlinePass struct {
	maxIterations int
}

func newInline(opts Options) (Pass, error) {
	if err := rejectUnknown("inline", opts, "max-iterations"); err != nil {
		return nil, err
	}
	p := &inlinePass{maxIterations: 4}
	if v, ok := opts.Get("max-iterations"); ok {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("pass %q: option max-iterations: want positive integer, got %q", "inline", v)
		}
		p.maxIterations = n
	}
	return p, nil
}

func (p *inlinePass) Name() string { return "inline" }

func (p *inlinePass) Run(op *ir.Operation) error {
	defs := make(map[string]*ir.Operation)
	ir.Walk(op, func(o *ir.Operation) bool {
		if o.Symbol != "" && len(o.Children) > 0 {
			defs[o.Symbol] = o
		}
		return true
	})

	for i := 0; i < p.maxIterations; i++ {
		if !inlineCalls(op, defs) {
			return nil
		}
	}
	return nil
}

// inlineCalls expands one layer of calls, reporting whether any call was
// expanded.
func inlineCalls(op *ir.Operation, defs map[string]*ir.Operation) bool {
	changed := false
	var rewritten []*ir.Operation
	for _, child := range op.Children {
		if child.Kind == "call" {
			callee, _ := child.Attr("callee")
			if def, ok := defs[callee]; ok && def != child {
				for _, body := range def.Children {
					rewritten = append(rewritten, body.Clone())
				}
				changed = true
				continue
			}
		}
		if inlineCalls(child, defs) {
			changed = true
		}
		rewritten = append(rewritten, child)
	}
	op.Children = rewritten
	return changed
}

// sccp folds arith.add operations whose operands name sibling constants
// into constants.
type sccpPass struct{}

func newSCCP(opts Options) (Pass, error) {
	if err := rejectUnknown("sccp", opts); err != nil {
		return nil, err
	}
	return sccpPass{}, nil
}

func (sccpPass) Name() string { return "sccp" }

func (p sccpPass) Run(op *ir.Operation) error {
	consts := make(map[string]int64)
	for _, child := range op.Children {
		if child.Kind == "arith.const" && child.Symbol != "" {
			if v, ok := child.Attr("value"); ok {
				if n, err := strconv.ParseInt(v, 10, 64); err == nil {
					consts[child.Symbol] = n
				}
			}
		}
	}

	for _, child := range op.Children {
		if child.Kind == "arith.add" {
			lhs, lok := child.Attr("lhs")
			rhs, rok := child.Attr("rhs")
			if lok && rok {
				lv, lHas := consts[lhs]
				rv, rHas := consts[rhs]
				if lHas && rHas {
					child.Kind = "arith.const"
					child.Attrs = nil
					child.SetAttr("value", strconv.FormatInt(lv+rv, 10))
					if child.Symbol != "" {
						consts[child.Symbol] = lv + rv
					}
				}
			}
		}
		if err := p.Run(child); err != nil {
			return err
		}
	}
	return nil
}

// strip-debuginfo removes loc attributes and attributes under a debug
// prefix from every operation.
type stripDebugInfoPass struct {
	prefix string
}

func newStripDebugInfo(opts Options) (Pass, error) {
	if err := rejectUnknown("strip-debuginfo", opts, "prefix"); err != nil {
		return nil, err
	}
	p := &stripDebugInfoPass{prefix: "debug."}
	if v, ok := opts.Get("prefix"); ok {
		p.prefix = v
	}
	return p, nil
}

func (p *stripDebugInfoPass) Name() string { return "strip-debuginfo" }

func (p *stripDebugInfoPass) Run(op *ir.Operation) error {
	ir.Walk(op, func(o *ir.Operation) bool {
		kept := o.Attrs[:0]
		for _, a := range o.Attrs {
			if a.Key == "loc" || strings.HasPrefix(a.Key, p.prefix) {
				continue
			}
			kept = append(kept, a)
		}
		o.Attrs = kept
		return true
	})
	return nil
}
