package pipeline

import (
	"github.com/irtools/passpipe/diag"
	"github.com/irtools/passpipe/errors"
	"github.com/irtools/passpipe/ir"
	"github.com/irtools/passpipe/pipeline/internal/token"
	"github.com/irtools/passpipe/registry"
)

// Parse reads a pipeline description scoped to rootAnchor. Diagnostics go
// to acc; on failure the returned error carries their joined text and no
// nodes are returned.
//
// If the whole text is a single nested entry whose anchor equals
// rootAnchor (the shape Print produces), the wrapper is unwrapped, so
// Parse(Print(anchor, nodes), anchor) round-trips.
func Parse(text, rootAnchor string, acc *diag.Accumulator) ([]*Node, error) {
	if acc == nil {
		acc = &diag.Accumulator{}
	}

	p := &parser{tokens: token.Tokenize(text), acc: acc}

	if len(p.tokens) == 0 {
		return nil, nil
	}

	nodes, err := p.parsePipeline()
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.tokens) {
		t := p.tokens[p.pos]
		acc.Reportf("unexpected %s %q at position %d", t.Type, t.Value, t.Pos)
		return nil, errors.ParseFailed(acc.Join())
	}

	if len(nodes) == 1 && nodes[0].IsNested() && nodes[0].Anchor == rootAnchor {
		return nodes[0].Nested, nil
	}
	return nodes, nil
}

type parser struct {
	tokens []token.Token
	acc    *diag.Accumulator
	pos    int
}

func (p *parser) peek() (token.Token, bool) {
	if p.pos >= len(p.tokens) {
		return token.Token{}, false
	}
	return p.tokens[p.pos], true
}

func (p *parser) next() (token.Token, bool) {
	t, ok := p.peek()
	if ok {
		p.pos++
	}
	return t, ok
}

func (p *parser) parsePipeline() ([]*Node, error) {
	var nodes []*Node
	for {
		node, err := p.parseEntry()
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)

		t, ok := p.peek()
		if !ok || t.Type != token.Comma {
			return nodes, nil
		}
		p.pos++
	}
}

func (p *parser) parseEntry() (*Node, error) {
	t, ok := p.next()
	if !ok {
		p.acc.Report("expected pass name or operation kind at end of input")
		return nil, errors.ParseFailed(p.acc.Join())
	}
	if t.Type != token.Ident {
		p.acc.Reportf("expected pass name or operation kind, got %s %q at position %d", t.Type, t.Value, t.Pos)
		return nil, errors.ParseFailed(p.acc.Join())
	}
	name := t.Value

	nt, ok := p.peek()
	if ok && nt.Type == token.LParen {
		p.pos++
		return p.parseNested(name, t.Pos)
	}

	return p.parseLeaf(name, t.Pos)
}

func (p *parser) parseNested(anchor string, pos int) (*Node, error) {
	if !ir.IsValidKind(anchor) {
		p.acc.Reportf("malformed operation kind %q at position %d", anchor, pos)
		return nil, errors.ParseFailed(p.acc.Join())
	}

	node := &Node{Anchor: anchor}

	if t, ok := p.peek(); ok && t.Type == token.RParen {
		p.pos++
		return node, nil
	}

	nested, err := p.parsePipeline()
	if err != nil {
		return nil, err
	}
	node.Nested = nested

	t, ok := p.next()
	if !ok {
		p.acc.Reportf("unclosed nested pipeline for %q at end of input", anchor)
		return nil, errors.ParseFailed(p.acc.Join())
	}
	if t.Type != token.RParen {
		p.acc.Reportf("expected ')' closing %q, got %s %q at position %d", anchor, t.Type, t.Value, t.Pos)
		return nil, errors.ParseFailed(p.acc.Join())
	}
	return node, nil
}

func (p *parser) parseLeaf(name string, pos int) (*Node, error) {
	factory, ok := registry.Lookup(name)
	if !ok {
		p.acc.Reportf("no pass named %q registered (position %d)", name, pos)
		return nil, errors.UnknownPass(name, p.acc.Join())
	}

	node := &Node{Pass: name}

	if t, hasMore := p.peek(); hasMore && t.Type == token.Options {
		p.pos++
		opts, err := registry.ParseOptions(t.Value)
		if err != nil {
			p.acc.Reportf("options of pass %q at position %d: %v", name, t.Pos, err)
			return nil, errors.InvalidOption(name, err)
		}
		node.Options = opts
	}

	// Construct once to validate options against the pass; the instance
	// is discarded so a failed Add never leaves half-built state behind.
	if _, err := factory(node.Options); err != nil {
		p.acc.Reportf("pass %q at position %d: %v", name, pos, err)
		return nil, errors.InvalidOption(name, err)
	}

	return node, nil
}
