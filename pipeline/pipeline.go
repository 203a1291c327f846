// Package pipeline maps textual pass-pipeline descriptions to and from
// their structural form.
//
// The grammar is a comma-separated list of entries. An entry is either a
// registered pass name with optional brace-delimited options, or an
// operation kind followed by a parenthesized nested pipeline:
//
//	pipeline := entry (',' entry)*
//	entry    := pass-name ['{' options '}']
//	          | op-kind '(' [pipeline] ')'
//
// Pass names come from the registry; the grammar itself owns only the
// structure. Printed form always wraps the pipeline in its anchor kind,
// and parsing printed output yields a structurally identical tree.
package pipeline

import (
	"strings"

	"github.com/irtools/passpipe/registry"
)

// Node is one pipeline entry: either a leaf pass or a pipeline nested
// under an operation-kind anchor. Exactly one of Pass and Anchor is set.
type Node struct {
	Pass    string           // leaf: registered pass name
	Options registry.Options // leaf: options, source order
	Anchor  string           // nested: operation kind to scope to
	Nested  []*Node          // nested: ordered sub-pipeline
}

// IsNested reports whether the node is a nested pipeline.
func (n *Node) IsNested() bool {
	return n.Anchor != ""
}

// Print serializes a pipeline back to the grammar, wrapped in its anchor:
// "anchor(entry,entry,...)". The output is accepted by Parse.
func Print(anchor string, nodes []*Node) string {
	var b strings.Builder
	b.WriteString(anchor)
	b.WriteByte('(')
	printList(&b, nodes)
	b.WriteByte(')')
	return b.String()
}

func printList(b *strings.Builder, nodes []*Node) {
	for i, n := range nodes {
		if i > 0 {
			b.WriteByte(',')
		}
		printNode(b, n)
	}
}

func printNode(b *strings.Builder, n *Node) {
	if n.IsNested() {
		b.WriteString(n.Anchor)
		b.WriteByte('(')
		printList(b, n.Nested)
		b.WriteByte(')')
		return
	}
	b.WriteString(n.Pass)
	if len(n.Options) > 0 {
		b.WriteByte('{')
		b.WriteString(n.Options.String())
		b.WriteByte('}')
	}
}
