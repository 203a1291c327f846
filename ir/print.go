package ir

import (
	"strings"
)

// Print returns the deterministic textual form of an operation subtree.
// The output is parseable by Parse.
func Print(op *Operation) string {
	var b strings.Builder
	printOp(&b, op, 0)
	return b.String()
}

func printOp(b *strings.Builder, op *Operation, depth int) {
	for i := 0; i < depth; i++ {
		b.WriteString("  ")
	}
	b.WriteString(op.Kind)

	if op.Symbol != "" {
		b.WriteString(" @")
		b.WriteString(op.Symbol)
	}

	if len(op.Attrs) > 0 {
		b.WriteString(" {")
		for i, a := range op.Attrs {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(a.Key)
			b.WriteByte('=')
			b.WriteString(a.Value)
		}
		b.WriteByte('}')
	}

	if len(op.Children) > 0 {
		b.WriteString(" (\n")
		for _, child := range op.Children {
			printOp(b, child, depth+1)
			b.WriteByte('\n')
		}
		for i := 0; i < depth; i++ {
			b.WriteString("  ")
		}
		b.WriteByte(')')
	}
}
