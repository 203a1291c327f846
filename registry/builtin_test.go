package registry

import (
	"testing"

	"github.com/irtools/passpipe/ir"
)

func runPass(t *testing.T, name string, opts Options, text string) *ir.Module {
	t.Helper()
	f, ok := Lookup(name)
	if !ok {
		t.Fatalf("pass %q not registered", name)
	}
	p, err := f(opts)
	if err != nil {
		t.Fatalf("factory %q failed: %v", name, err)
	}
	m, err := ir.Parse(text)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if err := p.Run(m.Root()); err != nil {
		t.Fatalf("pass %q failed: %v", name, err)
	}
	return m
}

func TestCanonicalize(t *testing.T) {
	m := runPass(t, "canonicalize", nil, `module (
  func @main (
    nop
    arith.const {value=1 dead=true}
    return
  )
)`)

	main := m.Root().Children[0]
	if len(main.Children) != 1 || main.Children[0].Kind != "return" {
		t.Errorf("canonicalize left %s", m.String())
	}
}

func TestCSE(t *testing.T) {
	m := runPass(t, "cse", nil, `module (
  func @main (
    arith.const {value=1}
    arith.const {value=1}
    arith.const {value=2}
    return
  )
)`)

	main := m.Root().Children[0]
	if len(main.Children) != 3 {
		t.Fatalf("cse should drop one duplicate, left %d ops:\n%s", len(main.Children), m.String())
	}
}

func TestCSE_KeepsSymbolsAndBodies(t *testing.T) {
	m := runPass(t, "cse", nil, `module (
  arith.const @c0 {value=1}
  arith.const @c1 {value=1}
)`)

	if len(m.Root().Children) != 2 {
		t.Error("symbol-defining ops are not CSE candidates")
	}
}

func TestSymbolDCE(t *testing.T) {
	m := runPass(t, "symbol-dce", nil, `module (
  func @main (
    call {callee=used}
  )
  func @used (
    return
  )
  func @unused (
    return
  )
  func @exported {visibility=public} (
    return
  )
)`)

	var syms []string
	for _, child := range m.Root().Children {
		syms = append(syms, child.Symbol)
	}
	want := []string{"main", "used", "exported"}
	if len(syms) != len(want) {
		t.Fatalf("kept %v, want %v", syms, want)
	}
	for i := range want {
		if syms[i] != want[i] {
			t.Fatalf("kept %v, want %v", syms, want)
		}
	}
}

func TestSymbolDCE_KeepOption(t *testing.T) {
	m := runPass(t, "symbol-dce", Options{{Key: "keep", Value: "unused"}}, `module (
  func @main (
    return
  )
  func @unused (
    return
  )
)`)

	if len(m.Root().Children) != 2 {
		t.Errorf("keep option should retain @unused:\n%s", m.String())
	}
}

func TestInline(t *testing.T) {
	m := runPass(t, "inline", nil, `module (
  func @main (
    call {callee=helper}
    return
  )
  func @helper (
    arith.const {value=7}
  )
)`)

	main := m.Root().Children[0]
	if len(main.Children) != 2 {
		t.Fatalf("inline left %d ops in @main:\n%s", len(main.Children), m.String())
	}
	if main.Children[0].Kind != "arith.const" {
		t.Errorf("call should be replaced by callee body, got %q", main.Children[0].Kind)
	}
}

func TestInline_UnknownCalleeUntouched(t *testing.T) {
	m := runPass(t, "inline", nil, `module (
  func @main (
    call {callee=extern}
  )
)`)

	main := m.Root().Children[0]
	if len(main.Children) != 1 || main.Children[0].Kind != "call" {
		t.Errorf("calls to unknown symbols must stay:\n%s", m.String())
	}
}

func TestSCCP(t *testing.T) {
	m := runPass(t, "sccp", nil, `module (
  func @main (
    arith.const @c0 {value=2}
    arith.const @c1 {value=3}
    arith.add @sum {lhs=c0 rhs=c1}
    arith.add {lhs=sum rhs=c0}
    return
  )
)`)

	main := m.Root().Children[0]
	folded := main.Children[2]
	if folded.Kind != "arith.const" {
		t.Fatalf("add should fold to const:\n%s", m.String())
	}
	if v, _ := folded.Attr("value"); v != "5" {
		t.Errorf("folded value = %q, want 5", v)
	}

	// The second add sees the newly folded @sum.
	chained := main.Children[3]
	if chained.Kind != "arith.const" {
		t.Fatalf("chained add should fold:\n%s", m.String())
	}
	if v, _ := chained.Attr("value"); v != "7" {
		t.Errorf("chained value = %q, want 7", v)
	}
}

func TestStripDebugInfo(t *testing.T) {
	m := runPass(t, "strip-debuginfo", nil, `module (
  func @main {loc=main.x:1 debug.scope=s0 visibility=public} (
    return
  )
)`)

	main := m.Root().Children[0]
	if _, ok := main.Attr("loc"); ok {
		t.Error("loc attr should be stripped")
	}
	if _, ok := main.Attr("debug.scope"); ok {
		t.Error("debug.scope attr should be stripped")
	}
	if _, ok := main.Attr("visibility"); !ok {
		t.Error("non-debug attrs must survive")
	}
}
