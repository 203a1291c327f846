package pipeline

import (
	"reflect"
	"strings"
	"testing"

	"github.com/irtools/passpipe/diag"
	"github.com/irtools/passpipe/errors"
	"github.com/irtools/passpipe/registry"
)

func mustParse(t *testing.T, text, anchor string) []*Node {
	t.Helper()
	nodes, err := Parse(text, anchor, nil)
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", text, err)
	}
	return nodes
}

func TestParse_SingleLeaf(t *testing.T) {
	nodes := mustParse(t, "cse", "any")

	if len(nodes) != 1 {
		t.Fatalf("got %d nodes, want 1", len(nodes))
	}
	if nodes[0].Pass != "cse" || nodes[0].IsNested() {
		t.Errorf("node = %+v, want leaf cse", nodes[0])
	}
}

func TestParse_LeafWithOptions(t *testing.T) {
	nodes := mustParse(t, "canonicalize{top-down=false}", "any")

	if len(nodes) != 1 {
		t.Fatalf("got %d nodes, want 1", len(nodes))
	}
	if v, ok := nodes[0].Options.Get("top-down"); !ok || v != "false" {
		t.Errorf("options = %v", nodes[0].Options)
	}
}

func TestParse_NestedPipeline(t *testing.T) {
	nodes := mustParse(t, "func(cse,sccp),symbol-dce", "any")

	if len(nodes) != 2 {
		t.Fatalf("got %d nodes, want 2", len(nodes))
	}
	nested := nodes[0]
	if nested.Anchor != "func" || len(nested.Nested) != 2 {
		t.Fatalf("nested = %+v", nested)
	}
	if nested.Nested[0].Pass != "cse" || nested.Nested[1].Pass != "sccp" {
		t.Errorf("nested passes = %+v", nested.Nested)
	}
	if nodes[1].Pass != "symbol-dce" {
		t.Errorf("tail = %+v", nodes[1])
	}
}

func TestParse_EmptyNested(t *testing.T) {
	nodes := mustParse(t, "func()", "any")
	if len(nodes) != 1 || nodes[0].Anchor != "func" || len(nodes[0].Nested) != 0 {
		t.Errorf("nodes = %+v", nodes)
	}
}

func TestParse_UnwrapsRootAnchor(t *testing.T) {
	wrapped := mustParse(t, "any(cse,canonicalize)", "any")
	bare := mustParse(t, "cse,canonicalize", "any")

	if !reflect.DeepEqual(wrapped, bare) {
		t.Errorf("wrapped = %+v, bare = %+v", wrapped, bare)
	}
}

func TestParse_KeepsForeignAnchor(t *testing.T) {
	nodes := mustParse(t, "func(cse)", "any")
	if len(nodes) != 1 || !nodes[0].IsNested() {
		t.Errorf("a non-root anchor must stay nested: %+v", nodes)
	}
}

func TestParse_Empty(t *testing.T) {
	if nodes := mustParse(t, "", "any"); len(nodes) != 0 {
		t.Errorf("empty text should yield no nodes, got %+v", nodes)
	}
}

func TestParse_Errors(t *testing.T) {
	cases := []struct {
		name string
		text string
		want string
	}{
		{"unknown_pass", "not-a-real-pass", "no pass named"},
		{"unknown_in_nested", "func(not-a-real-pass)", "no pass named"},
		{"unclosed_nested", "func(cse", "unclosed nested pipeline"},
		{"dangling_comma", "cse,", "end of input"},
		{"leading_comma", ",cse", "expected pass name"},
		{"stray_rparen", "cse)", "unexpected"},
		{"unterminated_options", "cse{key=value", "unexpected"},
		{"malformed_options", "canonicalize{topdown}", "want key=value"},
		{"unknown_option", "canonicalize{frobnicate=yes}", "does not recognize option"},
		{"bad_option_value", "inline{max-iterations=zero}", "max-iterations"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var acc diag.Accumulator
			nodes, err := Parse(tc.text, "any", &acc)
			if err == nil {
				t.Fatalf("Parse(%q) should fail", tc.text)
			}
			if nodes != nil {
				t.Error("failed parse must not return nodes")
			}
			if !errors.IsParse(err) {
				t.Errorf("error should classify as parse error: %v", err)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error = %q, want substring %q", err.Error(), tc.want)
			}
		})
	}
}

func TestParse_DiagnosticHasPosition(t *testing.T) {
	var acc diag.Accumulator
	_, err := Parse("cse,not-a-real-pass", "any", &acc)
	if err == nil {
		t.Fatal("Parse should fail")
	}
	if !strings.Contains(acc.Join(), "position 4") {
		t.Errorf("diagnostic = %q, want position 4", acc.Join())
	}
}

func TestPrint_RoundTrip(t *testing.T) {
	texts := []string{
		"cse",
		"cse,canonicalize",
		"canonicalize{top-down=false},cse",
		"func(cse,sccp),symbol-dce{keep=exported}",
		"module(func(inline{max-iterations=2},cse))",
	}

	for _, text := range texts {
		t.Run(text, func(t *testing.T) {
			nodes := mustParse(t, text, "any")
			printed := Print("any", nodes)

			again := mustParse(t, printed, "any")
			if !reflect.DeepEqual(nodes, again) {
				t.Errorf("round trip changed structure:\n%+v\n%+v", nodes, again)
			}
			if Print("any", again) != printed {
				t.Errorf("second print differs: %q vs %q", Print("any", again), printed)
			}
		})
	}
}

func TestPrint_WrapsAnchor(t *testing.T) {
	nodes := mustParse(t, "cse", "any")
	if got, want := Print("any", nodes), "any(cse)"; got != want {
		t.Errorf("Print = %q, want %q", got, want)
	}

	if got, want := Print("module", nil), "module()"; got != want {
		t.Errorf("Print of empty pipeline = %q, want %q", got, want)
	}
}

func TestParse_OptionsOrderPreserved(t *testing.T) {
	nodes := mustParse(t, "symbol-dce{keep=b,a}", "any")
	if got, want := nodes[0].Options.String(), "keep=b,a"; got != want {
		t.Errorf("options = %q, want %q", got, want)
	}

	opts := registry.Options{{Key: "keep", Value: "b,a"}}
	if !reflect.DeepEqual(nodes[0].Options, opts) {
		t.Errorf("options = %+v, want %+v", nodes[0].Options, opts)
	}
}
