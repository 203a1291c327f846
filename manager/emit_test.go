package manager

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/irtools/passpipe/errors"
	"github.com/irtools/passpipe/ir"
)

type stubEmitter struct {
	calls int
	fail  bool
}

func (s *stubEmitter) Emit(mod *ir.Module, primary, secondary string) error {
	s.calls++
	if s.fail {
		return errors.EmissionFailed(fmt.Errorf("backend rejected module"))
	}
	return nil
}

func loweredModule(t *testing.T) *ir.Module {
	t.Helper()
	m, err := ir.Parse(`module (
  func @main (
    arith.const @c0 {value=40}
    arith.const @c1 {value=2}
    arith.add @sum {lhs=c0 rhs=c1}
    return {value=sum}
  )
)`)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return m
}

func TestEmit_WritesArtifacts(t *testing.T) {
	ctx := testContext(t)

	m, err := Parse("canonicalize,cse", ctx)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	defer m.Destroy()

	tmp := t.TempDir()
	primary := filepath.Join(tmp, "out.cc")
	secondary := filepath.Join(tmp, "out.py")

	if err := m.Emit(loweredModule(t), primary, secondary); err != nil {
		t.Fatalf("Emit failed: %v", err)
	}

	for _, path := range []string{primary, secondary} {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("expected artifact at %s: %v", path, err)
		}
	}
}

func TestEmit_ValidatesPaths(t *testing.T) {
	ctx := testContext(t)

	m, _ := New("any", ctx)
	defer m.Destroy()

	if err := m.Emit(loweredModule(t), "", "out.py"); err == nil || !errors.IsEmission(err) {
		t.Errorf("empty primary path = %v, want emission error", err)
	}
	if err := m.Emit(loweredModule(t), "out.cc", ""); err == nil || !errors.IsEmission(err) {
		t.Errorf("empty secondary path = %v, want emission error", err)
	}
	if err := m.Emit(nil, "out.cc", "out.py"); err == nil {
		t.Error("nil module should fail")
	}
}

func TestEmit_RunsPipelineFirst(t *testing.T) {
	ctx := testContext(t)

	// symbol-dce strips the dead helper before the backend sees it.
	m, err := Parse("symbol-dce", ctx)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	defer m.Destroy()

	mod := loweredModule(t)
	mod.Root().Append(&ir.Operation{Kind: "func", Symbol: "unused"})

	stub := &stubEmitter{}
	m.SetEmitter(stub)

	if err := m.Emit(mod, "out.cc", "out.py"); err != nil {
		t.Fatalf("Emit failed: %v", err)
	}
	if stub.calls != 1 {
		t.Fatalf("emitter called %d times, want 1", stub.calls)
	}
	if len(mod.Root().Children) != 1 {
		t.Errorf("pipeline should have run before emission:\n%s", mod.String())
	}
}

func TestEmit_BackendFailure(t *testing.T) {
	ctx := testContext(t)

	m, _ := New("any", ctx)
	defer m.Destroy()

	m.SetEmitter(&stubEmitter{fail: true})

	err := m.Emit(loweredModule(t), "out.cc", "out.py")
	if err == nil || !errors.IsEmission(err) {
		t.Errorf("backend failure = %v, want emission error", err)
	}
}

func TestEmit_Released(t *testing.T) {
	ctx := testContext(t)

	m, _ := New("any", ctx)
	m.Release()

	if err := m.Emit(loweredModule(t), "out.cc", "out.py"); err == nil || !errors.IsEmission(err) {
		t.Errorf("Emit on released manager = %v, want emission error", err)
	}
}
