// Package manager owns the pass-manager lifecycle: anchored pipeline
// state held in a context's arena, textual mutation via Add, execution,
// source emission, and one-shot ownership transfer through capsules.
package manager

import (
	"github.com/irtools/passpipe/arena"
	"github.com/irtools/passpipe/diag"
	"github.com/irtools/passpipe/emit"
	"github.com/irtools/passpipe/engine"
	"github.com/irtools/passpipe/errors"
	"github.com/irtools/passpipe/ir"
	"github.com/irtools/passpipe/pipeline"
)

// state is the native pass-manager resource. It lives in the context's
// arena and is reachable only through a handle, so ownership transfer is
// a handle move rather than a data copy.
type state struct {
	anchor     string
	nodes      []*pipeline.Node
	verifyEach bool
	irPrinting bool
}

// Emitter is the emission backend hook invoked by Emit.
type Emitter interface {
	Emit(mod *ir.Module, primary, secondary string) error
}

// PassManager owns an ordered, optionally nested pipeline of passes
// anchored to an operation kind. It holds exactly one arena handle while
// owned; after Release, Destroy, or a capsule export it rejects further
// use and destruction is a no-op.
//
// A PassManager must be driven by a single owner; it has no internal
// locking.
type PassManager struct {
	ctx      *ir.Context
	emitter  Emitter
	handle   arena.Handle
	released bool
}

// New creates a pass manager with an empty pipeline scoped to anchorOp.
// An empty anchorOp means "any", the wildcard anchor. The context must
// outlive the manager. Verification is enabled by default.
func New(anchorOp string, ctx *ir.Context) (*PassManager, error) {
	if ctx == nil {
		return nil, errors.InvalidInput(errors.PhaseParse, "nil context")
	}
	if anchorOp == "" {
		anchorOp = "any"
	}
	if anchorOp != "any" && !ir.IsValidKind(anchorOp) {
		var acc diag.Accumulator
		acc.Reportf("malformed anchor operation kind %q", anchorOp)
		return nil, errors.ParseFailed(acc.Join())
	}

	handle, err := ctx.Arena().Insert(&state{
		anchor:     anchorOp,
		verifyEach: true,
	})
	if err != nil {
		return nil, errors.InvalidInput(errors.PhaseParse, "context is closed")
	}

	return &PassManager{
		ctx:     ctx,
		emitter: emit.New(),
		handle:  handle,
	}, nil
}

// Parse builds a manager anchored at "any" from a textual pipeline
// description. A malformed description fails with a parse error carrying
// the accumulated diagnostics, and no manager is produced.
func Parse(text string, ctx *ir.Context) (*PassManager, error) {
	m, err := New("any", ctx)
	if err != nil {
		return nil, err
	}

	var acc diag.Accumulator
	nodes, err := pipeline.Parse(text, "any", &acc)
	if err != nil {
		m.Destroy()
		return nil, err
	}

	st, _ := m.state()
	st.nodes = nodes
	return m, nil
}

func (m *PassManager) state() (*state, bool) {
	if m.released {
		return nil, false
	}
	v, ok := m.ctx.Arena().Get(m.handle)
	if !ok {
		return nil, false
	}
	return v.(*state), true
}

// Add parses pipeline text against the manager's anchor and appends the
// resulting entries at the root scope. On a parse failure the existing
// pipeline is left untouched; the append is all-or-nothing.
func (m *PassManager) Add(text string) error {
	st, ok := m.state()
	if !ok {
		return errors.Released(errors.PhaseParse, "add")
	}

	var acc diag.Accumulator
	nodes, err := pipeline.Parse(text, st.anchor, &acc)
	if err != nil {
		return err
	}
	st.nodes = append(st.nodes, nodes...)
	return nil
}

// EnableVerifier toggles module verification after each pass application.
// Takes effect on the next Run; a no-op on a released manager.
func (m *PassManager) EnableVerifier(enable bool) {
	if st, ok := m.state(); ok {
		st.verifyEach = enable
	}
}

// EnableIRPrinting turns on printing of the module's textual form after
// every pass, on the engine's log channel.
func (m *PassManager) EnableIRPrinting() {
	if st, ok := m.state(); ok {
		st.irPrinting = true
	}
}

// String returns the pipeline's canonical textual form, wrapped in its
// anchor and re-parseable by Parse. A released manager prints empty.
func (m *PassManager) String() string {
	st, ok := m.state()
	if !ok {
		return ""
	}
	return pipeline.Print(st.anchor, st.nodes)
}

// Anchor returns the operation kind the top-level pipeline is scoped to.
func (m *PassManager) Anchor() string {
	st, ok := m.state()
	if !ok {
		return ""
	}
	return st.anchor
}

// Run executes the pipeline once over mod. The module is mutated in
// place; a failed run leaves it partially transformed and reports a
// generic execution error without per-pass detail.
func (m *PassManager) Run(mod *ir.Module) error {
	st, ok := m.state()
	if !ok {
		return errors.Released(errors.PhaseRun, "run")
	}
	if mod == nil {
		return errors.InvalidInput(errors.PhaseRun, "nil module")
	}

	return engine.Run(engine.Pipeline{
		Anchor:        st.anchor,
		Nodes:         st.nodes,
		VerifyEach:    st.verifyEach,
		PrintAfterAll: st.irPrinting,
	}, mod)
}

// Emit runs the pipeline over mod and hands the transformed module to the
// emission backend, which writes a primary and a secondary source
// artifact at the given paths.
func (m *PassManager) Emit(mod *ir.Module, primary, secondary string) error {
	if _, ok := m.state(); !ok {
		return errors.Released(errors.PhaseEmit, "emit")
	}
	if mod == nil {
		return errors.InvalidInput(errors.PhaseEmit, "nil module")
	}
	if primary == "" || secondary == "" {
		return errors.InvalidInput(errors.PhaseEmit, "emission output paths must be non-empty")
	}

	if err := m.Run(mod); err != nil {
		return err
	}
	return m.emitter.Emit(mod, primary, secondary)
}

// SetEmitter replaces the emission backend hook. A nil emitter restores
// the default backend.
func (m *PassManager) SetEmitter(e Emitter) {
	if e == nil {
		e = emit.New()
	}
	m.emitter = e
}

// Release gives up ownership without destroying the native state; the
// arena entry is intentionally leaked until the context closes. Used to
// test destructor safety around ownership handoff. Idempotent.
func (m *PassManager) Release() {
	m.released = true
}

// Destroy drops the native state if the manager still owns it, and is a
// no-op on a released manager. Safe to defer unconditionally.
func (m *PassManager) Destroy() {
	if m.released {
		return
	}
	m.released = true
	m.ctx.Arena().Remove(m.handle)
}
