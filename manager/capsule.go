package manager

import (
	"github.com/irtools/passpipe/arena"
	"github.com/irtools/passpipe/emit"
	"github.com/irtools/passpipe/errors"
	"github.com/irtools/passpipe/ir"
)

// Capsule is an opaque, move-only wrapper around a pass manager's native
// handle, used to carry ownership across an API boundary. The zero value
// is the null capsule.
type Capsule struct {
	ctx    *ir.Context
	handle arena.Handle
}

// IsNull reports whether the capsule wraps no live resource.
func (c Capsule) IsNull() bool {
	return c.ctx == nil || c.handle == 0
}

// Capsule exports the manager's native handle. The export is a strict
// move: the manager transitions to released atomically with the export
// and rejects any further use. Exporting twice fails.
func (m *PassManager) Capsule() (Capsule, error) {
	if _, ok := m.state(); !ok {
		return Capsule{}, errors.Released(errors.PhaseTransfer, "capsule export")
	}
	m.released = true
	return Capsule{ctx: m.ctx, handle: m.handle}, nil
}

// FromCapsule reconstructs an owned pass manager from an exported
// capsule. A null capsule, or one whose context has since closed, fails
// with a null handle error. The reconstructed manager prints the same
// pipeline the exported one did.
func FromCapsule(c Capsule) (*PassManager, error) {
	if c.IsNull() {
		return nil, errors.NullHandle()
	}
	if _, ok := c.ctx.Arena().Get(c.handle); !ok {
		return nil, errors.NullHandle()
	}
	return &PassManager{
		ctx:     c.ctx,
		emitter: emit.New(),
		handle:  c.handle,
	}, nil
}
