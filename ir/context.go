package ir

import (
	"github.com/irtools/passpipe/arena"
)

// Context is a compilation session. It owns the arena that holds native
// pass-manager state, so a context must outlive every manager created
// against it. A context may be shared across any number of independently
// owned managers.
type Context struct {
	managers *arena.Table
}

// NewContext creates a new compilation session.
func NewContext() *Context {
	return &Context{
		managers: arena.NewTable(),
	}
}

// Arena returns the handle table backing pass managers in this session.
func (c *Context) Arena() *arena.Table {
	return c.managers
}

// Close releases all session-owned state, including any pass-manager
// entries that were leaked via a testing release.
func (c *Context) Close() error {
	return c.managers.Close()
}
