package arena

import (
	"errors"
	"sync"

	"fortio.org/safecast"
)

var (
	ErrClosed = errors.New("arena closed")
	ErrFull   = errors.New("arena handle space exhausted")
)

// Handle is an opaque reference to an entry in a table. The low half
// names the slot and the high half carries the slot's generation, so a
// handle kept past Remove never resolves to a later occupant of the
// same slot. Handle 0 is reserved and always invalid.
type Handle uint64

func makeHandle(slot, gen uint32) Handle {
	return Handle(uint64(gen)<<32 | uint64(slot))
}

func (h Handle) slot() uint32       { return uint32(h) }
func (h Handle) generation() uint32 { return uint32(h >> 32) }

// Dropper is optionally implemented by entry values that need cleanup.
type Dropper interface {
	Drop()
}

// Table is an in-memory handle table with free-list slot reuse.
// It is safe for concurrent use; a context shares one table across all
// managers it backs.
type Table struct {
	entries  []entry
	freeList []uint32
	mu       sync.RWMutex
	closed   bool
}

type entry struct {
	value any
	gen   uint32
	valid bool
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{
		entries:  make([]entry, 0, 16),
		freeList: make([]uint32, 0, 4),
	}
}

// Insert stores a value and returns its handle.
func (t *Table) Insert(value any) (Handle, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return 0, ErrClosed
	}

	if len(t.freeList) > 0 {
		slot := t.freeList[len(t.freeList)-1]
		t.freeList = t.freeList[:len(t.freeList)-1]
		e := &t.entries[slot-1]
		e.value = value
		e.valid = true
		return makeHandle(slot, e.gen), nil
	}

	t.entries = append(t.entries, entry{value: value, valid: true})
	slot, err := safecast.Conv[uint32](len(t.entries))
	if err != nil {
		t.entries = t.entries[:len(t.entries)-1]
		return 0, ErrFull
	}
	return makeHandle(slot, 0), nil
}

// lookup resolves a handle to its entry. Callers hold t.mu.
func (t *Table) lookup(handle Handle) *entry {
	slot := handle.slot()
	if slot == 0 || int(slot) > len(t.entries) {
		return nil
	}
	e := &t.entries[slot-1]
	if !e.valid || e.gen != handle.generation() {
		return nil
	}
	return e
}

// Get retrieves a value by handle.
func (t *Table) Get(handle Handle) (any, bool) {
	if handle == 0 {
		return nil, false
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	e := t.lookup(handle)
	if e == nil {
		return nil, false
	}
	return e.value, true
}

// Remove drops an entry and returns (value, true) if it was live.
// The value's Drop method, if any, runs before Remove returns. The
// slot's generation advances, so the removed handle stays dead across
// slot reuse.
func (t *Table) Remove(handle Handle) (any, bool) {
	if handle == 0 {
		return nil, false
	}

	t.mu.Lock()

	e := t.lookup(handle)
	if e == nil {
		t.mu.Unlock()
		return nil, false
	}

	value := e.value
	e.valid = false
	e.value = nil
	e.gen++
	t.freeList = append(t.freeList, handle.slot())
	t.mu.Unlock()

	if d, ok := value.(Dropper); ok {
		d.Drop()
	}
	return value, true
}

// Len returns the number of live entries.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	n := 0
	for i := range t.entries {
		if t.entries[i].valid {
			n++
		}
	}
	return n
}

// Close drops all entries and stops accepting operations.
func (t *Table) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}
	t.closed = true

	for i := range t.entries {
		if t.entries[i].valid {
			if d, ok := t.entries[i].value.(Dropper); ok {
				d.Drop()
			}
			t.entries[i].valid = false
			t.entries[i].value = nil
		}
	}

	t.entries = nil
	t.freeList = nil
	return nil
}
