// Package arena provides the handle table that holds native pass-manager
// state on behalf of a compilation context.
//
// A pass manager never holds its pipeline state directly; it holds an opaque
// Handle into its context's arena. This is what makes ownership transfer an
// explicit move: exporting a manager hands over the handle, and the released
// source can no longer reach the entry behind it.
//
// # Handle Table
//
// The Table maps integer handles to values:
//
//	table := arena.NewTable()
//
//	// Insert a value, get a handle
//	handle, err := table.Insert(state)
//
//	// Retrieve value by handle
//	value, ok := table.Get(handle)
//
//	// Remove and get value (destruction)
//	value, ok := table.Remove(handle)
//
// Handle 0 is reserved and always invalid; it backs the "null capsule".
// Removed slots are recycled through a free list; each recycle bumps the
// slot's generation, so a handle that outlived its entry stays dead even
// after the slot is reoccupied.
//
// # Memory Management
//
// Entries are not garbage collected. An owner must call Remove when its
// scope ends, or Close the table to release everything at once. An entry
// whose owner released it without destroying it stays live until the table
// closes; that leak is intentional and is how release-for-testing works.
package arena
