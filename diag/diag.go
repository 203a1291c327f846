// Package diag accumulates diagnostic text emitted through callbacks during
// a single parse or print call, and exposes it as one joined string.
package diag

import (
	"fmt"
	"strings"
)

// Accumulator collects diagnostic fragments in emission order.
// The zero value is ready to use. Not safe for concurrent use; an
// accumulator belongs to exactly one parse/print call.
type Accumulator struct {
	parts []string
}

// Report appends one diagnostic fragment.
func (a *Accumulator) Report(fragment string) {
	a.parts = append(a.parts, fragment)
}

// Reportf appends one formatted diagnostic fragment.
func (a *Accumulator) Reportf(format string, args ...any) {
	a.parts = append(a.parts, fmt.Sprintf(format, args...))
}

// Callback returns the fragment sink to hand to a parser or printer.
func (a *Accumulator) Callback() func(string) {
	return a.Report
}

// Empty reports whether nothing has been accumulated.
func (a *Accumulator) Empty() bool {
	return len(a.parts) == 0
}

// Join returns all fragments concatenated in emission order.
func (a *Accumulator) Join() string {
	return strings.Join(a.parts, "")
}

// Reset discards accumulated fragments so the accumulator can be reused.
func (a *Accumulator) Reset() {
	a.parts = a.parts[:0]
}
