// Package ir provides the in-memory program representation the pass
// pipeline operates on: a tree of operations under a module root, plus the
// compilation context that owns session-scoped state.
//
// The representation is deliberately small. An operation has a kind, an
// optional symbol, ordered string attributes, and ordered children. Passes
// transform modules by rewriting the children slices in place.
//
// # Textual Form
//
// Modules round-trip through a textual form used by the CLI and tests:
//
//	module (
//	  func @main {visibility=public} (
//	    arith.const @c0 {value=1}
//	    return
//	  )
//	)
//
// An operation is its kind, an optional @symbol, optional {key=value ...}
// attributes, and an optional parenthesized body of child operations.
package ir
