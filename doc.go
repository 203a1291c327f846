// Package passpipe manages ordered, nested pipelines of IR transformation
// passes: building them, parsing and printing their textual descriptions,
// running them over an in-memory module, and transferring ownership of the
// underlying pipeline state across API boundaries.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	passpipe/            Root package with the Parse/New front door
//	├── manager/         Pass manager lifecycle, capsule transfer, emission hook
//	├── engine/          Pipeline execution over a module with verification
//	├── pipeline/        Textual pipeline grammar: parser, printer, node tree
//	├── registry/        Named pass registration and the builtin passes
//	├── ir/              Operation tree, contexts, verify, textual form
//	├── arena/           Handle table backing native pass-manager state
//	├── emit/            Reference emission backend (C++ source + Python wrapper)
//	├── diag/            Diagnostic accumulation for parse/print calls
//	└── errors/          Structured error types for debugging
//
// # Quick Start
//
// Parse a pipeline and run it over a module:
//
//	ctx := ir.NewContext()
//	defer ctx.Close()
//
//	pm, err := passpipe.Parse("any(canonicalize,cse)", ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer pm.Destroy()
//
//	if err := pm.Run(mod); err != nil {
//	    log.Fatal(err)
//	}
//
// # Pipeline Grammar
//
// A pipeline is a comma-separated list of entries. An entry is either a
// registered pass name, optionally with options in braces, or an operation
// kind followed by a parenthesized nested pipeline:
//
//	canonicalize
//	cse,canonicalize{top-down=false}
//	func(cse,sccp),symbol-dce
//
// The printed form of a manager always wraps the pipeline in its anchor
// operation kind, and re-parsing printed output yields a structurally
// identical pipeline.
//
// # Ownership
//
// A PassManager owns an entry in its Context's arena. Ownership moves exactly
// once via Capsule/FromCapsule; after export the source manager is released
// and rejects further use, and Destroy becomes a no-op. A Context may back
// any number of independently-owned managers, but a single manager must only
// ever be driven by one goroutine.
//
// # Thread Safety
//
// Context and the arena behind it are safe for concurrent use. PassManager
// is NOT thread-safe: mutation and execution are a single-owner contract.
package passpipe
