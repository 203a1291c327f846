// Package engine executes a pass pipeline over a module.
//
// Execution is strictly ordered and depth-first: leaf passes run against
// each target operation in declared order, and nested entries run once per
// operation matching their anchor, in the module's pre-order traversal.
// With verification enabled the module is re-verified after every pass
// application and the run aborts on the first violation.
//
// Pass and verifier failures surface as a single generic execution error;
// per-pass detail is emitted only on the package logger. A failed run
// leaves the module partially transformed; callers that need recovery
// should run against a discarded clone.
package engine
