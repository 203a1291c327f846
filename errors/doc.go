// Package errors provides structured error types for the passpipe library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category). The Error type includes the failing pass name, a human-readable
// detail message, accumulated parser diagnostics, and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseParse, errors.KindUnknownPass).
//		Pass("not-a-pass").
//		Detail("no pass registered under this name").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.ParseFailed(diagnostics)
//	err := errors.NullHandle()
//
// All errors implement the standard error interface and support errors.Is/As.
// The IsParse/IsExecution/IsEmission/IsNullHandle predicates classify an
// error into the four externally visible failure categories.
package errors
