package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseParse    Phase = "parse"    // pipeline text parsing
	PhaseRun      Phase = "run"      // pipeline execution
	PhaseEmit     Phase = "emit"     // source emission
	PhaseTransfer Phase = "transfer" // capsule export/import
)

// Kind categorizes the error
type Kind string

const (
	KindInvalidPipeline Kind = "invalid_pipeline"
	KindUnknownPass     Kind = "unknown_pass"
	KindInvalidOption   Kind = "invalid_option"
	KindPassFailed      Kind = "pass_failed"
	KindVerifyFailed    Kind = "verify_failed"
	KindPrecondition    Kind = "precondition"
	KindInvalidInput    Kind = "invalid_input"
	KindIO              Kind = "io"
	KindNullHandle      Kind = "null_handle"
	KindReleased        Kind = "released"
)

// Error is the structured error type used throughout the library
type Error struct {
	Cause      error
	Phase      Phase
	Kind       Kind
	PassName   string
	Detail     string
	Diagnostic string // joined parser/printer diagnostics, if any
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.PassName != "" {
		b.WriteString(" in pass ")
		b.WriteString(e.PassName)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Diagnostic != "" {
		b.WriteString(": ")
		b.WriteString(e.Diagnostic)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Pass sets the failing pass name
func (b *Builder) Pass(name string) *Builder {
	b.err.PassName = name
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Diagnostic sets the accumulated diagnostic text
func (b *Builder) Diagnostic(text string) *Builder {
	b.err.Diagnostic = text
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// ParseFailed creates a parse error carrying accumulated diagnostics
func ParseFailed(diagnostic string) *Error {
	return &Error{
		Phase:      PhaseParse,
		Kind:       KindInvalidPipeline,
		Detail:     "failed to parse pass pipeline",
		Diagnostic: diagnostic,
	}
}

// UnknownPass creates an unknown pass name error
func UnknownPass(name string, diagnostic string) *Error {
	return &Error{
		Phase:      PhaseParse,
		Kind:       KindUnknownPass,
		PassName:   name,
		Detail:     "no pass registered under this name",
		Diagnostic: diagnostic,
	}
}

// InvalidOption creates a pass option validation error
func InvalidOption(passName string, cause error) *Error {
	return &Error{
		Phase:    PhaseParse,
		Kind:     KindInvalidOption,
		PassName: passName,
		Detail:   "invalid pass options",
		Cause:    cause,
	}
}

// ExecutionFailed creates the generic pipeline execution error.
// Per-pass failure detail is intentionally not carried here; it is only
// observable on the engine's log channel.
func ExecutionFailed() *Error {
	return &Error{
		Phase:  PhaseRun,
		Kind:   KindPassFailed,
		Detail: "failure while executing pass pipeline",
	}
}

// VerifyFailed creates a post-pass verification error
func VerifyFailed() *Error {
	return &Error{
		Phase:  PhaseRun,
		Kind:   KindVerifyFailed,
		Detail: "module verification failed after pass application",
	}
}

// EmissionFailed creates a source emission error
func EmissionFailed(cause error) *Error {
	return &Error{
		Phase:  PhaseEmit,
		Kind:   KindIO,
		Detail: "failure while emitting generated sources",
		Cause:  cause,
	}
}

// EmissionPrecondition creates an error for a module the backend rejects
func EmissionPrecondition(detail string) *Error {
	return &Error{
		Phase:  PhaseEmit,
		Kind:   KindPrecondition,
		Detail: detail,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// NullHandle creates an error for importing an empty capsule
func NullHandle() *Error {
	return &Error{
		Phase:  PhaseTransfer,
		Kind:   KindNullHandle,
		Detail: "capsule does not wrap a live pass manager",
	}
}

// Released creates an error for using a manager after its ownership was given up
func Released(phase Phase, op string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindReleased,
		Detail: fmt.Sprintf("%s called on a released pass manager", op),
	}
}

func isPhase(err error, phase Phase) bool {
	var e *Error
	if !stderrors.As(err, &e) {
		return false
	}
	return e.Phase == phase
}

// IsParse reports whether err is a pipeline parse error
func IsParse(err error) bool { return isPhase(err, PhaseParse) }

// IsExecution reports whether err is a pipeline execution error
func IsExecution(err error) bool { return isPhase(err, PhaseRun) }

// IsEmission reports whether err is a source emission error
func IsEmission(err error) bool { return isPhase(err, PhaseEmit) }

// IsNullHandle reports whether err is a null capsule import error
func IsNullHandle(err error) bool {
	var e *Error
	if !stderrors.As(err, &e) {
		return false
	}
	return e.Phase == PhaseTransfer && e.Kind == KindNullHandle
}
