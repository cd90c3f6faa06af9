// Package errcode implements the thread-local error reporting model of
// spec.md §7: every fallible operation sets a code (and optional free
// text) that the caller can read back, instead of only returning a
// sentinel zero value.
package errcode

import "fmt"

// Code enumerates the error kinds named in spec.md §7. Not exhaustive by
// design — new codes are added as operations need them, matching the
// donor's open-ended Code-plus-context error shape (sink_error.go,
// parser/errors.go).
type Code int

const (
	OK Code = iota
	InvalidValue
	OutOfMemory
	NotExists
	Duplicated
	NoSuchKey
	WrongDataType
	TooLong
	TooMany
	ArgumentMissed
	DivByZero
	Overflow
	Timeout
	EntityNotFound
	NotDesiredEntity
	BadName
	InternalFailure
	NotSupported
	Again // distinguished control-flow code, spec.md §7: evaluator yields
)

func (c Code) String() string {
	switch c {
	case OK:
		return "OK"
	case InvalidValue:
		return "INVALID_VALUE"
	case OutOfMemory:
		return "OUT_OF_MEMORY"
	case NotExists:
		return "NOT_EXISTS"
	case Duplicated:
		return "DUPLICATED"
	case NoSuchKey:
		return "NO_SUCH_KEY"
	case WrongDataType:
		return "WRONG_DATA_TYPE"
	case TooLong:
		return "TOO_LONG"
	case TooMany:
		return "TOO_MANY"
	case ArgumentMissed:
		return "ARGUMENT_MISSED"
	case DivByZero:
		return "DIVBYZERO"
	case Overflow:
		return "OVERFLOW"
	case Timeout:
		return "TIMEOUT"
	case EntityNotFound:
		return "ENTITY_NOT_FOUND"
	case NotDesiredEntity:
		return "NOT_DESIRED_ENTITY"
	case BadName:
		return "BAD_NAME"
	case InternalFailure:
		return "INTERNAL_FAILURE"
	case NotSupported:
		return "NOT_SUPPORTED"
	case Again:
		return "AGAIN"
	default:
		return fmt.Sprintf("ERRCODE(%d)", int(c))
	}
}

// Error is the typed error value fallible operations return. It also
// carries Info, a free-form detail string (the key that was missing,
// the type that failed to cast, ...).
type Error struct {
	Code Code
	Info string
}

func (e *Error) Error() string {
	if e.Info == "" {
		return e.Code.String()
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Info)
}

// New builds an *Error for the given code.
func New(code Code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Info: fmt.Sprintf(format, args...)}
}

// Is reports whether err is an *Error with the given code, so callers
// can do `if errcode.Is(err, errcode.NoSuchKey)`.
func Is(err error, code Code) bool {
	e, ok := err.(*Error)
	return ok && e.Code == code
}

// State is a thread-local (per-instance, since spec.md §5 pins one
// instance to one OS thread) last-error slot. *instance.Instance does
// not hold one; a caller keeps its own. Dynamic-variant libraries and
// container operations that don't want to force a Go error return can
// instead call State.Set and let the caller inspect State.Last()
// afterward, mirroring PurC's global purc_get_last_error().
type State struct {
	last *Error
}

// Set records err as the most recent error. Set(nil) clears it.
func (s *State) Set(err *Error) { s.last = err }

// SetCode is shorthand for Set(New(code, format, args...)).
func (s *State) SetCode(code Code, format string, args ...interface{}) {
	s.last = New(code, format, args...)
}

// Clear resets the last error to none.
func (s *State) Clear() { s.last = nil }

// Last returns the most recently recorded error, or nil.
func (s *State) Last() *Error { return s.last }
