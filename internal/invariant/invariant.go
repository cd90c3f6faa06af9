// Package invariant provides contract assertions used throughout the
// interpreter engine. A violation here is a programming error in the
// engine itself, never a malformed HVML program — those are reported
// through internal/errcode instead.
package invariant

import (
	"fmt"
	"reflect"
	"runtime"
)

// Precondition panics if condition is false. Use at function entry to
// validate arguments and caller expectations.
func Precondition(condition bool, format string, args ...interface{}) {
	if !condition {
		fail("PRECONDITION", format, args...)
	}
}

// Postcondition panics if condition is false. Use before return to
// validate a function's own guarantees.
func Postcondition(condition bool, format string, args ...interface{}) {
	if !condition {
		fail("POSTCONDITION", format, args...)
	}
}

// Invariant panics if condition is false. Use for loop progress and
// internal state consistency checks.
func Invariant(condition bool, format string, args ...interface{}) {
	if !condition {
		fail("INVARIANT", format, args...)
	}
}

// NotNil panics if value is nil, including a typed nil pointer/interface.
func NotNil(value interface{}, name string) {
	if value == nil || isNilValue(value) {
		fail("PRECONDITION", "%s must not be nil", name)
	}
}

func isNilValue(value interface{}) bool {
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func:
		return v.IsNil()
	default:
		return false
	}
}

// InRange panics if value is outside [minVal, maxVal].
func InRange(value, minVal, maxVal int, name string) {
	if value < minVal || value > maxVal {
		fail("PRECONDITION", "%s must be in range [%d, %d], got %d", name, minVal, maxVal, value)
	}
}

// NonNegative panics if value < 0. Refcounts and sizes use this.
func NonNegative(value int, name string) {
	if value < 0 {
		fail("INVARIANT", "%s must not be negative, got %d", name, value)
	}
}

// ExpectNoError panics if err is not nil. Use for operations the engine
// itself must never fail at (e.g. re-serializing what it just parsed).
func ExpectNoError(err error, msg string) {
	if err != nil {
		fail("POSTCONDITION", "%s must not fail: %v", msg, err)
	}
}

func fail(kind, format string, args ...interface{}) {
	pc := make([]uintptr, 8)
	n := runtime.Callers(3, pc)
	frames := runtime.CallersFrames(pc[:n])

	msg := fmt.Sprintf("%s VIOLATION: "+format, append([]interface{}{kind}, args...)...)
	if frame, ok := frames.Next(); ok {
		msg += fmt.Sprintf("\n  at %s:%d", frame.File, frame.Line)
	}
	panic(msg)
}
