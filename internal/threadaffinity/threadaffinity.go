// Package threadaffinity asserts, in debug builds, that a
// *instance.Instance's goroutine stays pinned to one OS thread (spec.md
// §5: "One OS thread per instance"). It is the sole consumer of
// golang.org/x/sys/unix in this module (SPEC_FULL.md's DOMAIN STACK
// table): everywhere else the engine avoids raw syscalls, but
// confirming a goroutine never migrated off its locked OS thread needs
// the real Linux thread id, which runtime offers no portable way to
// read.
//
// Guard pairs runtime.LockOSThread (which only prevents the Go
// scheduler from moving work off the thread, and says nothing about
// whether it already did before locking) with a Linux-only Gettid
// check, a platform gap the standard library documents rather than
// closing.
package threadaffinity

import "runtime"

// Guard locks the calling goroutine to its current OS thread and
// records the thread id so a later Check call can confirm nothing has
// moved it.
type Guard struct {
	tid       int
	supported bool
}

// New locks the calling goroutine to its current OS thread and returns
// a Guard that can later verify it hasn't migrated. Callers should call
// New from the same goroutine an *instance.Instance will run its
// scheduler loop on.
func New() *Guard {
	runtime.LockOSThread()
	tid, ok := currentThreadID()
	return &Guard{tid: tid, supported: ok}
}

// Check reports whether the calling goroutine is still running on the
// OS thread New observed. On a platform with no supported thread-id
// lookup, Check always returns true: there is nothing to violate that
// this package can detect.
func (g *Guard) Check() bool {
	if !g.supported {
		return true
	}
	tid, ok := currentThreadID()
	if !ok {
		return true
	}
	return tid == g.tid
}

// Unlock releases the OS thread lock New established.
func (g *Guard) Unlock() {
	runtime.UnlockOSThread()
}
