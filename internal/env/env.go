// Package env reads typed configuration out of the process environment
// (SPEC_FULL.md §A.3). It is the environment-variable layer of
// instance.Options's three-layer precedence: explicit struct fields,
// then these PURC_*-prefixed variables, then an optional YAML overlay —
// the same order runtime/ir.go's EnvSnapshot captures the process
// environment in and runtime/execution/context.go's CtxOptions/
// EnvOptions layer it underneath explicit fields.
package env

import (
	"os"
	"strconv"
)

// Snapshot is an immutable, filtered view of the process environment,
// grounded on runtime/ir.go's EnvSnapshot ("frozen environment snapshot
// for deterministic execution").
type Snapshot struct {
	values map[string]string
}

// Capture takes a snapshot of every process environment variable whose
// name starts with prefix, with the prefix stripped from the stored
// key ("PURC_KEEP_ALIVE" under prefix "PURC_" is stored as
// "KEEP_ALIVE").
func Capture(prefix string) *Snapshot {
	values := make(map[string]string)
	for _, kv := range os.Environ() {
		key, val, ok := splitKV(kv)
		if !ok || len(key) <= len(prefix) || key[:len(prefix)] != prefix {
			continue
		}
		values[key[len(prefix):]] = val
	}
	return &Snapshot{values: values}
}

func splitKV(kv string) (key, val string, ok bool) {
	for i := 0; i < len(kv); i++ {
		if kv[i] == '=' {
			return kv[:i], kv[i+1:], true
		}
	}
	return "", "", false
}

// Get returns the raw string value for key and whether it was present.
func (s *Snapshot) Get(key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

// String returns the value for key, or def if unset.
func (s *Snapshot) String(key, def string) string {
	if v, ok := s.values[key]; ok {
		return v
	}
	return def
}

// Bool parses the value for key as a bool, or returns def if unset or
// unparseable.
func (s *Snapshot) Bool(key string, def bool) bool {
	v, ok := s.values[key]
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// Int parses the value for key as an int, or returns def if unset or
// unparseable.
func (s *Snapshot) Int(key string, def int) int {
	v, ok := s.values[key]
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
