// Package instance implements the per-runtime-instance container
// (spec.md §2): one instance owns exactly one variant.Heap, one
// scheduler.Scheduler, and one move buffer for cross-instance message
// passing (spec.md §4.5.5). An instance pins one OS thread (§5); see
// internal/threadaffinity for the debug-build assertion of that
// invariant.
package instance

import (
	"os"

	"github.com/HVML/PurC-sub012/internal/env"
	"gopkg.in/yaml.v3"
)

// Options configures a new Instance (SPEC_FULL.md §A.3). Three layers
// populate it, in the donor's own precedence order: explicit fields set
// by the caller, then PURC_*-prefixed environment variables (internal/
// env), then an optional YAML overlay — each layer only fills in a
// field the previous layer left at its zero value.
type Options struct {
	Name       string `yaml:"name"`
	KeepAlive  bool   `yaml:"keep_alive"`
	MoveBuffer string `yaml:"move_buffer_name"`
}

// DefaultOptions returns the zero-configuration defaults: an empty name
// (the caller must still set one or ApplyEnv/LoadYAML must supply it),
// KeepAlive false, and a move buffer name equal to Name.
func DefaultOptions() Options {
	return Options{}
}

// ApplyEnv fills any still-zero-valued field of opts from PURC_*
// environment variables: PURC_NAME, PURC_KEEP_ALIVE, PURC_MOVE_BUFFER.
func (opts Options) ApplyEnv() Options {
	snap := env.Capture("PURC_")
	if opts.Name == "" {
		opts.Name = snap.String("NAME", opts.Name)
	}
	if !opts.KeepAlive {
		opts.KeepAlive = snap.Bool("KEEP_ALIVE", opts.KeepAlive)
	}
	if opts.MoveBuffer == "" {
		opts.MoveBuffer = snap.String("MOVE_BUFFER", opts.MoveBuffer)
	}
	return opts
}

// LoadYAML overlays opts with any field set in the YAML document at
// path, without touching a field the document leaves absent. It is the
// lowest-precedence layer: callers apply it after explicit fields and
// ApplyEnv have already been layered in, or use it alone for a
// file-only configuration.
func LoadYAML(path string, opts Options) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return opts, err
	}
	var overlay Options
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return opts, err
	}
	if opts.Name == "" {
		opts.Name = overlay.Name
	}
	if !opts.KeepAlive {
		opts.KeepAlive = overlay.KeepAlive
	}
	if opts.MoveBuffer == "" {
		opts.MoveBuffer = overlay.MoveBuffer
	}
	return opts, nil
}
