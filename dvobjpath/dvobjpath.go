// Package dvobjpath watches the directories named by PURC_DVOBJS_PATH
// for dynamic object library changes (spec.md §6.5). Only the
// path-watch interface is implemented; loading a dynamic object
// library itself is out of scope (SPEC_FULL.md's DOMAIN STACK table).
package dvobjpath

import (
	"strings"

	"github.com/HVML/PurC-sub012/internal/env"
	"github.com/fsnotify/fsnotify"
)

// pathListSeparator matches the donor's own path-list convention
// (os.PathListSeparator, ':' on POSIX) for PURC_DVOBJS_PATH.
const pathListSeparator = ":"

// ParsePath splits a PURC_DVOBJS_PATH value into its component
// directories, discarding empty segments.
func ParsePath(value string) []string {
	var dirs []string
	for _, d := range strings.Split(value, pathListSeparator) {
		if d != "" {
			dirs = append(dirs, d)
		}
	}
	return dirs
}

// FromEnv reads PURC_DVOBJS_PATH from snap and returns its component
// directories.
func FromEnv(snap *env.Snapshot) []string {
	return ParsePath(snap.String("DVOBJS_PATH", ""))
}

// Watcher notifies callers when a file is added to or removed from one
// of a set of watched directories (spec.md §6.5: "watches
// PURC_DVOBJS_PATH directories so a host can be notified when dynamic
// object libraries are added/removed").
type Watcher struct {
	fsw    *fsnotify.Watcher
	Events chan Event
	errs   chan error
}

// Event is one file-added-or-removed notification under a watched
// directory.
type Event struct {
	Path string
	Op   fsnotify.Op
}

// NewWatcher starts watching every directory in dirs. A directory that
// does not exist yet is skipped rather than treated as fatal, since a
// host may list a PURC_DVOBJS_PATH entry before creating it.
func NewWatcher(dirs []string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, d := range dirs {
		_ = fsw.Add(d) // best-effort: a missing directory simply never fires
	}

	w := &Watcher{fsw: fsw, Events: make(chan Event), errs: make(chan error, 1)}
	go w.pump()
	return w, nil
}

func (w *Watcher) pump() {
	defer close(w.Events)
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.Events <- Event{Path: ev.Name, Op: ev.Op}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			select {
			case w.errs <- err:
			default:
			}
		}
	}
}

// Err returns the most recent watch error, if any, without blocking.
func (w *Watcher) Err() error {
	select {
	case err := <-w.errs:
		return err
	default:
		return nil
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}
