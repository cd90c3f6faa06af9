// Package observer implements the per-coroutine observer subsystem of
// spec.md §4.6: two ordered observer lists live per coroutine stack
// (intr_observers, registered by the scheduler for `yield`; and
// hvml_observers, registered by `<observe on=… for=…>`). An incoming
// event is matched against every observer in registration order, and
// every observer whose criteria match is dispatched, not just the
// first.
//
// The ordered, mutex-protected registration list is grounded on
// core/decorators/registry.go's Registry (registration-order maps
// guarded by a single sync.RWMutex) and core/decorator/registry.go's
// simpler auto-inferring Registry, generalized from "one registration,
// one lookup by name" to "every dispatch walks the whole list and fires
// every match" — spec.md §4.6 dispatches to *all* observers whose
// is_match returns true, not to a single named entry, so List has no
// name-keyed map, only an append-ordered slice plus an id index for
// revocation.
package observer

import (
	"sync"

	"github.com/HVML/PurC-sub012/variant"
	"github.com/HVML/PurC-sub012/vdom"
)

// CorStage and CorState name the "required stage/state of the
// coroutine" spec.md §4.6 gives each observer; the coroutine package
// defines the concrete values. Zero means "any" in both. The coroutine
// package's first stage and state (StageScheduled, StateReady) are also
// zero, so an observer cannot require exactly those two.
type CorStage int
type CorState int

const (
	AnyStage CorStage = 0
	AnyState CorState = 0
)

// Info is the minimal coroutine surface a List needs: enough to filter
// observers by CorStage/CorState before running the finer-grained
// IsMatch predicate. The coroutine package implements this on its
// concrete coroutine type; this package stays agnostic of everything
// else a coroutine is.
type Info interface {
	Stage() CorStage
	State() CorState
}

// Msg is one event delivered to a coroutine's observer lists.
type Msg struct {
	Source  *variant.Variant // the variant (often wrapping a DOM element) the event concerns
	Type    string
	SubType string
	Data    *variant.Variant
}

// Observer is one registered watch (spec.md §4.6). C is the coroutine
// reference type passed to IsMatch/Handle/OnRevoke.
type Observer[C Info] struct {
	Observed *variant.Variant // the variant being watched
	Type     string
	SubType  string // empty means any
	Scope    *vdom.Node
	Pos      *vdom.Node

	IsMatch func(cor C, obs *Observer[C], msg *Msg) bool
	Handle  func(cor C, obs *Observer[C], msg *Msg) (int, error)

	AutoRemove bool
	CorStage   CorStage
	CorState   CorState
	OnRevoke   func(cor C, obs *Observer[C])

	id uint64
}

// ID returns the handle List.Revoke needs to remove this observer. It
// is zero until the observer has been registered.
func (o *Observer[C]) ID() uint64 { return o.id }

// List is an ordered observer list: spec.md §4.6's intr_observers or
// hvml_observers; each coroutine holds one of each.
type List[C Info] struct {
	mu     sync.Mutex
	items  []*Observer[C]
	nextID uint64
}

// NewList returns an empty observer list.
func NewList[C Info]() *List[C] {
	return &List[C]{}
}

// Register appends obs in registration order and assigns it a
// revocation handle.
func (l *List[C]) Register(obs *Observer[C]) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.nextID++
	obs.id = l.nextID
	l.items = append(l.items, obs)
	return obs.id
}

// Revoke drops the observer with the given id from the list and
// invokes its OnRevoke callback, if set. Returns false if no such
// observer is registered.
func (l *List[C]) Revoke(cor C, id uint64) bool {
	l.mu.Lock()
	obs, idx := l.find(id)
	if obs == nil {
		l.mu.Unlock()
		return false
	}
	l.items = append(l.items[:idx], l.items[idx+1:]...)
	l.mu.Unlock()

	if obs.OnRevoke != nil {
		obs.OnRevoke(cor, obs)
	}
	return true
}

func (l *List[C]) find(id uint64) (*Observer[C], int) {
	for i, o := range l.items {
		if o.id == id {
			return o, i
		}
	}
	return nil, -1
}

// Len reports how many observers are currently registered.
func (l *List[C]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}

// Dispatch delivers msg to every observer in the list, in registration
// order, whose CorStage/CorState (when not AnyStage/AnyState) match
// cor's and whose IsMatch returns true (spec.md §4.6). Observers
// marked AutoRemove are revoked right after a dispatch that returns a
// nil error. Dispatch takes a snapshot of the list before iterating,
// so a Handle callback that registers or revokes observers does not
// perturb the current delivery.
func (l *List[C]) Dispatch(cor C, msg *Msg) error {
	l.mu.Lock()
	snapshot := append([]*Observer[C](nil), l.items...)
	l.mu.Unlock()

	var firstErr error
	for _, obs := range snapshot {
		if obs.CorStage != AnyStage && obs.CorStage != cor.Stage() {
			continue
		}
		if obs.CorState != AnyState && obs.CorState != cor.State() {
			continue
		}
		if !obs.IsMatch(cor, obs, msg) {
			continue
		}
		_, err := obs.Handle(cor, obs, msg)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if obs.AutoRemove {
			l.Revoke(cor, obs.id)
		}
	}
	return firstErr
}
