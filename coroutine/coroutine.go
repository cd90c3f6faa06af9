// Package coroutine implements the HVML coroutine (spec.md §3.5): one
// vDOM reference, a stack of frames, a message queue, a scoped-variable
// tree, the observer lists registered against it, and the frame
// execution cycle the scheduler drives one step at a time (spec.md
// §4.5.1-§4.5.4).
//
// The explicit frame-stack-plus-next_step design mirrors how the donor
// structures long-running, resumable work without native stackful
// coroutines: runtime/executor/executor.go's step/telemetry bookkeeping
// and runtime/executor/tree_runner.go's recursive tree walk are both
// single-shot, run-to-completion designs, so neither is a direct model
// for suspend/resume; the donor has no cooperative-coroutine subsystem
// of its own. What IS grounded on the donor is the state and stage
// tracking style: explicit named stage/state fields advanced by
// discrete transitions, the same shape core/sdk/executor's and
// runtime/executor/session_runtime.go's lifecycle states use, just with
// the concrete stage/state vocabulary spec.md §3.5 specifies instead of
// the donor's own.
package coroutine

import (
	"github.com/HVML/PurC-sub012/observer"
	"github.com/HVML/PurC-sub012/scopevar"
	"github.com/HVML/PurC-sub012/variant"
	"github.com/HVML/PurC-sub012/vdom"
)

// Stage is a coroutine's lifecycle stage (spec.md §3.5). Stage advances
// monotonically: SCHEDULED -> FIRST_RUN -> OBSERVING -> CLEANUP.
type Stage int

const (
	StageScheduled Stage = iota
	StageFirstRun
	StageObserving
	StageCleanup
)

// State is a coroutine's runtime state (spec.md §3.5), independent of
// Stage.
type State int

const (
	StateReady State = iota
	StateRunning
	StateStopped
	StateObserving
	StateExited
	StateTerminated
	StateTracked
)

// Cancellable is one entry on a coroutine's cancellation list (spec.md
// §4.5.3).
type Cancellable struct {
	Ctx any
	Fn  func(ctx any)
}

// Coroutine is one HVML coroutine (spec.md §3.5).
type Coroutine struct {
	Token string
	VDOM  *vdom.Node

	stage Stage
	state State

	stack []*Frame

	Queue *Queue

	Scopes *scopevar.Manager

	IntrObservers *observer.List[*Coroutine]
	HVMLObservers *observer.List[*Coroutine]

	Logic *Registry

	cancellables []*Cancellable

	// Curator is the parent coroutine that spawned this one as a child
	// (spec.md §4.5.4), nil for a top-level coroutine.
	Curator *Coroutine

	heap *variant.Heap
}

// New returns a coroutine positioned at StageScheduled/StateReady, with
// an empty stack and fresh queue/scope manager/observer lists.
func New(token string, root *vdom.Node, h *variant.Heap) *Coroutine {
	return &Coroutine{
		Token:         token,
		VDOM:          root,
		stage:         StageScheduled,
		state:         StateReady,
		Queue:         NewQueue(h),
		Scopes:        scopevar.NewManager(),
		IntrObservers: observer.NewList[*Coroutine](),
		HVMLObservers: observer.NewList[*Coroutine](),
		Logic:         NewRegistry(),
		heap:          h,
	}
}

// Stage returns the coroutine's lifecycle stage.
func (c *Coroutine) Stage() observer.CorStage { return observer.CorStage(c.stage) }

// State returns the coroutine's runtime state, satisfying observer.Info
// so c can drive an observer.List[*Coroutine] directly.
func (c *Coroutine) State() observer.CorState { return observer.CorState(c.state) }

// RawStage returns the coroutine's Stage as this package's own type,
// for callers that don't need the observer.Info bridge.
func (c *Coroutine) RawStage() Stage { return c.stage }

// RawState returns the coroutine's State as this package's own type.
func (c *Coroutine) RawState() State { return c.state }

// Advance moves the coroutine to the next lifecycle stage. It panics if
// called on a coroutine already at StageCleanup, since stage only moves
// forward (spec.md §3.5: "stage advances monotonically").
func (c *Coroutine) Advance() {
	switch c.stage {
	case StageScheduled:
		c.stage = StageFirstRun
	case StageFirstRun:
		c.stage = StageObserving
	case StageObserving:
		c.stage = StageCleanup
	default:
		panic("coroutine: stage already at CLEANUP")
	}
}

// SetState sets the coroutine's runtime state.
func (c *Coroutine) SetState(s State) { c.state = s }

// Heap returns the variant heap this coroutine's instance owns.
func (c *Coroutine) Heap() *variant.Heap { return c.heap }

// Top returns the innermost (currently executing) frame, or nil if the
// stack is empty.
func (c *Coroutine) Top() *Frame {
	if len(c.stack) == 0 {
		return nil
	}
	return c.stack[len(c.stack)-1]
}

// Push pushes fr onto the frame stack.
func (c *Coroutine) Push(fr *Frame) {
	c.stack = append(c.stack, fr)
}

// Pop removes and returns the innermost frame, or nil if the stack is
// empty.
func (c *Coroutine) Pop() *Frame {
	if len(c.stack) == 0 {
		return nil
	}
	fr := c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
	return fr
}

// Depth reports how many frames are currently on the stack.
func (c *Coroutine) Depth() int { return len(c.stack) }
