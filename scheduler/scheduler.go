// Package scheduler implements the coroutine scheduler and event loop
// (spec.md §4.5): a strictly single-threaded cooperative tick loop that
// runs READY coroutines, polls timers, and drains an instance's
// external message queue, grounded directly on spec.md §4.5's own
// five-step tick description — the donor has no single-threaded
// cooperative scheduler of its own (runtime/executor executes one
// request to completion and returns), so the tick loop's shape comes
// from the specification rather than an adapted donor loop. What the
// donor does contribute is the channel/select idiom
// runtime/executor/shell_worker.go uses for draining pending I/O,
// echoed here in how a tick drains the external queue before running
// any coroutine.
package scheduler

import (
	"time"

	"github.com/HVML/PurC-sub012/coroutine"
	"github.com/HVML/PurC-sub012/observer"
)

// Fetcher is a renderer-fetcher collaborator (spec.md §4.5 step 4): an
// external I/O source (a renderer connection, an HTTP fetch) that
// completes asynchronously and hands its result back as queued
// messages the next time the scheduler asks.
type Fetcher interface {
	// Deliver returns any responses that completed since the last call,
	// each already addressed to a target coroutine token.
	Deliver() []ExternalMessage
}

// ExternalMessage is one message crossing into an instance's external
// queue (spec.md §4.5 step 1, §4.5.5), addressed by target coroutine
// token.
type ExternalMessage struct {
	Target  string
	Message *coroutine.Message
}

// Scheduler runs one instance's coroutines (spec.md §4.5).
type Scheduler struct {
	coroutines []*coroutine.Coroutine
	byToken    map[string]*coroutine.Coroutine

	external []ExternalMessage
	timers   *Timers
	fetchers []Fetcher

	// KeepAlive mirrors spec.md §4.5 step 5's `keep_alive`: when set,
	// Idle never reports true, so a caller's loop does not exit merely
	// because no coroutine remains.
	KeepAlive bool
}

// New returns an empty scheduler.
func New() *Scheduler {
	return &Scheduler{
		byToken: make(map[string]*coroutine.Coroutine),
		timers:  NewTimers(),
	}
}

// Register adds co to the scheduler in registration order (spec.md
// §4.5 step 2 dispatches READY coroutines "in registration order").
func (s *Scheduler) Register(co *coroutine.Coroutine) {
	s.coroutines = append(s.coroutines, co)
	s.byToken[co.Token] = co
}

// Unregister removes co from the scheduler, e.g. once it has fully
// exited and its resources have been released.
func (s *Scheduler) Unregister(co *coroutine.Coroutine) {
	delete(s.byToken, co.Token)
	for i, c := range s.coroutines {
		if c == co {
			s.coroutines = append(s.coroutines[:i], s.coroutines[i+1:]...)
			return
		}
	}
}

// AddFetcher registers a renderer-fetcher collaborator consulted at the
// end of every tick.
func (s *Scheduler) AddFetcher(f Fetcher) {
	s.fetchers = append(s.fetchers, f)
}

// Timers exposes the scheduler's timer set so callers can register a
// deadline against a coroutine (e.g. a `<sleep>` element's Logic).
func (s *Scheduler) Timers() *Timers { return s.timers }

// Send appends msg to the external queue, addressed to target. The
// next Tick drains it into target's own Queue.
func (s *Scheduler) Send(target string, msg *coroutine.Message) {
	s.external = append(s.external, ExternalMessage{Target: target, Message: msg})
}

// Tick runs exactly one scheduler cycle (spec.md §4.5, steps 1-4). now
// is the instant Tick treats as "now" for timer polling; callers pass
// time.Now() outside of tests.
func (s *Scheduler) Tick(now time.Time) {
	s.drainExternal()
	s.runReady()
	s.pollTimers(now)
	s.drainFetchers()
}

// drainExternal moves every pending external message into its target
// coroutine's own queue (spec.md §4.5 step 1).
func (s *Scheduler) drainExternal() {
	for _, em := range s.external {
		if co, ok := s.byToken[em.Target]; ok {
			co.Queue.Push(em.Message)
		}
	}
	s.external = nil
}

// runReady runs every READY coroutine's outermost frame to its next
// cooperative suspension point, in registration order (spec.md §4.5
// step 2). A coroutine pulls at most one queued message per tick
// (spec.md §4.7) before running.
func (s *Scheduler) runReady() {
	for _, co := range s.coroutines {
		if co.RawState() != coroutine.StateReady {
			continue
		}
		if msg := co.Queue.Pop(); msg != nil {
			co.DispatchIntr(&observer.Msg{
				Source:  msg.ElementValue,
				Type:    msg.Type,
				SubType: msg.SubType,
				Data:    msg.Data,
			})
			co.DispatchHVML(&observer.Msg{
				Source:  msg.ElementValue,
				Type:    msg.Type,
				SubType: msg.SubType,
				Data:    msg.Data,
			})
		}

		co.SetState(coroutine.StateRunning)
		for co.RawState() == coroutine.StateRunning {
			if co.Depth() == 0 {
				co.SetState(coroutine.StateExited)
				break
			}
			if !co.Step() {
				co.SetState(coroutine.StateExited)
				break
			}
		}
	}
}

// pollTimers transitions every expired timer's coroutine to READY with
// a synthetic "expired" event (spec.md §4.5 step 3).
func (s *Scheduler) pollTimers(now time.Time) {
	for _, timer := range s.timers.Poll(now) {
		co, ok := s.byToken[timer.Token]
		if !ok {
			continue
		}
		co.DispatchIntr(&observer.Msg{Type: "expired"})
		if co.RawState() == coroutine.StateObserving || co.RawState() == coroutine.StateStopped {
			co.SetState(coroutine.StateReady)
		}
	}
}

// drainFetchers asks every registered Fetcher for pending responses and
// queues them as external messages for the next tick (spec.md §4.5
// step 4).
func (s *Scheduler) drainFetchers() {
	for _, f := range s.fetchers {
		for _, em := range f.Deliver() {
			s.Send(em.Target, em.Message)
		}
	}
}

// Idle reports whether the scheduler has nothing left to do: no READY
// coroutine, and (unless KeepAlive is set) no coroutine at all (spec.md
// §4.5 step 5). A coroutine that has exited or been terminated no longer
// counts, even while it is still registered.
func (s *Scheduler) Idle() bool {
	live := 0
	for _, co := range s.coroutines {
		switch co.RawState() {
		case coroutine.StateReady:
			return false
		case coroutine.StateExited, coroutine.StateTerminated:
		default:
			live++
		}
	}
	if s.KeepAlive {
		return false
	}
	return live == 0
}

// SleepDuration reports how long a caller's loop can sleep before the
// next Tick when no coroutine is READY but some remain blocked on a timer: the
// time until the nearest pending deadline, or zero if none is pending
// (spec.md §4.5 step 5: "sleep until the nearest deadline or until
// external input").
func (s *Scheduler) SleepDuration(now time.Time) time.Duration {
	deadline, ok := s.timers.NextDeadline()
	if !ok {
		return 0
	}
	if d := deadline.Sub(now); d > 0 {
		return d
	}
	return 0
}
