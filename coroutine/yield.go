package coroutine

import "github.com/HVML/PurC-sub012/observer"

// Yield registers obs and parks the coroutine until a matching message
// is dispatched to it (spec.md §4.5.2). useIntr selects which of the
// coroutine's two observer lists obs is registered on: true for an
// internal/system wait (e.g. a `<sleep>` timer, a request/response
// correlation), false for an HVML-level `<observe>` element. The
// coroutine's State moves to StateObserving; the scheduler must not
// call Step again for this coroutine until a Dispatch resumes it by
// moving State back to StateReady.
//
// obs.Handle is responsible for writing whatever result the waiting
// frame needs (typically into fr.ResultFromChild) and setting
// fr.NextStep before returning, since Step resumes exactly where the
// frame's NextStep says once the coroutine is READY again.
func (c *Coroutine) Yield(obs *observer.Observer[*Coroutine], useIntr bool) {
	if useIntr {
		c.IntrObservers.Register(obs)
	} else {
		c.HVMLObservers.Register(obs)
	}
	c.SetState(StateObserving)
}

// Resume moves the coroutine back to StateReady. Observer.Handle
// callbacks call this after they've set up the frame state the
// coroutine should continue from.
func (c *Coroutine) Resume() {
	c.SetState(StateReady)
}

// DispatchIntr delivers msg to the coroutine's internal observer list
// (spec.md §4.5.2, §4.7).
func (c *Coroutine) DispatchIntr(msg *observer.Msg) error {
	return c.IntrObservers.Dispatch(c, msg)
}

// DispatchHVML delivers msg to the coroutine's HVML-level `<observe>`
// observer list.
func (c *Coroutine) DispatchHVML(msg *observer.Msg) error {
	return c.HVMLObservers.Dispatch(c, msg)
}
