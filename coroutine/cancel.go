package coroutine

// RegisterCancellable adds fn to the coroutine's cancellation list
// (spec.md §4.5.3). fn runs when the coroutine is cancelled, receiving
// ctx unchanged.
func (c *Coroutine) RegisterCancellable(ctx any, fn func(ctx any)) {
	c.cancellables = append(c.cancellables, &Cancellable{Ctx: ctx, Fn: fn})
}

// Cancel runs every registered cancellable in reverse registration
// order and marks the coroutine StateTerminated (spec.md §4.5.3: a
// cancellable must not itself yield, observe, or otherwise re-enter the
// scheduler; Cancel enforces nothing beyond running them synchronously
// and in strict reverse order, the same discipline the scheduler's
// caller is responsible for in any environment without deferred
// cleanup). The list is cleared once every entry has run, so a second
// Cancel call is a no-op.
func (c *Coroutine) Cancel() {
	for i := len(c.cancellables) - 1; i >= 0; i-- {
		cn := c.cancellables[i]
		cn.Fn(cn.Ctx)
	}
	c.cancellables = nil
	c.SetState(StateTerminated)
}
