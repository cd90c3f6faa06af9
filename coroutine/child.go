package coroutine

import (
	"fmt"

	"github.com/HVML/PurC-sub012/variant"
	"github.com/HVML/PurC-sub012/vdom"
)

// Message types a curator/child pair exchange over the curator's queue
// (spec.md §4.5.4): callState reports the child's progress back to the
// curator while it runs, subExit is the one message posted when the
// child coroutine has fully exited, and lastMsg tags whichever message
// carries the child's final result so the curator's `<call>` (or
// equivalent) element knows not to wait for more.
const (
	MsgCallState = "callState"
	MsgSubExit   = "subExit"
	MsgLastMsg   = "lastMsg"
)

// WrapperSource builds the synthetic HVML source for a child coroutine
// spawned to run entry as a callable program (spec.md §4.5.4): the
// child is not handed entry's document directly but a tiny generated
// wrapper that calls it and posts its result back, the same indirection
// a `<call>`/`<load>` pair uses so the curator never has to special-case
// "am I running a top-level program or a called one".
func WrapperSource(entryURI string, args *variant.Variant) string {
	_ = args // arguments are bound into the wrapper's scope by the caller, not interpolated into source
	return fmt.Sprintf(`<hvml><body><call on="%s"/></body></hvml>`, entryURI)
}

// Spawn creates a child coroutine for entryURI, wired to curator: the
// child's first cancellable posts MsgSubExit to the curator's queue so
// curator.Step eventually observes the child's completion even if the
// child is cancelled rather than run to natural exit.
func (curator *Coroutine) Spawn(token string, root *vdom.Node, h *variant.Heap) *Coroutine {
	child := New(token, root, h)
	child.Curator = curator
	child.RegisterCancellable(curator, func(ctx any) {
		cur := ctx.(*Coroutine)
		cur.Queue.Push(&Message{
			Type:    MsgSubExit,
			SubType: child.Token,
		})
	})
	return child
}

// ReportCallState posts an MsgCallState message from child to its
// curator, carrying data as the message's payload. It is a no-op if
// child has no curator (a top-level coroutine has nothing to report
// to).
func (child *Coroutine) ReportCallState(data *variant.Variant) {
	if child.Curator == nil {
		return
	}
	child.Curator.Queue.Push(&Message{
		Type:    MsgCallState,
		SubType: child.Token,
		Data:    data,
	})
}

// ReportLastMsg posts the final MsgLastMsg message from child to its
// curator, carrying result. It is a no-op if child has no curator.
func (child *Coroutine) ReportLastMsg(result *variant.Variant) {
	if child.Curator == nil {
		return
	}
	child.Curator.Queue.Push(&Message{
		Type:    MsgLastMsg,
		SubType: child.Token,
		Data:    result,
	})
}
