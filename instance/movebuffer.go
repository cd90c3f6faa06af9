package instance

import (
	"sync"

	"github.com/fxamacker/cbor/v2"
)

// MoveBuffer is the per-instance inbox spec.md §4.5.5 describes: other
// instances append CBOR-encoded WireMessages to it; the owning
// instance drains it once per tick. "Queues are protected by a
// lightweight mutex but carry ownership-transferred variants, not
// shared references" (spec.md §5) — encoding to bytes on Push and
// decoding on Drain is what actually enforces that: there is no shared
// *variant.Variant a misbehaving sender could keep mutating after
// handing it off.
type MoveBuffer struct {
	mu    sync.Mutex
	items [][]byte
}

// NewMoveBuffer returns an empty move buffer.
func NewMoveBuffer() *MoveBuffer { return &MoveBuffer{} }

// Push encodes msg and appends it. A marshal error (only possible for
// a WireValue this package itself failed to populate correctly) is
// swallowed rather than propagated, since spec.md gives a sender no
// synchronous error channel back from "append to the target's move
// buffer" — the caller already received WireMessage as a value it
// built itself and has no way to retry differently.
func (b *MoveBuffer) Push(msg WireMessage) {
	data, err := cbor.Marshal(msg)
	if err != nil {
		return
	}
	b.mu.Lock()
	b.items = append(b.items, data)
	b.mu.Unlock()
}

// DrainAll removes and decodes every pending message, in arrival order.
func (b *MoveBuffer) DrainAll() []WireMessage {
	b.mu.Lock()
	items := b.items
	b.items = nil
	b.mu.Unlock()

	out := make([]WireMessage, 0, len(items))
	for _, data := range items {
		var wm WireMessage
		if err := cbor.Unmarshal(data, &wm); err != nil {
			continue
		}
		out = append(out, wm)
	}
	return out
}

// Len reports how many messages are currently pending.
func (b *MoveBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items)
}
