package instance

import (
	"sync"

	"github.com/HVML/PurC-sub012/internal/atom"
	"github.com/HVML/PurC-sub012/scheduler"
	"github.com/HVML/PurC-sub012/variant"
)

// Instance is one runtime instance (spec.md §2): the unit that owns a
// variant heap, a coroutine scheduler, and a move buffer other
// instances send to.
type Instance struct {
	Name      string
	Options   Options
	Heap      *variant.Heap
	Atoms     *atom.Registry
	Scheduler *scheduler.Scheduler
	Move      *MoveBuffer
}

// registry is the process-global directory of published move buffers
// (spec.md §4.5.5: "Instances publish their move buffer atom at
// startup"). It is process-global by necessity: a sender has no other
// way to address an instance it does not otherwise hold a reference to.
var registry = struct {
	mu  sync.RWMutex
	byName map[string]*Instance
}{byName: make(map[string]*Instance)}

// New constructs an Instance from opts and publishes its move buffer
// under opts.Name so other instances can address it (spec.md §4.5.5).
func New(opts Options) *Instance {
	inst := &Instance{
		Name:      opts.Name,
		Options:   opts,
		Heap:      variant.NewHeap(),
		Atoms:     atom.NewRegistry(),
		Scheduler: scheduler.New(),
		Move:      NewMoveBuffer(),
	}
	inst.Scheduler.KeepAlive = opts.KeepAlive
	inst.publish()
	return inst
}

func (inst *Instance) publish() {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.byName[inst.Name] = inst
}

// Unpublish removes inst from the process-global directory, e.g. once
// it has shut down and its move buffer should no longer be reachable.
func (inst *Instance) Unpublish() {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	delete(registry.byName, inst.Name)
}

// Lookup finds a published instance by name.
func Lookup(name string) (*Instance, bool) {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	inst, ok := registry.byName[name]
	return inst, ok
}

// SendTo delivers msg to the named instance's move buffer (spec.md
// §4.5.5). The message is CBOR-encoded immediately, since the sender
// and receiver do not share a heap: msg.Data already holds the
// move-out (WireValue) form of its payload, which is re-materialized
// (move-in) only when the target drains its buffer.
func SendTo(name string, msg WireMessage) error {
	inst, ok := Lookup(name)
	if !ok {
		return ErrUnknownInstance{Name: name}
	}
	inst.Move.Push(msg)
	return nil
}

// ErrUnknownInstance is returned by SendTo when no instance is
// published under the given name.
type ErrUnknownInstance struct{ Name string }

func (e ErrUnknownInstance) Error() string {
	return "instance: no instance published under name " + e.Name
}

// Drain pulls every pending move-buffer message addressed to inst,
// move-in's each one's data onto inst.Heap, and returns it as a
// coroutine.Message ready to push onto a target coroutine's own queue.
// Callers call this once per scheduler tick (spec.md §4.5 step 1 for
// the cross-instance case, §4.5.5: "the target drains the buffer at
// the next tick").
func (inst *Instance) Drain() []TargetedMessage {
	pending := inst.Move.DrainAll()
	out := make([]TargetedMessage, 0, len(pending))
	for _, wm := range pending {
		out = append(out, TargetedMessage{
			Target:  wm.TargetToken,
			Message: moveIn(inst.Heap, wm),
		})
	}
	return out
}
