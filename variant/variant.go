package variant

import "github.com/HVML/PurC-sub012/internal/invariant"

// Op is a mutation-operation bitmask a listener subscribes to
// (spec.md §3.2).
type Op uint8

const (
	OpInflated  Op = 1 << iota // a container grew (insert, append, ...)
	OpDeflated                 // a container shrank (remove, clear, ...)
	OpModified                 // an existing member was replaced in place
	OpRefaChild                // a descendant changed (reverse-update propagation)
	OpReleasing                // the variant's refcount is dropping to zero
)

// Handler is a mutation listener callback. argv carries operation-specific
// arguments the way spec.md's testable property #3 describes for array
// append (`argv=[<nothing>, 42]`): a pair of (old, new) or (nil, new)/
// (old, nil) depending on the operation.
type Handler func(v *Variant, op Op, ctx any, argv []*Variant)

// Listener is one entry in a container's pre- or post-operation list.
type Listener struct {
	id      uint64
	mask    Op
	handler Handler
	ctx     any
}

type listenerList struct {
	pre    []*Listener
	post   []*Listener
	nextID uint64
}

// reverseEdge is one entry of the reverse-update chain (spec.md §3.3):
// it records that v is held as a child of parent at the given
// descriptive slot (an index for arrays/tuples, a key for objects, a
// fingerprint for sets).
type reverseEdge struct {
	parent *Variant
	slot   any
}

// Variant is a tagged, reference-counted, self-describing value
// (spec.md §3.1). All constructors return a *Variant with refcount 1;
// callers manage lifetime explicitly with Ref/Unref.
type Variant struct {
	kind     Kind
	refcount int32
	constant bool // sentinel: never drops below 1 (undefined/null/true/false)
	payload  any

	// gen guards listener reentrancy (design note §9): a listener that
	// mutates the container it observes must not be dispatched twice for
	// one logical event. dispatch bumps gen each time it starts walking a
	// listener list; if a listener's own mutation bumps gen again, the
	// outer walk stops, leaving the rest of that list to the nested
	// dispatch.
	gen uint64

	listeners *listenerList
	parents   []reverseEdge // only non-empty once this container is inserted somewhere

	heap *Heap // owning heap, for per-kind live-count bookkeeping on release
}

// Kind returns v's kind.
func (v *Variant) Kind() Kind { return v.kind }

// Refcount returns the current reference count.
func (v *Variant) Refcount() int32 { return v.refcount }

// IsConstant reports whether v is one of the per-instance constant
// singletons (undefined, null, true, false) that never drop to zero.
func (v *Variant) IsConstant() bool { return v.constant }

func newVariant(kind Kind, payload any) *Variant {
	return &Variant{kind: kind, refcount: 1, payload: payload}
}

// Ref increments v's refcount and returns v, so callers can write
// `held := variant.Ref(v)` at the point a new owner takes a reference.
func Ref(v *Variant) *Variant {
	invariant.NotNil(v, "v")
	if v.constant {
		return v
	}
	v.refcount++
	return v
}

// Unref decrements v's refcount and returns the resulting count. When the
// count reaches zero, pre-registered "releasing" listeners fire and the
// container (if any) releases its own strong references to its members,
// recursively unreffing them. Constant singletons never drop below 1.
func Unref(v *Variant) int32 {
	invariant.NotNil(v, "v")
	if v.constant {
		return v.refcount
	}
	invariant.Precondition(v.refcount > 0, "unref of variant with non-positive refcount")
	v.refcount--
	if v.refcount > 0 {
		return v.refcount
	}

	fireReleasing(v)
	releaseMembers(v)
	if !v.kind.IsScalar() && v.heap != nil {
		v.heap.stats.Count[v.kind]--
	}
	return 0
}

func fireReleasing(v *Variant) {
	if v.listeners == nil {
		return
	}
	dispatch(v, OpReleasing, nil, v.listeners.pre)
	dispatch(v, OpReleasing, nil, v.listeners.post)
}

// releaseMembers drops the strong references a container holds on its
// members. Scalars and callables have no members and are no-ops here.
func releaseMembers(v *Variant) {
	switch v.kind {
	case KindArray:
		a := v.payload.(*Array)
		a.items.Each(func(_ int, child *Variant) bool {
			removeReverseEdge(child, v)
			Unref(child)
			return true
		})
	case KindTuple:
		tp := v.payload.(*Tuple)
		for _, child := range tp.members {
			if child != nil {
				removeReverseEdge(child, v)
				Unref(child)
			}
		}
	case KindObject:
		o := v.payload.(*Object)
		o.tree.Walk(func(n *objNode) bool {
			removeReverseEdge(n.Value, v)
			Unref(n.Value)
			return true
		})
	case KindSet:
		s := v.payload.(*Set)
		s.order.Each(func(_ int, m *setMember) bool {
			removeReverseEdge(m.value, v)
			Unref(m.value)
			return true
		})
	case KindSortedArray:
		sa := v.payload.(*SortedArray)
		sa.items.Each(func(_ int, child *Variant) bool {
			removeReverseEdge(child, v)
			Unref(child)
			return true
		})
	case KindNative:
		releaseNative(v)
	}
}

func removeReverseEdge(child, parent *Variant) {
	if !child.kind.IsContainer() {
		return
	}
	out := child.parents[:0]
	for _, e := range child.parents {
		if e.parent != parent {
			out = append(out, e)
		}
	}
	child.parents = out
}

// Observe registers a listener on container v for the operations in
// mask, firing before the mutation if pre is true, after otherwise.
// Returns a token usable with Revoke.
func Observe(v *Variant, mask Op, pre bool, handler Handler, ctx any) uint64 {
	invariant.Precondition(v.kind.IsContainer(), "Observe requires a container variant, got %s", v.kind)
	if v.listeners == nil {
		v.listeners = &listenerList{}
	}
	v.listeners.nextID++
	id := v.listeners.nextID
	l := &Listener{id: id, mask: mask, handler: handler, ctx: ctx}
	if pre {
		v.listeners.pre = append(v.listeners.pre, l)
	} else {
		v.listeners.post = append(v.listeners.post, l)
	}
	return id
}

// Revoke removes the listener identified by id from v.
func Revoke(v *Variant, id uint64) bool {
	if v.listeners == nil {
		return false
	}
	if removeListener(&v.listeners.pre, id) {
		return true
	}
	return removeListener(&v.listeners.post, id)
}

func removeListener(list *[]*Listener, id uint64) bool {
	for i, l := range *list {
		if l.id == id {
			*list = append((*list)[:i], (*list)[i+1:]...)
			return true
		}
	}
	return false
}

// dispatch fires every listener in list whose mask matches op, skipping
// any listener already dispatched in the current generation (reentrancy
// guard, design note §9).
func dispatch(v *Variant, op Op, argv []*Variant, list []*Listener) {
	if len(list) == 0 {
		return
	}
	v.gen++
	thisGen := v.gen
	seen := make(map[uint64]bool, len(list))
	for _, l := range list {
		if l.mask&op == 0 || seen[l.id] {
			continue
		}
		seen[l.id] = true
		safeInvoke(l, v, op, argv)
		if v.gen != thisGen {
			// A reentrant mutation bumped the generation; the remaining
			// listeners in this now-stale list were already considered
			// as part of the nested dispatch.
			return
		}
	}
}

// safeInvoke calls a listener, swallowing panics (spec.md §7: "Listener
// failures never abort the triggering mutation; they are logged through
// an internal callback and swallowed").
func safeInvoke(l *Listener, v *Variant, op Op, argv []*Variant) {
	defer func() {
		if r := recover(); r != nil {
			logListenerPanic(v, op, r)
		}
	}()
	l.handler(v, op, l.ctx, argv)
}

// listenerPanicSink receives (variant kind, op, recovered value) for
// every swallowed listener panic. Tests can install one; production
// hosts wire it to their logging backend per spec.md §1 (logging is an
// excluded collaborator — this engine only exposes the hook).
var listenerPanicSink func(kind Kind, op Op, recovered any)

// SetListenerPanicSink installs the sink used by safeInvoke.
func SetListenerPanicSink(fn func(kind Kind, op Op, recovered any)) {
	listenerPanicSink = fn
}

func logListenerPanic(v *Variant, op Op, recovered any) {
	if listenerPanicSink != nil {
		listenerPanicSink(v.kind, op, recovered)
	}
}

// fireMutation runs pre-listeners, calls mutate, then runs post-listeners
// — the standard shape every container mutation in this package follows
// (spec.md §3.2: "fires pre-listeners, performs the mutation, then fires
// post-listeners").
func fireMutation(v *Variant, op Op, argv []*Variant, mutate func()) {
	if v.listeners != nil {
		dispatch(v, op, argv, v.listeners.pre)
	}
	mutate()
	if v.listeners != nil {
		dispatch(v, op, argv, v.listeners.post)
	}
	propagateRefaChild(v)
}

// propagateRefaChild walks v's reverse-update chain and fires
// OpRefaChild on every ancestor, per spec.md §3.3. Cycles cannot occur
// because adopt() rejects any edge that would introduce one.
func propagateRefaChild(v *Variant) {
	for _, e := range v.parents {
		p := e.parent
		if p.listeners != nil {
			dispatch(p, OpRefaChild, []*Variant{v}, p.listeners.pre)
			dispatch(p, OpRefaChild, []*Variant{v}, p.listeners.post)
		}
		propagateRefaChild(p)
	}
}

// adopt records that child is now held by parent at slot, strongly
// referencing it. It panics (via invariant) if this would introduce a
// cycle, since spec.md §3.3 forbids them and requires detection at
// insert time.
func adopt(parent, child *Variant, slot any) {
	if child.kind.IsContainer() {
		invariant.Precondition(!wouldCycle(child, parent), "adopting %v into %v would introduce a reverse-update cycle", child.kind, parent.kind)
		child.parents = append(child.parents, reverseEdge{parent: parent, slot: slot})
	}
	Ref(child)
}

// wouldCycle reports whether parent is reachable by walking child's own
// forward member tree — i.e. whether child already (transitively)
// contains parent, so inserting child into parent would close a cycle.
func wouldCycle(child, parent *Variant) bool {
	if child == parent {
		return true
	}
	return reaches(child, parent, map[*Variant]bool{})
}

func reaches(node, target *Variant, visited map[*Variant]bool) bool {
	if node == target {
		return true
	}
	if visited[node] {
		return false
	}
	visited[node] = true
	for _, c := range children(node) {
		if reaches(c, target, visited) {
			return true
		}
	}
	return false
}

// children returns v's immediate member variants for any container kind,
// or nil for scalars/callables. Used only by the cycle check above.
func children(v *Variant) []*Variant {
	switch v.kind {
	case KindArray:
		a := v.payload.(*Array)
		var out []*Variant
		a.items.Each(func(_ int, c *Variant) bool { out = append(out, c); return true })
		return out
	case KindTuple:
		tp := v.payload.(*Tuple)
		return append([]*Variant(nil), tp.members...)
	case KindObject:
		o := v.payload.(*Object)
		var out []*Variant
		o.tree.Walk(func(n *objNode) bool { out = append(out, n.Value); return true })
		return out
	case KindSet:
		s := v.payload.(*Set)
		var out []*Variant
		s.order.Each(func(_ int, m *setMember) bool { out = append(out, m.value); return true })
		return out
	case KindSortedArray:
		sa := v.payload.(*SortedArray)
		var out []*Variant
		sa.items.Each(func(_ int, c *Variant) bool { out = append(out, c); return true })
		return out
	default:
		return nil
	}
}
