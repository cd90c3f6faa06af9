package scheduler

import (
	"time"

	"github.com/HVML/PurC-sub012/internal/arraylist"
	"github.com/HVML/PurC-sub012/internal/rbtree"
)

// Timer is one pending deadline registered against a coroutine (spec.md
// §4.5 step 3). When Deadline passes, Poll returns it, and the
// scheduler's Tick then moves the owning coroutine to READY with a
// synthetic "expired" event.
type Timer struct {
	Token    string
	Deadline time.Time
	node     *rbtree.Node[deadlineKey, *Timer]
}

// deadlineKey orders timers by deadline, breaking ties by a strictly
// increasing sequence number so two timers firing at the same instant
// still have a total order (the underlying tree does not merge equal
// keys, but a stable poll order still needs one).
type deadlineKey struct {
	when time.Time
	seq  uint64
}

func compareDeadlines(a, b deadlineKey) int {
	switch {
	case a.when.Before(b.when):
		return -1
	case a.when.After(b.when):
		return 1
	case a.seq < b.seq:
		return -1
	case a.seq > b.seq:
		return 1
	default:
		return 0
	}
}

// Timers is the dual array-list-plus-tree structure spec.md §9's design
// note and original_source's variant/timers.c both call for: the tree
// gives Poll its O(log n) "what's the earliest deadline" query, and the
// list preserves registration order for callers (diagnostics, a future
// `<sleep>` cancellation that wants "the N-th pending timer") that need
// to walk every pending timer rather than just the earliest.
type Timers struct {
	tree *rbtree.Tree[deadlineKey, *Timer]
	list *arraylist.List[*Timer]
	seq  uint64
}

// NewTimers returns an empty timer set.
func NewTimers() *Timers {
	return &Timers{
		tree: rbtree.New[deadlineKey, *Timer](compareDeadlines),
		list: arraylist.New[*Timer](0),
	}
}

// Register adds a timer for token firing at deadline.
func (t *Timers) Register(token string, deadline time.Time) *Timer {
	t.seq++
	timer := &Timer{Token: token, Deadline: deadline}
	key := deadlineKey{when: deadline, seq: t.seq}
	timer.node = t.tree.Insert(key, timer)
	t.list.Append(timer)
	return timer
}

// Cancel removes timer from the set. It is a no-op if timer has already
// fired (Poll removes fired timers itself).
func (t *Timers) Cancel(timer *Timer) {
	if timer.node == nil {
		return
	}
	t.tree.Delete(timer.node)
	timer.node = nil
	for i := 0; i < t.list.Len(); i++ {
		if t.list.Get(i) == timer {
			t.list.RemoveAt(i)
			break
		}
	}
}

// Len reports how many timers are currently pending.
func (t *Timers) Len() int { return t.tree.Len() }

// NextDeadline returns the earliest pending deadline and true, or the
// zero time and false if no timer is pending. The scheduler uses this
// to compute how long to sleep when no coroutine is READY (spec.md
// §4.5 step 5).
func (t *Timers) NextDeadline() (time.Time, bool) {
	min := t.tree.Min()
	if min == nil {
		return time.Time{}, false
	}
	return min.Value.Deadline, true
}

// Poll removes and returns every timer whose deadline is at or before
// now, in deadline order (spec.md §4.5 step 3).
func (t *Timers) Poll(now time.Time) []*Timer {
	var expired []*Timer
	for {
		min := t.tree.Min()
		if min == nil || min.Value.Deadline.After(now) {
			break
		}
		timer := min.Value
		t.tree.Delete(min)
		timer.node = nil
		expired = append(expired, timer)
	}
	if len(expired) == 0 {
		return nil
	}
	remaining := arraylist.New[*Timer](t.list.Len())
	fired := make(map[*Timer]bool, len(expired))
	for _, timer := range expired {
		fired[timer] = true
	}
	for i := 0; i < t.list.Len(); i++ {
		if v := t.list.Get(i); !fired[v] {
			remaining.Append(v)
		}
	}
	t.list = remaining
	return expired
}
