package coroutine

import "github.com/HVML/PurC-sub012/vdom"

// Logic is the per-tag behavior a frame's element drives through the
// AFTER_PUSHED -> ON_POPPING -> RERUN -> SELECT_CHILD cycle (spec.md
// §4.5.1: "SELECT_CHILD asks the element's logic for the next child").
// Concrete control elements (`<iterate>`, `<test>`, `<choose>`, ...)
// implement this to drive attribute evaluation, looping and
// conditional child selection; this package only defines the contract
// and a default, tag-agnostic implementation.
type Logic interface {
	// AfterPushed runs once when a frame is first pushed: evaluating
	// attributes, establishing the element's scope, and so on. It
	// returns the NextStep to record on the frame.
	AfterPushed(co *Coroutine, fr *Frame) NextStep

	// SelectChild returns the next child element to push a frame for,
	// or ok=false once there are no more children to run (at which
	// point the frame transitions to OnPopping).
	SelectChild(co *Coroutine, fr *Frame) (child *vdom.Node, ok bool)

	// Rerun re-evaluates content after a child has produced a result
	// (fr.ResultFromChild), returning the NextStep to record next.
	Rerun(co *Coroutine, fr *Frame) NextStep

	// OnPopping releases any frame-local resources before the frame is
	// popped from the stack.
	OnPopping(co *Coroutine, fr *Frame)
}

// Registry maps element tag names to the Logic that drives them.
// Coroutines consult it in Step; a tag with no registered Logic
// falls back to DefaultLogic.
type Registry struct {
	byTag map[string]Logic
}

// NewRegistry returns an empty Logic registry.
func NewRegistry() *Registry {
	return &Registry{byTag: make(map[string]Logic)}
}

// Register associates tag with logic.
func (r *Registry) Register(tag string, logic Logic) {
	r.byTag[tag] = logic
}

// Lookup returns the Logic registered for tag, or DefaultLogic if none
// is registered.
func (r *Registry) Lookup(tag string) Logic {
	if l, ok := r.byTag[tag]; ok {
		return l
	}
	return DefaultLogic{}
}

// DefaultLogic is the tag-agnostic fallback: it evaluates no
// attributes, visits every child element once in document order, and
// releases nothing on pop. It is what an ordinary content-bearing
// element (one with no special control-flow semantics) runs under.
type DefaultLogic struct{}

func (DefaultLogic) AfterPushed(*Coroutine, *Frame) NextStep { return SelectChild }

func (DefaultLogic) SelectChild(_ *Coroutine, fr *Frame) (*vdom.Node, bool) {
	if fr.Element == nil {
		return nil, false
	}
	for fr.childIdx < len(fr.Element.Children) {
		child := fr.Element.Children[fr.childIdx]
		fr.childIdx++
		if child.Kind == vdom.KindElement {
			return child, true
		}
	}
	return nil, false
}

func (DefaultLogic) Rerun(*Coroutine, *Frame) NextStep { return SelectChild }

func (DefaultLogic) OnPopping(*Coroutine, *Frame) {}
