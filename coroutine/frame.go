package coroutine

import (
	"github.com/HVML/PurC-sub012/scopevar"
	"github.com/HVML/PurC-sub012/variant"
	"github.com/HVML/PurC-sub012/vdom"
)

// EvalStep is a frame's position within its element's evaluation
// (spec.md §3.5).
type EvalStep int

const (
	EvalAttr EvalStep = iota
	EvalContent
	EvalDone
)

// NextStep is the scheduler instruction recorded on a frame, driving
// what Step does next (spec.md §3.5, §4.5.1).
type NextStep int

const (
	AfterPushed NextStep = iota
	OnPopping
	Rerun
	SelectChild
)

// Frame is one stack frame of a running coroutine (spec.md §3.5): a
// normal frame tracks a currently-executing element; a pseudo frame is
// a placeholder pushed by a helper that needs stack-shaped bookkeeping
// without a backing element.
type Frame struct {
	Element *vdom.Node
	Pseudo  bool

	EvalStep EvalStep
	NextStep NextStep

	// Symbolic variables (spec.md §3.5): $? ResultFromChild's source
	// expression result, $< the eval'd content, $@ the current context
	// variant, $! the exception/error variant, $: the unique key of the
	// element's `#id`, $= the current match value, $% the element's
	// position among its siblings, $^ the original literal content
	// before evaluation.
	ResultValue  *variant.Variant // $?
	EvaluatedLit *variant.Variant // $<
	Context      *variant.Variant // $@
	Exception    *variant.Variant // $!
	UniqueKey    *variant.Variant // $:
	MatchValue   *variant.Variant // $=
	Position     *variant.Variant // $%
	OriginalLit  *variant.Variant // $^

	ResultFromChild *variant.Variant

	// Scope is el's own scoped-variable scope (spec.md §3.6); nil until
	// the frame's logic creates one via AfterPushed.
	Scope *scopevar.Scope

	// childIdx tracks SelectChild's position in Element.Children for
	// the DefaultLogic traversal.
	childIdx int
}

// NewFrame returns a normal frame for el, positioned to run
// AfterPushed first.
func NewFrame(el *vdom.Node) *Frame {
	return &Frame{Element: el, NextStep: AfterPushed}
}

// NewPseudoFrame returns a placeholder frame with no backing element.
func NewPseudoFrame() *Frame {
	return &Frame{Pseudo: true, NextStep: AfterPushed}
}
