// Package scopevar implements the scoped-variable index of spec.md §3.6:
// a coroutine-wide map from vDOM elements to per-scope variable managers,
// arranged in a red-black tree keyed by element identity, with the
// document-level manager doubling as the coroutine-global namespace.
//
// The shape follows runtime/planner/scope_graph.go's ScopeGraph/Scope
// pair (parent-linked scopes, lookup walks the parent chain, a sealed
// root) adapted from ScopeGraph's single current-scope cursor to an
// identity-indexed tree of scopes addressable by vDOM element, since a
// coroutine must resolve variables for any element it is currently
// rendering, not only the one most recently entered. The identity index
// itself is grounded on internal/rbtree.Tree, already used the same way
// by variant/set.go for the set's keyed-member index.
package scopevar

import (
	"unsafe"

	"github.com/HVML/PurC-sub012/internal/errcode"
	"github.com/HVML/PurC-sub012/internal/rbtree"
	"github.com/HVML/PurC-sub012/variant"
	"github.com/HVML/PurC-sub012/vdom"
)

// elementKey is the red-black tree's ordering key: the vDOM element's
// pointer identity. The ordering itself is arbitrary (pointer values
// carry no domain meaning) but stable and total, which is all Tree
// needs to place and find a scope in O(log n).
type elementKey uintptr

func keyOf(n *vdom.Node) elementKey {
	return elementKey(uintptr(unsafe.Pointer(n)))
}

func compareKeys(a, b elementKey) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Scope holds the variable bindings associated with one vDOM element's
// subtree (spec.md §3.6). The root scope (Element == nil) is the
// document-level, coroutine-global namespace.
type Scope struct {
	Element *vdom.Node
	Parent  *Scope
	Label   string // the element's `id` attribute, if any; empty otherwise

	vars map[string]*variant.Variant
}

func newScope(el *vdom.Node, parent *Scope, label string) *Scope {
	return &Scope{Element: el, Parent: parent, Label: label, vars: make(map[string]*variant.Variant)}
}

// Get returns the variable bound directly in this scope (not walking to
// parents), or nil if unbound here.
func (s *Scope) Get(name string) *variant.Variant {
	return s.vars[name]
}

// Set binds name to v in this scope, taking a reference. Replacing an
// existing binding releases the old value's reference.
func (s *Scope) Set(name string, v *variant.Variant) {
	if old, ok := s.vars[name]; ok {
		variant.Unref(old)
	}
	s.vars[name] = variant.Ref(v)
}

// Manager is the per-coroutine scoped-variable index (spec.md §3.6): an
// identity-keyed tree of scopes plus the document-level root scope and
// a label index for `#id` targeting.
type Manager struct {
	root   *Scope
	tree   *rbtree.Tree[elementKey, *Scope]
	labels map[string]*Scope
}

// NewManager returns a Manager with an empty document-level root scope.
func NewManager() *Manager {
	root := newScope(nil, nil, "")
	return &Manager{
		root:   root,
		tree:   rbtree.New[elementKey, *Scope](compareKeys),
		labels: make(map[string]*Scope),
	}
}

// Root returns the document-level, coroutine-global scope.
func (m *Manager) Root() *Scope { return m.root }

// Enter creates and indexes a new scope for el, parented under parent
// (use m.Root() for an element whose nearest ancestor scope is the
// document level). If el carries a non-empty label (its `id`
// attribute), the scope also becomes reachable via ResolveTarget's
// `#id` form.
func (m *Manager) Enter(el *vdom.Node, parent *Scope, label string) *Scope {
	s := newScope(el, parent, label)
	m.tree.Insert(keyOf(el), s)
	if label != "" {
		m.labels[label] = s
	}
	return s
}

// Exit removes el's scope from the index. It does not release the
// scope's variable bindings' references itself beyond what Set already
// tracked per-variable; callers that want those released call Release.
func (m *Manager) Exit(el *vdom.Node) {
	s, ok := m.Lookup(el)
	if !ok {
		return
	}
	if s.Label != "" {
		delete(m.labels, s.Label)
	}
	if n := m.tree.Find(keyOf(el)); n != nil {
		m.tree.Delete(n)
	}
}

// Release unrefs every variable bound directly in s. Call this once a
// scope's element has finished executing and its bindings are no
// longer reachable.
func Release(s *Scope) {
	for _, v := range s.vars {
		variant.Unref(v)
	}
	s.vars = nil
}

// Lookup returns the scope indexed for el, if any.
func (m *Manager) Lookup(el *vdom.Node) (*Scope, bool) {
	n := m.tree.Find(keyOf(el))
	if n == nil {
		return nil, false
	}
	return n.Value, true
}

// ByLabel returns the scope whose element carries the given `id`
// attribute, if one is currently indexed.
func (m *Manager) ByLabel(label string) (*Scope, bool) {
	s, ok := m.labels[label]
	return s, ok
}

// Resolve looks up name starting at scope and walking outward through
// Parent links, stopping at the document-level root (spec.md §3.6:
// "Lookup walks from the innermost scope outward"). It returns the
// value and the scope it was found in, or an EntityNotFound error.
func Resolve(scope *Scope, name string) (*variant.Variant, *Scope, error) {
	for s := scope; s != nil; s = s.Parent {
		if v, ok := s.vars[name]; ok {
			return v, s, nil
		}
	}
	return nil, nil, errcode.New(errcode.EntityNotFound, "variable %q not found in any enclosing scope", name)
}
