package scopevar

import (
	"strings"

	"github.com/HVML/PurC-sub012/internal/errcode"
)

// ResolveTarget maps a binding target name (spec.md §3.6) to the scope
// it addresses, relative to current.
//
// Four of the six level offsets name a fixed position in the ancestor
// chain from current up to the document root:
//
//	_parent      current's immediate ancestor scope
//	_grandparent current's ancestor's ancestor scope
//	_root        the document-level, coroutine-global scope
//	_topmost     the ancestor scope one below root: the outermost
//	             element scope in the chain, i.e. the first one pushed
//	             after the document root
//
// The remaining two name positions in stack order rather than tree
// order, reading the ancestor chain as a push/pop stack of scopes the
// coroutine has entered: _last is the most recently pushed scope still
// open (current itself), and _nexttolast is the one pushed immediately
// before it (current's parent). Neither spec.md nor the donor gives
// these six keywords fixed semantics beyond naming them, so this
// stack-order reading is this package's own resolution of that
// ambiguity; it is what makes _last/_nexttolast meaningfully distinct
// names rather than synonyms for _parent/_grandparent by coincidence.
//
// A target of the form "#id" addresses the scope labeled id via
// mgr.ByLabel, independent of current's position in the tree.
func ResolveTarget(mgr *Manager, current *Scope, target string) (*Scope, error) {
	if label, ok := strings.CutPrefix(target, "#"); ok {
		s, ok := mgr.ByLabel(label)
		if !ok {
			return nil, errcode.New(errcode.EntityNotFound, "no scope labeled #%s", label)
		}
		return s, nil
	}

	switch target {
	case "_parent":
		return ancestor(current, 1)
	case "_grandparent":
		return ancestor(current, 2)
	case "_root":
		return mgr.root, nil
	case "_topmost":
		return topmost(current, mgr.root)
	case "_last":
		if current == nil {
			return nil, errcode.New(errcode.EntityNotFound, "_last has no current scope")
		}
		return current, nil
	case "_nexttolast":
		return ancestor(current, 1)
	default:
		return nil, errcode.New(errcode.InvalidValue, "unrecognized scope target %q", target)
	}
}

// ancestor walks n levels up current's Parent chain.
func ancestor(current *Scope, levels int) (*Scope, error) {
	s := current
	for i := 0; i < levels; i++ {
		if s == nil {
			return nil, errcode.New(errcode.EntityNotFound, "scope chain does not reach %d level(s) up", levels)
		}
		s = s.Parent
	}
	if s == nil {
		return nil, errcode.New(errcode.EntityNotFound, "scope chain does not reach %d level(s) up", levels)
	}
	return s, nil
}

// topmost returns the scope immediately below root in current's
// ancestor chain: the outermost non-root scope.
func topmost(current, root *Scope) (*Scope, error) {
	if current == nil || current == root {
		return nil, errcode.New(errcode.EntityNotFound, "no topmost scope below root")
	}
	s := current
	for s.Parent != nil && s.Parent != root {
		s = s.Parent
	}
	return s, nil
}
