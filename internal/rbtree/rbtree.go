// Package rbtree implements a generic ordered red-black tree.
//
// It backs the object variant's key ordering, the scoped-variable scope
// index, and the scheduler's deadline-ordered timer set — anywhere the
// engine needs O(log n) insert/find/delete plus in-order iteration.
package rbtree

import "github.com/HVML/PurC-sub012/internal/invariant"

type color bool

const (
	red   color = false
	black color = true
)

// Node is one entry in the tree. Callers that need a stable handle (the
// scheduler's timer poll, the object variant's key lookup) keep the
// *Node returned by Insert rather than re-searching by key.
type Node[K any, V any] struct {
	Key   K
	Value V

	left, right, parent *Node[K, V]
	color               color
}

// Tree is a red-black tree ordered by a caller-supplied comparator.
// Duplicate keys are not merged: Insert always adds a new node, matching
// the donor's scope-graph behavior of allowing shadowing entries at
// distinct tree positions. Callers that want replace-on-duplicate (the
// object variant's `set`) should Find before Insert.
type Tree[K any, V any] struct {
	root *Node[K, V]
	size int
	cmp  func(a, b K) int
}

// New creates an empty tree ordered by cmp(a, b), which must return <0,
// 0, or >0 the way strings.Compare does.
func New[K any, V any](cmp func(a, b K) int) *Tree[K, V] {
	invariant.NotNil(cmp, "cmp")
	return &Tree[K, V]{cmp: cmp}
}

// Len returns the number of nodes.
func (t *Tree[K, V]) Len() int { return t.size }

// Find returns the node whose key compares equal to key, or nil.
func (t *Tree[K, V]) Find(key K) *Node[K, V] {
	n := t.root
	for n != nil {
		c := t.cmp(key, n.Key)
		switch {
		case c < 0:
			n = n.left
		case c > 0:
			n = n.right
		default:
			return n
		}
	}
	return nil
}

// Min returns the smallest-keyed node, or nil if the tree is empty.
func (t *Tree[K, V]) Min() *Node[K, V] { return min(t.root) }

// Max returns the largest-keyed node, or nil if the tree is empty.
func (t *Tree[K, V]) Max() *Node[K, V] { return max(t.root) }

func min[K any, V any](n *Node[K, V]) *Node[K, V] {
	if n == nil {
		return nil
	}
	for n.left != nil {
		n = n.left
	}
	return n
}

func max[K any, V any](n *Node[K, V]) *Node[K, V] {
	if n == nil {
		return nil
	}
	for n.right != nil {
		n = n.right
	}
	return n
}

// Successor returns the next node in ascending key order after n, or nil.
func Successor[K any, V any](n *Node[K, V]) *Node[K, V] {
	if n == nil {
		return nil
	}
	if n.right != nil {
		return min(n.right)
	}
	p := n.parent
	for p != nil && n == p.right {
		n = p
		p = p.parent
	}
	return p
}

// Predecessor returns the previous node in ascending key order before n.
func Predecessor[K any, V any](n *Node[K, V]) *Node[K, V] {
	if n == nil {
		return nil
	}
	if n.left != nil {
		return max(n.left)
	}
	p := n.parent
	for p != nil && n == p.left {
		n = p
		p = p.parent
	}
	return p
}

// Insert adds key/value and returns the new node.
func (t *Tree[K, V]) Insert(key K, value V) *Node[K, V] {
	z := &Node[K, V]{Key: key, Value: value, color: red}

	var y *Node[K, V]
	x := t.root
	for x != nil {
		y = x
		if t.cmp(key, x.Key) < 0 {
			x = x.left
		} else {
			x = x.right
		}
	}
	z.parent = y
	switch {
	case y == nil:
		t.root = z
	case t.cmp(key, y.Key) < 0:
		y.left = z
	default:
		y.right = z
	}
	t.size++
	t.insertFixup(z)
	return z
}

func (t *Tree[K, V]) rotateLeft(x *Node[K, V]) {
	y := x.right
	x.right = y.left
	if y.left != nil {
		y.left.parent = x
	}
	y.parent = x.parent
	switch {
	case x.parent == nil:
		t.root = y
	case x == x.parent.left:
		x.parent.left = y
	default:
		x.parent.right = y
	}
	y.left = x
	x.parent = y
}

func (t *Tree[K, V]) rotateRight(x *Node[K, V]) {
	y := x.left
	x.left = y.right
	if y.right != nil {
		y.right.parent = x
	}
	y.parent = x.parent
	switch {
	case x.parent == nil:
		t.root = y
	case x == x.parent.right:
		x.parent.right = y
	default:
		x.parent.left = y
	}
	y.right = x
	x.parent = y
}

func (t *Tree[K, V]) insertFixup(z *Node[K, V]) {
	for z.parent != nil && z.parent.color == red {
		gp := z.parent.parent
		if gp == nil {
			break
		}
		if z.parent == gp.left {
			u := gp.right
			if nodeColor(u) == red {
				z.parent.color = black
				u.color = black
				gp.color = red
				z = gp
				continue
			}
			if z == z.parent.right {
				z = z.parent
				t.rotateLeft(z)
			}
			z.parent.color = black
			gp.color = red
			t.rotateRight(gp)
		} else {
			u := gp.left
			if nodeColor(u) == red {
				z.parent.color = black
				u.color = black
				gp.color = red
				z = gp
				continue
			}
			if z == z.parent.left {
				z = z.parent
				t.rotateRight(z)
			}
			z.parent.color = black
			gp.color = red
			t.rotateLeft(gp)
		}
	}
	t.root.color = black
}

func nodeColor[K any, V any](n *Node[K, V]) color {
	if n == nil {
		return black
	}
	return n.color
}

// Delete removes n from the tree. n must have come from this tree.
func (t *Tree[K, V]) Delete(n *Node[K, V]) {
	invariant.NotNil(n, "node")
	t.size--

	y := n
	yOriginal := y.color
	var x *Node[K, V]
	var xParent *Node[K, V]

	switch {
	case n.left == nil:
		x = n.right
		xParent = n.parent
		t.transplant(n, n.right)
	case n.right == nil:
		x = n.left
		xParent = n.parent
		t.transplant(n, n.left)
	default:
		y = min(n.right)
		yOriginal = y.color
		x = y.right
		if y.parent == n {
			xParent = y
		} else {
			xParent = y.parent
			t.transplant(y, y.right)
			y.right = n.right
			y.right.parent = y
		}
		t.transplant(n, y)
		y.left = n.left
		y.left.parent = y
		y.color = n.color
	}

	if yOriginal == black {
		t.deleteFixup(x, xParent)
	}
}

func (t *Tree[K, V]) transplant(u, v *Node[K, V]) {
	switch {
	case u.parent == nil:
		t.root = v
	case u == u.parent.left:
		u.parent.left = v
	default:
		u.parent.right = v
	}
	if v != nil {
		v.parent = u.parent
	}
}

func (t *Tree[K, V]) deleteFixup(x, parent *Node[K, V]) {
	for x != t.root && nodeColor(x) == black {
		if parent == nil {
			break
		}
		if x == parent.left {
			w := parent.right
			if nodeColor(w) == red {
				w.color = black
				parent.color = red
				t.rotateLeft(parent)
				w = parent.right
			}
			if w == nil {
				x = parent
				parent = x.parent
				continue
			}
			if nodeColor(w.left) == black && nodeColor(w.right) == black {
				w.color = red
				x = parent
				parent = x.parent
				continue
			}
			if nodeColor(w.right) == black {
				if w.left != nil {
					w.left.color = black
				}
				w.color = red
				t.rotateRight(w)
				w = parent.right
			}
			w.color = parent.color
			parent.color = black
			if w.right != nil {
				w.right.color = black
			}
			t.rotateLeft(parent)
			x = t.root
		} else {
			w := parent.left
			if nodeColor(w) == red {
				w.color = black
				parent.color = red
				t.rotateRight(parent)
				w = parent.left
			}
			if w == nil {
				x = parent
				parent = x.parent
				continue
			}
			if nodeColor(w.right) == black && nodeColor(w.left) == black {
				w.color = red
				x = parent
				parent = x.parent
				continue
			}
			if nodeColor(w.left) == black {
				if w.right != nil {
					w.right.color = black
				}
				w.color = red
				t.rotateLeft(w)
				w = parent.left
			}
			w.color = parent.color
			parent.color = black
			if w.left != nil {
				w.left.color = black
			}
			t.rotateRight(parent)
			x = t.root
		}
	}
	if x != nil {
		x.color = black
	}
}

// Walk calls fn for every node in ascending key order. Walk stops early
// if fn returns false.
func (t *Tree[K, V]) Walk(fn func(n *Node[K, V]) bool) {
	for n := t.Min(); n != nil; n = Successor(n) {
		if !fn(n) {
			return
		}
	}
}
