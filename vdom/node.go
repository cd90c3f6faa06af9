// Package vdom implements the vDOM tree (spec.md §3.4) and the
// tokenizer-driven builder that assembles one from a token stream
// (spec.md §4.4).
//
// Like ejson.Node (see ejson/node.go), the tree is a flat tagged union
// rather than an interface hierarchy: one NodeKind discriminator and a
// field set per alternative, following core/planfmt/canonical.go's
// shape rather than core/ast/ast.go's per-kind Node/Expression
// interfaces — this project already settled on that choice for every
// other tree it builds.
package vdom

import "github.com/HVML/PurC-sub012/ejson"

// NodeKind identifies which of the four vDOM node kinds a Node holds
// (spec.md §3.4).
type NodeKind int

const (
	KindDocument NodeKind = iota
	KindElement
	KindContent
	KindComment
)

// Attribute is one attribute of an element: a name, the operator it
// was assigned with (`=`, `+=`, `-=`, ... per the HVML attribute
// grammar), and its value as an unevaluated eJSON expression tree.
type Attribute struct {
	Name     string
	Operator string
	Value    *ejson.Node
}

// Node is one vDOM tree node (spec.md §3.4).
type Node struct {
	Kind NodeKind

	// KindElement
	Tag         string // interned tag name; see atom.Atom for the real interning table
	Attributes  []Attribute
	SelfClosing bool

	// KindContent
	Expr *ejson.Node

	// KindComment
	Text string

	// KindDocument
	DocType        string
	DocTypeVersion string // canonical semver form, e.g. "v1.0.0"; empty if the DOCTYPE carried no version token
	Root           *Node  // the <hvml> element
	Head    *Node   // the single <head> element
	Bodies  []*Node // one or more <body> elements; Bodies[0] is primary

	Children []*Node
	Parent   *Node
}

// NewDocument returns an empty document node.
func NewDocument() *Node {
	return &Node{Kind: KindDocument}
}

// AppendChild adds child to n's children and sets its Parent.
func (n *Node) AppendChild(child *Node) {
	child.Parent = n
	n.Children = append(n.Children, child)
}

// Walk visits n and every descendant in document order, depth-first,
// stopping early (without visiting a subtree) when fn returns false
// for its root.
func Walk(n *Node, fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children {
		Walk(c, fn)
	}
}
