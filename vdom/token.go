package vdom

import "github.com/HVML/PurC-sub012/ejson"

// TokenKind identifies which kind of token the builder consumes
// (spec.md §4.4).
type TokenKind int

const (
	TokenDOCTYPE TokenKind = iota
	TokenStartTag
	TokenEndTag
	TokenComment
	TokenCharacter
	TokenVCMTree
	TokenEOF
)

// Token is one item of the stream the builder consumes. The fields
// populated depend on Kind: DOCTYPE uses DocType, START_TAG uses Tag/
// Attributes/SelfClosing, END_TAG uses Tag, COMMENT/CHARACTER use
// Text, VCM_TREE uses VCM.
type Token struct {
	Kind TokenKind

	DocType string

	Tag         string
	Attributes  []Attribute
	SelfClosing bool

	Text string

	VCM *ejson.Node
}
