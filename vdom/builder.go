package vdom

import (
	"strings"

	"github.com/HVML/PurC-sub012/ejson"
	"github.com/HVML/PurC-sub012/internal/errcode"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"golang.org/x/mod/semver"
)

// knownTags lists the element names the builder itself recognizes,
// used only to suggest a correction when an END_TAG matches none of
// the currently open elements (spec.md §4.4's unmatched-end-tag
// error); it has no bearing on the recovery algorithm itself.
var knownTags = []string{
	"hvml", "head", "body", "update", "init", "archetype",
	"archedata", "bind", "call", "catch", "choose", "clear", "define",
	"differ", "else", "execute", "exit", "include", "inherit",
	"iterate", "listen", "load", "match", "observe", "reduce", "request",
	"sleep", "sort", "test", "title", "back",
}

// InsertionMode is the vDOM builder's state (spec.md §4.4).
type InsertionMode int

const (
	Initial InsertionMode = iota
	BeforeHVML
	InHVML
	BeforeHead
	InHead
	AfterHead
	InBody
	AfterBody
	AfterAfterBody
)

// Builder assembles a document Node from a token stream, one Feed call
// per token (spec.md §4.4). It mirrors the donor's own style of
// dispatching on explicit, ordered state rather than a parser-
// generator table (tree_builder.go's precedence cascade), generalized
// here into a streaming per-token state machine since the builder
// must accept tokens one at a time rather than a pre-collected slice.
type Builder struct {
	mode     InsertionMode
	doc      *Node
	open     []*Node // stack of open elements; open[len-1] is current
	silently bool    // set once AFTER_BODY/AFTER_AFTER_BODY sees an error
	lastErr  error
}

// NewBuilder returns a builder positioned at the INITIAL insertion
// mode with a fresh, empty document.
func NewBuilder() *Builder {
	return &Builder{mode: Initial, doc: NewDocument()}
}

// Mode returns the builder's current insertion mode.
func (b *Builder) Mode() InsertionMode { return b.mode }

// LastError returns the most recent error a Feed call returned, in any
// insertion mode; nil if no error has occurred.
func (b *Builder) LastError() error { return b.lastErr }

func (b *Builder) current() *Node {
	if len(b.open) == 0 {
		return nil
	}
	return b.open[len(b.open)-1]
}

func (b *Builder) push(n *Node) {
	parent := b.current()
	if parent != nil {
		parent.AppendChild(n)
	}
	b.open = append(b.open, n)
}

func (b *Builder) pop() *Node {
	if len(b.open) == 0 {
		return nil
	}
	n := b.open[len(b.open)-1]
	b.open = b.open[:len(b.open)-1]
	return n
}

// popUntil pops open elements until one with the given tag is popped
// (inclusive), returning true if the tag was found.
func (b *Builder) popUntil(tag string) bool {
	for i := len(b.open) - 1; i >= 0; i-- {
		if b.open[i].Tag == tag {
			b.open = b.open[:i]
			return true
		}
	}
	return false
}

func isWhitespaceText(s string) bool {
	return strings.TrimSpace(s) == ""
}

// suggestTagName returns the known tag name closest to tag, or "" if
// none is close enough to be worth suggesting.
func suggestTagName(tag string) string {
	lower := strings.ToLower(tag)
	best, bestDist := "", len(tag)+1
	for _, known := range knownTags {
		if d := fuzzy.LevenshteinDistance(lower, known); d < bestDist {
			best, bestDist = known, d
		}
	}
	return best
}

// splitDocType separates a DOCTYPE token's raw text into the document
// type name and an optional version token, e.g. `hvml 1.0` yields
// ("hvml", "1.0", true).
func splitDocType(raw string) (name, version string, hasVersion bool) {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return "hvml", "", false
	}
	if len(fields) == 1 {
		return fields[0], "", false
	}
	return fields[0], fields[1], true
}

// Feed advances the builder by one token, looping internally while a
// mode transition asks for the token to be reprocessed (spec.md
// §4.4's `reprocess` flag). Every structural error is returned to the
// caller; in AFTER_BODY/AFTER_AFTER_BODY (spec.md §4.4) the builder
// additionally keeps itself usable for subsequent tokens rather than
// latching into a broken state — the caller decides whether a
// returned error is fatal.
func (b *Builder) Feed(tok Token) error {
	for {
		reprocess, err := b.step(tok)
		if err != nil {
			b.lastErr = err
		}
		if !reprocess {
			return err
		}
	}
}

// step runs one dispatch of the current mode against tok, returning
// whether tok must be reprocessed under the (possibly new) mode.
func (b *Builder) step(tok Token) (bool, error) {
	switch b.mode {
	case Initial:
		return b.stepInitial(tok)
	case BeforeHVML:
		return b.stepBeforeHVML(tok)
	case InHVML:
		return b.stepOpenBody(tok, InHVML)
	case BeforeHead:
		return b.stepBeforeHead(tok)
	case InHead:
		return b.stepOpenBody(tok, InHead)
	case AfterHead:
		return b.stepAfterHead(tok)
	case InBody:
		return b.stepInBody(tok)
	case AfterBody, AfterAfterBody:
		return b.stepAfterBody(tok)
	default:
		return false, errcode.New(errcode.InternalFailure, "unknown insertion mode %d", b.mode)
	}
}

func (b *Builder) stepInitial(tok Token) (bool, error) {
	switch tok.Kind {
	case TokenDOCTYPE:
		name, version, hasVersion := splitDocType(tok.DocType)
		b.doc.DocType = name
		if hasVersion {
			canon := "v" + strings.TrimPrefix(version, "v")
			if !semver.IsValid(canon) {
				return false, errcode.New(errcode.InvalidValue, "invalid HVML document type version %q", version)
			}
			b.doc.DocTypeVersion = semver.Canonical(canon)
		}
		b.mode = BeforeHVML
		return false, nil
	case TokenStartTag:
		b.doc.DocType = "hvml"
		b.mode = BeforeHVML
		return true, nil
	case TokenComment:
		b.doc.AppendChild(&Node{Kind: KindComment, Text: tok.Text})
		return false, nil
	case TokenCharacter:
		if isWhitespaceText(tok.Text) {
			return false, nil
		}
		return false, errcode.New(errcode.InvalidValue, "unexpected character in INITIAL mode")
	case TokenVCMTree:
		if tok.VCM == nil {
			return false, nil
		}
		return false, errcode.New(errcode.InvalidValue, "unexpected content in INITIAL mode")
	default:
		return false, nil
	}
}

func (b *Builder) stepBeforeHVML(tok Token) (bool, error) {
	switch tok.Kind {
	case TokenStartTag:
		if tok.Tag != "hvml" {
			return false, errcode.New(errcode.InvalidValue, "expected <hvml>, got <%s>", tok.Tag)
		}
		root := &Node{Kind: KindElement, Tag: "hvml", Attributes: tok.Attributes, SelfClosing: tok.SelfClosing}
		b.doc.Root = root
		b.push(root)
		b.mode = InHVML
		return false, nil
	case TokenEOF:
		root := &Node{Kind: KindElement, Tag: "hvml"}
		b.doc.Root = root
		b.push(root)
		b.mode = InHVML
		return true, nil
	case TokenComment:
		b.doc.AppendChild(&Node{Kind: KindComment, Text: tok.Text})
		return false, nil
	default:
		return false, nil
	}
}

// stepOpenBody implements the IN_HVML and IN_HEAD rules, which spec.md
// §4.4 describes identically up to the BEFORE_HEAD/AFTER_HEAD
// transitions those two modes otherwise delegate to.
func (b *Builder) stepOpenBody(tok Token, mode InsertionMode) (bool, error) {
	switch tok.Kind {
	case TokenStartTag:
		if mode == InHVML && tok.Tag != "head" {
			b.mode = BeforeHead
			return true, nil
		}
		if mode == InHead && tok.Tag == "body" {
			// A <body> start tag implicitly closes a head that was
			// never given an explicit end tag (synthesized heads never
			// get one from the token stream) and reprocesses under
			// AFTER_HEAD (spec.md §4.4).
			b.pop()
			b.mode = AfterHead
			return true, nil
		}
		el := &Node{Kind: KindElement, Tag: tok.Tag, Attributes: tok.Attributes, SelfClosing: tok.SelfClosing}
		if mode == InHVML && tok.Tag == "head" {
			b.doc.Head = el
		}
		if tok.SelfClosing {
			parent := b.current()
			if parent != nil {
				parent.AppendChild(el)
			}
			return false, nil
		}
		b.push(el)
		if mode == InHVML && tok.Tag == "head" {
			b.mode = InHead
		}
		return false, nil
	case TokenEndTag:
		if !b.popUntil(tok.Tag) {
			if suggestion := suggestTagName(tok.Tag); suggestion != "" {
				return false, errcode.New(errcode.InvalidValue, "unmatched end tag </%s>, did you mean </%s>?", tok.Tag, suggestion)
			}
			return false, errcode.New(errcode.InvalidValue, "unmatched end tag </%s>", tok.Tag)
		}
		if mode == InHead && tok.Tag == "head" {
			b.mode = AfterHead
		}
		return false, nil
	case TokenVCMTree:
		// A nil VCM marks whitespace-only content (spec.md §4.4:
		// "whitespace VCM_TREE is discarded") — the tokenizer is
		// expected to leave VCM unset for such tokens.
		if tok.VCM != nil {
			if cur := b.current(); cur != nil {
				cur.AppendChild(&Node{Kind: KindContent, Expr: tok.VCM})
			}
		}
		return false, nil
	case TokenComment:
		if cur := b.current(); cur != nil {
			cur.AppendChild(&Node{Kind: KindComment, Text: tok.Text})
		}
		return false, nil
	case TokenCharacter:
		if !isWhitespaceText(tok.Text) {
			if cur := b.current(); cur != nil {
				cur.AppendChild(&Node{Kind: KindContent, Expr: &ejson.Node{Kind: ejson.NodeString, Str: tok.Text}})
			}
		}
		return false, nil
	default:
		return false, nil
	}
}

func (b *Builder) stepBeforeHead(tok Token) (bool, error) {
	switch tok.Kind {
	case TokenStartTag:
		switch tok.Tag {
		case "head":
			head := &Node{Kind: KindElement, Tag: "head", Attributes: tok.Attributes}
			b.doc.Head = head
			b.push(head)
			b.mode = InHead
			return false, nil
		case "body":
			head := &Node{Kind: KindElement, Tag: "head"}
			b.doc.Head = head
			b.push(head)
			b.pop()
			b.mode = AfterHead
			return true, nil
		default:
			// Anything else as the first child of <hvml>: synthesize a
			// head element and move forward into IN_HEAD, reprocessing
			// the token there as a child of the synthesized head
			// (spec.md §4.4 BEFORE_HEAD), instead of bouncing back to
			// IN_HVML where it would only re-trigger this same branch.
			head := &Node{Kind: KindElement, Tag: "head"}
			b.doc.Head = head
			b.push(head)
			b.mode = InHead
			return true, nil
		}
	case TokenEndTag:
		if tok.Tag == "hvml" {
			b.popUntil("hvml")
			b.mode = AfterAfterBody
			return false, nil
		}
		return false, nil
	default:
		return false, nil
	}
}

func (b *Builder) stepAfterHead(tok Token) (bool, error) {
	switch tok.Kind {
	case TokenStartTag:
		if tok.Tag == "body" {
			body := &Node{Kind: KindElement, Tag: "body", Attributes: tok.Attributes}
			b.doc.Bodies = append(b.doc.Bodies, body)
			b.push(body)
			b.mode = InBody
			return false, nil
		}
		b.mode = InBody
		return true, nil
	case TokenEOF:
		body := &Node{Kind: KindElement, Tag: "body"}
		b.doc.Bodies = append(b.doc.Bodies, body)
		b.push(body)
		b.mode = InBody
		return true, nil
	default:
		return false, nil
	}
}

func (b *Builder) stepInBody(tok Token) (bool, error) {
	switch tok.Kind {
	case TokenStartTag:
		if tok.Tag == "body" {
			// Additional body elements accumulate in the document's
			// body list (spec.md §4.4) as siblings of the primary
			// body, not as descendants of whatever element is open.
			extra := &Node{Kind: KindElement, Tag: "body", Attributes: tok.Attributes, Parent: b.doc}
			b.doc.Bodies = append(b.doc.Bodies, extra)
			return false, nil
		}
		return b.stepOpenBody(tok, InBody)
	case TokenEndTag:
		if tok.Tag == "body" {
			b.popUntil("body")
			b.mode = AfterBody
			return false, nil
		}
		return b.stepOpenBody(tok, InBody)
	case TokenEOF:
		b.popUntil("body")
		b.mode = AfterBody
		return true, nil
	default:
		return b.stepOpenBody(tok, InBody)
	}
}

func (b *Builder) stepAfterBody(tok Token) (bool, error) {
	switch tok.Kind {
	case TokenComment:
		b.doc.AppendChild(&Node{Kind: KindComment, Text: tok.Text})
		return false, nil
	case TokenCharacter:
		if isWhitespaceText(tok.Text) {
			return false, nil
		}
		b.silently = true
		return false, errcode.New(errcode.InvalidValue, "unexpected character after body")
	case TokenEOF:
		return false, nil
	default:
		b.silently = true
		return false, errcode.New(errcode.InvalidValue, "unexpected token after body")
	}
}

// Finish returns the assembled document. It fails if the builder never
// reached a state with a root, a head and at least one body (spec.md
// §4.4's tree invariant).
func (b *Builder) Finish() (*Node, error) {
	if b.doc.Root == nil {
		return nil, errcode.New(errcode.InvalidValue, "no root element")
	}
	if b.doc.Head == nil {
		return nil, errcode.New(errcode.InvalidValue, "document has no head")
	}
	if len(b.doc.Bodies) == 0 {
		return nil, errcode.New(errcode.InvalidValue, "document has no body")
	}
	return b.doc, nil
}
