// Package ejson implements the eJSON parsing tree and its evaluator
// (spec.md §4.3), the eJSON wire format (spec.md §6.3, superset of
// JSON), and the small set of adjacent utilities (URL-query building,
// optional JSON-schema validation) that the rest of the engine drives
// eJSON data through.
//
// The tagged-union tree shape here mirrors the donor's own canonical
// plan tree (core/planfmt/canonical.go: one CanonicalNode struct with a
// Type discriminator and a field per node kind) rather than a Go
// interface-per-kind hierarchy, matching how the rest of this module
// already treats sum types (see variant/kind.go).
package ejson

import (
	"math/big"

	"github.com/HVML/PurC-sub012/internal/errcode"
	"github.com/HVML/PurC-sub012/variant"
)

// NodeKind identifies which alternative a Node holds.
type NodeKind int

const (
	NodeUndefined NodeKind = iota
	NodeNull
	NodeBoolean
	NodeNumber
	NodeLongInt
	NodeULongInt
	NodeLongDouble
	NodeBigInt
	NodeString
	NodeBSequence
	NodeVarRef
	NodeObject
	NodeArray
	NodeTuple
	NodeSet
)

// Field is one key/value pair of an object node, kept in source order
// (the eJSON wire format's object keys are ordered, spec.md §6.3).
type Field struct {
	Key   string
	Value *Node
}

// Node is one node of an eJSON parsing tree: the parser's intermediate
// result before Evaluate assembles variants (spec.md §4.3).
type Node struct {
	Kind NodeKind

	Bool  bool
	Num   float64
	I64   int64
	U64   uint64
	BigF  *big.Float
	BigI  *big.Int
	Str   string
	Bytes []byte

	VarName string

	Fields     []Field // NodeObject
	Items      []*Node // NodeArray, NodeTuple, NodeSet
	UniqueKeys []string
	Caseless   bool // NodeSet
}

// GetVarFunc resolves a `$name` reference during Evaluate. It reports
// whether name was found; a found=false result is what triggers the
// silently/ENTITY_NOT_FOUND branch in Evaluate.
type GetVarFunc func(name string) (v *variant.Variant, found bool)

// Evaluate walks tree, resolving every NodeVarRef through getVar and
// assembling the result as a single variant owned by the caller
// (refcount 1, per the heap's normal allocation contract). A getVar
// miss substitutes undefined when silently is true; otherwise it fails
// with *errcode.Error{Code: errcode.EntityNotFound} (spec.md §4.3).
func Evaluate(h *variant.Heap, tree *Node, getVar GetVarFunc, silently bool) (*variant.Variant, error) {
	switch tree.Kind {
	case NodeUndefined:
		return variant.Ref(h.Undefined()), nil
	case NodeNull:
		return variant.Ref(h.Null()), nil
	case NodeBoolean:
		return h.Bool(tree.Bool), nil
	case NodeNumber:
		return h.MakeNumber(tree.Num), nil
	case NodeLongInt:
		return h.MakeLongInt(tree.I64), nil
	case NodeULongInt:
		return h.MakeULongInt(tree.U64), nil
	case NodeLongDouble:
		return h.MakeLongDouble(tree.BigF), nil
	case NodeBigInt:
		return h.MakeBigInt(tree.BigI), nil
	case NodeString:
		return h.MakeString(tree.Str)
	case NodeBSequence:
		return h.MakeBSequence(tree.Bytes), nil
	case NodeVarRef:
		return evaluateVarRef(h, tree, getVar, silently)
	case NodeObject:
		return evaluateObject(h, tree, getVar, silently)
	case NodeArray:
		return evaluateSequence(h, tree, getVar, silently)
	case NodeTuple:
		return evaluateTuple(h, tree, getVar, silently)
	case NodeSet:
		return evaluateSet(h, tree, getVar, silently)
	default:
		return nil, errcode.New(errcode.InvalidValue, "unknown ejson node kind %d", tree.Kind)
	}
}

func evaluateVarRef(h *variant.Heap, tree *Node, getVar GetVarFunc, silently bool) (*variant.Variant, error) {
	if getVar == nil {
		if silently {
			return variant.Ref(h.Undefined()), nil
		}
		return nil, errcode.New(errcode.EntityNotFound, "%s", tree.VarName)
	}
	v, found := getVar(tree.VarName)
	if !found {
		if silently {
			return variant.Ref(h.Undefined()), nil
		}
		return nil, errcode.New(errcode.EntityNotFound, "%s", tree.VarName)
	}
	return variant.Ref(v), nil
}

func evaluateObject(h *variant.Heap, tree *Node, getVar GetVarFunc, silently bool) (*variant.Variant, error) {
	obj := h.MakeObject()
	for _, f := range tree.Fields {
		val, err := Evaluate(h, f.Value, getVar, silently)
		if err != nil {
			variant.Unref(obj)
			return nil, err
		}
		obj.Set(f.Key, val)
		variant.Unref(val)
	}
	return obj, nil
}

func evaluateSequence(h *variant.Heap, tree *Node, getVar GetVarFunc, silently bool) (*variant.Variant, error) {
	arr := h.MakeArray()
	for _, item := range tree.Items {
		val, err := Evaluate(h, item, getVar, silently)
		if err != nil {
			variant.Unref(arr)
			return nil, err
		}
		arr.Append(val)
		variant.Unref(val)
	}
	return arr, nil
}

func evaluateTuple(h *variant.Heap, tree *Node, getVar GetVarFunc, silently bool) (*variant.Variant, error) {
	members := make([]*variant.Variant, 0, len(tree.Items))
	for _, item := range tree.Items {
		val, err := Evaluate(h, item, getVar, silently)
		if err != nil {
			for _, m := range members {
				variant.Unref(m)
			}
			return nil, err
		}
		members = append(members, val)
	}
	tup := h.MakeTuple(len(members), members)
	for _, m := range members {
		variant.Unref(m)
	}
	return tup, nil
}

func evaluateSet(h *variant.Heap, tree *Node, getVar GetVarFunc, silently bool) (*variant.Variant, error) {
	set := h.MakeSet(tree.UniqueKeys, tree.Caseless)
	for _, item := range tree.Items {
		val, err := Evaluate(h, item, getVar, silently)
		if err != nil {
			variant.Unref(set)
			return nil, err
		}
		if _, err := set.Add(val); err != nil {
			variant.Unref(val)
			variant.Unref(set)
			return nil, err
		}
		variant.Unref(val)
	}
	return set, nil
}
