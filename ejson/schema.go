package ejson

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/HVML/PurC-sub012/internal/errcode"
	"github.com/HVML/PurC-sub012/variant"
)

// CompileSchema compiles a JSON Schema document (given as eJSON/JSON
// text) for repeated use with ValidateAgainstSchema. Compilation is
// the expensive step; callers validating many values against the same
// shape should compile once and reuse the result.
func CompileSchema(uri string, schemaText string) (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	if err := c.AddResource(uri, bytes.NewReader([]byte(schemaText))); err != nil {
		return nil, errcode.New(errcode.InvalidValue, "compiling schema %s: %v", uri, err)
	}
	sch, err := c.Compile(uri)
	if err != nil {
		return nil, errcode.New(errcode.InvalidValue, "compiling schema %s: %v", uri, err)
	}
	return sch, nil
}

// ValidateAgainstSchema checks v's shape against sch, letting a host
// that wants structural guarantees on top of eJSON's otherwise dynamic
// typing enforce one (spec.md §4.3's schema-guard extension). v is
// converted to a plain interface{} tree first, since jsonschema
// validates against encoding/json-shaped Go values, not variants.
func ValidateAgainstSchema(sch *jsonschema.Schema, v *variant.Variant) error {
	plain, err := toPlainValue(v)
	if err != nil {
		return err
	}
	if err := sch.Validate(plain); err != nil {
		return errcode.New(errcode.InvalidValue, "schema validation failed: %v", err)
	}
	return nil
}

// toPlainValue converts v into the interface{} shapes encoding/json
// would produce (map[string]interface{}, []interface{}, float64,
// string, bool, nil), which is what jsonschema.Schema.Validate expects.
func toPlainValue(v *variant.Variant) (interface{}, error) {
	switch v.Kind() {
	case variant.KindUndefined, variant.KindNull, variant.KindDynamic, variant.KindNative:
		return nil, nil
	case variant.KindBoolean:
		return v.Bool(), nil
	case variant.KindNumber:
		return v.Number(), nil
	case variant.KindLongInt:
		return float64(v.LongInt()), nil
	case variant.KindULongInt:
		return float64(v.ULongInt()), nil
	case variant.KindLongDouble:
		f, _ := v.LongDouble().Float64()
		return f, nil
	case variant.KindBigInt:
		f, _ := new(big.Float).SetInt(v.BigInt()).Float64()
		return f, nil
	case variant.KindString:
		return v.String(), nil
	case variant.KindAtomString, variant.KindException:
		return variant.AtomText(v), nil
	case variant.KindBSequence:
		return fmt.Sprintf("%x", v.BSeq().Buffer()), nil
	case variant.KindObject:
		out := make(map[string]interface{}, v.ObjectLen())
		for _, k := range v.Keys() {
			child, err := v.GetByCKey(k, false, nil)
			if err != nil {
				return nil, err
			}
			pv, err := toPlainValue(child)
			if err != nil {
				return nil, err
			}
			out[k] = pv
		}
		return out, nil
	case variant.KindArray:
		n := v.Size()
		out := make([]interface{}, 0, n)
		for i := 0; i < n; i++ {
			child, err := v.Get(i)
			if err != nil {
				return nil, err
			}
			pv, err := toPlainValue(child)
			if err != nil {
				return nil, err
			}
			out = append(out, pv)
		}
		return out, nil
	case variant.KindTuple:
		n := v.TupleLen()
		out := make([]interface{}, 0, n)
		for i := 0; i < n; i++ {
			child, err := v.TupleGet(i)
			if err != nil {
				return nil, err
			}
			pv, err := toPlainValue(child)
			if err != nil {
				return nil, err
			}
			out = append(out, pv)
		}
		return out, nil
	case variant.KindSet:
		members := v.Members()
		out := make([]interface{}, 0, len(members))
		for _, m := range members {
			pv, err := toPlainValue(m)
			if err != nil {
				return nil, err
			}
			out = append(out, pv)
		}
		return out, nil
	case variant.KindSortedArray:
		n := v.SortedArrayLen()
		out := make([]interface{}, 0, n)
		for i := 0; i < n; i++ {
			m, err := v.SortedArrayGet(i)
			if err != nil {
				return nil, err
			}
			pv, err := toPlainValue(m)
			if err != nil {
				return nil, err
			}
			out = append(out, pv)
		}
		return out, nil
	default:
		return nil, errcode.New(errcode.WrongDataType, "cannot convert kind %s to a plain value", v.Kind())
	}
}
