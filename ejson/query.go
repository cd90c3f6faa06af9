package ejson

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/HVML/PurC-sub012/internal/errcode"
	"github.com/HVML/PurC-sub012/variant"
)

// BuildQuery renders v as a percent-encoded query string (spec.md
// §4.3's url_build_query), joining pairs with sep (typically "&" or
// ";"). Object and array values are flattened into bracketed key
// paths (obj[0]=v0&obj[1]=v1), matching the common PHP-style
// http_build_query convention the wire format's query builder follows.
//
// Percent-encoding itself is the one place this package falls back to
// the standard library (net/url): none of the donor's or the wider
// pack's dependencies offer a query-string encoder, and re-implementing
// RFC 3986 escaping by hand would just reinvent net/url's QueryEscape
// (see DESIGN.md).
func BuildQuery(v *variant.Variant, sep string) (string, error) {
	var pairs []string
	if err := buildQueryWalk(v, "", &pairs); err != nil {
		return "", err
	}
	return strings.Join(pairs, sep), nil
}

func buildQueryWalk(v *variant.Variant, prefix string, pairs *[]string) error {
	switch v.Kind() {
	case variant.KindObject:
		keys := v.Keys()
		sort.Strings(keys)
		for _, k := range keys {
			child, err := v.GetByCKey(k, false, nil)
			if err != nil {
				return err
			}
			if err := buildQueryWalk(child, queryKey(prefix, k), pairs); err != nil {
				return err
			}
		}
	case variant.KindArray:
		n := v.Size()
		for i := 0; i < n; i++ {
			child, err := v.Get(i)
			if err != nil {
				return err
			}
			if err := buildQueryWalk(child, queryKey(prefix, fmt.Sprintf("%d", i)), pairs); err != nil {
				return err
			}
		}
	case variant.KindTuple:
		n := v.TupleLen()
		for i := 0; i < n; i++ {
			child, err := v.TupleGet(i)
			if err != nil {
				return err
			}
			if err := buildQueryWalk(child, queryKey(prefix, fmt.Sprintf("%d", i)), pairs); err != nil {
				return err
			}
		}
	case variant.KindUndefined:
		// Skip: an undefined member contributes no key=value pair,
		// matching the JSON-serialization treatment of undefined.
	default:
		if prefix == "" {
			return errcode.New(errcode.InvalidValue, "url_build_query requires an object, array or tuple at the top level")
		}
		*pairs = append(*pairs, url.QueryEscape(prefix)+"="+url.QueryEscape(queryScalarText(v)))
	}
	return nil
}

func queryKey(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "[" + key + "]"
}

func queryScalarText(v *variant.Variant) string {
	switch v.Kind() {
	case variant.KindNull:
		return ""
	case variant.KindBoolean:
		if v.Bool() {
			return "true"
		}
		return "false"
	case variant.KindString:
		return v.String()
	case variant.KindAtomString, variant.KindException:
		return variant.AtomText(v)
	default:
		f, err := variant.CastToNumber(v, true)
		if err != nil {
			return ""
		}
		return fmt.Sprintf("%g", f)
	}
}
