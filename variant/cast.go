package variant

import (
	"math"
	"math/big"
	"strconv"

	"github.com/HVML/PurC-sub012/internal/atom"
	"github.com/HVML/PurC-sub012/internal/errcode"
)

// Numeric casts are defined totally (spec.md §3.1): every one of these
// either succeeds with a value or fails with a typed *errcode.Error —
// never silently truncates when force is false. With force true, a
// cast that would lose precision or overflow instead saturates/
// truncates the way a C cast does, matching the donor's distinction
// between strict and permissive coercion paths (core/types validation
// vs. schema coercion).

// CastToNumber converts v to a float64.
func CastToNumber(v *Variant, force bool) (float64, error) {
	switch v.kind {
	case KindNumber:
		return v.Number(), nil
	case KindLongInt:
		return float64(v.LongInt()), nil
	case KindULongInt:
		return float64(v.ULongInt()), nil
	case KindLongDouble:
		f, _ := v.LongDouble().Float64()
		return f, nil
	case KindBigInt:
		f := new(big.Float).SetInt(v.BigInt())
		f64, _ := f.Float64()
		return f64, nil
	case KindBoolean:
		if v.Bool() {
			return 1, nil
		}
		return 0, nil
	case KindString:
		f, err := strconv.ParseFloat(v.String(), 64)
		if err != nil {
			if force {
				return 0, nil
			}
			return 0, errcode.New(errcode.InvalidValue, "string %q is not numeric", v.String())
		}
		return f, nil
	case KindUndefined, KindNull:
		if force {
			return 0, nil
		}
		return 0, errcode.New(errcode.WrongDataType, "cannot cast %s to number", v.kind)
	default:
		if force {
			return 0, nil
		}
		return 0, errcode.New(errcode.WrongDataType, "cannot cast %s to number", v.kind)
	}
}

// CastToLongInt converts v to an int64. Fails with InvalidValue on a
// fractional number unless force is set, in which case it truncates
// toward zero; fails with Overflow when the magnitude doesn't fit.
func CastToLongInt(v *Variant, force bool) (int64, error) {
	if v.kind == KindLongInt {
		return v.LongInt(), nil
	}
	if v.kind == KindBigInt {
		bi := v.BigInt()
		if bi.IsInt64() {
			return bi.Int64(), nil
		}
		if force {
			if bi.Sign() > 0 {
				return math.MaxInt64, nil
			}
			return math.MinInt64, nil
		}
		return 0, errcode.New(errcode.Overflow, "bigint does not fit in longint")
	}

	f, err := CastToNumber(v, force)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) && !force {
		return 0, errcode.New(errcode.InvalidValue, "%v has a fractional part", f)
	}
	if f > math.MaxInt64 || f < math.MinInt64 {
		if force {
			if f > 0 {
				return math.MaxInt64, nil
			}
			return math.MinInt64, nil
		}
		return 0, errcode.New(errcode.Overflow, "%v overflows longint", f)
	}
	return int64(f), nil
}

// CastToULongInt converts v to a uint64, failing on negative values
// unless force is set (which clamps to 0).
func CastToULongInt(v *Variant, force bool) (uint64, error) {
	if v.kind == KindULongInt {
		return v.ULongInt(), nil
	}
	i, err := CastToLongInt(v, force)
	if err != nil {
		return 0, err
	}
	if i < 0 {
		if force {
			return 0, nil
		}
		return 0, errcode.New(errcode.InvalidValue, "%d is negative", i)
	}
	return uint64(i), nil
}

// CastToInt32 narrows v to an int32, failing with Overflow when out of
// range unless force is set (which clamps).
func CastToInt32(v *Variant, force bool) (int32, error) {
	i, err := CastToLongInt(v, force)
	if err != nil {
		return 0, err
	}
	if i > math.MaxInt32 || i < math.MinInt32 {
		if force {
			if i > 0 {
				return math.MaxInt32, nil
			}
			return math.MinInt32, nil
		}
		return 0, errcode.New(errcode.Overflow, "%d overflows int32", i)
	}
	return int32(i), nil
}

// CastToLongDouble converts v to a big.Float. A longdouble keeps its own
// precision and a bigint converts exactly; every other kind goes through
// CastToNumber and so carries float64's 53 bits.
func CastToLongDouble(v *Variant, force bool) (*big.Float, error) {
	if v.kind == KindLongDouble {
		return new(big.Float).Copy(v.LongDouble()), nil
	}
	if v.kind == KindBigInt {
		return new(big.Float).SetInt(v.BigInt()), nil
	}
	f, err := CastToNumber(v, force)
	if err != nil {
		return nil, err
	}
	return big.NewFloat(f), nil
}

// Numerify resolves v to whichever numeric kind best represents it
// without loss: bigint/longdouble/ulongint/longint stay as-is, anything
// else becomes a number (float64). Unlike the Cast* functions this
// never fails — non-numeric input becomes 0, matching the donor's
// "best-effort coercion" validation path (core/types/validation.go).
func (h *Heap) Numerify(v *Variant) *Variant {
	switch v.kind {
	case KindLongInt, KindULongInt, KindLongDouble, KindBigInt, KindNumber:
		return Ref(v)
	default:
		f, _ := CastToNumber(v, true)
		return h.MakeNumber(f)
	}
}

// AtomText resolves an atomstring or exception variant's interned text.
func AtomText(v *Variant) string {
	s, _ := atom.To(v.Atom())
	return s
}
