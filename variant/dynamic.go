package variant

import "github.com/HVML/PurC-sub012/internal/errcode"

// Getter reads a dynamic variant's current value given the call
// arguments supplied at the use site (spec.md §3.1's "getter with
// optional setter").
type Getter func(args []*Variant) (*Variant, error)

// Setter writes through a dynamic variant. Dynamic variants created
// without one are read-only.
type Setter func(args []*Variant) (*Variant, error)

// Dynamic is the payload of a dynamic variant: a pair of host-supplied
// functions standing in for a value that is computed, not stored (a
// clock, an environment variable, a computed property).
type Dynamic struct {
	get Getter
	set Setter
}

// MakeDynamic wraps get (required) and set (optional, nil for
// read-only) as a dynamic variant.
func (h *Heap) MakeDynamic(get Getter, set Setter) *Variant {
	h.countNew(KindDynamic)
	v := newVariant(KindDynamic, &Dynamic{get: get, set: set})
	v.heap = h
	return v
}

func (v *Variant) dynamic() *Dynamic { return v.payload.(*Dynamic) }

// Invoke calls the dynamic's getter.
func (v *Variant) Invoke(args ...*Variant) (*Variant, error) {
	return v.dynamic().get(args)
}

// InvokeSetter calls the dynamic's setter. Fails with NotSupported if
// the dynamic was created without one.
func (v *Variant) InvokeSetter(args ...*Variant) (*Variant, error) {
	d := v.dynamic()
	if d.set == nil {
		return nil, errcode.New(errcode.NotSupported, "dynamic value is read-only")
	}
	return d.set(args)
}

// IsReadOnly reports whether v has no setter.
func (v *Variant) IsReadOnly() bool { return v.dynamic().set == nil }
