package variant

import "github.com/HVML/PurC-sub012/internal/errcode"

// NativeOps is the vtable a native variant carries (spec.md §3.1, §9):
// native is the one variant kind whose behavior genuinely varies by
// implementation (a host-provided file handle, socket, or FFI object),
// so — unlike every other kind, which switches on Kind inside this
// package — it is modeled as an interface-like table of optional
// function pointers rather than a closed set of cases.
type NativeOps struct {
	// Property, when non-nil, implements `.prop` access on the native
	// entity (e.g. a file handle's `.size`).
	Property func(entity any, name string) (*Variant, error)
	// Call, when non-nil, implements invoking the native entity itself
	// as a callable (e.g. a socket's `write(bytes)`).
	Call func(entity any, args []*Variant) (*Variant, error)
	// Compare, when non-nil, orders two native entities of the same
	// table for use in Compare/sorted_array contexts.
	Compare func(a, b any) int
	// Release is called exactly once, when the native variant's
	// refcount reaches zero, to let the host close/free the entity.
	Release func(entity any)
	// ToString renders the entity for serialization/diagnostics.
	ToString func(entity any) string
}

// Native is the payload of a native variant: an opaque host-owned
// entity plus the vtable describing how to operate on it.
type Native struct {
	entity any
	ops    *NativeOps
}

// MakeNative wraps entity with ops as a native variant.
func (h *Heap) MakeNative(entity any, ops *NativeOps) *Variant {
	h.countNew(KindNative)
	v := newVariant(KindNative, &Native{entity: entity, ops: ops})
	v.heap = h
	return v
}

func (v *Variant) native() *Native { return v.payload.(*Native) }

// NativeEntity returns the opaque host value a native variant wraps.
func (v *Variant) NativeEntity() any { return v.native().entity }

// NativeProperty invokes the native's Property hook, if any.
func (v *Variant) NativeProperty(name string) (*Variant, error) {
	n := v.native()
	if n.ops.Property == nil {
		return nil, errcode.New(errcode.NotSupported, "native value has no properties")
	}
	return n.ops.Property(n.entity, name)
}

// NativeCall invokes the native's Call hook, if any.
func (v *Variant) NativeCall(args []*Variant) (*Variant, error) {
	n := v.native()
	if n.ops.Call == nil {
		return nil, errcode.New(errcode.NotSupported, "native value is not callable")
	}
	return n.ops.Call(n.entity, args)
}

// releaseNative runs the native's Release hook, if any. Called from
// releaseMembers when a native variant's refcount drops to zero.
func releaseNative(v *Variant) {
	n := v.native()
	if n.ops.Release != nil {
		n.ops.Release(n.entity)
	}
}
