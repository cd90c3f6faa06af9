package variant

import (
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/blake2b"

	"github.com/HVML/PurC-sub012/internal/arraylist"
	"github.com/HVML/PurC-sub012/internal/errcode"
	"github.com/HVML/PurC-sub012/internal/rbtree"
)

// setMember is one element of a set, wrapping the held variant together
// with the fingerprint it was indexed under.
type setMember struct {
	value       *Variant
	fingerprint string
}

// Set is the payload of a set variant (spec.md §4.2): an insertion-
// ordered collection of unique members, deduplicated either by full
// structural equality (a "generic set") or by the values of a fixed
// list of object keys (a "keyed set", e.g. `[! key1 key2 : ... ]`).
// Deduplication is done by computing a fingerprint per member and
// indexing it in a red-black tree, rather than an O(n) linear scan.
type Set struct {
	uniqueKeys []string // empty for a generic (non-keyed) set
	caseless   bool

	order *arraylist.List[*setMember]
	index *rbtree.Tree[string, *setMember]
}

// MakeSet creates an empty set. uniqueKeys, when non-empty, makes this a
// keyed set whose members must be objects and whose identity is the
// tuple of values at those keys; caseless applies CASELESS comparison
// (golang.org/x/text/cases) when hashing/comparing string key values.
func (h *Heap) MakeSet(uniqueKeys []string, caseless bool) *Variant {
	h.countNew(KindSet)
	v := newVariant(KindSet, nil)
	v.heap = h
	v.payload = &Set{
		uniqueKeys: append([]string(nil), uniqueKeys...),
		caseless:   caseless,
		order:      arraylist.New[*setMember](0),
		index:      rbtree.New[string, *setMember](strings.Compare),
	}
	return v
}

func (v *Variant) set() *Set { return v.payload.(*Set) }

// SetLen returns the number of members.
func (v *Variant) SetLen() int { return v.set().order.Len() }

// IsKeyedSet reports whether v was created with a non-empty unique-keys
// list.
func (v *Variant) IsKeyedSet() bool { return len(v.set().uniqueKeys) > 0 }

// UniqueKeys returns the key names a keyed set was created with, in
// declaration order; nil for a generic set.
func (v *Variant) UniqueKeys() []string {
	return append([]string(nil), v.set().uniqueKeys...)
}

// fingerprint renders a 128-bit blake2b digest of member as 32 lowercase
// hex characters (spec.md §4.2), hashing either the full structural text
// of member (generic set) or the concatenation of its unique-key values
// (keyed set).
func (s *Set) fingerprint(member *Variant) (string, error) {
	var text string
	if len(s.uniqueKeys) > 0 {
		if member.Kind() != KindObject {
			return "", errcode.New(errcode.InvalidValue, "keyed set member must be an object, got %s", member.Kind())
		}
		var b strings.Builder
		for _, k := range s.uniqueKeys {
			child, err := member.GetByCKey(k, true, nil)
			if err != nil {
				return "", err
			}
			b.WriteString(k)
			b.WriteByte(0)
			if child != nil {
				b.WriteString(fingerprintText(child, s.caseless))
			}
			b.WriteByte(0)
		}
		text = b.String()
	} else {
		text = fingerprintText(member, s.caseless)
	}
	sum := blake2b.Sum512([]byte(text))
	return hex.EncodeToString(sum[:16]), nil
}

// fingerprintText renders a scalar value's text for hashing, case-
// folding it first when caseless is set. Non-scalars fall back to
// Compare's ModeCase rendering, which is sufficient since keyed-set
// unique-key values are expected to be scalars in practice.
func fingerprintText(v *Variant, caseless bool) string {
	t := textOf(v)
	if caseless {
		t = foldCaseless(t)
	}
	return t
}

// Add inserts member if no existing member shares its fingerprint.
// Returns false (no error) if member was already present — spec.md
// §4.2's set semantics treat re-adding a duplicate as a silent no-op
// unless the caller wants CONFLICT_OVERWRITE behavior via AddOrReplace.
func (v *Variant) Add(member *Variant) (bool, error) {
	s := v.set()
	fp, err := s.fingerprint(member)
	if err != nil {
		return false, err
	}
	if s.index.Find(fp) != nil {
		return false, nil
	}
	m := &setMember{value: member, fingerprint: fp}
	fireMutation(v, OpInflated, []*Variant{nil, member}, func() {
		s.order.Append(m)
		s.index.Insert(fp, m)
		adopt(v, member, fp)
	})
	return true, nil
}

// AddOrReplace inserts member, replacing any existing member with the
// same fingerprint (conflict-resolution OVERWRITE, spec.md §4.2/§8).
func (v *Variant) AddOrReplace(member *Variant) error {
	s := v.set()
	fp, err := s.fingerprint(member)
	if err != nil {
		return err
	}
	if existing := s.index.Find(fp); existing != nil {
		old := existing.Value.value
		fireMutation(v, OpModified, []*Variant{old, member}, func() {
			removeReverseEdge(old, v)
			Unref(old)
			existing.Value.value = member
			adopt(v, member, fp)
		})
		return nil
	}
	m := &setMember{value: member, fingerprint: fp}
	fireMutation(v, OpInflated, []*Variant{nil, member}, func() {
		s.order.Append(m)
		s.index.Insert(fp, m)
		adopt(v, member, fp)
	})
	return nil
}

// GetMemberByKeyValues looks up a keyed set's member whose unique-key
// values match keyValues, in the same order uniqueKeys was given.
func (v *Variant) GetMemberByKeyValues(keyValues ...*Variant) (*Variant, error) {
	s := v.set()
	if len(s.uniqueKeys) == 0 {
		return nil, errcode.New(errcode.InvalidValue, "GetMemberByKeyValues requires a keyed set")
	}
	fp, err := keyValuesFingerprint(s, keyValues)
	if err != nil {
		return nil, err
	}
	n := s.index.Find(fp)
	if n == nil {
		return nil, errcode.New(errcode.NoSuchKey, "no set member with given key values")
	}
	return n.Value.value, nil
}

// RemoveMemberByKeyValues removes a keyed set's member matching
// keyValues. Returns false if no such member exists.
func (v *Variant) RemoveMemberByKeyValues(keyValues ...*Variant) (bool, error) {
	s := v.set()
	if len(s.uniqueKeys) == 0 {
		return false, errcode.New(errcode.InvalidValue, "RemoveMemberByKeyValues requires a keyed set")
	}
	fp, err := keyValuesFingerprint(s, keyValues)
	if err != nil {
		return false, err
	}
	n := s.index.Find(fp)
	if n == nil {
		return false, nil
	}
	return true, v.removeFingerprint(fp, n.Value)
}

func keyValuesFingerprint(s *Set, keyValues []*Variant) (string, error) {
	if len(keyValues) != len(s.uniqueKeys) {
		return "", errcode.New(errcode.InvalidValue, "expected %d key values, got %d", len(s.uniqueKeys), len(keyValues))
	}
	var b strings.Builder
	for i, k := range s.uniqueKeys {
		b.WriteString(k)
		b.WriteByte(0)
		b.WriteString(fingerprintText(keyValues[i], s.caseless))
		b.WriteByte(0)
	}
	sum := blake2b.Sum512([]byte(b.String()))
	return hex.EncodeToString(sum[:16]), nil
}

// RemoveMember deletes member (matched by fingerprint) from the set.
// Returns false if not present.
func (v *Variant) RemoveMember(member *Variant) (bool, error) {
	s := v.set()
	fp, err := s.fingerprint(member)
	if err != nil {
		return false, err
	}
	n := s.index.Find(fp)
	if n == nil {
		return false, nil
	}
	return true, v.removeFingerprint(fp, n.Value)
}

func (v *Variant) removeFingerprint(fp string, m *setMember) error {
	s := v.set()
	fireMutation(v, OpDeflated, []*Variant{m.value, nil}, func() {
		n := s.index.Find(fp)
		s.index.Delete(n)
		s.order.Each(func(i int, om *setMember) bool {
			if om == m {
				s.order.RemoveAt(i)
				return false
			}
			return true
		})
		removeReverseEdge(m.value, v)
		Unref(m.value)
	})
	return nil
}

// Members returns the set's members in insertion order.
func (v *Variant) Members() []*Variant {
	s := v.set()
	out := make([]*Variant, 0, s.order.Len())
	s.order.Each(func(_ int, m *setMember) bool {
		out = append(out, m.value)
		return true
	})
	return out
}

func (h *Heap) cloneSetDeep(v *Variant) *Variant {
	s := v.set()
	out := h.MakeSet(s.uniqueKeys, s.caseless)
	s.order.Each(func(_ int, m *setMember) bool {
		cloned := h.cloneDeepOne(m.value)
		if _, err := out.Add(cloned); err != nil {
			// Members were already unique in the source set under the
			// same key policy, so re-hashing a clone cannot collide.
			panic(err)
		}
		Unref(cloned)
		return true
	})
	return out
}
