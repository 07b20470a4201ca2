// Package resource defines the identity half of a resource descriptor:
// the (owning type, member) pair a task's annotation claims to touch.
package resource

import (
	"reflect"
	"unsafe"
)

// Member identifies a single field of a struct type. It is comparable by
// value: two Members are equal iff both the owning type and the field name
// match under structural comparison.
type Member struct {
	owner reflect.Type
	name  string
}

// Owner returns the struct type the member belongs to.
func (m Member) Owner() reflect.Type { return m.owner }

// Name returns the field name.
func (m Member) Name() string { return m.name }

// String renders the member as "pkg.Type.Field", useful for logs and panics.
func (m Member) String() string {
	if m.owner == nil {
		return "<nil>." + m.name
	}
	return m.owner.String() + "." + m.name
}

// FieldOf derives a Member from a direct field selector, the Go analogue of
// a C++ pointer-to-member constant. The selector is called once against T's
// zero value; the returned field's address is compared against the zero
// value's base address to recover the field's offset, which is then
// resolved back to a field name via reflection. Panics if the selector does
// not return the address of a direct field of T (e.g. a field of an
// embedded pointer, or a heap-allocated value unrelated to the argument).
func FieldOf[T, M any](selector func(*T) *M) Member {
	var zero T
	base := uintptr(unsafe.Pointer(&zero))
	target := uintptr(unsafe.Pointer(selector(&zero)))
	if target < base {
		panic("resource: selector does not address a field of T")
	}
	offset := target - base

	t := reflect.TypeOf(zero)
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Offset == offset {
			return Member{owner: t, name: f.Name}
		}
	}
	panic("resource: selector does not address a direct field of " + t.String())
}

// NamedField identifies a member the annotator cannot reference directly
// (an unexported field in another package, say) by its owning type and
// field name string. Equality is purely structural: two NamedField results
// for the same (owner, name) pair compare equal, regardless of whether the
// field is actually exported or even exists.
func NamedField(owner reflect.Type, name string) Member {
	return Member{owner: owner, name: name}
}
