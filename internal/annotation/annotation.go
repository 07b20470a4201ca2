// Package annotation implements the resource-annotation algebra: a named
// bundle of descriptors and/or other annotations, normalized once at
// construction into a filtered, deduplicated access list.
package annotation

import (
	"github.com/vk/flowgrid/internal/resource"
)

// Descriptor is a single (resource, mode) claim. Descriptors are value-like,
// immutable, and comparable by all fields.
type Descriptor struct {
	Resource resource.ID
	Mode     resource.Mode
}

// Reads builds a READ descriptor for the given member.
func Reads(m resource.Member) Descriptor {
	return Descriptor{Resource: resource.Of(m), Mode: resource.Read}
}

// Writes builds a WRITE descriptor for the given member.
func Writes(m resource.Member) Descriptor {
	return Descriptor{Resource: resource.Of(m), Mode: resource.Write}
}

// filtered satisfies Child: a bare descriptor's contribution to its
// parent's expanded list is always the singleton list containing itself.
func (d Descriptor) filtered() []Descriptor { return []Descriptor{d} }

// Child is a sealed interface implemented only by Descriptor and
// *Annotation — the two legal kinds of annotation children.
type Child interface {
	filtered() []Descriptor
}

// Annotation is a named, ordered bundle of children (descriptors and/or
// other annotations) attached to a callable. Its expanded and filtered
// access lists are computed once at construction time and cached; both
// accessors are side-effect-free and idempotent thereafter.
//
// A parent never re-expands a child annotation's own children (see expand's
// doc comment), so the composition graph cannot be cyclic by construction:
// building New(name, children...) requires every *Annotation child to
// already exist as a fully-normalized value, and Go offers no way to pass a
// not-yet-constructed pointer as one of its own children. A self-referential
// annotation is therefore a compile error, not something New needs to guard
// against at runtime.
type Annotation struct {
	name         string
	children     []Child
	expanded     []Descriptor
	filteredList []Descriptor
}

// New builds an annotation from its children, normalizing it immediately.
func New(name string, children ...Child) *Annotation {
	a := &Annotation{name: name, children: children}
	a.expanded = expand(children)
	a.filteredList = normalize(a.expanded)
	return a
}

// Empty returns the "no resources" annotation used by tasks that touch
// nothing.
func Empty(name string) *Annotation {
	return New(name)
}

// Name returns the annotation's declared name.
func (a *Annotation) Name() string { return a.name }

// Expanded returns the flat concatenation of every child's contribution, in
// declaration order. May contain duplicates and conflicting modes.
func (a *Annotation) Expanded() []Descriptor {
	return append([]Descriptor(nil), a.expanded...)
}

// Filtered returns the deduplicated, absorption-applied access list: no two
// entries share a (resource, mode) pair, and no resource appears with both
// READ and WRITE.
func (a *Annotation) Filtered() []Descriptor {
	return append([]Descriptor(nil), a.filteredList...)
}

// filtered satisfies Child: an annotation contributes its own filtered
// list to a parent, not its expanded list — see expand's doc comment for
// why.
func (a *Annotation) filtered() []Descriptor { return a.filteredList }
