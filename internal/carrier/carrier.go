// Package carrier implements the type-erased carrier and the visitor that
// recovers a carried value's static type identity against a registry, the
// idiomatic-Go analogue of the original C++ library's typeid-keyed visitor
// dispatch over std::any.
package carrier

import (
	"context"
	"reflect"

	"github.com/vk/flowgrid/internal/annotation"
	"github.com/vk/flowgrid/internal/ctxlog"
	"github.com/vk/flowgrid/internal/registry"
)

// Carrier holds a value together with the static type it was carried as.
// The tag is captured separately from value's own dynamic type so that a
// nil interface, an unexported type, or a type deliberately registered
// under an alias all resolve the same way a direct type switch would.
type Carrier struct {
	tag   reflect.Type
	value any
}

// Carry wraps v, tagging it with T's static type.
func Carry[T any](v T) Carrier {
	return Carrier{tag: reflect.TypeOf((*T)(nil)).Elem(), value: v}
}

// Tag returns the carrier's tagged type.
func (c Carrier) Tag() reflect.Type { return c.tag }

// Value returns the carried value, type-erased.
func (c Carrier) Value() any { return c.value }

// VisitFunc receives the annotation recovered for a carrier's tagged type.
type VisitFunc func(a *annotation.Annotation)

// Visit looks up c's tagged type in reg and, on a match, invokes f with the
// recovered annotation. On a miss it logs a diagnostic via the context's
// logger and returns false; it never panics, since a task whose carrier
// type was never registered simply has an empty access list.
func Visit(ctx context.Context, reg *registry.Registry, c Carrier, f VisitFunc) bool {
	a, ok := reg.Lookup(c.tag)
	if !ok {
		ctxlog.FromContext(ctx).Warn("carrier: type not found in registry", "type", c.tag)
		return false
	}
	f(a)
	return true
}
