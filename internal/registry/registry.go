// Package registry holds the process-wide map from a carrier's static type
// to the annotation describing that type's resource accesses.
package registry

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/vk/flowgrid/internal/annotation"
)

// Registry maps a type's identity to the annotation describing the methods
// that type carries. A Registry is safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	byType map[reflect.Type]*annotation.Annotation
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{byType: make(map[reflect.Type]*annotation.Annotation)}
}

// Register associates t with a, panicking if t is already registered.
// Registration is append-only: an annotation registry does not support
// updating or removing an entry once a type has been bound, matching the
// definition-time nature of the annotations it holds.
func (r *Registry) Register(t reflect.Type, a *annotation.Annotation) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byType[t]; exists {
		panic(fmt.Sprintf("registry: %s is already registered", t))
	}
	r.byType[t] = a
}

// Lookup returns the annotation registered for t, if any.
func (r *Registry) Lookup(t reflect.Type) (*annotation.Annotation, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.byType[t]
	return a, ok
}

// Range calls f for every registered (type, annotation) pair. Iteration
// order follows Go's randomized map order and is not guaranteed to be
// stable across calls. Range stops early if f returns false.
func (r *Registry) Range(f func(reflect.Type, *annotation.Annotation) bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for t, a := range r.byType {
		if !f(t, a) {
			return
		}
	}
}

var (
	defaultOnce sync.Once
	defaultReg  *Registry
)

// Default returns the process-wide registry, created empty on first call.
// Nothing in this module populates it: the demo packages register through
// their Register(reg) functions into a registry the app builds with New.
func Default() *Registry {
	defaultOnce.Do(func() { defaultReg = New() })
	return defaultReg
}
