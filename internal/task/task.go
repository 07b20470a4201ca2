// Package task defines the unit of scheduled work: an action closure paired
// with the resource annotation describing what it touches, plus the FIFO
// queue submissions accumulate in before the scheduler orders them.
package task

import (
	"context"
	"sync/atomic"

	"github.com/vk/flowgrid/internal/annotation"
	"github.com/vk/flowgrid/internal/carrier"
	"github.com/vk/flowgrid/internal/flow"
	"github.com/vk/flowgrid/internal/registry"
	"github.com/vk/flowgrid/internal/resource"
)

var nextID uint64

// Task is a single scheduled unit: an action and the access list it claims.
// Its id is an opaque, monotonically increasing handle — the race-free
// substitute for the pointer identity a native instance would offer.
type Task struct {
	id         uint64
	action     func()
	annotation *annotation.Annotation
}

// New builds a task from an action and an already-known annotation.
func New(action func(), ann *annotation.Annotation) *Task {
	return &Task{
		id:         atomic.AddUint64(&nextID, 1),
		action:     action,
		annotation: ann,
	}
}

// FromCarrier builds a task by recovering the carrier's annotation from reg.
// A registry miss yields a task with an empty access list rather than an
// error: an unregistered carrier type is a diagnostic, not a hard failure.
func FromCarrier(ctx context.Context, reg *registry.Registry, action func(), c carrier.Carrier) *Task {
	t := &Task{id: atomic.AddUint64(&nextID, 1), action: action}
	found := carrier.Visit(ctx, reg, c, func(a *annotation.Annotation) {
		t.annotation = a
	})
	if !found {
		t.annotation = annotation.Empty("unregistered:" + c.Tag().String())
	}
	return t
}

// ID returns the task's opaque, unique identity.
func (t *Task) ID() uint64 { return t.id }

// AccessList returns the task's filtered resource descriptors.
func (t *Task) AccessList() []annotation.Descriptor {
	if t.annotation == nil {
		return nil
	}
	return t.annotation.Filtered()
}

// Run executes the task's action.
func (t *Task) Run() { t.action() }

// RegisterWith binds the task into b, claiming RO or RW for each resource in
// its access list.
func (t *Task) RegisterWith(b flow.Builder) {
	b.Bind(t.id)
	for _, d := range t.AccessList() {
		key := d.Resource.Hash()
		if d.Mode == resource.Write {
			b.RW(key)
		} else {
			b.RO(key)
		}
	}
}
