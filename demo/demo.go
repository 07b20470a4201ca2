// Package demo is the string-keyed dispatch table the demo driver
// (cmd/flowgrid) uses to turn a gridcfg.TaskSpec's Uses string into a
// runnable task.
package demo

import (
	"context"

	"github.com/vk/flowgrid/internal/carrier"
	"github.com/vk/flowgrid/internal/registry"
	"github.com/vk/flowgrid/internal/task"

	"github.com/vk/flowgrid/demo/foobar"
	"github.com/vk/flowgrid/demo/httpcache"
	"github.com/vk/flowgrid/demo/livewire"
)

// Factory builds one task, given the annotation registry the task's
// carrier type should already be registered in.
type Factory func(ctx context.Context, reg *registry.Registry) *task.Task

// Set maps a gridcfg `uses` string to the factory that builds that task.
type Set map[string]Factory

// Registered returns the demo task set the shipped demo packages expose.
// The struct instances closed over here are shared across every task a
// single driver run builds from this set — the same sharing the scheduler's
// read/write ordering exists to make safe.
func Registered() Set {
	bar := &foobar.Bar{}
	foo := &foobar.Foo{}
	cache := httpcache.NewCache()
	conn := livewire.NewConnection()

	return Set{
		"demo.foobar.bar_method": func(ctx context.Context, reg *registry.Registry) *task.Task {
			return task.FromCarrier(ctx, reg, func() { bar.Method() }, carrier.Carry(foobar.BarMethodTag{}))
		},
		"demo.foobar.foo_method_a": func(ctx context.Context, reg *registry.Registry) *task.Task {
			return task.FromCarrier(ctx, reg, func() { foo.MethodA(bar) }, carrier.Carry(foobar.FooMethodATag{}))
		},
		"demo.foobar.foo_method_b": func(ctx context.Context, reg *registry.Registry) *task.Task {
			return task.FromCarrier(ctx, reg, func() { foo.MethodB(bar) }, carrier.Carry(foobar.FooMethodBTag{}))
		},
		"demo.foobar.foo_method_c": func(ctx context.Context, reg *registry.Registry) *task.Task {
			return task.FromCarrier(ctx, reg, func() { foo.MethodC(bar) }, carrier.Carry(foobar.FooMethodCTag{}))
		},
		"demo.http.warm_cache": func(ctx context.Context, reg *registry.Registry) *task.Task {
			action := func() { cache.Warm(ctx, "https://example.com") }
			return task.FromCarrier(ctx, reg, action, carrier.Carry(httpcache.WarmCacheTag{}))
		},
		"demo.http.read_cache": func(ctx context.Context, reg *registry.Registry) *task.Task {
			action := func() { cache.Read("https://example.com") }
			return task.FromCarrier(ctx, reg, action, carrier.Carry(httpcache.ReadCacheTag{}))
		},
		"demo.livewire.connect": func(ctx context.Context, reg *registry.Registry) *task.Task {
			action := func() { conn.Connect(ctx, "https://example.com") }
			return task.FromCarrier(ctx, reg, action, carrier.Carry(livewire.ConnectTag{}))
		},
		"demo.livewire.publish": func(ctx context.Context, reg *registry.Registry) *task.Task {
			action := func() { conn.Publish("ping") }
			return task.FromCarrier(ctx, reg, action, carrier.Carry(livewire.PublishTag{}))
		},
	}
}

// RegisterAnnotations binds every demo task's carrier type to its resource
// annotation in reg.
func RegisterAnnotations(reg *registry.Registry) {
	foobar.Register(reg)
	httpcache.Register(reg)
	livewire.Register(reg)
}
