// Package app is the composition root: it loads a task list, wires the demo
// registry, and drives the scheduler against a plain task list.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/flowgrid/internal/ctxlog"
	"github.com/vk/flowgrid/internal/gridcfg"
	"github.com/vk/flowgrid/internal/registry"
	"github.com/vk/flowgrid/internal/scheduler"
	"github.com/vk/flowgrid/internal/task"

	"github.com/vk/flowgrid/demo"
)

// Config holds everything an App needs to run a single driver invocation.
type Config struct {
	GridPath  string
	LogFormat string
	LogLevel  string
}

// App owns the logger, registry, and demo task set for one run.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	reg    *registry.Registry
	tasks  demo.Set
}

// New builds an App with its own isolated logger and a registry populated
// from the shipped demo packages.
func New(outW io.Writer, cfg Config) *App {
	return &App{
		outW:   outW,
		logger: newLogger(cfg.LogLevel, cfg.LogFormat, outW),
		reg:    registerDemoAnnotations(),
		tasks:  demo.Registered(),
	}
}

func registerDemoAnnotations() *registry.Registry {
	reg := registry.New()
	demo.RegisterAnnotations(reg)
	return reg
}

// Run loads the grid file at cfg.GridPath, resolves every declared task
// against the demo registry, and drives the scheduler to completion.
func (a *App) Run(ctx context.Context, cfg Config) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("app: starting run", "grid", cfg.GridPath)

	specs, err := gridcfg.Load(ctx, cfg.GridPath)
	if err != nil {
		return fmt.Errorf("app: loading grid: %w", err)
	}
	a.logger.Debug("app: grid loaded", "tasks", len(specs))

	q := task.NewQueue()
	for _, spec := range specs {
		factory, ok := a.tasks[spec.Uses]
		if !ok {
			return fmt.Errorf("app: task %q uses unregistered demo task %q", spec.Name, spec.Uses)
		}
		q.Push(factory(ctx, a.reg))
	}

	a.logger.Info("app: running scheduler", "tasks", len(specs))
	err = scheduler.OrderAndExecute(ctx, q)
	if err != nil {
		a.logger.Error("app: run failed", "error", err)
		return err
	}
	a.logger.Info("app: run complete")
	return nil
}

// Registry returns the app's demo registry. Primarily for testing.
func (a *App) Registry() *registry.Registry { return a.reg }
