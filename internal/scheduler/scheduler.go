// Package scheduler turns a FIFO of submitted tasks into a dependency graph
// and drives it to completion, launching one goroutine per vertex as its
// dependencies finish rather than pulling from a fixed-size worker pool.
// Each vertex keeps an atomic count of unfinished parents; the goroutine
// that brings that count to zero claims the right to launch it with a
// CompareAndSwap reservation instead of feeding a shared ready channel.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/vk/flowgrid/internal/ctxlog"
	"github.com/vk/flowgrid/internal/flow"
	"github.com/vk/flowgrid/internal/task"
)

// vertexState mirrors the UNRESERVED -> RESERVED -> LAUNCHED -> COMPLETED
// progression every task passes through exactly once.
type vertexState int32

const (
	unreserved vertexState = iota
	reserved
	launched
	completed
)

// OrderAndExecute drains q, builds the dependency graph over the drained
// tasks via internal/flow, and runs every task to completion respecting
// the read/write edges that graph encodes. It blocks until every vertex has
// been launched and completed (a vertex launched after ctx is cancelled
// completes without running its task's action), then returns every recovered task panic joined with errors.Join. A
// panicking task still signals completion to its dependents — only its own
// success/fail status is test-observable, per the "a failed parent does
// not prevent a child from starting" rule.
func OrderAndExecute(ctx context.Context, q *task.Queue) error {
	logger := ctxlog.FromContext(ctx)

	tasks := q.PopAll()
	if len(tasks) == 0 {
		return nil
	}

	byID := make(map[uint64]*task.Task, len(tasks))
	b := flow.NewBuilder()
	for _, t := range tasks {
		byID[t.ID()] = t
		t.RegisterWith(b)
	}
	g := b.Graph()
	vertices := g.Vertices()

	logger.Debug("scheduler: graph built", "tasks", len(vertices))

	remaining := make(map[uint64]*int32, len(vertices))
	states := make(map[uint64]*int32, len(vertices))
	for _, v := range vertices {
		n := int32(len(g.InEdges(v)))
		remaining[v] = &n
		s := int32(unreserved)
		states[v] = &s
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	var errs []error

	var launch func(v uint64)
	launch = func(v uint64) {
		wg.Add(1)
		go func() {
			defer wg.Done()

			atomic.StoreInt32(states[v], int32(launched))
			t := byID[v]
			logger.Debug("scheduler: task launched", "task", v)

			if ctx.Err() == nil {
				if err := runSafely(t); err != nil {
					logger.Error("scheduler: task failed", "task", v, "error", err)
					mu.Lock()
					errs = append(errs, fmt.Errorf("task %d: %w", v, err))
					mu.Unlock()
				}
			}

			atomic.StoreInt32(states[v], int32(completed))
			logger.Debug("scheduler: task completed", "task", v)

			for _, dependent := range g.OutEdges(v) {
				if atomic.AddInt32(remaining[dependent], -1) == 0 {
					if atomic.CompareAndSwapInt32(states[dependent], int32(unreserved), int32(reserved)) {
						launch(dependent)
					}
				}
			}
		}()
	}

	for _, v := range vertices {
		if atomic.LoadInt32(remaining[v]) == 0 {
			if atomic.CompareAndSwapInt32(states[v], int32(unreserved), int32(reserved)) {
				launch(v)
			}
		}
	}

	wg.Wait()
	return errors.Join(errs...)
}

func runSafely(t *task.Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	t.Run()
	return nil
}
