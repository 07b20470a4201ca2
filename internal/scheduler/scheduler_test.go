package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/flowgrid/internal/annotation"
	"github.com/vk/flowgrid/internal/ctxlog"
	"github.com/vk/flowgrid/internal/resource"
	"github.com/vk/flowgrid/internal/task"
)

type ledger struct {
	mu      sync.Mutex
	records map[string]timing
}

type timing struct{ start, end time.Time }

func newLedger() *ledger { return &ledger{records: make(map[string]timing)} }

func (l *ledger) record(name string, start, end time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records[name] = timing{start: start, end: end}
}

func (l *ledger) get(name string) timing {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.records[name]
}

func testContext() context.Context {
	return ctxlog.WithLogger(context.Background(), slog.New(slog.DiscardHandler))
}

type barStruct struct {
	SomeString    string
	AnotherString string
}

var (
	someStringMember    = resource.FieldOf(func(b *barStruct) *string { return &b.SomeString })
	anotherStringMember = resource.FieldOf(func(b *barStruct) *string { return &b.AnotherString })
)

func timedAction(l *ledger, name string, sleep time.Duration) func() {
	return func() {
		start := time.Now()
		time.Sleep(sleep)
		l.record(name, start, time.Now())
	}
}

// TestOrderAndExecute_ReadThenWriteRunsSequentially checks that a task
// reading a resource forces a later writer of that resource to wait until
// it finishes.
func TestOrderAndExecute_ReadThenWriteRunsSequentially(t *testing.T) {
	l := newLedger()
	q := task.NewQueue()

	q.Push(task.New(timedAction(l, "A", 30*time.Millisecond), annotation.New("A", annotation.Reads(someStringMember))))
	q.Push(task.New(timedAction(l, "B", 0), annotation.New("B", annotation.Writes(someStringMember))))
	q.Push(task.New(timedAction(l, "C", 0), annotation.New("C", annotation.Writes(anotherStringMember))))

	require.NoError(t, OrderAndExecute(testContext(), q))

	a, b := l.get("A"), l.get("B")
	assert.False(t, b.start.Before(a.end), "B started before A finished")
}

// TestOrderAndExecute_IndependentResourcesRunConcurrently checks that a
// task writing a resource nobody else touches overlaps in time with an
// unrelated dependent chain instead of waiting behind it.
func TestOrderAndExecute_IndependentResourcesRunConcurrently(t *testing.T) {
	l := newLedger()
	q := task.NewQueue()

	const sleep = 50 * time.Millisecond
	q.Push(task.New(timedAction(l, "A", sleep), annotation.New("A", annotation.Reads(someStringMember))))
	q.Push(task.New(timedAction(l, "B", sleep), annotation.New("B", annotation.Writes(someStringMember))))
	q.Push(task.New(timedAction(l, "C", sleep), annotation.New("C", annotation.Writes(anotherStringMember))))

	start := time.Now()
	require.NoError(t, OrderAndExecute(testContext(), q))
	total := time.Since(start)

	// A and B are serialized (2*sleep), C overlaps with both; if the
	// scheduler were fully sequential this would take 3*sleep instead.
	assert.Less(t, total, 3*sleep)
}

// TestOrderAndExecute_EmptyAccessListIsIndependentRoot checks that a task
// touching no resources at all runs concurrently with everything else.
func TestOrderAndExecute_EmptyAccessListIsIndependentRoot(t *testing.T) {
	l := newLedger()
	q := task.NewQueue()

	const sleep = 40 * time.Millisecond
	q.Push(task.New(timedAction(l, "A", sleep), annotation.New("A", annotation.Writes(someStringMember))))
	q.Push(task.New(timedAction(l, "B", sleep), annotation.New("B", annotation.Reads(someStringMember))))
	q.Push(task.New(timedAction(l, "D", sleep), annotation.Empty("D")))

	start := time.Now()
	require.NoError(t, OrderAndExecute(testContext(), q))
	total := time.Since(start)

	assert.Less(t, total, 3*sleep)
}

func TestOrderAndExecute_EmptyQueueReturnsNil(t *testing.T) {
	require.NoError(t, OrderAndExecute(testContext(), task.NewQueue()))
}

// TestOrderAndExecute_PanicIsJoinedNotFatal asserts a panicking task fails
// the run's returned error without preventing its sibling from completing.
func TestOrderAndExecute_PanicIsJoinedNotFatal(t *testing.T) {
	l := newLedger()
	q := task.NewQueue()

	q.Push(task.New(func() { panic("boom") }, annotation.New("bad", annotation.Writes(someStringMember))))
	q.Push(task.New(timedAction(l, "sibling", 0), annotation.New("sibling", annotation.Writes(anotherStringMember))))

	err := OrderAndExecute(testContext(), q)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	assert.NotZero(t, l.get("sibling").end)
}

// TestOrderAndExecute_FailedParentDoesNotBlockChild asserts a panic in a
// parent still unblocks its child rather than leaving it stuck forever.
func TestOrderAndExecute_FailedParentDoesNotBlockChild(t *testing.T) {
	q := task.NewQueue()
	childRan := make(chan struct{}, 1)

	q.Push(task.New(func() { panic("parent failed") }, annotation.New("parent", annotation.Writes(someStringMember))))
	q.Push(task.New(func() { childRan <- struct{}{} }, annotation.New("child", annotation.Reads(someStringMember))))

	err := OrderAndExecute(testContext(), q)
	require.Error(t, err)

	select {
	case <-childRan:
	default:
		t.Fatal("child never ran after its parent panicked")
	}
}
