// Package flow builds the dependency graph over bound tasks, applying the
// read/write edge policy that turns a sequence of resource claims into a
// DAG keyed by uint64 task ids, with a single resource-claim edge policy
// deciding where edges go.
package flow

import "sync"

// Builder accumulates task bindings and resource claims, producing the
// resulting dependency Graph. Claims must be registered in non-decreasing
// bind order: Bind(id) before any RO/RW claim attributed to id.
type Builder interface {
	// Bind introduces a new vertex for task id and makes id the target of
	// subsequent RO/RW claims. Binding an already bound id adds no second
	// vertex but makes that id current again.
	Bind(id uint64)
	// RO records a read claim on key for the most recently bound task.
	RO(key uint64)
	// RW records a write claim on key for the most recently bound task.
	RW(key uint64)
	// Graph returns the graph built so far.
	Graph() Graph
}

// Graph is the read-only view of a built dependency graph.
type Graph interface {
	// Vertices returns every bound task id, in bind order.
	Vertices() []uint64
	// InEdges returns the ids of v's dependencies (must complete before v).
	InEdges(v uint64) []uint64
	// OutEdges returns the ids of v's dependents (must wait for v).
	OutEdges(v uint64) []uint64
}

type resourceState struct {
	lastWriter uint64
	hasWriter  bool
	readers    []uint64
}

type builder struct {
	mu sync.Mutex

	order   []uint64
	current uint64
	bound   map[uint64]bool

	in  map[uint64][]uint64
	out map[uint64][]uint64

	resources map[uint64]*resourceState
}

// NewBuilder returns an empty flow builder.
func NewBuilder() Builder {
	return &builder{
		bound:     make(map[uint64]bool),
		in:        make(map[uint64][]uint64),
		out:       make(map[uint64][]uint64),
		resources: make(map[uint64]*resourceState),
	}
}

func (b *builder) Bind(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.current = id
	if b.bound[id] {
		return
	}
	b.bound[id] = true
	b.order = append(b.order, id)
}

func (b *builder) addEdge(from, to uint64) {
	if from == to {
		return
	}
	b.in[to] = append(b.in[to], from)
	b.out[from] = append(b.out[from], to)
}

func (b *builder) stateFor(key uint64) *resourceState {
	st, ok := b.resources[key]
	if !ok {
		st = &resourceState{}
		b.resources[key] = st
	}
	return st
}

func (b *builder) RO(key uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	task := b.current
	st := b.stateFor(key)
	if st.hasWriter {
		b.addEdge(st.lastWriter, task)
	}
	st.readers = append(st.readers, task)
}

func (b *builder) RW(key uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	task := b.current
	st := b.stateFor(key)
	for _, reader := range st.readers {
		b.addEdge(reader, task)
	}
	if st.hasWriter {
		b.addEdge(st.lastWriter, task)
	}
	st.readers = nil
	st.hasWriter = true
	st.lastWriter = task
}

func (b *builder) Graph() Graph {
	b.mu.Lock()
	defer b.mu.Unlock()

	g := &graph{
		vertices: append([]uint64(nil), b.order...),
		in:       make(map[uint64][]uint64, len(b.in)),
		out:      make(map[uint64][]uint64, len(b.out)),
	}
	for k, v := range b.in {
		g.in[k] = append([]uint64(nil), v...)
	}
	for k, v := range b.out {
		g.out[k] = append([]uint64(nil), v...)
	}
	return g
}

type graph struct {
	vertices []uint64
	in       map[uint64][]uint64
	out      map[uint64][]uint64
}

func (g *graph) Vertices() []uint64 { return append([]uint64(nil), g.vertices...) }

func (g *graph) InEdges(v uint64) []uint64 {
	return append([]uint64(nil), g.in[v]...)
}

func (g *graph) OutEdges(v uint64) []uint64 {
	return append([]uint64(nil), g.out[v]...)
}
