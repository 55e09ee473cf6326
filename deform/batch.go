package deform

import (
	"errors"
	"fmt"
	"log/slog"
)

// Errors returned by Batch.
var (
	ErrInvalidRadius = errors.New("deform: radius must be positive")
	ErrInvalidLength = errors.New("deform: length must be positive")
	ErrAlreadyBuilt  = errors.New("deform: batch already built")
)

// MeshSink receives full replacement vertex arrays for scene meshes.
type MeshSink interface {
	Has(handle int) bool
	SetVertices(handle int, verts []Vec3) error
}

// TendroidParams are the static shape parameters fixed at registration.
type TendroidParams struct {
	Radius       float32
	Length       float32
	MaxAmplitude float32
	BulgeWidth   float32
}

// EntityState is the per-frame animated input for one tendroid.
type EntityState struct {
	ID           int
	BubbleY      float32
	BubbleRadius float32
	WaveDX       float32
	WaveDZ       float32
	BendAngle    float32
	BendAxisX    float32
	BendAxisZ    float32
}

// Span locates one entity's vertices in the concatenated arrays.
type Span struct {
	Offset int
	Count  int
}

// BatchStats summarizes a built batch.
type BatchStats struct {
	Entities   int
	Vertices   int
	Dispatches uint64
}

// pendingEntity is a registration waiting for Build.
type pendingEntity struct {
	id     int
	name   string
	handle int
	base   []Vec3
	shape  TendroidParams
}

// Batch owns the concatenated vertex and parameter arrays for every
// registered tendroid and deforms all of them in one dispatch per frame.
type Batch struct {
	exec Executor

	pending []pendingEntity
	index   map[int]int // entity id -> slot
	built   bool

	// Per-entity (indexed by slot)
	ids     []int
	names   []string
	handles []int
	spans   []Span
	params  []Params

	// Per-vertex
	base    []Vec3
	heights []float32
	owner   []int32
	out     []Vec3

	dispatches uint64
	kernel     func(lo, hi int)
}

// NewBatch creates an empty batch that dispatches through exec.
// A nil exec runs serially.
func NewBatch(exec Executor) *Batch {
	if exec == nil {
		exec = Serial{}
	}
	b := &Batch{
		exec:  exec,
		index: make(map[int]int),
	}
	b.kernel = b.deformRange
	return b
}

// Register queues one tendroid's base vertices. It panics after Build.
// A duplicate id is ignored.
func (b *Batch) Register(id int, name string, handle int, base []Vec3, shape TendroidParams) error {
	if b.built {
		panic(fmt.Sprintf("deform: Register(%d) called after Build", id))
	}
	if shape.Radius <= 0 {
		return fmt.Errorf("registering %q: %w", name, ErrInvalidRadius)
	}
	if shape.Length <= 0 {
		return fmt.Errorf("registering %q: %w", name, ErrInvalidLength)
	}
	if _, dup := b.index[id]; dup {
		slog.Warn("tendroid already registered", "tendroid", id, "name", name)
		return nil
	}

	b.index[id] = len(b.pending)
	b.pending = append(b.pending, pendingEntity{
		id:     id,
		name:   name,
		handle: handle,
		base:   base,
		shape:  shape,
	})
	return nil
}

// Build concatenates all registered entities into dense arrays.
func (b *Batch) Build() error {
	if b.built {
		return ErrAlreadyBuilt
	}

	total := 0
	for _, p := range b.pending {
		total += len(p.base)
	}

	n := len(b.pending)
	b.ids = make([]int, n)
	b.names = make([]string, n)
	b.handles = make([]int, n)
	b.spans = make([]Span, n)
	b.params = make([]Params, n)

	b.base = make([]Vec3, 0, total)
	b.heights = make([]float32, 0, total)
	b.owner = make([]int32, 0, total)
	b.out = make([]Vec3, total)

	for slot, p := range b.pending {
		b.ids[slot] = p.id
		b.names[slot] = p.name
		b.handles[slot] = p.handle
		b.params[slot] = Rest(p.shape.Radius, p.shape.MaxAmplitude, p.shape.BulgeWidth)
		b.spans[slot] = Span{Offset: len(b.base), Count: len(p.base)}

		for _, v := range p.base {
			b.base = append(b.base, v)
			b.heights = append(b.heights, HeightFactor(v.Y, p.shape.Length))
			b.owner = append(b.owner, int32(slot))
		}
	}

	b.pending = nil
	b.built = true

	slog.Info("batch deformer built", "entities", n, "vertices", total)
	return nil
}

// Built reports whether Build has completed.
func (b *Batch) Built() bool {
	return b.built
}

// slot returns the slot for id, panicking for unknown ids.
func (b *Batch) slot(id int) int {
	s, ok := b.index[id]
	if !ok {
		panic(fmt.Sprintf("deform: unknown tendroid %d", id))
	}
	return s
}

// UpdateState copies one entity's animated inputs into the parameter arrays.
func (b *Batch) UpdateState(st EntityState) {
	p := &b.params[b.slot(st.ID)]
	p.BubbleY = st.BubbleY
	p.BubbleRadius = st.BubbleRadius
	p.WaveDX = st.WaveDX
	p.WaveDZ = st.WaveDZ
	p.BendAngle = st.BendAngle
	p.BendAxisX = st.BendAxisX
	p.BendAxisZ = st.BendAxisZ
}

// UpdateStates applies UpdateState for every entry. Must precede DeformAll
// within a frame so the dispatch reads this frame's snapshot.
func (b *Batch) UpdateStates(states []EntityState) {
	if !b.built {
		return
	}
	for i := range states {
		b.UpdateState(states[i])
	}
}

// Params returns a copy of the current kernel parameters for id.
func (b *Batch) Params(id int) Params {
	return b.params[b.slot(id)]
}

// Span returns where id's vertices live in the output array.
func (b *Batch) Span(id int) Span {
	return b.spans[b.slot(id)]
}

// DeformAll runs the kernel over every vertex in a single dispatch and
// returns the shared output array. It returns nil before Build.
// The returned slice is overwritten by the next call.
func (b *Batch) DeformAll() []Vec3 {
	if !b.built {
		return nil
	}
	b.exec.Dispatch(len(b.base), b.kernel)
	b.dispatches++
	return b.out
}

// deformRange is the per-dispatch loop body.
func (b *Batch) deformRange(lo, hi int) {
	base := b.base[lo:hi]
	heights := b.heights[lo:hi]
	owner := b.owner[lo:hi]
	out := b.out[lo:hi]
	for i := range base {
		out[i] = Deform(base[i], heights[i], &b.params[owner[i]])
	}
}

// Apply writes each entity's slice of out to its mesh. Entities without
// vertices are skipped; a missing handle or sink error skips only that
// entity. Returns the number of meshes written.
func (b *Batch) Apply(sink MeshSink, out []Vec3) int {
	if !b.built || out == nil {
		return 0
	}
	written := 0
	for slot, span := range b.spans {
		if span.Count == 0 {
			continue
		}
		handle := b.handles[slot]
		if !sink.Has(handle) {
			slog.Warn("mesh handle missing, skipping tendroid",
				"tendroid", b.ids[slot], "name", b.names[slot], "handle", handle)
			continue
		}
		if err := sink.SetVertices(handle, out[span.Offset:span.Offset+span.Count]); err != nil {
			slog.Warn("mesh update failed, skipping tendroid",
				"tendroid", b.ids[slot], "name", b.names[slot], "error", err)
			continue
		}
		written++
	}
	return written
}

// Base returns the concatenated rest vertices. Callers must not modify it.
func (b *Batch) Base() []Vec3 { return b.base }

// Stats returns entity, vertex and dispatch counts.
func (b *Batch) Stats() BatchStats {
	entities := len(b.ids)
	if !b.built {
		entities = len(b.pending)
	}
	return BatchStats{
		Entities:   entities,
		Vertices:   len(b.base),
		Dispatches: b.dispatches,
	}
}

// Reset discards all entities and returns the batch to registration mode.
func (b *Batch) Reset() {
	b.pending = nil
	b.index = make(map[int]int)
	b.built = false
	b.ids, b.names, b.handles = nil, nil, nil
	b.spans, b.params = nil, nil
	b.base, b.heights, b.owner, b.out = nil, nil, nil, nil
	b.dispatches = 0
}

// Close resets the batch and stops the executor's workers.
func (b *Batch) Close() {
	b.Reset()
	b.exec.Close()
}
