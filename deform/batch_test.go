package deform

import (
	"errors"
	"fmt"
	"testing"
)

// memSink records vertex writes by handle.
type memSink struct {
	meshes map[int][]Vec3
	fail   map[int]bool
}

func newMemSink(handles ...int) *memSink {
	s := &memSink{meshes: make(map[int][]Vec3), fail: make(map[int]bool)}
	for _, h := range handles {
		s.meshes[h] = nil
	}
	return s
}

func (s *memSink) Has(handle int) bool {
	_, ok := s.meshes[handle]
	return ok
}

func (s *memSink) SetVertices(handle int, verts []Vec3) error {
	if s.fail[handle] {
		return fmt.Errorf("sink rejected handle %d", handle)
	}
	s.meshes[handle] = append(s.meshes[handle][:0], verts...)
	return nil
}

type testEntity struct {
	id    int
	mesh  CylinderMesh
	shape TendroidParams
	state EntityState
}

func makeEntities() []testEntity {
	shapes := []TendroidParams{
		{Radius: 6, Length: 100, MaxAmplitude: 0.8, BulgeWidth: 0.9},
		{Radius: 4, Length: 60, MaxAmplitude: 0.5, BulgeWidth: 1.2},
		{Radius: 10, Length: 150, MaxAmplitude: 1.0, BulgeWidth: 0.7},
	}
	segs := [][2]int{{16, 20}, {8, 5}, {24, 40}}

	ents := make([]testEntity, len(shapes))
	for i, s := range shapes {
		ents[i] = testEntity{
			id:    i + 1,
			mesh:  NewCylinder(s.Radius, s.Length, segs[i][0], segs[i][1]),
			shape: s,
			state: EntityState{
				ID:           i + 1,
				BubbleY:      s.Length * 0.4,
				BubbleRadius: s.Radius * (1 + s.MaxAmplitude*0.7),
				WaveDX:       float32(i+1) * 1.5,
				WaveDZ:       -float32(i) * 0.75,
				BendAngle:    0.1 * float32(i),
				BendAxisX:    0.6,
				BendAxisZ:    0.8,
			},
		}
	}
	return ents
}

func buildBatch(t *testing.T, exec Executor, ents []testEntity) *Batch {
	t.Helper()
	b := NewBatch(exec)
	for _, e := range ents {
		if err := b.Register(e.id, fmt.Sprintf("tendroid_%d", e.id), e.id*10, e.mesh.Vertices, e.shape); err != nil {
			t.Fatalf("Register(%d): %v", e.id, err)
		}
	}
	if err := b.Build(); err != nil {
		t.Fatalf("Build: %v", err)
	}
	return b
}

// TestBatchMatchesSingle checks one batched dispatch equals deforming each
// entity on its own with the same kernel.
func TestBatchMatchesSingle(t *testing.T) {
	executors := []struct {
		name string
		exec Executor
	}{
		{"serial", Serial{}},
		{"parallel", NewParallel(4, 1)},
	}

	for _, ex := range executors {
		t.Run(ex.name, func(t *testing.T) {
			ents := makeEntities()
			b := buildBatch(t, ex.exec, ents)
			defer b.Close()

			states := make([]EntityState, len(ents))
			for i, e := range ents {
				states[i] = e.state
			}
			b.UpdateStates(states)
			out := b.DeformAll()

			for _, e := range ents {
				span := b.Span(e.id)
				if span.Count != len(e.mesh.Vertices) {
					t.Fatalf("entity %d span count = %d, want %d", e.id, span.Count, len(e.mesh.Vertices))
				}
				p := Rest(e.shape.Radius, e.shape.MaxAmplitude, e.shape.BulgeWidth)
				p.BubbleY = e.state.BubbleY
				p.BubbleRadius = e.state.BubbleRadius
				p.WaveDX = e.state.WaveDX
				p.WaveDZ = e.state.WaveDZ
				p.BendAngle = e.state.BendAngle
				p.BendAxisX = e.state.BendAxisX
				p.BendAxisZ = e.state.BendAxisZ

				for i, v := range e.mesh.Vertices {
					want := Deform(v, HeightFactor(v.Y, e.shape.Length), &p)
					if got := out[span.Offset+i]; got != want {
						t.Fatalf("entity %d vertex %d = %v, want %v", e.id, i, got, want)
					}
				}
			}
		})
	}
}

func TestBatchOwnerLayout(t *testing.T) {
	b := buildBatch(t, nil, makeEntities())

	prev := int32(-1)
	for i, o := range b.owner {
		if o < prev {
			t.Fatalf("owner[%d] = %d decreased from %d", i, o, prev)
		}
		prev = o
	}

	next := 0
	for slot, span := range b.spans {
		if span.Offset != next {
			t.Errorf("slot %d offset = %d, want %d", slot, span.Offset, next)
		}
		next += span.Count
	}
	if next != len(b.base) {
		t.Errorf("spans cover %d vertices, want %d", next, len(b.base))
	}
}

func TestBatchRegisterAfterBuildPanics(t *testing.T) {
	b := buildBatch(t, nil, makeEntities())

	defer func() {
		if recover() == nil {
			t.Error("Register after Build did not panic")
		}
	}()
	b.Register(99, "late", 990, NewCylinder(5, 50, 8, 4).Vertices, TendroidParams{Radius: 5, Length: 50})
}

func TestBatchDeformBeforeBuild(t *testing.T) {
	b := NewBatch(nil)
	if err := b.Register(1, "a", 10, NewCylinder(5, 50, 8, 4).Vertices, TendroidParams{Radius: 5, Length: 50}); err != nil {
		t.Fatal(err)
	}
	if out := b.DeformAll(); out != nil {
		t.Errorf("DeformAll before Build = %d vertices, want nil", len(out))
	}
	if n := b.Apply(newMemSink(10), nil); n != 0 {
		t.Errorf("Apply before Build wrote %d meshes", n)
	}
	if b.Stats().Dispatches != 0 {
		t.Error("dispatch counted before Build")
	}
}

func TestBatchRegisterValidation(t *testing.T) {
	b := NewBatch(nil)
	verts := NewCylinder(5, 50, 8, 4).Vertices

	err := b.Register(1, "flat", 10, verts, TendroidParams{Radius: 0, Length: 50})
	if !errors.Is(err, ErrInvalidRadius) {
		t.Errorf("zero radius error = %v, want ErrInvalidRadius", err)
	}
	err = b.Register(2, "short", 20, verts, TendroidParams{Radius: 5, Length: -1})
	if !errors.Is(err, ErrInvalidLength) {
		t.Errorf("negative length error = %v, want ErrInvalidLength", err)
	}

	if err := b.Register(3, "ok", 30, verts, TendroidParams{Radius: 5, Length: 50}); err != nil {
		t.Fatal(err)
	}
	if err := b.Register(3, "dup", 31, verts, TendroidParams{Radius: 5, Length: 50}); err != nil {
		t.Errorf("duplicate register returned error: %v", err)
	}
	if err := b.Build(); err != nil {
		t.Fatal(err)
	}
	if got := b.Stats().Entities; got != 1 {
		t.Errorf("entities = %d, want 1", got)
	}
	if err := b.Build(); !errors.Is(err, ErrAlreadyBuilt) {
		t.Errorf("second Build error = %v, want ErrAlreadyBuilt", err)
	}
}

func TestBatchApplySkipsBadEntities(t *testing.T) {
	b := NewBatch(nil)
	shape := TendroidParams{Radius: 5, Length: 50, MaxAmplitude: 0.8, BulgeWidth: 0.9}
	verts := NewCylinder(5, 50, 8, 4).Vertices

	b.Register(1, "good", 10, verts, shape)
	b.Register(2, "empty", 20, nil, shape)
	b.Register(3, "missing", 30, verts, shape)
	b.Register(4, "failing", 40, verts, shape)
	b.Register(5, "also good", 50, verts, shape)
	if err := b.Build(); err != nil {
		t.Fatal(err)
	}

	sink := newMemSink(10, 20, 40, 50)
	sink.fail[40] = true

	out := b.DeformAll()
	if n := b.Apply(sink, out); n != 2 {
		t.Errorf("Apply wrote %d meshes, want 2", n)
	}
	if len(sink.meshes[10]) != len(verts) || len(sink.meshes[50]) != len(verts) {
		t.Error("good meshes were not written")
	}
	if sink.meshes[20] != nil {
		t.Error("zero-vertex entity was written")
	}
}

func TestBatchResetAllowsRebuild(t *testing.T) {
	b := buildBatch(t, nil, makeEntities())
	b.DeformAll()
	b.Reset()

	if b.Built() {
		t.Fatal("Built() true after Reset")
	}
	if err := b.Register(7, "again", 70, NewCylinder(5, 50, 8, 4).Vertices, TendroidParams{Radius: 5, Length: 50}); err != nil {
		t.Fatalf("Register after Reset: %v", err)
	}
	if err := b.Build(); err != nil {
		t.Fatalf("Build after Reset: %v", err)
	}
	if got := b.Stats(); got.Entities != 1 || got.Dispatches != 0 {
		t.Errorf("stats after rebuild = %+v", got)
	}
}

func TestBatchUnknownEntityPanics(t *testing.T) {
	b := buildBatch(t, nil, makeEntities())
	defer func() {
		if recover() == nil {
			t.Error("UpdateState for unknown id did not panic")
		}
	}()
	b.UpdateState(EntityState{ID: 404})
}

func TestParallelCoversRange(t *testing.T) {
	p := NewParallel(3, 1)
	defer p.Close()

	for _, n := range []int{1, 2, 3, 10, 1001} {
		hits := make([]int32, n)
		p.Dispatch(n, func(lo, hi int) {
			for i := lo; i < hi; i++ {
				hits[i]++
			}
		})
		for i, h := range hits {
			if h != 1 {
				t.Fatalf("n=%d index %d visited %d times", n, i, h)
			}
		}
	}
}
