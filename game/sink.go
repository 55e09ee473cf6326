package game

import (
	"errors"
	"fmt"

	"github.com/pthm-cable/tendroids/deform"
)

// ErrVertexCount reports a vertex array that does not match the mesh.
var ErrVertexCount = errors.New("game: vertex count mismatch")

// MemorySink is a deform.MeshSink that keeps the latest vertices of each
// mesh in memory. It backs headless runs and tests.
type MemorySink struct {
	meshes map[int][]deform.Vec3
	writes int
}

// NewMemorySink creates an empty sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{meshes: make(map[int][]deform.Vec3)}
}

// Add creates mesh handle with n vertices.
func (s *MemorySink) Add(handle, n int) {
	s.meshes[handle] = make([]deform.Vec3, n)
}

// Remove drops a mesh; later writes to it are skipped by the deformer.
func (s *MemorySink) Remove(handle int) {
	delete(s.meshes, handle)
}

// Has reports whether handle exists.
func (s *MemorySink) Has(handle int) bool {
	_, ok := s.meshes[handle]
	return ok
}

// SetVertices copies verts into the mesh.
func (s *MemorySink) SetVertices(handle int, verts []deform.Vec3) error {
	dst, ok := s.meshes[handle]
	if !ok {
		return fmt.Errorf("game: unknown mesh %d", handle)
	}
	if len(dst) != len(verts) {
		return fmt.Errorf("%w: mesh %d has %d, got %d", ErrVertexCount, handle, len(dst), len(verts))
	}
	copy(dst, verts)
	s.writes++
	return nil
}

// Vertices returns the stored vertices of a mesh, nil if unknown.
func (s *MemorySink) Vertices(handle int) []deform.Vec3 {
	return s.meshes[handle]
}

// Writes counts successful SetVertices calls.
func (s *MemorySink) Writes() int { return s.writes }
