// Package renderer draws the tendroid scene with raylib.
package renderer

import (
	"fmt"
	"unsafe"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/tendroids/deform"
)

// gpuMesh is one tube uploaded as a dynamic vertex buffer. Vertex and
// index memory is allocated by raylib so UnloadMesh can free it.
type gpuMesh struct {
	mesh  rl.Mesh
	verts []deform.Vec3
	x, z  float32
}

// Meshes is a deform.MeshSink backed by raylib meshes. Vertices are in
// tendroid-local space; Draw translates each mesh to its root.
type Meshes struct {
	meshes   map[int]*gpuMesh
	material rl.Material
	writes   int
}

// NewMeshes creates an empty sink. It must be called after the window
// is open.
func NewMeshes() *Meshes {
	return &Meshes{
		meshes:   make(map[int]*gpuMesh),
		material: rl.LoadMaterialDefault(),
	}
}

// Add uploads a tube rooted at (x, z). Vertex colors darken toward the
// base so the unlit tubes read as round.
func (m *Meshes) Add(handle int, cyl deform.CylinderMesh, x, z float32) {
	n := len(cyl.Vertices)
	mesh := rl.Mesh{
		VertexCount:   int32(n),
		TriangleCount: int32(len(cyl.Indices) / 3),
	}
	mesh.Vertices = (*float32)(rl.MemAlloc(uint32(n * 3 * 4)))
	mesh.Colors = (*uint8)(rl.MemAlloc(uint32(n * 4)))
	mesh.Indices = (*uint16)(rl.MemAlloc(uint32(len(cyl.Indices) * 2)))

	verts := unsafe.Slice((*deform.Vec3)(unsafe.Pointer(mesh.Vertices)), n)
	copy(verts, cyl.Vertices)
	copy(unsafe.Slice(mesh.Indices, len(cyl.Indices)), cyl.Indices)

	colors := unsafe.Slice(mesh.Colors, n*4)
	for i := 0; i < n; i++ {
		ring := i / cyl.Radial
		side := i % cyl.Radial
		h := float32(ring) / float32(max(cyl.Rings-1, 1))
		// fake lighting from one side of the tube
		shade := 0.55 + 0.35*h + 0.1*float32(side%2)
		if side < cyl.Radial/2 {
			shade *= 0.8
		}
		v := uint8(min(shade, 1) * 255)
		colors[i*4+0], colors[i*4+1], colors[i*4+2], colors[i*4+3] = v, v, v, 255
	}

	rl.UploadMesh(&mesh, true)
	m.meshes[handle] = &gpuMesh{mesh: mesh, verts: verts, x: x, z: z}
}

// Has reports whether a mesh is uploaded for handle.
func (m *Meshes) Has(handle int) bool {
	_, ok := m.meshes[handle]
	return ok
}

// SetVertices copies verts into the mesh and refreshes the GPU buffer.
func (m *Meshes) SetVertices(handle int, verts []deform.Vec3) error {
	g, ok := m.meshes[handle]
	if !ok {
		return fmt.Errorf("renderer: unknown mesh %d", handle)
	}
	if len(verts) != len(g.verts) {
		return fmt.Errorf("renderer: mesh %d has %d vertices, got %d", handle, len(g.verts), len(verts))
	}
	copy(g.verts, verts)
	data := unsafe.Slice((*byte)(unsafe.Pointer(&g.verts[0])), len(g.verts)*int(unsafe.Sizeof(deform.Vec3{})))
	rl.UpdateMeshBuffer(g.mesh, 0, data, 0)
	m.writes++
	return nil
}

// Writes counts vertex uploads since creation.
func (m *Meshes) Writes() int { return m.writes }

// Draw renders one mesh tinted with c.
func (m *Meshes) Draw(handle int, c rl.Color) {
	g, ok := m.meshes[handle]
	if !ok {
		return
	}
	m.material.Maps.Color = c
	rl.DrawMesh(g.mesh, m.material, rl.MatrixTranslate(g.x, 0, g.z))
}

// Unload frees every mesh.
func (m *Meshes) Unload() {
	for h, g := range m.meshes {
		rl.UnloadMesh(&g.mesh)
		delete(m.meshes, h)
	}
}

var _ deform.MeshSink = (*Meshes)(nil)
