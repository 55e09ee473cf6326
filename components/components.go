// Package components defines the ECS components of the tendroid scene.
package components

// Tendroid identifies a tube and its fixed geometry. ID indexes the
// per-tendroid controllers owned by the scene.
type Tendroid struct {
	ID       int32   `inspect:"label"`
	Radius   float32 `inspect:"label,fmt:%.3f"`
	Length   float32 `inspect:"label,fmt:%.2f"`
	Segments int32   `inspect:"skip"`
}

// Mesh is the handle the batch deformer writes vertices through.
type Mesh struct {
	Handle   int32 `inspect:"skip"`
	Vertices int32 `inspect:"label"`
}

// Name is a display name for overlays and logs.
type Name struct {
	Value string `inspect:"label"`
}
