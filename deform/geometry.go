// Package deform implements the per-vertex tendroid deformation kernel and
// the batch deformer that runs it over every registered tendroid at once.
package deform

import (
	"github.com/chewxy/math32"
)

// Vec3 is a vertex position in tendroid-local space (Y up, base at y=0).
type Vec3 struct {
	X, Y, Z float32
}

// HeightFactor returns the smoothstep blend weight for a vertex at height y
// on a tendroid of the given length: 0 at the anchored base, 1 at the tip.
func HeightFactor(y, length float32) float32 {
	if length <= 0 {
		return 0
	}
	ratio := y / length
	if ratio < 0 {
		ratio = 0
	} else if ratio > 1 {
		ratio = 1
	}
	return ratio * ratio * (3 - 2*ratio)
}

// HeightFactors computes HeightFactor for every vertex in base.
func HeightFactors(base []Vec3, length float32) []float32 {
	out := make([]float32, len(base))
	for i, v := range base {
		out[i] = HeightFactor(v.Y, length)
	}
	return out
}

// CylinderMesh is an open tube made of stacked vertex rings.
type CylinderMesh struct {
	Vertices []Vec3
	Indices  []uint16 // triangle list, counter-clockwise seen from outside
	Radial   int      // vertices per ring
	Rings    int
}

// NewCylinder builds a tube of the given radius and length with radial
// vertices per ring and heightSegments+1 rings from y=0 to y=length.
// Segment counts below the minimum are raised to it.
func NewCylinder(radius, length float32, radial, heightSegments int) CylinderMesh {
	if radial < 3 {
		radial = 3
	}
	if heightSegments < 1 {
		heightSegments = 1
	}
	rings := heightSegments + 1

	verts := make([]Vec3, 0, radial*rings)
	for r := 0; r < rings; r++ {
		y := length * float32(r) / float32(heightSegments)
		for s := 0; s < radial; s++ {
			theta := 2 * math32.Pi * float32(s) / float32(radial)
			sin, cos := math32.Sincos(theta)
			verts = append(verts, Vec3{X: radius * cos, Y: y, Z: radius * sin})
		}
	}

	indices := make([]uint16, 0, heightSegments*radial*6)
	for r := 0; r < heightSegments; r++ {
		for s := 0; s < radial; s++ {
			next := (s + 1) % radial
			a := uint16(r*radial + s)
			b := uint16(r*radial + next)
			c := uint16((r+1)*radial + s)
			d := uint16((r+1)*radial + next)
			indices = append(indices, a, c, b, b, c, d)
		}
	}

	return CylinderMesh{
		Vertices: verts,
		Indices:  indices,
		Radial:   radial,
		Rings:    rings,
	}
}
