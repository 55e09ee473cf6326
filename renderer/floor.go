package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/ojrac/opensimplex-go"
)

// FloorRenderer draws the seabed as a grid of sand tiles with noise
// color variation and scattered pebbles. Colors are computed once.
type FloorRenderer struct {
	extent float32
	cell   float32
	tiles  []floorTile
	stones []stone
}

type floorTile struct {
	x, z  float32
	color rl.Color
}

type stone struct {
	x, z, r float32
	color   rl.Color
}

// NewFloorRenderer lays out tiles covering the field half-extent plus a
// margin.
func NewFloorRenderer(extent float32, seed int64) *FloorRenderer {
	f := &FloorRenderer{extent: extent + 1, cell: 0.25}
	noise := opensimplex.NewNormalized32(seed)

	n := int(2 * f.extent / f.cell)
	for gz := 0; gz < n; gz++ {
		for gx := 0; gx < n; gx++ {
			x := -f.extent + (float32(gx)+0.5)*f.cell
			z := -f.extent + (float32(gz)+0.5)*f.cell

			v := noise.Eval2(x*0.8, z*0.8)
			// darker toward the rim so the field reads as lit from above
			d := (x*x + z*z) / (f.extent * f.extent)
			dim := 1 - 0.45*min(d, 1)
			f.tiles = append(f.tiles, floorTile{
				x: x, z: z,
				color: rl.Color{
					R: uint8((70 + v*40) * dim),
					G: uint8((65 + v*35) * dim),
					B: uint8((55 + v*25) * dim),
					A: 255,
				},
			})

			if s := noise.Eval2(x*4+300, z*4+300); s > 0.82 {
				gray := uint8(40 + noise.Eval2(x*3+700, z*3+700)*30)
				f.stones = append(f.stones, stone{
					x: x + (s-0.82)*f.cell, z: z,
					r:     0.015 + (s-0.82)*0.2,
					color: rl.Color{R: gray, G: gray + 4, B: gray + 10, A: 255},
				})
			}
		}
	}
	return f
}

// Draw renders the floor. Call between BeginMode3D and EndMode3D.
func (f *FloorRenderer) Draw() {
	size := rl.Vector2{X: f.cell, Y: f.cell}
	for _, t := range f.tiles {
		rl.DrawPlane(rl.Vector3{X: t.x, Y: -0.001, Z: t.z}, size, t.color)
	}
	for _, s := range f.stones {
		rl.DrawSphere(rl.Vector3{X: s.x, Y: s.r * 0.4, Z: s.z}, s.r, s.color)
	}
}
