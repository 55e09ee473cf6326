package proximity

import (
	"math"
)

// Neighbor is a tendroid found near a query point.
type Neighbor struct {
	ID     int
	DX, DZ float64 // offset from query point to tendroid base
	DistSq float64 // squared horizontal distance to the base
}

// MaxQueryResults caps the number of neighbors returned by a query.
const MaxQueryResults = 128

// gridEntry is one tendroid base stored in a cell.
type gridEntry struct {
	id   int
	x, z float64
}

// Grid is a uniform XZ hash grid for creature-to-tendroid broadphase.
// Cells are keyed by integer coordinates so the field may be unbounded.
type Grid struct {
	cellSize float64
	cells    map[[2]int32][]gridEntry
}

// NewGrid creates a grid with the given cell size (> 0).
func NewGrid(cellSize float64) *Grid {
	if cellSize <= 0 {
		cellSize = 1
	}
	return &Grid{
		cellSize: cellSize,
		cells:    make(map[[2]int32][]gridEntry),
	}
}

func (g *Grid) cellOf(x, z float64) [2]int32 {
	return [2]int32{
		int32(math.Floor(x / g.cellSize)),
		int32(math.Floor(z / g.cellSize)),
	}
}

// Clear removes every entry but keeps cell storage for reuse.
func (g *Grid) Clear() {
	for k, v := range g.cells {
		g.cells[k] = v[:0]
	}
}

// Insert adds a tendroid base at (x, z).
func (g *Grid) Insert(id int, x, z float64) {
	k := g.cellOf(x, z)
	g.cells[k] = append(g.cells[k], gridEntry{id: id, x: x, z: z})
}

// QueryRadiusInto appends tendroids whose base lies within radius of
// (x, z) to dst, up to MaxQueryResults. Reuse dst across calls.
func (g *Grid) QueryRadiusInto(dst []Neighbor, x, z, radius float64) []Neighbor {
	lo := g.cellOf(x-radius, z-radius)
	hi := g.cellOf(x+radius, z+radius)
	radiusSq := radius * radius

	for cx := lo[0]; cx <= hi[0]; cx++ {
		for cz := lo[1]; cz <= hi[1]; cz++ {
			for _, e := range g.cells[[2]int32{cx, cz}] {
				dx := e.x - x
				dz := e.z - z
				distSq := dx*dx + dz*dz
				if distSq > radiusSq {
					continue
				}
				dst = append(dst, Neighbor{ID: e.id, DX: dx, DZ: dz, DistSq: distSq})
				if len(dst) >= MaxQueryResults {
					return dst
				}
			}
		}
	}
	return dst
}
