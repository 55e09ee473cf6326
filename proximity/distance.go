package proximity

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// segmentEpsilon is the shortest capsule segment treated as a line.
const segmentEpsilon = 1e-12

// HorizontalDistance is the XZ-plane distance between two points.
func HorizontalDistance(a, b r3.Vec) float64 {
	dx := a.X - b.X
	dz := a.Z - b.Z
	return math.Sqrt(dx*dx + dz*dz)
}

// SurfaceDistance is the horizontal distance from a creature center to the
// side of a vertical tendroid cylinder. Negative values mean penetration.
func SurfaceDistance(creature, tendroidBase r3.Vec, radius float64) float64 {
	return HorizontalDistance(creature, tendroidBase) - radius
}

// ClosestOnSegment returns the point on segment ab nearest to p.
// A zero-length segment returns a.
func ClosestOnSegment(p, a, b r3.Vec) r3.Vec {
	ab := r3.Sub(b, a)
	lenSq := r3.Dot(ab, ab)
	if lenSq < segmentEpsilon {
		return a
	}
	t := r3.Dot(r3.Sub(p, a), ab) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return r3.Add(a, r3.Scale(t, ab))
}

// CapsuleDistance is the distance from p to the surface of a capsule with
// axis ab and the given radius.
func CapsuleDistance(p, a, b r3.Vec, radius float64) float64 {
	return r3.Norm(r3.Sub(p, ClosestOnSegment(p, a, b))) - radius
}
