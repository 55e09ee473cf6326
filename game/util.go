package game

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/tendroids/components"
)

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func toVec(t *components.Transform) r3.Vec {
	return r3.Vec{X: float64(t.X), Y: float64(t.Y), Z: float64(t.Z)}
}

func setVec(t *components.Transform, v r3.Vec) {
	t.X, t.Y, t.Z = float32(v.X), float32(v.Y), float32(v.Z)
}
