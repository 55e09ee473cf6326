package deform

import (
	"github.com/chewxy/math32"
)

// bendEpsilon is the smallest angle (radians) treated as a bend.
const bendEpsilon = 1e-4

// axisEpsilon is the shortest bend axis that can be normalized.
const axisEpsilon = 1e-6

// Params holds the per-entity scalars read by the kernel.
// BubbleRadius == Radius means no bubble is active.
type Params struct {
	Radius       float32
	MaxAmplitude float32
	BulgeWidth   float32

	BubbleY      float32
	BubbleRadius float32

	WaveDX float32
	WaveDZ float32

	BendAngle float32
	BendAxisX float32 // horizontal bend axis, need not be normalized
	BendAxisZ float32
}

// Rest returns params with every animated input at its no-op value.
func Rest(radius, maxAmplitude, bulgeWidth float32) Params {
	return Params{
		Radius:       radius,
		MaxAmplitude: maxAmplitude,
		BulgeWidth:   bulgeWidth,
		BubbleRadius: radius,
	}
}

// Deform computes one output vertex from base position p and height factor h.
// Order is bend, then bulge scale on the original height, then wave offset.
func Deform(p Vec3, h float32, e *Params) Vec3 {
	bent := Bend(p, h, e.BendAngle, e.BendAxisX, e.BendAxisZ)
	scale := Scale(p.Y, e)
	return Vec3{
		X: bent.X*scale + e.WaveDX*h,
		Y: bent.Y,
		Z: bent.Z*scale + e.WaveDZ*h,
	}
}

// Bend rotates p about the horizontal axis (ax, az) through the origin by
// angle*h. A negligible angle or degenerate axis leaves p unchanged.
func Bend(p Vec3, h, angle, ax, az float32) Vec3 {
	if math32.Abs(angle) <= bendEpsilon {
		return p
	}
	theta := angle * h
	if math32.Abs(theta) <= bendEpsilon {
		return p
	}
	axisLen := math32.Sqrt(ax*ax + az*az)
	if axisLen < axisEpsilon {
		return p
	}
	ax /= axisLen
	az /= axisLen

	perpX, perpZ := -az, ax
	perpDist := p.X*perpX + p.Z*perpZ
	axisDist := p.X*ax + p.Z*az

	sin, cos := math32.Sincos(theta)
	newPerp := perpDist*cos - p.Y*sin
	newY := perpDist*sin + p.Y*cos

	return Vec3{
		X: ax*axisDist + perpX*newPerp,
		Y: newY,
		Z: az*axisDist + perpZ*newPerp,
	}
}

// Growth returns how far the bubble has inflated past the tendroid radius,
// in [0,1]. One means the bubble reached Radius*(1+MaxAmplitude).
func Growth(e *Params) float32 {
	radiusRange := e.Radius * e.MaxAmplitude
	if radiusRange <= 0 {
		return 0
	}
	g := (e.BubbleRadius - e.Radius) / radiusRange
	if g < 0 {
		return 0
	}
	if g > 1 {
		return 1
	}
	return g
}

// Scale returns the radial bulge multiplier for a vertex at original height y.
func Scale(y float32, e *Params) float32 {
	amp := e.MaxAmplitude * Growth(e)
	if amp == 0 {
		return 1
	}
	dy := y - e.BubbleY
	sigma := e.BubbleRadius * e.BulgeWidth
	var gaussian float32
	if sigma == 0 {
		if dy == 0 {
			gaussian = 1
		}
	} else {
		gaussian = math32.Exp(-(dy * dy) / (2 * sigma * sigma))
	}
	return 1 + amp*gaussian
}
