package deflection

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// ApproachType classifies how a creature is moving relative to a tendroid.
type ApproachType uint8

const (
	ApproachNone ApproachType = iota
	ApproachVertical
	ApproachHeadOn
	ApproachPassBy
)

func (t ApproachType) String() string {
	switch t {
	case ApproachVertical:
		return "vertical"
	case ApproachHeadOn:
		return "head_on"
	case ApproachPassBy:
		return "pass_by"
	default:
		return "none"
	}
}

// Classification thresholds on the cosine between the horizontal velocity
// and the direction toward the tendroid.
const (
	minApproachSpeed = 0.1
	headOnDot        = 0.7
	passByDot        = 0.5
)

// Cylinder describes a tendroid for deflection purposes.
type Cylinder struct {
	Center r3.Vec // base position; X/Z give the axis
	Length float64
	Radius float64
}

// Target is the instantaneous bend request for one tendroid.
type Target struct {
	Angle         float64
	Direction     r3.Vec // horizontal unit vector, tendroid pushed this way
	Type          ApproachType
	HeightRatio   float64
	DistanceRatio float64
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// ClassifyApproach labels horizontal velocity vel against toTendroid, the
// horizontal unit vector from creature to tendroid. Slow creatures count
// as a vertical (pass-over) approach.
func ClassifyApproach(toTendroid, vel r3.Vec) ApproachType {
	speed := math.Hypot(vel.X, vel.Z)
	if speed <= minApproachSpeed {
		return ApproachVertical
	}
	dot := (vel.X*toTendroid.X + vel.Z*toTendroid.Z) / speed
	switch {
	case dot > headOnDot:
		return ApproachHeadOn
	case math.Abs(dot) < passByDot:
		return ApproachPassBy
	default:
		return ApproachVertical
	}
}

// ComputeTarget returns the bend target for creature at pos moving at vel.
// The angle grows from MinDeflection at the base to MaxDeflection at the
// tip and falls off linearly from the contact circle out to DetectionRange.
func ComputeTarget(cyl Cylinder, pos, vel r3.Vec, cfg Config) Target {
	dx := cyl.Center.X - pos.X
	dz := cyl.Center.Z - pos.Z
	hd := math.Hypot(dx, dz)

	dir := r3.Vec{X: 1}
	if hd > 1e-9 {
		dir = r3.Vec{X: dx / hd, Z: dz / hd}
	}

	if hd > cfg.DetectionRange {
		return Target{Direction: dir, DistanceRatio: 1}
	}
	base := cyl.Center.Y
	tip := base + cyl.Length
	if pos.Y < base || pos.Y > tip || cyl.Length <= 0 {
		return Target{Direction: dir, DistanceRatio: 1}
	}

	heightRatio := clamp01((pos.Y - base) / cyl.Length)

	contact := cyl.Radius + cfg.ApproachBuffer
	distRatio := 0.0
	if hd > contact {
		span := cfg.DetectionRange - contact
		if span > 0 {
			distRatio = clamp01((hd - contact) / span)
		} else {
			distRatio = 1
		}
	}

	typ := ClassifyApproach(dir, vel)
	t := Target{
		Direction:     dir,
		Type:          typ,
		HeightRatio:   heightRatio,
		DistanceRatio: distRatio,
	}
	if !cfg.Enabled(typ) {
		return t
	}

	t.Angle = (cfg.MinDeflection + (cfg.MaxDeflection-cfg.MinDeflection)*heightRatio) * (1 - distRatio)
	return t
}

// BendAxis returns the horizontal rotation axis dir × up, normalized,
// falling back to +Z for a degenerate direction. Bending about it with a
// positive angle moves the tip along dir.
func BendAxis(dir r3.Vec) r3.Vec {
	axis := r3.Cross(r3.Vec{X: dir.X, Z: dir.Z}, r3.Vec{Y: 1})
	n := r3.Norm(axis)
	if n < 1e-9 {
		return r3.Vec{Z: 1}
	}
	return r3.Scale(1/n, axis)
}
