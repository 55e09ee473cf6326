package contact

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

const axisEpsilon = 1e-8

// RepulsionConfig shapes the push applied on contact.
type RepulsionConfig struct {
	BaseForce             float64
	MinForce              float64
	MaxForce              float64
	PenetrationMultiplier float64
	VelocityMultiplier    float64
	SafetyMargin          float64
}

// DefaultRepulsionConfig returns base 100 clamped to [10, 500].
func DefaultRepulsionConfig() RepulsionConfig {
	return RepulsionConfig{
		BaseForce:             100,
		MinForce:              10,
		MaxForce:              500,
		PenetrationMultiplier: 2,
		VelocityMultiplier:    0.5,
		SafetyMargin:          0.01,
	}
}

// Validate checks the clamp range.
func (c RepulsionConfig) Validate() error {
	if c.MinForce < 0 || c.MaxForce < c.MinForce {
		return fmt.Errorf("contact: repulsion force range [%g, %g] is invalid", c.MinForce, c.MaxForce)
	}
	return nil
}

// SurfaceNormal returns the outward horizontal normal of a vertical
// cylinder at the creature, and how far the creature is inside it.
// A creature on the axis gets +X and a penetration of the full radius.
func SurfaceNormal(creature, tendroid r3.Vec, radius float64) (r3.Vec, float64) {
	dx := creature.X - tendroid.X
	dz := creature.Z - tendroid.Z
	hd := math.Hypot(dx, dz)
	if hd < axisEpsilon {
		return r3.Vec{X: 1}, radius
	}
	return r3.Vec{X: dx / hd, Z: dz / hd}, radius - hd
}

// Force is the repulsion force along normal. Penetration and approach
// speed only add when positive.
func Force(normal r3.Vec, penetration, approachSpeed float64, cfg RepulsionConfig) r3.Vec {
	mag := cfg.BaseForce
	if penetration > 0 {
		mag += penetration * cfg.PenetrationMultiplier
	}
	if approachSpeed > 0 {
		mag += approachSpeed * cfg.VelocityMultiplier
	}
	mag = math.Max(cfg.MinForce, math.Min(cfg.MaxForce, mag))
	return r3.Scale(mag, normal)
}

// CorrectedPosition moves the creature horizontally to just outside the
// cylinder surface, keeping its height.
func CorrectedPosition(creature, tendroid r3.Vec, radius, margin float64) r3.Vec {
	n, _ := SurfaceNormal(creature, tendroid, radius)
	d := radius + margin
	return r3.Vec{X: tendroid.X + n.X*d, Y: creature.Y, Z: tendroid.Z + n.Z*d}
}

// Repulsion bundles one contact response.
type Repulsion struct {
	Force       r3.Vec
	Magnitude   float64
	Normal      r3.Vec
	Corrected   r3.Vec
	Penetration float64 // clamped at 0
}

// Repel computes the full response for a creature against a cylinder.
func Repel(creature, tendroid r3.Vec, radius, approachSpeed float64, cfg RepulsionConfig) Repulsion {
	n, pen := SurfaceNormal(creature, tendroid, radius)
	f := Force(n, pen, approachSpeed, cfg)
	return Repulsion{
		Force:       f,
		Magnitude:   r3.Norm(f),
		Normal:      n,
		Corrected:   CorrectedPosition(creature, tendroid, radius, cfg.SafetyMargin),
		Penetration: math.Max(0, pen),
	}
}
