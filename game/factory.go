package game

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/tendroids/animation"
	"github.com/pthm-cable/tendroids/components"
	"github.com/pthm-cable/tendroids/deflection"
	"github.com/pthm-cable/tendroids/deform"
)

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

// buildField lays the tendroids out on a jittered square grid centered on
// the origin and registers each one with the deformer, the deflection
// manager and the broadphase grid.
func (s *Scene) buildField() error {
	f := s.cfg.Field
	side := s.cfg.Derived.FieldSide
	extent := s.cfg.Derived.FieldExtent
	jitter := f.Jitter * f.Spacing
	detection := float32(s.cfg.Approach.Detection)
	bubbleCfg := bubbleConfig(s.cfg.Bubble)

	for i := 0; i < f.Count; i++ {
		row, col := i/side, i%side
		x := (float64(col)+0.5)*f.Spacing - extent + uniform(s.rng, -jitter, jitter)
		z := (float64(row)+0.5)*f.Spacing - extent + uniform(s.rng, -jitter, jitter)
		radius := uniform(s.rng, f.RadiusMin, f.RadiusMax)
		length := uniform(s.rng, f.LengthMin, f.LengthMax)
		name := fmt.Sprintf("tendroid_%02d", i)

		mesh := deform.NewCylinder(float32(radius), float32(length), f.Radial, f.Segments)
		shape := deform.TendroidParams{
			Radius:       float32(radius),
			Length:       float32(length),
			MaxAmplitude: float32(s.cfg.Deform.MaxAmplitude),
			BulgeWidth:   float32(s.cfg.Deform.BulgeWidth),
		}
		if err := s.batch.Register(i, name, i, mesh.Vertices, shape); err != nil {
			return err
		}

		entity := s.tendroidMap.NewEntity(
			&components.Tendroid{ID: int32(i), Radius: float32(radius), Length: float32(length), Segments: int32(f.Segments)},
			&components.Transform{X: float32(x), Z: float32(z)},
			&components.Mesh{Handle: int32(i), Vertices: int32(len(mesh.Vertices))},
			&components.Name{Value: name},
			&components.Bubble{Radius: float32(radius)},
			&components.Wave{},
			&components.Bend{},
			&components.Proximity{Distance: detection},
		)

		root := r3.Vec{X: x, Z: z}
		s.deflection.Register(i, deflection.Cylinder{Center: root, Length: length, Radius: radius})
		s.grid.Insert(i, x, z)

		if s.cfg.Bubble.Enabled {
			rng := rand.New(rand.NewSource(s.rng.Int63()))
			s.bubbles = append(s.bubbles, animation.NewBubble(radius, length, s.cfg.Deform.MaxAmplitude, bubbleCfg, rng))
		}
		if radius > s.maxRadius {
			s.maxRadius = radius
		}

		s.tendroids = append(s.tendroids, Tendroid{
			ID:     i,
			Name:   name,
			Entity: entity,
			Root:   root,
			Radius: radius,
			Length: length,
			Mesh:   mesh,
		})
	}

	s.visited = make([]bool, len(s.tendroids))
	s.overlapping = make([]bool, len(s.tendroids))
	return s.batch.Build()
}

// spawnCreature creates the swimmer outside the field.
func (s *Scene) spawnCreature() {
	c := s.cfg.Creature
	extent := s.cfg.Derived.FieldExtent
	if extent <= 0 {
		extent = 1
	}
	s.pilot = autopilot{
		extent: extent,
		height: c.Height,
		freq:   c.PathFreq,
	}

	creature := components.Creature{
		ID:       CreatureID,
		Radius:   float32(c.Radius),
		Mass:     float32(c.Mass),
		MaxSpeed: float32(c.Speed),
	}
	normal := s.cfg.Color.Normal
	tint := components.Tint{R: float32(normal[0]), G: float32(normal[1]), B: float32(normal[2])}
	s.creature = s.creatureMap.NewEntity(&creature, &components.Transform{}, &components.Velocity{}, &tint)
	s.placeCreature()
}

// placeCreature puts the creature at its start point, at rest.
func (s *Scene) placeCreature() {
	c, tr, vel, tint := s.creatureMap.Get(s.creature)
	start := s.pilot.start()
	tr.X, tr.Y, tr.Z = float32(start.X), float32(start.Y), float32(start.Z)
	*vel = components.Velocity{}
	c.Locked = false
	normal := s.cfg.Color.Normal
	tint.R, tint.G, tint.B = float32(normal[0]), float32(normal[1]), float32(normal[2])
	s.pilot.time = 0
}
