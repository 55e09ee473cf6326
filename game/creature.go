package game

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/tendroids/components"
)

// autopilot sweeps the creature through the field along a Lissajous
// figure so every tendroid is approached from changing directions.
type autopilot struct {
	extent float64
	height float64
	freq   float64
	time   float64
}

// start is a point just outside the field on the -X side.
func (a autopilot) start() r3.Vec {
	return r3.Vec{X: -(a.extent + 0.5), Y: a.height}
}

// target is the path point at time t.
func (a autopilot) target(t float64) r3.Vec {
	w := 2 * math.Pi * a.freq
	return r3.Vec{
		X: a.extent * math.Sin(w*t),
		Y: a.height,
		Z: a.extent * math.Sin(1.7*w*t+math.Pi/3),
	}
}

// CreatureState is a read-only view of the creature for viewers.
type CreatureState struct {
	Position r3.Vec
	Velocity r3.Vec
	Radius   float64
	Locked   bool
	Contacts int
	Tint     components.Tint
}

// Creature returns the creature's current state.
func (s *Scene) Creature() CreatureState {
	c, tr, vel, tint := s.creatureMap.Get(s.creature)
	return CreatureState{
		Position: toVec(tr),
		Velocity: r3.Vec{X: float64(vel.X), Y: float64(vel.Y), Z: float64(vel.Z)},
		Radius:   float64(c.Radius),
		Locked:   c.Locked,
		Contacts: int(c.Contacts),
		Tint:     *tint,
	}
}

// SetInput sets the manual steering direction on the XZ plane. Components
// are clamped to [-1, 1]. It has no effect while the autopilot flies or
// the input lock is held.
func (s *Scene) SetInput(x, z float64) {
	s.input = r3.Vec{X: clamp(x, -1, 1), Z: clamp(z, -1, 1)}
}

// SetAutopilot switches between the scripted path and manual input.
func (s *Scene) SetAutopilot(on bool) { s.autopilot = on }

// Autopilot reports whether the scripted path is steering.
func (s *Scene) Autopilot() bool { return s.autopilot }

// updateCreature steers toward the autopilot target or along the manual
// input, limited by the configured acceleration and speed. While locked
// the creature does not steer; recovery moves it instead.
func (s *Scene) updateCreature(dt float64) {
	c, tr, vel, _ := s.creatureMap.Get(s.creature)
	if c.Locked {
		return
	}
	cfg := s.cfg.Creature
	pos := toVec(tr)
	v := r3.Vec{X: float64(vel.X), Z: float64(vel.Z)}

	var desired r3.Vec
	if s.autopilot {
		s.pilot.time += dt
		to := r3.Sub(s.pilot.target(s.pilot.time), pos)
		to.Y = 0
		if d := r3.Norm(to); d > 1e-6 {
			// slow down on arrival so the creature does not orbit the target
			desired = r3.Scale(cfg.Speed*math.Min(1, d/0.2)/d, to)
		}
	} else {
		desired = r3.Scale(cfg.Speed, s.input)
	}

	dv := r3.Sub(desired, v)
	if n, limit := r3.Norm(dv), cfg.Accel*dt; n > limit {
		dv = r3.Scale(limit/n, dv)
	}
	v = r3.Add(v, dv)
	if n := r3.Norm(v); n > cfg.Speed {
		v = r3.Scale(cfg.Speed/n, v)
	}

	pos = r3.Add(pos, r3.Scale(dt, v))
	pos.Y = s.pilot.height
	setVec(tr, pos)
	vel.X, vel.Y, vel.Z = float32(v.X), 0, float32(v.Z)
}
