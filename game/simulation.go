package game

import (
	"log/slog"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/tendroids/animation"
	"github.com/pthm-cable/tendroids/contact"
	"github.com/pthm-cable/tendroids/deform"
	"github.com/pthm-cable/tendroids/proximity"
	"github.com/pthm-cable/tendroids/telemetry"
)

// repulsionParams is what the contact phase needs beyond the geometry.
type repulsionParams struct {
	cfg        contact.RepulsionConfig
	deflection float64 // surface dent depth at contact
}

// updateWave advances the tide and samples the tip offset at every root.
func (s *Scene) updateWave(dt float64) {
	s.wave.Update(dt)

	query := s.waveFilter.Query()
	for query.Next() {
		_, tr, w := query.Get()
		dx, dz := s.wave.Offset(float64(tr.X), float64(tr.Z))
		w.DX, w.DZ = float32(dx), float32(dz)
	}
}

// updateBubbles runs each tendroid's bubble and mirrors its kernel inputs.
func (s *Scene) updateBubbles(dt float64) {
	if s.bubbles == nil {
		return
	}
	query := s.bubbleFilter.Query()
	for query.Next() {
		td, w, bub := query.Get()
		b := s.bubbles[td.ID]
		before := b.Phase()
		phase := b.Update(dt, float64(w.DX), float64(w.DZ))
		if phase == animation.BubblePopped && before != animation.BubblePopped {
			_, y, _ := b.Position()
			s.record(telemetry.NewBubblePopEvent(s.tick, s.time, int(td.ID), y))
		}
		y, r := b.DeformState()
		bub.Y, bub.Radius, bub.Phase = float32(y), float32(r), uint8(phase)
	}
}

// surfaceGap is the distance between the creature's surface and the side
// of tendroid t. Negative values mean they overlap.
func (s *Scene) surfaceGap(t *Tendroid, pos r3.Vec) float64 {
	return proximity.SurfaceDistance(pos, t.Root, t.Radius) - s.cfg.Creature.Radius
}

// updateProximity samples every tendroid near the creature through the
// broadphase grid. Pairs outside the query that are not idle still get a
// sample so they can settle back.
func (s *Scene) updateProximity() {
	_, tr, _, _ := s.creatureMap.Get(s.creature)
	pos := toVec(tr)
	params := s.proximity.Params()
	reach := params.Detection + s.maxRadius + s.cfg.Creature.Radius

	for i := range s.visited {
		s.visited[i] = false
	}
	s.nearest = math.Inf(1)

	s.neighbors = s.grid.QueryRadiusInto(s.neighbors[:0], pos.X, pos.Z, reach)
	for _, n := range s.neighbors {
		s.trackPair(n.ID, pos, params)
	}
	for id := range s.tendroids {
		if s.visited[id] {
			continue
		}
		if s.proximity.State(CreatureID, id) != proximity.StateIdle {
			s.trackPair(id, pos, params)
			continue
		}
		prox := s.proxMap.Get(s.tendroids[id].Entity)
		prox.Distance = float32(params.Detection)
		prox.Zone = uint8(proximity.ZoneIdle)
		prox.State = uint8(proximity.StateIdle)
	}
}

func (s *Scene) trackPair(id int, pos r3.Vec, params proximity.ApproachParameters) {
	t := &s.tendroids[id]
	d := s.surfaceGap(t, pos)
	state, _ := s.proximity.Update(CreatureID, id, d, s.time)

	prox := s.proxMap.Get(t.Entity)
	prox.Distance = float32(d)
	prox.Zone = uint8(params.Zone(d))
	prox.State = uint8(state)

	s.visited[id] = true
	if d < s.nearest {
		s.nearest = d
	}
}

// detectContacts is the cylinder test. A contact event fires on the frame
// the creature first overlaps a tendroid's side within its height.
func (s *Scene) detectContacts() {
	c, tr, vel, _ := s.creatureMap.Get(s.creature)
	pos := toVec(tr)
	v := r3.Vec{X: float64(vel.X), Y: float64(vel.Y), Z: float64(vel.Z)}

	for id := range s.tendroids {
		if !s.visited[id] {
			s.overlapping[id] = false
			continue
		}
		t := &s.tendroids[id]
		inside := pos.Y >= t.Root.Y && pos.Y <= t.Root.Y+t.Length && s.surfaceGap(t, pos) < 0
		was := s.overlapping[id]
		s.overlapping[id] = inside
		if !inside || was {
			continue
		}

		ev, ok := s.contactEvent(t, pos, v)
		if !ok {
			continue
		}
		pos = ev.CreaturePos
		setVec(tr, pos)
		if err := s.recoveries.HandleContact(ev); err != nil {
			slog.Error("contact rejected", "tendroid", id, "error", err)
			continue
		}
		c.Contacts++
		c.Locked = true
	}
}

// contactEvent builds the contact for creature at pos touching t, with the
// repulsion force and corrected creature position filled in.
func (s *Scene) contactEvent(t *Tendroid, pos, vel r3.Vec) (contact.Event, bool) {
	reach := t.Radius + s.cfg.Creature.Radius
	normal, pen := contact.SurfaceNormal(pos, t.Root, reach)
	point := r3.Vec{X: t.Root.X + normal.X*t.Radius, Y: pos.Y, Z: t.Root.Z + normal.Z*t.Radius}
	approach := -r3.Dot(vel, normal)
	impulse := s.cfg.Creature.Mass * math.Max(0, approach)

	// The physics layer reports the normal from the creature into the
	// tendroid; Extract flips it to point at the creature.
	ev, ok := contact.Extract(
		contact.Actor{Kind: contact.ActorTendroid, ID: t.ID},
		contact.Actor{Kind: contact.ActorCreature, ID: CreatureID},
		point, r3.Scale(-1, normal), impulse, -pen,
	)
	if !ok {
		return contact.Event{}, false
	}

	rep := contact.Repel(pos, t.Root, reach, approach, s.repulsion.cfg)
	ev.CreaturePos = rep.Corrected
	ev.Force = rep.Force
	ev.Deflection = s.repulsion.deflection

	slog.Debug("contact",
		"tendroid", t.ID,
		"penetration", rep.Penetration,
		"force", rep.Magnitude,
		"approach_speed", approach,
	)
	return ev, true
}

// updateRecovery advances every active recovery, moves the creature by
// the summed repulsion displacement and mirrors lock and tint.
func (s *Scene) updateRecovery(dt float64) {
	c, tr, vel, tint := s.creatureMap.Get(s.creature)
	pos := toVec(tr)

	var disp r3.Vec
	color := rgb(s.cfg.Color.Normal)
	for _, k := range s.recoveries.Active() {
		o, _ := s.recoveries.Lookup(k.Creature, k.Tendroid)
		disp = r3.Add(disp, o.UpdateFrame(pos, o.RelaxedSurface(), dt))
		color = o.Color().Color()
	}

	c.Locked = s.recoveries.InputLocked(CreatureID)
	tint.R, tint.G, tint.B = float32(color.R), float32(color.G), float32(color.B)
	if c.Locked {
		setVec(tr, r3.Add(pos, disp))
		if dt > 0 {
			vel.X, vel.Y, vel.Z = float32(disp.X/dt), 0, float32(disp.Z/dt)
		}
	}
}

// updateDeflection bends tendroids away from the creature.
func (s *Scene) updateDeflection(dt float64) {
	_, tr, vel, _ := s.creatureMap.Get(s.creature)
	pos := toVec(tr)
	v := r3.Vec{X: float64(vel.X), Y: float64(vel.Y), Z: float64(vel.Z)}

	s.deflection.Update(pos, v, dt)
	s.bends = s.deflection.AppendBends(s.bends[:0])
	for _, b := range s.bends {
		bend := s.bendMap.Get(s.tendroids[b.ID].Entity)
		bend.Angle, bend.AxisX, bend.AxisZ = b.Angle, b.AxisX, b.AxisZ
		bend.Latched = s.deflection.Controller(b.ID).Latched()
	}
}

// deform snapshots every tendroid's inputs and runs the batch kernel.
func (s *Scene) deform() {
	s.states = s.states[:0]
	query := s.deformFilter.Query()
	for query.Next() {
		td, bub, w, bend := query.Get()
		s.states = append(s.states, deform.EntityState{
			ID:           int(td.ID),
			BubbleY:      bub.Y,
			BubbleRadius: bub.Radius,
			WaveDX:       w.DX,
			WaveDZ:       w.DZ,
			BendAngle:    bend.Angle,
			BendAxisX:    bend.AxisX,
			BendAxisZ:    bend.AxisZ,
		})
	}
	s.batch.UpdateStates(s.states)
	s.out = s.batch.DeformAll()
}
