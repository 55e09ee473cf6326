package contact

import "gonum.org/v1/gonum/spatial/r3"

// ActorKind identifies what a colliding body is.
type ActorKind uint8

const (
	ActorOther ActorKind = iota
	ActorCreature
	ActorTendroid
)

// Actor is one side of a raw contact pair.
type Actor struct {
	Kind ActorKind
	ID   int
}

// Event is a creature to tendroid contact. Normal points from the
// tendroid toward the creature.
type Event struct {
	Creature   int
	Tendroid   int
	Point      r3.Vec
	Normal     r3.Vec
	Impulse    float64
	Separation float64 // negative means penetration

	CreaturePos r3.Vec
	Force       r3.Vec
	Deflection  float64
}

// Extract keeps creature to tendroid pairs. The incoming normal points
// from b toward a, so it is flipped when b is the creature.
func Extract(a, b Actor, point, normal r3.Vec, impulse, separation float64) (Event, bool) {
	switch {
	case a.Kind == ActorCreature && b.Kind == ActorTendroid:
		return Event{
			Creature: a.ID, Tendroid: b.ID,
			Point: point, Normal: normal,
			Impulse: impulse, Separation: separation,
		}, true
	case b.Kind == ActorCreature && a.Kind == ActorTendroid:
		return Event{
			Creature: b.ID, Tendroid: a.ID,
			Point: point, Normal: r3.Scale(-1, normal),
			Impulse: impulse, Separation: separation,
		}, true
	}
	return Event{}, false
}
