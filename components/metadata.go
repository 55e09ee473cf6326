package components

import "github.com/chewxy/math32"

// FieldDescriptor describes a readout for the HUD.
type FieldDescriptor struct {
	ID         string
	Label      string
	Format     string
	Min        float32
	Max        float32
	IsCentered bool
	IsBar      bool
	Group      string
}

// CreatureFieldDescriptors returns the creature readouts.
func CreatureFieldDescriptors() []FieldDescriptor {
	return []FieldDescriptor{
		{ID: "speed", Label: "Speed", Format: "%.2f", Min: 0, Max: 2, IsBar: true, Group: "motion"},
		{ID: "vx", Label: "Vel X", Format: "%+.2f", Min: -2, Max: 2, IsCentered: true, IsBar: true, Group: "motion"},
		{ID: "vz", Label: "Vel Z", Format: "%+.2f", Min: -2, Max: 2, IsCentered: true, IsBar: true, Group: "motion"},
		{ID: "contacts", Label: "Contacts", Format: "%.0f", Group: "contact"},
	}
}

// TendroidFieldDescriptors returns the per-tendroid readouts.
func TendroidFieldDescriptors() []FieldDescriptor {
	return []FieldDescriptor{
		{ID: "bend", Label: "Bend", Format: "%.3f", Min: 0, Max: 0.6, IsBar: true, Group: "deflection"},
		{ID: "distance", Label: "Distance", Format: "%.3f", Min: 0, Max: 1, IsBar: true, Group: "proximity"},
		{ID: "bubble_y", Label: "Bubble Y", Format: "%.2f", Group: "bubble"},
		{ID: "wave_dx", Label: "Wave X", Format: "%+.3f", Min: -0.15, Max: 0.15, IsCentered: true, IsBar: true, Group: "wave"},
	}
}

// CreatureValue extracts a creature readout by ID.
func CreatureValue(c *Creature, v *Velocity, id string) float32 {
	switch id {
	case "speed":
		return math32.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
	case "vx":
		return v.X
	case "vz":
		return v.Z
	case "contacts":
		return float32(c.Contacts)
	default:
		return 0
	}
}

// TendroidValue extracts a tendroid readout by ID.
func TendroidValue(b *Bend, p *Proximity, bub *Bubble, w *Wave, id string) float32 {
	switch id {
	case "bend":
		return b.Angle
	case "distance":
		return p.Distance
	case "bubble_y":
		return bub.Y
	case "wave_dx":
		return w.DX
	default:
		return 0
	}
}
