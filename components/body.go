package components

// Creature holds the swimmer's body and steering state.
type Creature struct {
	ID       int32   `inspect:"label"`
	Radius   float32 `inspect:"label,fmt:%.3f"`
	Mass     float32 `inspect:"label,fmt:%.2f"`
	MaxSpeed float32 `inspect:"bar,max:2"`
	Locked   bool    `inspect:"bool"` // steering ignored during recovery
	Contacts int32   `inspect:"label"`
}

// Tint is a creature's display color, driven by the shock effect.
type Tint struct {
	R, G, B float32 `inspect:"skip"`
}
