package components

// Bubble mirrors the tendroid's bubble as the kernel sees it. Radius
// equal to the tube radius means no bubble.
type Bubble struct {
	Y      float32 `inspect:"label,fmt:%.3f"`
	Radius float32 `inspect:"label,fmt:%.3f"`
	Phase  uint8   `inspect:"skip"`
}

// Wave is the tip wave offset at the tendroid base position.
type Wave struct {
	DX float32 `inspect:"label,fmt:%+.3f"`
	DZ float32 `inspect:"label,fmt:%+.3f"`
}

// Bend is the deflection applied this frame.
type Bend struct {
	Angle   float32 `inspect:"angle"`
	AxisX   float32 `inspect:"skip"`
	AxisZ   float32 `inspect:"skip"`
	Latched bool    `inspect:"bool"`
}

// Proximity is the creature's distance band around this tendroid.
type Proximity struct {
	Distance float32 `inspect:"bar,max:1"`
	Zone     uint8   `inspect:"skip"`
	State    uint8   `inspect:"skip"`
}
