package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/pthm-cable/tendroids/proximity"
)

// Palette holds the scene colors. Tendroid tints blend from Base toward
// the zone color as the creature closes in.
type Palette struct {
	Base     colorful.Color
	Zones    [proximity.ZoneContact + 1]colorful.Color
	Creature colorful.Color
}

// DefaultPalette returns the standard scene colors.
func DefaultPalette() Palette {
	return Palette{
		Base: colorful.Color{R: 0.35, G: 0.75, B: 0.55},
		Zones: [...]colorful.Color{
			proximity.ZoneIdle:        {R: 0.35, G: 0.75, B: 0.55},
			proximity.ZoneDetected:    {R: 0.55, G: 0.80, B: 0.45},
			proximity.ZoneApproaching: {R: 0.90, G: 0.80, B: 0.30},
			proximity.ZoneRecovering:  {R: 0.95, G: 0.55, B: 0.25},
			proximity.ZoneContact:     {R: 1.00, G: 0.30, B: 0.20},
		},
		Creature: colorful.Color{R: 0.2, G: 0.8, B: 0.9},
	}
}

// Zone returns the raylib color of a zone at alpha a.
func (p Palette) Zone(z proximity.Zone, a uint8) rl.Color {
	if int(z) >= len(p.Zones) {
		return ToColor(p.Base, a)
	}
	return ToColor(p.Zones[z], a)
}

// Tendroid blends the base color toward the zone color by t in [0, 1].
func (p Palette) Tendroid(z proximity.Zone, t float64) rl.Color {
	if int(z) >= len(p.Zones) {
		return ToColor(p.Base, 255)
	}
	return ToColor(p.Base.BlendLab(p.Zones[z], max(0, min(t, 1))), 255)
}
