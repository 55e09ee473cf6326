package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/lucasb-eyer/go-colorful"
)

// WaterBackground fills the screen with a depth gradient. The surface
// color brightens while the tide surges.
type WaterBackground struct {
	width, height int32
	calm, surge   colorful.Color
	deep          colorful.Color
}

// NewWaterBackground creates a background for a width x height screen.
func NewWaterBackground(width, height int32) *WaterBackground {
	return &WaterBackground{
		width:  width,
		height: height,
		calm:   colorful.Color{R: 0.06, G: 0.22, B: 0.32},
		surge:  colorful.Color{R: 0.10, G: 0.34, B: 0.42},
		deep:   colorful.Color{R: 0.01, G: 0.04, B: 0.08},
	}
}

// Resize updates the screen size.
func (w *WaterBackground) Resize(width, height int32) {
	w.width, w.height = width, height
}

// Draw renders the gradient. tide is the raw tidal displacement.
func (w *WaterBackground) Draw(tide float64) {
	t := tide
	if t < 0 {
		t = -t
	}
	top := w.calm.BlendLab(w.surge, min(t, 1))
	rl.DrawRectangleGradientV(0, 0, w.width, w.height, ToColor(top, 255), ToColor(w.deep, 255))
}

// ToColor converts a colorful color to a raylib color, clamping first.
func ToColor(c colorful.Color, a uint8) rl.Color {
	r, g, b := c.Clamped().RGB255()
	return rl.Color{R: r, G: g, B: b, A: a}
}
