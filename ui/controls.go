package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// DeflectionPresets are the names the controls panel cycles through.
var DeflectionPresets = []string{"default", "sensitive", "subtle"}

// ControlState is what the controls panel edits. The viewer copies it
// into the scene after each Draw.
type ControlState struct {
	WaveEnabled   bool
	WaveAmplitude float32
	Deflection    bool
	Preset        int // index into DeflectionPresets
	Autopilot     bool
	Paused        bool
	Speed         float32

	// one-shot requests, cleared by the viewer
	ResetScene  bool
	ApplyPreset bool
}

// ControlsPanel renders the left-side controls panel: scene toggles and
// sliders, then the overlay list.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// NewControlsPanel creates a hidden controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{renderer: NewRenderer(), x: x, y: y, width: width}
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// IsVisible returns whether the panel is shown.
func (c *ControlsPanel) IsVisible() bool { return c.visible }

// Contains reports whether a screen point is over the panel.
func (c *ControlsPanel) Contains(mx, my int32, overlays *OverlayRegistry) bool {
	if !c.visible {
		return false
	}
	return mx >= c.x && mx < c.x+c.width && my >= c.y && my < c.y+c.height(overlays)
}

const controlRow = 24

func (c *ControlsPanel) height(overlays *OverlayRegistry) int32 {
	t := c.renderer.Theme
	items := 0
	for _, cat := range overlays.Categories() {
		items += len(overlays.ByCategory(cat)) + 1
	}
	return t.Padding*3 + 7*controlRow + t.LineHeight + int32(items)*t.LineHeight
}

// Draw renders the panel and applies edits to state. It returns the y
// below the panel.
func (c *ControlsPanel) Draw(state *ControlState, overlays *OverlayRegistry) int32 {
	if !c.visible {
		return c.y
	}
	r := c.renderer
	pad := r.Theme.Padding
	r.DrawPanel(c.x, c.y, c.width, c.height(overlays))

	x := float32(c.x + pad)
	y := float32(c.y + pad)
	w := float32(c.width - 2*pad)
	box := func(text string, v bool) bool {
		out := gui.CheckBox(rl.Rectangle{X: x, Y: y, Width: 14, Height: 14}, text, v)
		y += controlRow
		return out
	}
	slider := func(label string, v, lo, hi float32) float32 {
		out := gui.SliderBar(rl.Rectangle{X: x + 60, Y: y, Width: w - 110, Height: 16},
			label, fmt.Sprintf("%.2f", v), v, lo, hi)
		y += controlRow
		return out
	}

	state.WaveEnabled = box("Tide", state.WaveEnabled)
	state.WaveAmplitude = slider("Amplitude", state.WaveAmplitude, 0, 0.3)
	state.Deflection = box("Deflection", state.Deflection)
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: w, Height: 20}, "Preset: "+DeflectionPresets[state.Preset]) {
		state.Preset = (state.Preset + 1) % len(DeflectionPresets)
		state.ApplyPreset = true
	}
	y += controlRow
	state.Autopilot = box("Autopilot", state.Autopilot)
	state.Speed = slider("Speed", state.Speed, 0.25, 4)

	half := (w - 10) / 2
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: half, Height: 20}, toggleText(state.Paused, "Resume", "Pause")) {
		state.Paused = !state.Paused
	}
	if gui.Button(rl.Rectangle{X: x + half + 10, Y: y, Width: half, Height: 20}, "Reset") {
		state.ResetScene = true
	}
	y += controlRow + float32(pad)

	iy := int32(y)
	rl.DrawText("Overlays", int32(x), iy, 16, rl.White)
	iy += r.Theme.LineHeight
	for _, cat := range overlays.Categories() {
		rl.DrawText(categoryLabel(cat), int32(x), iy, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
		iy += r.Theme.LineHeight
		for _, d := range overlays.ByCategory(cat) {
			c.drawToggle(int32(x)+8, iy, d, overlays.IsEnabled(d.ID))
			iy += r.Theme.LineHeight
		}
	}
	return iy + pad
}

func (c *ControlsPanel) drawToggle(x, y int32, d OverlayDescriptor, enabled bool) {
	box := rl.Color{R: 60, G: 60, B: 60, A: 255}
	text := rl.Gray
	if enabled {
		box, text = rl.Green, rl.White
	}
	rl.DrawRectangle(x, y+2, 10, 10, box)
	rl.DrawText(fmt.Sprintf("[%s] %s", d.KeyLabel, d.Name), x+16, y, c.renderer.Theme.FontSize, text)
}

func categoryLabel(cat string) string {
	switch cat {
	case "scene":
		return "Scene"
	case "debug":
		return "Debug"
	}
	return cat
}

func toggleText(on bool, yes, no string) string {
	if on {
		return yes
	}
	return no
}
