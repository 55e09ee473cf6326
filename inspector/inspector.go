// Package inspector draws a reflection-driven panel for the selected
// tendroid. Components opt fields in or out with `inspect` struct tags.
package inspector

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Panel dimensions
const (
	PanelWidth   = 300
	PanelPadding = 10
	HeaderHeight = 30
)

// Panel colors
var (
	ColorPanelBg     = rl.Color{R: 30, G: 30, B: 35, A: 240}
	ColorPanelHeader = rl.Color{R: 45, G: 45, B: 55, A: 255}
	ColorPanelBorder = rl.Color{R: 70, G: 70, B: 80, A: 255}
	ColorHeaderText  = rl.Color{R: 255, G: 255, B: 255, A: 255}
	ColorCloseBtn    = rl.Color{R: 180, G: 80, B: 80, A: 255}
	ColorSection     = rl.Color{R: 50, G: 50, B: 60, A: 255}
	ColorSectionText = rl.Color{R: 200, G: 200, B: 220, A: 255}
)

// Inspector tracks the selected tendroid and draws its panel.
type Inspector struct {
	selected    int
	hasSelected bool
	panelX      int32
	panelY      int32
	lastHeight  int32
}

// NewInspector places the panel at the top right of the screen.
func NewInspector(screenWidth, screenHeight int32) *Inspector {
	ins := &Inspector{}
	ins.Resize(screenWidth, screenHeight)
	return ins
}

// Resize keeps the panel anchored to the right edge.
func (ins *Inspector) Resize(screenWidth, screenHeight int32) {
	ins.panelX = screenWidth - PanelWidth - 10
	ins.panelY = 10
}

// Select makes tendroid id the inspected one.
func (ins *Inspector) Select(id int) {
	ins.selected = id
	ins.hasSelected = true
}

// Deselect clears the selection.
func (ins *Inspector) Deselect() {
	ins.hasSelected = false
}

// Selected returns the selected tendroid id.
func (ins *Inspector) Selected() (int, bool) {
	return ins.selected, ins.hasSelected
}

// HandleClick consumes clicks on the open panel. A click on the close
// button deselects. It reports whether the click landed on the panel.
func (ins *Inspector) HandleClick(mouseX, mouseY float32) bool {
	if !ins.hasSelected {
		return false
	}
	mx, my := int32(mouseX), int32(mouseY)
	closeX, closeY := ins.panelX+PanelWidth-25, ins.panelY+5
	if mx >= closeX && mx <= closeX+20 && my >= closeY && my <= closeY+20 {
		ins.Deselect()
		return true
	}
	return mx >= ins.panelX && mx <= ins.panelX+PanelWidth &&
		my >= ins.panelY && my <= ins.panelY+ins.lastHeight
}

// Draw renders the panel with a title line and one block per section.
func (ins *Inspector) Draw(title string, sections []Section) {
	if !ins.hasSelected {
		return
	}

	height := ins.panelHeight(sections)
	ins.lastHeight = height
	rl.DrawRectangle(ins.panelX, ins.panelY, PanelWidth, height, ColorPanelBg)
	rl.DrawRectangleLinesEx(
		rl.Rectangle{X: float32(ins.panelX), Y: float32(ins.panelY), Width: PanelWidth, Height: float32(height)},
		1,
		ColorPanelBorder,
	)

	rl.DrawRectangle(ins.panelX, ins.panelY, PanelWidth, HeaderHeight, ColorPanelHeader)
	rl.DrawText(title, ins.panelX+PanelPadding, ins.panelY+7, 16, ColorHeaderText)

	closeX, closeY := ins.panelX+PanelWidth-25, ins.panelY+5
	rl.DrawRectangle(closeX, closeY, 20, 20, ColorCloseBtn)
	rl.DrawText("X", closeX+6, closeY+3, 14, rl.White)

	x := ins.panelX + PanelPadding
	y := ins.panelY + HeaderHeight + PanelPadding
	for _, s := range sections {
		if len(s.Fields) == 0 {
			continue
		}
		ins.drawSectionHeader(x, y, s.Title)
		y += 22
		for _, f := range s.Fields {
			y += DrawField(x, y, f)
		}
		y += 6
	}
}

func (ins *Inspector) drawSectionHeader(x, y int32, title string) {
	rl.DrawRectangle(x-2, y-2, PanelWidth-2*PanelPadding+4, 18, ColorSection)
	rl.DrawText(title, x+2, y, 14, ColorSectionText)
}

// panelHeight mirrors the layout of Draw.
func (ins *Inspector) panelHeight(sections []Section) int32 {
	h := int32(HeaderHeight + PanelPadding)
	for _, s := range sections {
		if len(s.Fields) == 0 {
			continue
		}
		h += 22 + 6
		for _, f := range s.Fields {
			if f.Widget == WidgetAngle {
				h += 44
			} else {
				h += 18
			}
		}
	}
	return h + PanelPadding
}
