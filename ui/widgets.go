package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Renderer draws UI primitives with one theme.
type Renderer struct {
	Theme Theme
}

// NewRenderer creates a renderer with the default theme.
func NewRenderer() *Renderer {
	return &Renderer{Theme: DefaultTheme()}
}

// DrawPanel draws a panel background with border.
func (r *Renderer) DrawPanel(x, y, width, height int32) {
	rl.DrawRectangle(x, y, width, height, r.Theme.PanelBg)
	rl.DrawRectangleLines(x, y, width, height, r.Theme.PanelBorder)
}

// DrawSectionHeader draws a header and returns the next line's y.
func (r *Renderer) DrawSectionHeader(x, y int32, title string) int32 {
	rl.DrawText(title, x, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
	return y + r.Theme.LineHeight
}

// DrawLabelValue draws "label: value" and returns the next line's y.
func (r *Renderer) DrawLabelValue(x, y int32, label, value string) int32 {
	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawText(value, x+r.Theme.LabelWidth, y, r.Theme.FontSize, r.Theme.ValueColor)
	return y + r.Theme.LineHeight
}

// barTrack draws the label and empty track of a bar and returns the
// track's x and width.
func (r *Renderer) barTrack(x, y int32, label string, width int32) (int32, int32) {
	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	barX := x + r.Theme.LabelWidth
	barW := width - r.Theme.LabelWidth - 50
	rl.DrawRectangle(barX, y+2, barW, r.Theme.BarHeight, r.Theme.BarBg)
	return barX, barW
}

// DrawBar draws value as a fill of the range [lo, hi].
func (r *Renderer) DrawBar(x, y int32, label, format string, value, lo, hi float32, width int32) int32 {
	barX, barW := r.barTrack(x, y, label, width)
	ratio := float32(0)
	if hi > lo {
		ratio = max(0, min((value-lo)/(hi-lo), 1))
	}
	rl.DrawRectangle(barX, y+2, int32(float32(barW)*ratio), r.Theme.BarHeight, r.Theme.BarFill)
	rl.DrawText(fmt.Sprintf(format, value), barX+barW+5, y, r.Theme.FontSize, r.Theme.ValueColor)
	return y + r.Theme.LineHeight + 2
}

// DrawCenteredBar draws a signed value as a fill left or right of the
// track's center. The larger of |lo| and |hi| fills half the track.
func (r *Renderer) DrawCenteredBar(x, y int32, label, format string, value, lo, hi float32, width int32) int32 {
	barX, barW := r.barTrack(x, y, label, width)
	center := barX + barW/2
	rl.DrawLine(center, y+2, center, y+2+r.Theme.BarHeight, rl.Color{R: 80, G: 80, B: 80, A: 255})

	half := max(-lo, hi)
	ratio := float32(0)
	if half > 0 {
		ratio = min(abs32(value)/half, 1)
	}
	fillW := int32(float32(barW/2) * ratio)
	fillX, c := center, r.Theme.BarFillPositive
	if value < 0 {
		fillX, c = center-fillW, r.Theme.BarFillNegative
	}
	rl.DrawRectangle(fillX, y+2, fillW, r.Theme.BarHeight, c)
	rl.DrawText(fmt.Sprintf(format, value), barX+barW+5, y, r.Theme.FontSize, r.Theme.ValueColor)
	return y + r.Theme.LineHeight + 2
}

// DrawColorSwatch draws a small color square after the label.
func (r *Renderer) DrawColorSwatch(x, y int32, label string, c rl.Color) int32 {
	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawRectangle(x+r.Theme.LabelWidth, y+1, 12, 12, c)
	return y + r.Theme.LineHeight
}

// DrawField renders one descriptor against data.
func (r *Renderer) DrawField(x, y int32, fd FieldDescriptor, data any, width int32) int32 {
	format := fd.Format
	if format == "" {
		format = "%.2f"
	}
	var value float32
	if fd.Getter != nil {
		value = fd.Getter(data)
	}

	switch fd.Widget {
	case WidgetText:
		text := fmt.Sprintf(format, value)
		if fd.TextGetter != nil {
			text = fd.TextGetter(data)
		}
		return r.DrawLabelValue(x, y, fd.Label, text)
	case WidgetBar:
		return r.DrawBar(x, y, fd.Label, format, value, fd.Range.Min, fd.Range.Max, width)
	case WidgetCenteredBar:
		return r.DrawCenteredBar(x, y, fd.Label, format, value, fd.Range.Min, fd.Range.Max, width)
	case WidgetColorSwatch:
		c := fd.Color
		if fd.ColorGetter != nil {
			c = fd.ColorGetter(data)
		}
		return r.DrawColorSwatch(x, y, fd.Label, c)
	case WidgetSection:
		return r.DrawSectionHeader(x, y, fd.Label)
	case WidgetSpacer:
		return y + 6
	}
	return y
}

// DrawSection renders a section header and its visible fields.
func (r *Renderer) DrawSection(x, y int32, sd SectionDescriptor, data any, width int32) int32 {
	if sd.Visible != nil && !sd.Visible(data) {
		return y
	}
	if sd.Title != "" {
		y = r.DrawSectionHeader(x, y, sd.Title)
	}
	for _, fd := range sd.Fields {
		if fd.Visible != nil && !fd.Visible(data) {
			continue
		}
		y = r.DrawField(x, y, fd, data, width)
	}
	return y + 4
}

// SectionHeight is the height DrawSection uses when every field is
// visible.
func (r *Renderer) SectionHeight(sd SectionDescriptor) int32 {
	h := int32(4)
	if sd.Title != "" {
		h += r.Theme.LineHeight
	}
	for _, fd := range sd.Fields {
		switch fd.Widget {
		case WidgetBar, WidgetCenteredBar:
			h += r.Theme.LineHeight + 2
		case WidgetSpacer:
			h += 6
		default:
			h += r.Theme.LineHeight
		}
	}
	return h
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
