package inspector

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Widget colors
var (
	ColorBarBg       = rl.Color{R: 40, G: 40, B: 40, A: 255}
	ColorBarFill     = rl.Color{R: 100, G: 180, B: 100, A: 255}
	ColorBarHigh     = rl.Color{R: 200, G: 110, B: 80, A: 255}
	ColorText        = rl.Color{R: 220, G: 220, B: 220, A: 255}
	ColorTextDim     = rl.Color{R: 150, G: 150, B: 150, A: 255}
	ColorAngleBg     = rl.Color{R: 50, G: 50, B: 60, A: 255}
	ColorAngleNeedle = rl.Color{R: 255, G: 200, B: 100, A: 255}
	ColorBoolOn      = rl.Color{R: 100, G: 200, B: 100, A: 255}
	ColorBoolOff     = rl.Color{R: 80, G: 80, B: 80, A: 255}
)

// DrawLabel renders "name: value" and returns the height used.
func DrawLabel(x, y int32, name string, value any, options map[string]string) int32 {
	rl.DrawText(fmt.Sprintf("%s: %s", name, FormatValue(value, options["fmt"])), x, y, 14, ColorText)
	return 18
}

// DrawBar renders a horizontal bar against the field's max option.
// Bars past 80% turn warm.
func DrawBar(x, y int32, name string, value float32, options map[string]string) int32 {
	ratio := max(0, min(value/OptionMax(options), 1))

	const barWidth, barHeight = int32(120), int32(14)
	rl.DrawText(name, x, y, 14, ColorTextDim)

	barX := x + 80
	rl.DrawRectangle(barX, y, barWidth, barHeight, ColorBarBg)
	fill := ColorBarFill
	if ratio > 0.8 {
		fill = ColorBarHigh
	}
	rl.DrawRectangle(barX, y, int32(float32(barWidth)*ratio), barHeight, fill)
	rl.DrawText(FormatValue(value, options["fmt"]), barX+barWidth+5, y, 14, ColorTextDim)
	return 18
}

// DrawAngle renders a tilt gauge: the needle leans from vertical by
// radians.
func DrawAngle(x, y int32, name string, radians float32) int32 {
	const size = int32(40)
	cx, cy := x+80+size/2, y+size-4

	rl.DrawText(name, x, y+size/2-7, 14, ColorTextDim)
	rl.DrawCircleSector(rl.Vector2{X: float32(cx), Y: float32(cy)}, float32(size-8), 180, 360, 16, ColorAngleBg)

	l := float64(size - 10)
	end := rl.Vector2{
		X: float32(cx) + float32(l*math.Sin(float64(radians))),
		Y: float32(cy) - float32(l*math.Cos(float64(radians))),
	}
	rl.DrawLineEx(rl.Vector2{X: float32(cx), Y: float32(cy)}, end, 2, ColorAngleNeedle)
	rl.DrawText(fmt.Sprintf("%.1f°", radians*180/math.Pi), cx+size/2+8, y+size/2-7, 14, ColorTextDim)
	return size + 4
}

// DrawBool renders an on/off indicator.
func DrawBool(x, y int32, name string, value bool) int32 {
	rl.DrawText(name, x, y, 14, ColorTextDim)

	c, text := ColorBoolOff, "OFF"
	if value {
		c, text = ColorBoolOn, "ON"
	}
	rl.DrawRectangle(x+80, y, 14, 14, c)
	rl.DrawText(text, x+99, y, 14, c)
	return 18
}

// DrawField renders a field with its widget and returns the height used.
func DrawField(x, y int32, f Field) int32 {
	switch f.Widget {
	case WidgetBar:
		if v, ok := FloatValue(f.Value); ok {
			return DrawBar(x, y, f.Name, v, f.Options)
		}
	case WidgetAngle:
		if v, ok := FloatValue(f.Value); ok {
			return DrawAngle(x, y, f.Name, v)
		}
	case WidgetBool:
		if v, ok := f.Value.(bool); ok {
			return DrawBool(x, y, f.Name, v)
		}
	}
	return DrawLabel(x, y, f.Name, f.Value, f.Options)
}
