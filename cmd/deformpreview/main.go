// Deformation kernel preview - a side view of one tendroid with sliders
// for every kernel input.
//
// Usage: go run ./cmd/deformpreview
package main

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/tendroids/deform"
)

const (
	windowWidth  = 1000
	windowHeight = 720
	previewSize  = 600
	panelX       = previewSize + 30
	pixelsPerM   = 380
)

// previewParams holds the slider values.
type previewParams struct {
	Radius       float32
	Length       float32
	MaxAmplitude float32
	BulgeWidth   float32
	BubbleY      float32 // fraction of length
	Growth       float32 // 0 no bubble, 1 fully grown
	WaveDX       float32
	BendAngle    float32
}

func defaults() previewParams {
	return previewParams{
		Radius:       0.05,
		Length:       1.2,
		MaxAmplitude: 0.8,
		BulgeWidth:   0.9,
		BubbleY:      0.4,
		Growth:       1,
	}
}

func main() {
	rl.InitWindow(windowWidth, windowHeight, "Deformation Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	params := defaults()
	animating := false
	var t float32

	for !rl.WindowShouldClose() {
		if animating {
			t += rl.GetFrameTime()
			params.BubbleY = fract(t * 0.2)
			params.Growth = min(params.BubbleY/0.6, 1)
		}

		mesh := deform.NewCylinder(params.Radius, params.Length, 16, 48)
		out := deformMesh(mesh, params)

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)
		drawProfile(mesh, out, params)

		y := float32(10)
		rl.DrawText("Kernel Parameters", panelX, int32(y), 20, rl.DarkGray)
		y += 35
		slider := func(label string, v *float32, lo, hi float32, format string) {
			rl.DrawText(label, panelX, int32(y), 14, rl.Gray)
			y += 18
			*v = gui.SliderBar(rl.Rectangle{X: panelX, Y: y, Width: 250, Height: 20},
				fmt.Sprintf(format, lo), fmt.Sprintf(format, hi), *v, lo, hi)
			rl.DrawText(fmt.Sprintf(format, *v), panelX+290, int32(y)+3, 14, rl.DarkGray)
			y += 32
		}
		slider("Radius", &params.Radius, 0.02, 0.12, "%.3f")
		slider("Length", &params.Length, 0.4, 1.6, "%.2f")
		slider("Max amplitude", &params.MaxAmplitude, 0, 1.5, "%.2f")
		slider("Bulge width", &params.BulgeWidth, 0.2, 2, "%.2f")
		slider("Bubble height (of length)", &params.BubbleY, 0, 1, "%.2f")
		slider("Bubble growth", &params.Growth, 0, 1, "%.2f")
		slider("Wave tip offset", &params.WaveDX, -0.2, 0.2, "%+.3f")
		slider("Bend angle (rad)", &params.BendAngle, -0.6, 0.6, "%+.3f")

		if gui.Button(rl.Rectangle{X: panelX, Y: y, Width: 120, Height: 30}, toggleText(animating, "Stop", "Animate")) {
			animating = !animating
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: y, Width: 120, Height: 30}, "Reset All") {
			params = defaults()
			animating = false
		}
		y += 50

		yaml := fmt.Sprintf("deform:\n  max_amplitude: %.2f\n  bulge_width: %.2f", params.MaxAmplitude, params.BulgeWidth)
		rl.DrawText("YAML Config:", panelX, int32(y), 16, rl.DarkGray)
		rl.DrawText(yaml, panelX, int32(y)+22, 14, rl.Gray)
		rl.DrawText("Press C to copy YAML to clipboard", panelX, windowHeight-30, 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) {
			rl.SetClipboardText(yaml)
		}
		rl.EndDrawing()
	}
}

// kernelParams converts slider values to kernel inputs. The bend axis is
// +Z so the bend shows in the side view.
func kernelParams(p previewParams) deform.Params {
	e := deform.Rest(p.Radius, p.MaxAmplitude, p.BulgeWidth)
	e.BubbleY = p.BubbleY * p.Length
	e.BubbleRadius = p.Radius * (1 + p.MaxAmplitude*p.Growth)
	e.WaveDX = p.WaveDX
	e.BendAngle = p.BendAngle
	e.BendAxisZ = 1
	return e
}

func deformMesh(mesh deform.CylinderMesh, p previewParams) []deform.Vec3 {
	e := kernelParams(p)
	out := make([]deform.Vec3, len(mesh.Vertices))
	for i, v := range mesh.Vertices {
		out[i] = deform.Deform(v, deform.HeightFactor(v.Y, p.Length), &e)
	}
	return out
}

// drawProfile draws the rest and deformed silhouettes, using the +X and
// -X vertices of every ring.
func drawProfile(mesh deform.CylinderMesh, out []deform.Vec3, p previewParams) {
	rl.DrawRectangleLines(10, 10, previewSize, previewSize+90, rl.DarkGray)
	originX, originY := float32(10+previewSize/2), float32(10+previewSize+60)
	toScreen := func(v deform.Vec3) rl.Vector2 {
		return rl.Vector2{X: originX + v.X*pixelsPerM, Y: originY - v.Y*pixelsPerM}
	}
	rl.DrawLine(10, int32(originY), 10+previewSize, int32(originY), rl.LightGray)

	right, left := 0, mesh.Radial/2
	for r := 0; r+1 < mesh.Rings; r++ {
		a, b := r*mesh.Radial, (r+1)*mesh.Radial
		for _, side := range [2]int{right, left} {
			rl.DrawLineV(toScreen(mesh.Vertices[a+side]), toScreen(mesh.Vertices[b+side]), rl.LightGray)
			rl.DrawLineEx(toScreen(out[a+side]), toScreen(out[b+side]), 2, rl.DarkGreen)
		}
	}

	e := kernelParams(p)
	if deform.Growth(&e) > 0 {
		c := toScreen(deform.Vec3{Y: e.BubbleY})
		rl.DrawCircleLinesV(c, e.BubbleRadius*pixelsPerM, rl.SkyBlue)
	}
	rl.DrawText(fmt.Sprintf("Growth: %.2f  Peak scale: %.2f", deform.Growth(&e), deform.Scale(e.BubbleY, &e)),
		15, int32(originY)+10, 16, rl.DarkGray)
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}

func fract(x float32) float32 {
	return x - float32(int(x))
}
