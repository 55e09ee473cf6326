// Package viewer shows a game.Scene in a raylib window. It owns the GPU
// meshes the scene deforms, the orbit camera and every panel, and maps
// keyboard and mouse input onto the scene.
package viewer

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/tendroids/camera"
	"github.com/pthm-cable/tendroids/game"
	"github.com/pthm-cable/tendroids/inspector"
	"github.com/pthm-cable/tendroids/renderer"
	"github.com/pthm-cable/tendroids/ui"
)

// maxSteps bounds catch-up steps per frame at high speed.
const maxSteps = 8

// Viewer draws one scene. Create it after the window is open.
type Viewer struct {
	scene *game.Scene

	cam     *camera.Camera
	meshes  *renderer.Meshes
	floor   *renderer.FloorRenderer
	water   *renderer.WaterBackground
	bubbles *renderer.BubbleRenderer
	flow    *renderer.FlowRenderer
	palette renderer.Palette

	overlays  *ui.OverlayRegistry
	controls  *ui.ControlsPanel
	state     ui.ControlState
	hud       *ui.HUD
	perfPanel *ui.PerfPanel
	events    *ui.EventLog
	readout   *ui.ReadoutPanel
	inspector *inspector.Inspector
	panels    *panels
	showPerf  bool

	screenW, screenH int32
	hovered          int // tendroid under the mouse, -1 for none
	accum            float64
	trail            []rl.Vector3
}

// New uploads the scene's tendroid meshes and points the scene's
// deformer at them.
func New(scene *game.Scene) *Viewer {
	cfg := scene.Config()
	w, h := int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight())
	extent := float32(cfg.Derived.FieldExtent)

	v := &Viewer{
		scene:     scene,
		cam:       camera.New(float32(w), float32(h), extent),
		meshes:    renderer.NewMeshes(),
		floor:     renderer.NewFloorRenderer(extent+1, scene.Seed()),
		water:     renderer.NewWaterBackground(w, h),
		bubbles:   renderer.NewBubbleRenderer(scene.Seed()),
		flow:      renderer.NewFlowRenderer(extent+1, 160, scene.Seed()),
		palette:   renderer.DefaultPalette(),
		overlays:  ui.NewOverlayRegistry(),
		controls:  ui.NewControlsPanel(10, 100, 240),
		hud:       ui.NewHUD(),
		perfPanel: ui.NewPerfPanel(w-330, 10),
		events:    ui.NewEventLog(w-330, 190, 320, 8),
		readout:   ui.NewReadoutPanel(240),
		inspector: inspector.NewInspector(w, h),
		panels:    newPanels(scene.World()),
		screenW:   w,
		screenH:   h,
		hovered:   -1,
		state: ui.ControlState{
			WaveEnabled:   cfg.Wave.Enabled,
			WaveAmplitude: float32(cfg.Wave.Amplitude),
			Deflection:    cfg.Deflection.Active,
			Autopilot:     scene.Autopilot(),
			Speed:         1,
		},
	}
	v.state.Preset = presetIndex(cfg.Deflection.Preset)

	for _, t := range scene.Tendroids() {
		v.meshes.Add(t.ID, t.Mesh, float32(t.Root.X), float32(t.Root.Z))
	}
	scene.SetSink(v.meshes)
	slog.Info("viewer ready", "tendroids", len(scene.Tendroids()), "width", w, "height", h)
	return v
}

func presetIndex(name string) int {
	for i, p := range ui.DeflectionPresets {
		if p == name {
			return i
		}
	}
	return 0
}

// Update handles input and advances the scene by the frame time scaled
// by the speed setting. Steps are fixed at the configured dt.
func (v *Viewer) Update() {
	v.handleInput()
	v.applyControls()
	if v.state.Paused {
		return
	}

	dt := v.scene.Config().Sim.DT
	v.accum += float64(rl.GetFrameTime()) * float64(v.state.Speed)
	for n := 0; v.accum >= dt && n < maxSteps; n++ {
		v.scene.Step(dt)
		v.accum -= dt
	}
	if v.accum > dt {
		v.accum = 0
	}

	v.flow.Update(v.scene.Wave(), rl.GetFrameTime()*v.state.Speed)
	v.recordTrail()
}

// recordTrail keeps the last few seconds of creature positions.
func (v *Viewer) recordTrail() {
	const keep = 240
	p := v.scene.Creature().Position
	v.trail = append(v.trail, rl.Vector3{X: float32(p.X), Y: float32(p.Y), Z: float32(p.Z)})
	if len(v.trail) > keep {
		v.trail = v.trail[len(v.trail)-keep:]
	}
}

// Unload frees GPU resources. The scene keeps running headless with no
// sink until a new one is set.
func (v *Viewer) Unload() {
	v.scene.SetSink(game.NewMemorySink())
	v.meshes.Unload()
}

// MeshWrites counts vertex uploads since the viewer was created.
func (v *Viewer) MeshWrites() int { return v.meshes.Writes() }
