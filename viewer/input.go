package viewer

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/tendroids/deflection"
	"github.com/pthm-cable/tendroids/ui"
)

// handleInput processes keyboard and mouse input.
func (v *Viewer) handleInput() {
	v.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		v.state.Paused = !v.state.Paused
	}
	if rl.IsKeyPressed(rl.KeyR) {
		v.state.ResetScene = true
	}
	if rl.IsKeyPressed(rl.KeyTab) {
		v.state.Autopilot = !v.state.Autopilot
	}
	if rl.IsKeyPressed(rl.KeyP) {
		v.showPerf = !v.showPerf
	}
	if rl.IsKeyPressed(rl.KeyH) {
		v.controls.Toggle()
	}

	// speed control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) {
		v.state.Speed = max(v.state.Speed/2, 0.25)
	}
	if rl.IsKeyPressed(rl.KeyPeriod) {
		v.state.Speed = min(v.state.Speed*2, 4)
	}

	v.overlays.HandleKeys()
	v.handleSteering()
	v.handleCameraInput()
	v.handleMouse()
}

// handleSteering maps WASD onto the creature's input. The scene ignores
// it while the autopilot flies or a recovery holds the lock.
func (v *Viewer) handleSteering() {
	var x, z float64
	if rl.IsKeyDown(rl.KeyW) {
		z--
	}
	if rl.IsKeyDown(rl.KeyS) {
		z++
	}
	if rl.IsKeyDown(rl.KeyA) {
		x--
	}
	if rl.IsKeyDown(rl.KeyD) {
		x++
	}
	if x != 0 || z != 0 {
		v.state.Autopilot = false
	}
	v.scene.SetInput(x, z)
}

// handleResize propagates new window dimensions.
func (v *Viewer) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w, h := int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight())
	if w == v.screenW && h == v.screenH {
		return
	}
	v.screenW, v.screenH = w, h
	v.cam.Resize(float32(w), float32(h))
	v.water.Resize(w, h)
	v.inspector.Resize(w, h)
	v.perfPanel.SetPosition(w-330, 10)
	v.events.SetPosition(w-330, 190)
}

// handleCameraInput processes orbit, pan and zoom controls.
func (v *Viewer) handleCameraInput() {
	panSpeed := v.cam.Distance * 0.02

	if rl.IsKeyDown(rl.KeyRight) {
		v.cam.Pan(panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		v.cam.Pan(-panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		v.cam.Pan(0, panSpeed)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		v.cam.Pan(0, -panSpeed)
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		v.cam.ZoomBy(1 - wheel*0.1)
	}
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		v.cam.ZoomBy(0.8)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		v.cam.ZoomBy(1.25)
	}

	if rl.IsMouseButtonDown(rl.MouseButtonRight) {
		d := rl.GetMouseDelta()
		v.cam.Rotate(d.X, d.Y)
	}
	if rl.IsKeyPressed(rl.KeyHome) {
		v.cam.Reset()
	}
}

// handleMouse updates hover and selection. Clicks on panels never reach
// the scene.
func (v *Viewer) handleMouse() {
	m := rl.GetMousePosition()
	if v.controls.Contains(int32(m.X), int32(m.Y), v.overlays) {
		v.hovered = -1
		return
	}
	v.hovered = v.pick(m.X, m.Y)

	if !rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		return
	}
	if v.inspector.HandleClick(m.X, m.Y) {
		return
	}
	if v.hovered >= 0 {
		v.inspector.Select(v.hovered)
	} else {
		v.inspector.Deselect()
	}
}

// applyControls copies the control state into the scene.
func (v *Viewer) applyControls() {
	s := &v.state
	wave := v.scene.Wave()
	wave.Enabled = s.WaveEnabled
	wave.SetAmplitude(float64(s.WaveAmplitude))
	v.scene.Deflection().SetEnabled(s.Deflection)
	v.scene.SetAutopilot(s.Autopilot)

	if s.ApplyPreset {
		s.ApplyPreset = false
		name := ui.DeflectionPresets[s.Preset]
		cfg, err := deflection.Preset(name)
		if err == nil {
			err = v.scene.Deflection().SetConfig(cfg)
		}
		if err != nil {
			slog.Warn("deflection preset rejected", "preset", name, "error", err)
		} else {
			slog.Info("deflection preset applied", "preset", name)
		}
	}
	if s.ResetScene {
		s.ResetScene = false
		v.scene.Reset()
		v.bubbles.Reset()
		v.trail = v.trail[:0]
		v.accum = 0
	}
}
