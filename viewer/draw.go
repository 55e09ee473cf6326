package viewer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/tendroids/game"
	"github.com/pthm-cable/tendroids/proximity"
	"github.com/pthm-cable/tendroids/ui"
)

const legend = "WASD steer | Tab autopilot | Space pause | R reset | </> speed | RMB orbit | H controls | P perf"

// rlCamera converts the orbit camera for BeginMode3D.
func (v *Viewer) rlCamera() rl.Camera3D {
	x, y, z := v.cam.Position()
	return rl.Camera3D{
		Position:   rl.Vector3{X: x, Y: y, Z: z},
		Target:     rl.Vector3{X: v.cam.TargetX, Y: v.cam.TargetY, Z: v.cam.TargetZ},
		Up:         rl.Vector3{Y: 1},
		Fovy:       v.cam.FovY * rl.Rad2deg,
		Projection: rl.CameraPerspective,
	}
}

// Draw renders one frame.
func (v *Viewer) Draw() {
	v.scene.Perf().RecordFrame()

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)
	v.water.Draw(v.scene.Wave().Displacement())

	rl.BeginMode3D(v.rlCamera())
	v.floor.Draw()
	v.drawTendroids()
	v.drawCreature()
	v.drawBubbles()
	if v.overlays.IsEnabled(ui.OverlayFlow) {
		v.flow.Draw()
	}
	v.drawWorldOverlays()
	rl.EndMode3D()

	v.drawScreenOverlays()
	v.drawUI()
	rl.EndDrawing()
}

// drawTendroids tints each tube by the creature's zone around it.
func (v *Viewer) drawTendroids() {
	detection := v.scene.Proximity().Params().Detection
	zones := v.overlays.IsEnabled(ui.OverlayZones)
	selected, hasSelected := v.inspector.Selected()

	for _, t := range v.scene.Tendroids() {
		c := v.palette.Tendroid(proximity.ZoneIdle, 0)
		if tr, ok := v.scene.Proximity().Get(game.CreatureID, t.ID); ok && zones {
			zone := v.scene.Proximity().Params().Zone(tr.Distance)
			c = v.palette.Tendroid(zone, 1-tr.Distance/detection)
		}
		if t.ID == v.hovered || (hasSelected && t.ID == selected) {
			c = rl.ColorBrightness(c, 0.3)
		}
		v.meshes.Draw(t.ID, c)
	}
}

func (v *Viewer) drawCreature() {
	c := v.scene.Creature()
	pos := rl.Vector3{X: float32(c.Position.X), Y: float32(c.Position.Y), Z: float32(c.Position.Z)}
	rl.DrawSphereEx(pos, float32(c.Radius), 16, 16, tintColor(c.Tint))
	if c.Locked {
		rl.DrawSphereWires(pos, float32(c.Radius)*1.3, 8, 8, rl.Color{R: 255, G: 120, B: 80, A: 120})
	}
	// shadow
	rl.DrawCircle3D(rl.Vector3{X: pos.X, Y: 0.002, Z: pos.Z}, float32(c.Radius), rl.Vector3{X: 1}, 90, rl.Color{A: 90})
}

func (v *Viewer) drawBubbles() {
	for _, t := range v.scene.Tendroids() {
		if b := v.scene.Bubble(t.ID); b != nil {
			v.bubbles.Track(t.ID, float32(t.Root.X), float32(t.Root.Z), b)
		}
	}
	v.bubbles.Draw(rl.GetFrameTime())
}

// drawUI draws every 2D panel.
func (v *Viewer) drawUI() {
	s := v.scene
	contacts, recoveries := s.Recoveries().Totals()
	c := s.Creature()
	v.hud.Draw(ui.HUDData{
		Title:      "Tendroids",
		Tick:       s.Tick(),
		Time:       s.Time(),
		FPS:        rl.GetFPS(),
		Tendroids:  len(s.Tendroids()),
		Speed:      v.state.Speed,
		Paused:     v.state.Paused,
		Autopilot:  s.Autopilot(),
		Locked:     c.Locked,
		Contacts:   contacts,
		Recoveries: recoveries,
		Active:     len(s.Recoveries().Active()),
		Tide:       s.Wave().Phase().String(),
	})
	v.hud.DrawControls(v.screenH, legend)

	v.controls.Draw(&v.state, v.overlays)
	if v.showPerf {
		v.perfPanel.Draw(s.Perf().Stats())
		v.events.Draw(s.RecentEvents())
	}

	if v.hovered >= 0 {
		v.readout.Draw(v.screenW, v.screenH, v.panels.tendroid, v.tendroidData(v.hovered))
	} else {
		v.readout.Draw(v.screenW, v.screenH, v.panels.creature, v.creatureData())
	}

	if id, ok := v.inspector.Selected(); ok && id < len(s.Tendroids()) {
		title, sections := v.inspectorSections(id)
		v.inspector.Draw(title, sections)
	}
}
