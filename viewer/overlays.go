package viewer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/tendroids/game"
	"github.com/pthm-cable/tendroids/proximity"
	"github.com/pthm-cable/tendroids/ui"
)

// drawWorldOverlays draws the enabled 3D overlays. Call inside
// BeginMode3D.
func (v *Viewer) drawWorldOverlays() {
	if v.overlays.IsEnabled(ui.OverlayGrid) {
		v.drawGrid()
	}
	if v.overlays.IsEnabled(ui.OverlayZones) {
		v.drawZoneRings()
	}
	if v.overlays.IsEnabled(ui.OverlayBends) {
		v.drawBends()
	}
	if v.overlays.IsEnabled(ui.OverlayContacts) {
		v.drawRecoveries()
	}
	if v.overlays.IsEnabled(ui.OverlayPath) {
		v.drawTrail()
	}
}

// drawScreenOverlays draws the enabled 2D overlays.
func (v *Viewer) drawScreenOverlays() {
	if v.overlays.IsEnabled(ui.OverlayLabels) {
		v.drawLabels()
	}
}

// drawGrid draws the root placement grid on the floor.
func (v *Viewer) drawGrid() {
	extent := float32(v.scene.Config().Derived.FieldExtent)
	spacing := float32(v.scene.Config().Field.Spacing)
	if extent <= 0 || spacing <= 0 {
		return
	}
	c := rl.Color{R: 80, G: 110, B: 130, A: 120}
	for x := -extent; x <= extent+1e-4; x += spacing {
		rl.DrawLine3D(rl.Vector3{X: x, Y: 0.003, Z: -extent}, rl.Vector3{X: x, Y: 0.003, Z: extent}, c)
	}
	for z := -extent; z <= extent+1e-4; z += spacing {
		rl.DrawLine3D(rl.Vector3{X: -extent, Y: 0.003, Z: z}, rl.Vector3{X: extent, Y: 0.003, Z: z}, c)
	}
}

// drawZoneRings draws the threshold rings of every tendroid the creature
// is inside the detection range of, at creature height.
func (v *Viewer) drawZoneRings() {
	params := v.scene.Proximity().Params()
	h := float32(v.scene.Creature().Position.Y)
	rings := []struct {
		d    float64
		zone proximity.Zone
	}{
		{params.Minimum, proximity.ZoneRecovering},
		{params.Warning, proximity.ZoneApproaching},
		{params.Detection, proximity.ZoneDetected},
	}
	for _, t := range v.scene.Tendroids() {
		tr, ok := v.scene.Proximity().Get(game.CreatureID, t.ID)
		if !ok || tr.State == proximity.StateIdle {
			continue
		}
		center := rl.Vector3{X: float32(t.Root.X), Y: h, Z: float32(t.Root.Z)}
		for _, r := range rings {
			rl.DrawCircle3D(center, float32(t.Radius+r.d), rl.Vector3{X: 1}, 90, v.palette.Zone(r.zone, 110))
		}
	}
}

// drawBends draws each deflecting tendroid's bend axis at its root and
// the deflected tip direction.
func (v *Viewer) drawBends() {
	m := v.scene.Deflection()
	for _, t := range v.scene.Tendroids() {
		c := m.Controller(t.ID)
		if c == nil || c.Angle() == 0 {
			continue
		}
		root := rl.Vector3{X: float32(t.Root.X), Y: 0.01, Z: float32(t.Root.Z)}
		axis := c.Axis()
		a := rl.Vector3{X: float32(axis.X) * 0.15, Z: float32(axis.Z) * 0.15}
		rl.DrawLine3D(rl.Vector3Subtract(root, a), rl.Vector3Add(root, a), rl.Yellow)

		// tip of an unbent stick rotated by angle about the axis
		angle := c.Angle()
		lean := rl.Vector3{X: float32(-axis.Z), Z: float32(axis.X)}
		tip := rl.Vector3Add(root, rl.Vector3{
			X: lean.X * float32(math.Sin(angle)*t.Length),
			Y: float32(math.Cos(angle) * t.Length),
			Z: lean.Z * float32(math.Sin(angle)*t.Length),
		})
		col := rl.Orange
		if c.Latched() {
			col = rl.Red
		}
		rl.DrawLine3D(root, tip, col)
	}
}

// drawRecoveries marks the relaxed surface point of every active
// recovery and links it to the creature.
func (v *Viewer) drawRecoveries() {
	p := v.scene.Creature().Position
	creature := rl.Vector3{X: float32(p.X), Y: float32(p.Y), Z: float32(p.Z)}
	for _, k := range v.scene.Recoveries().Active() {
		o, ok := v.scene.Recoveries().Lookup(k.Creature, k.Tendroid)
		if !ok {
			continue
		}
		s := o.RelaxedSurface()
		surface := rl.Vector3{X: float32(s.X), Y: float32(s.Y), Z: float32(s.Z)}
		rl.DrawSphere(surface, 0.01, rl.Red)
		rl.DrawLine3D(surface, creature, rl.Color{R: 255, G: 90, B: 60, A: 200})
	}
}

// drawTrail draws the creature's recent path.
func (v *Viewer) drawTrail() {
	for i := 1; i < len(v.trail); i++ {
		a := uint8(40 + 200*i/len(v.trail))
		rl.DrawLine3D(v.trail[i-1], v.trail[i], rl.Color{R: 120, G: 220, B: 255, A: a})
	}
}

// drawLabels names every tendroid above its tip.
func (v *Viewer) drawLabels() {
	for _, t := range v.scene.Tendroids() {
		sx, sy, ok := v.cam.WorldToScreen(float32(t.Root.X), float32(t.Length)+0.05, float32(t.Root.Z))
		if !ok {
			continue
		}
		text := t.Name
		if st := v.scene.Proximity().State(game.CreatureID, t.ID); st != proximity.StateIdle {
			text += " " + st.String()
		}
		w := rl.MeasureText(text, 10)
		rl.DrawText(text, int32(sx)-w/2, int32(sy), 10, rl.RayWhite)
	}
}
