package viewer

import (
	"github.com/chewxy/math32"

	"github.com/pthm-cable/tendroids/camera"
)

// pickSlack widens thin tubes so they stay clickable from afar.
const pickSlack = 0.02

// pick returns the nearest tendroid under screen point (sx, sy), or -1.
// Hits are tested against the rest shape; bends are small enough that
// the upright tube is a good proxy.
func (v *Viewer) pick(sx, sy float32) int {
	o, d := v.cam.ScreenRay(sx, sy)
	best, bestT := -1, math32.Inf(1)
	for _, t := range v.scene.Tendroids() {
		hit, ok := camera.RayCylinder(o, d,
			float32(t.Root.X), float32(t.Root.Z),
			float32(t.Radius)+pickSlack, float32(t.Length))
		if ok && hit < bestT {
			best, bestT = t.ID, hit
		}
	}
	return best
}
