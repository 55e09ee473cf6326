package renderer

import (
	"math"
	"math/rand"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/tendroids/animation"
)

const trailLen = 6

// streak is a drifting mote that shows the tidal current.
type streak struct {
	pos      rl.Vector3
	trail    [trailLen]rl.Vector3
	n        uint8
	life     float32
	maxLife  float32
	opacity  float32
}

// FlowRenderer draws motes carried by the tide, with short trails.
type FlowRenderer struct {
	extent  float32
	streaks []streak
	rng     *rand.Rand
	time    float32
}

// NewFlowRenderer scatters count motes over a field of the given
// half-extent.
func NewFlowRenderer(extent float32, count int, seed int64) *FlowRenderer {
	r := &FlowRenderer{
		extent:  extent + 0.5,
		streaks: make([]streak, count),
		rng:     rand.New(rand.NewSource(seed)),
	}
	for i := range r.streaks {
		r.respawn(&r.streaks[i])
		// stagger ages so motes do not fade in together
		r.streaks[i].life = r.rng.Float32() * r.streaks[i].maxLife
	}
	return r
}

func (r *FlowRenderer) respawn(s *streak) {
	e := r.extent
	s.pos = rl.Vector3{
		X: (r.rng.Float32()*2 - 1) * e,
		Y: 0.1 + r.rng.Float32()*1.6,
		Z: (r.rng.Float32()*2 - 1) * e,
	}
	s.n = 0
	s.maxLife = 3 + r.rng.Float32()*3
	s.life = s.maxLife
	s.opacity = 0.4 + r.rng.Float32()*0.6
}

// Update moves every mote with the current wave displacement.
func (r *FlowRenderer) Update(w *animation.Wave, dt float32) {
	r.time += dt
	dir := w.Direction()
	speed := float32(w.Displacement()) * 0.35
	if !w.Enabled {
		speed = 0
	}
	v := rl.Vector3{X: float32(dir.X) * speed, Z: float32(dir.Z) * speed}

	for i := range r.streaks {
		s := &r.streaks[i]
		s.life -= dt
		if s.life <= 0 || math.Abs(float64(s.pos.X)) > float64(r.extent) || math.Abs(float64(s.pos.Z)) > float64(r.extent) {
			r.respawn(s)
			continue
		}
		copy(s.trail[1:], s.trail[:trailLen-1])
		s.trail[0] = s.pos
		if s.n < trailLen {
			s.n++
		}
		s.pos = rl.Vector3Add(s.pos, rl.Vector3Scale(v, dt))
	}
}

// Draw renders the motes. Call between BeginMode3D and EndMode3D.
func (r *FlowRenderer) Draw() {
	rl.BeginBlendMode(rl.BlendAdditive)
	for i := range r.streaks {
		s := &r.streaks[i]
		if s.n < 1 {
			continue
		}
		age := 1 - s.life/s.maxLife

		// quadratic fade in over the first 20% of life, gentle fade out
		fadeIn := min(age*5, 1)
		fadeIn *= fadeIn
		fadeOut := min((1-age)*3+0.7, 1)
		pulse := float32(math.Sin(float64(r.time*2+s.pos.X+s.pos.Z)))*0.5 + 0.5
		alpha := s.opacity * fadeIn * fadeOut * (0.3 + pulse*0.7) * 120
		if alpha < 2 {
			continue
		}

		prev := s.pos
		for j := uint8(0); j < s.n; j++ {
			fade := 1 - float32(j)/float32(s.n)
			c := rl.Color{R: 50, G: 100, B: 130, A: uint8(alpha * fade * fade)}
			rl.DrawLine3D(prev, s.trail[j], c)
			prev = s.trail[j]
		}
	}
	rl.EndBlendMode()
}
