package renderer

import (
	"math/rand"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/tendroids/animation"
)

// sprayParticle is one droplet of a popped bubble.
type sprayParticle struct {
	pos, vel rl.Vector3
	life     float32
	maxLife  float32
	size     float32
}

type queuedBubble struct {
	pos rl.Vector3
	r   float32
}

// BubbleRenderer draws visible bubbles and a short spray where one pops.
type BubbleRenderer struct {
	last   map[int]animation.BubblePhase
	queue  []queuedBubble
	spray  []sprayParticle
	rng    *rand.Rand
	color  rl.Color
	sprayN int
}

// NewBubbleRenderer creates a renderer.
func NewBubbleRenderer(seed int64) *BubbleRenderer {
	return &BubbleRenderer{
		last:   make(map[int]animation.BubblePhase),
		rng:    rand.New(rand.NewSource(seed)),
		color:  rl.Color{R: 200, G: 235, B: 255, A: 120},
		sprayN: 12,
	}
}

// Track queues bubble id of the tendroid rooted at (x, z) for drawing
// and starts a spray when it has just popped.
func (r *BubbleRenderer) Track(id int, x, z float32, b *animation.Bubble) {
	bx, by, bz := b.Position()
	pos := rl.Vector3{X: x + float32(bx), Y: float32(by), Z: z + float32(bz)}

	phase := b.Phase()
	if prev, ok := r.last[id]; ok && prev != animation.BubblePopped && phase == animation.BubblePopped {
		r.burst(pos, float32(b.Radius()))
	}
	r.last[id] = phase

	if b.Visible() {
		r.queue = append(r.queue, queuedBubble{pos: pos, r: float32(b.Radius())})
	}
}

func (r *BubbleRenderer) burst(at rl.Vector3, radius float32) {
	for i := 0; i < r.sprayN; i++ {
		v := rl.Vector3{
			X: (r.rng.Float32()*2 - 1) * 0.3,
			Y: r.rng.Float32() * 0.4,
			Z: (r.rng.Float32()*2 - 1) * 0.3,
		}
		life := 0.4 + r.rng.Float32()*0.4
		r.spray = append(r.spray, sprayParticle{
			pos: at, vel: v, life: life, maxLife: life,
			size: radius * (0.15 + r.rng.Float32()*0.15),
		})
	}
}

// Draw renders queued bubbles and advances the spray by dt. Call between
// BeginMode3D and EndMode3D once per frame after every Track.
func (r *BubbleRenderer) Draw(dt float32) {
	for _, q := range r.queue {
		rl.DrawSphereEx(q.pos, q.r, 10, 10, r.color)
		rl.DrawSphereWires(q.pos, q.r, 6, 6, rl.Color{R: 230, G: 250, B: 255, A: 60})
	}
	r.queue = r.queue[:0]

	live := r.spray[:0]
	for i := range r.spray {
		p := &r.spray[i]
		p.life -= dt
		if p.life <= 0 {
			continue
		}
		p.vel.Y -= 0.3 * dt
		p.pos = rl.Vector3Add(p.pos, rl.Vector3Scale(p.vel, dt))

		ratio := p.life / p.maxLife
		c := r.color
		c.A = uint8(ratio * 180)
		size := p.size * ratio
		if size < 0.003 {
			size = 0.003
		}
		rl.DrawSphereEx(p.pos, size, 4, 4, c)
		live = append(live, *p)
	}
	r.spray = live
}

// Reset drops queued bubbles, spray and pop tracking.
func (r *BubbleRenderer) Reset() {
	r.queue = r.queue[:0]
	r.spray = r.spray[:0]
	clear(r.last)
}
