package animation

import (
	"fmt"
	"math"
	"math/rand"
)

// BubblePhase is a step of the bubble lifecycle.
type BubblePhase uint8

const (
	BubbleIdle BubblePhase = iota
	BubbleRising
	BubbleExiting
	BubbleReleased
	BubblePopped
)

var bubblePhaseNames = [...]string{"idle", "rising", "exiting", "released", "popped"}

func (p BubblePhase) String() string {
	if int(p) < len(bubblePhaseNames) {
		return bubblePhaseNames[p]
	}
	return fmt.Sprintf("bubble(%d)", p)
}

const (
	releaseEase   = 0.2  // seconds to blend rise speed after release
	driftStrength = 0.15 // share of the wave offset fed into released drift
	driftDamping  = 0.92
	calmDamping   = 0.95
)

// BubbleConfig tunes the bubble lifecycle. Heights are fractions of
// tendroid length; pop heights are absolute distances above the tip.
type BubbleConfig struct {
	SpawnHeightPct     float64
	MaxDiameterPct     float64
	DiameterMultiplier float64 // bulge radius relative to bubble radius
	RiseSpeed          float64
	ReleasedRiseSpeed  float64
	MinPopHeight       float64
	MaxPopHeight       float64
	RespawnDelay       float64
	AutoRespawn        bool
}

// DefaultBubbleConfig returns the standard lifecycle.
func DefaultBubbleConfig() BubbleConfig {
	return BubbleConfig{
		SpawnHeightPct:     0.10,
		MaxDiameterPct:     0.60,
		DiameterMultiplier: 1.15,
		RiseSpeed:          0.4,
		ReleasedRiseSpeed:  0.4,
		MinPopHeight:       0.75,
		MaxPopHeight:       1.25,
		RespawnDelay:       1.0,
		AutoRespawn:        true,
	}
}

// Bubble is one tendroid's rising bubble. Positions are relative to the
// tendroid base.
type Bubble struct {
	cfg BubbleConfig
	rng *rand.Rand

	radius    float64
	length    float64
	maxRadius float64
	spawnY    float64
	maxDiamY  float64

	phase   BubblePhase
	y       float64
	r       float64
	x, z    float64
	vx, vy  float64
	vz      float64
	release float64
	respawn float64
	popAt   float64

	Spawns int
	Pops   int
}

// NewBubble creates a bubble for a tendroid of the given radius and
// length and spawns it immediately. maxAmplitude is the kernel's bulge
// amplitude; a full grown bubble has radius·(1+maxAmplitude).
func NewBubble(radius, length, maxAmplitude float64, cfg BubbleConfig, rng *rand.Rand) *Bubble {
	b := &Bubble{
		cfg:       cfg,
		rng:       rng,
		radius:    radius,
		length:    length,
		maxRadius: radius * (1 + maxAmplitude),
		spawnY:    length * cfg.SpawnHeightPct,
		maxDiamY:  length * cfg.MaxDiameterPct,
	}
	b.spawn()
	return b
}

func (b *Bubble) spawn() {
	b.phase = BubbleRising
	b.y = b.spawnY
	b.r = b.radius * 0.5
	b.x, b.z = 0, 0
	b.vx, b.vy, b.vz = 0, 0, 0
	b.release = 0
	span := b.cfg.MaxPopHeight - b.cfg.MinPopHeight
	b.popAt = b.length + b.cfg.MinPopHeight + b.rng.Float64()*span
	b.Spawns++
}

// Update advances the lifecycle by dt. waveDX and waveDZ are the tip wave
// offset at the tendroid, used to keep the bubble on the swaying
// centreline and to drift it once released. Returns the phase after the
// update.
func (b *Bubble) Update(dt, waveDX, waveDZ float64) BubblePhase {
	switch b.phase {
	case BubbleIdle:
		b.respawn -= dt
		if b.respawn <= 0 && b.cfg.AutoRespawn {
			b.spawn()
		}

	case BubbleRising:
		b.y += b.cfg.RiseSpeed * dt
		b.grow()
		b.follow(waveDX, waveDZ)
		if b.y >= b.length {
			b.phase = BubbleExiting
			b.vy = b.cfg.RiseSpeed
		}

	case BubbleExiting:
		b.y += b.cfg.RiseSpeed * dt
		b.follow(waveDX, waveDZ)
		if b.y-b.r >= b.length {
			b.phase = BubbleReleased
			b.release = 0
		}

	case BubbleReleased:
		b.release += dt
		if b.release < releaseEase {
			t := b.release / releaseEase
			ease := 1 - (1-t)*(1-t)
			b.vy = b.cfg.RiseSpeed + (b.cfg.ReleasedRiseSpeed-b.cfg.RiseSpeed)*ease
		} else {
			b.vy = b.cfg.ReleasedRiseSpeed
		}
		if waveDX != 0 || waveDZ != 0 {
			b.vx = b.vx*driftDamping + waveDX*driftStrength
			b.vz = b.vz*driftDamping + waveDZ*driftStrength
		} else {
			b.vx *= calmDamping
			b.vz *= calmDamping
		}
		b.x += b.vx * dt
		b.y += b.vy * dt
		b.z += b.vz * dt
		if b.y >= b.popAt {
			b.phase = BubblePopped
			b.Pops++
		}

	case BubblePopped:
		b.phase = BubbleIdle
		b.respawn = b.cfg.RespawnDelay
	}
	return b.phase
}

// grow eases the radius from half the tube radius at the spawn height up
// to the maximum at the max diameter height.
func (b *Bubble) grow() {
	lo := b.radius * 0.5
	switch {
	case b.y <= b.spawnY:
		b.r = lo
	case b.y >= b.maxDiamY || b.maxDiamY <= b.spawnY:
		b.r = b.maxRadius
	default:
		t := (b.y - b.spawnY) / (b.maxDiamY - b.spawnY)
		t = 1 - (1-t)*(1-t)
		b.r = lo + t*(b.maxRadius-lo)
	}
}

// follow places the bubble on the wave-displaced centreline.
func (b *Bubble) follow(waveDX, waveDZ float64) {
	h := 0.0
	if b.length > 0 {
		h = math.Min(1, b.y/b.length)
	}
	f := h * h * (3 - 2*h)
	b.x, b.z = waveDX*f, waveDZ*f
}

// DeformState returns the bubble y and bulge radius for the kernel. Only
// a bubble inside or leaving the mouth deforms the tube; otherwise the
// radius equals the tube radius, which the kernel treats as no bubble.
func (b *Bubble) DeformState() (y, radius float64) {
	switch b.phase {
	case BubbleRising, BubbleExiting:
		return b.y, b.r * b.cfg.DiameterMultiplier
	}
	return b.y, b.radius
}

// Phase returns the lifecycle phase.
func (b *Bubble) Phase() BubblePhase { return b.phase }

// Y is the bubble centre height above the base.
func (b *Bubble) Y() float64 { return b.y }

// Radius is the visual bubble radius.
func (b *Bubble) Radius() float64 { return b.r }

// Position is the bubble centre relative to the tendroid base.
func (b *Bubble) Position() (x, y, z float64) { return b.x, b.y, b.z }

// Visible reports whether there is a bubble to draw.
func (b *Bubble) Visible() bool {
	return b.phase != BubbleIdle && b.phase != BubblePopped
}

// Reset respawns the bubble at the spawn height.
func (b *Bubble) Reset() {
	b.spawn()
}
