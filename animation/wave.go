// Package animation drives the time-varying inputs of the deformation
// kernel: the tidal wave offset shared by the field and the per-tendroid
// bubble lifecycle.
package animation

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"

	"github.com/ojrac/opensimplex-go"
	"gonum.org/v1/gonum/spatial/r3"
)

// TidePhase is one segment of the tidal cycle.
type TidePhase uint8

const (
	TideShoreSurge TidePhase = iota
	TideRest
	TideEbb
)

func (p TidePhase) String() string {
	switch p {
	case TideShoreSurge:
		return "shore_surge"
	case TideRest:
		return "rest"
	case TideEbb:
		return "ebb"
	}
	return fmt.Sprintf("tide(%d)", p)
}

// WaveConfig tunes the tidal current.
type WaveConfig struct {
	Amplitude float64 // tip displacement at full force
	Frequency float64 // cycles per second, used for bubble throw
	Direction r3.Vec  // normalised on use; Y is ignored by Offset

	BaseResponse float64
	TipResponse  float64

	ShoreForceMin    float64
	ShoreForceMax    float64
	ShoreDurationMin float64
	ShoreDurationMax float64
	RestDurationMin  float64
	RestDurationMax  float64
	EbbRatioMin      float64 // ebb force as a fraction of shore force
	EbbRatioMax      float64

	Turbulence      float64 // noise amplitude relative to the tidal displacement, 0 disables
	TurbulenceScale float64 // spatial frequency of the noise field
	TurbulenceSpeed float64 // how fast the noise field scrolls
}

// DefaultWaveConfig returns the standard tide.
func DefaultWaveConfig() WaveConfig {
	return WaveConfig{
		Amplitude:        0.08,
		Frequency:        0.15,
		Direction:        r3.Vec{X: 1, Z: 0.3},
		BaseResponse:     0,
		TipResponse:      1,
		ShoreForceMin:    0.8,
		ShoreForceMax:    1.2,
		ShoreDurationMin: 1.0,
		ShoreDurationMax: 2.0,
		RestDurationMin:  0.5,
		RestDurationMax:  1.5,
		EbbRatioMin:      0.4,
		EbbRatioMax:      0.6,
		Turbulence:       0.1,
		TurbulenceScale:  0.7,
		TurbulenceSpeed:  0.3,
	}
}

// Cycle holds the randomised parameters of one tidal cycle. Ebb energy
// equals shore energy: EbbForce*EbbDuration == ShoreForce*ShoreDuration.
type Cycle struct {
	ShoreForce    float64
	ShoreDuration float64
	RestDuration  float64
	EbbForce      float64
	EbbDuration   float64
}

// Wave is the global tidal controller. Displacement runs negative during
// the shore surge and positive during the ebb.
type Wave struct {
	Enabled bool

	cfg   WaveConfig
	dir   r3.Vec
	rng   *rand.Rand
	noise opensimplex.Noise

	phase        TidePhase
	phaseTime    float64
	time         float64
	displacement float64
	restStart    float64
	cycle        Cycle
	cycles       int
}

// NewWave creates a wave controller. The same seed gives the same tide.
func NewWave(cfg WaveConfig, seed int64) *Wave {
	dir := cfg.Direction
	if n := r3.Norm(dir); n > 0 {
		dir = r3.Scale(1/n, dir)
	} else {
		dir = r3.Vec{X: 1}
	}
	w := &Wave{
		Enabled: true,
		cfg:     cfg,
		dir:     dir,
		rng:     rand.New(rand.NewSource(seed)),
		noise:   opensimplex.New(seed),
	}
	w.randomizeCycle()
	return w
}

func (w *Wave) uniform(lo, hi float64) float64 {
	return lo + w.rng.Float64()*(hi-lo)
}

func (w *Wave) randomizeCycle() {
	c := Cycle{
		ShoreForce:    w.uniform(w.cfg.ShoreForceMin, w.cfg.ShoreForceMax),
		ShoreDuration: w.uniform(w.cfg.ShoreDurationMin, w.cfg.ShoreDurationMax),
		RestDuration:  w.uniform(w.cfg.RestDurationMin, w.cfg.RestDurationMax),
	}
	c.EbbForce = c.ShoreForce * w.uniform(w.cfg.EbbRatioMin, w.cfg.EbbRatioMax)
	if c.EbbForce > 0 {
		c.EbbDuration = c.ShoreForce * c.ShoreDuration / c.EbbForce
	} else {
		c.EbbDuration = 3
	}
	w.cycle = c
	w.cycles++

	slog.Debug("tide cycle",
		"shore_force", c.ShoreForce,
		"shore_duration", c.ShoreDuration,
		"ebb_force", c.EbbForce,
		"ebb_duration", c.EbbDuration,
	)
}

// Update advances the tide by dt seconds.
func (w *Wave) Update(dt float64) {
	if !w.Enabled {
		return
	}
	w.time += dt
	w.phaseTime += dt

	switch w.phase {
	case TideShoreSurge:
		if w.phaseTime >= w.cycle.ShoreDuration {
			w.enter(TideRest)
			w.restStart = w.displacement
			return
		}
		t := w.phaseTime / w.cycle.ShoreDuration
		w.displacement = -math.Sin(t*math.Pi) * w.cycle.ShoreForce

	case TideRest:
		if w.phaseTime >= w.cycle.RestDuration {
			w.enter(TideEbb)
			return
		}
		t := w.phaseTime / w.cycle.RestDuration
		easeOut := 1 - (1-t)*(1-t)
		w.displacement = w.restStart * (1 - easeOut)

	case TideEbb:
		if w.phaseTime >= w.cycle.EbbDuration {
			w.enter(TideShoreSurge)
			w.randomizeCycle()
			return
		}
		t := w.phaseTime / w.cycle.EbbDuration
		w.displacement = math.Sin(t*math.Pi) * w.cycle.EbbForce
	}
}

func (w *Wave) enter(p TidePhase) {
	w.phase = p
	w.phaseTime = 0
	if p != TideRest {
		w.displacement = 0
	}
}

// Offset returns the tip displacement for a tendroid rooted at (x, z).
// The kernel scales it by the vertex height factor.
func (w *Wave) Offset(x, z float64) (dx, dz float64) {
	if !w.Enabled {
		return 0, 0
	}
	spatial := 1 + math.Sin(x*0.003+z*0.002)*0.15
	v := w.displacement * spatial
	if w.cfg.Turbulence > 0 {
		s := w.cfg.TurbulenceScale
		v += w.cfg.Turbulence * w.noise.Eval3(x*s, z*s, w.time*w.cfg.TurbulenceSpeed)
	}
	v *= w.cfg.Amplitude
	return v * w.dir.X, v * w.dir.Z
}

// SegmentFactor maps a height ratio in [0, 1] to the wave response
// between the base and tip responses.
func (w *Wave) SegmentFactor(h float64) float64 {
	h = math.Max(0, math.Min(1, h))
	f := h * h * (3 - 2*h)
	return w.cfg.BaseResponse + f*(w.cfg.TipResponse-w.cfg.BaseResponse)
}

// Reset restarts at the beginning of a shore surge with a new cycle.
func (w *Wave) Reset() {
	w.phase = TideShoreSurge
	w.phaseTime = 0
	w.displacement = 0
	w.restStart = 0
	w.randomizeCycle()
}

// Phase returns the current tidal phase.
func (w *Wave) Phase() TidePhase { return w.phase }

// Displacement is the raw tidal value, about -1.2 to 1.2.
func (w *Wave) Displacement() float64 { return w.displacement }

// Cycle returns the parameters of the current cycle.
func (w *Wave) Cycle() Cycle { return w.cycle }

// Cycles counts cycles started, including the first.
func (w *Wave) Cycles() int { return w.cycles }

// Direction is the normalised current direction.
func (w *Wave) Direction() r3.Vec { return w.dir }

// Config returns the wave tuning.
func (w *Wave) Config() WaveConfig { return w.cfg }

// SetAmplitude changes the tip displacement scale at runtime.
func (w *Wave) SetAmplitude(a float64) { w.cfg.Amplitude = a }

// WaveState is a snapshot for overlays and logs.
type WaveState struct {
	Phase        TidePhase
	PhaseTime    float64
	Displacement float64
	Cycle        Cycle
}

// State returns a snapshot.
func (w *Wave) State() WaveState {
	return WaveState{Phase: w.phase, PhaseTime: w.phaseTime, Displacement: w.displacement, Cycle: w.cycle}
}

// LogValue implements slog.LogValuer.
func (s WaveState) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("phase", s.Phase.String()),
		slog.Float64("phase_time", s.PhaseTime),
		slog.Float64("displacement", s.Displacement),
	)
}
