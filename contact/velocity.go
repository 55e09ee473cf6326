package contact

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

// ErrInvalidMass is returned when converting a force with mass <= 0.
var ErrInvalidMass = errors.New("contact: mass must be positive")

// VelocityMode selects how repulsion velocity decays.
type VelocityMode uint8

const (
	VelocityHybrid VelocityMode = iota
	VelocityTime
	VelocityDistance
)

func (m VelocityMode) String() string {
	switch m {
	case VelocityTime:
		return "time"
	case VelocityDistance:
		return "distance"
	default:
		return "hybrid"
	}
}

// ParseVelocityMode accepts "time", "distance" or "hybrid".
func ParseVelocityMode(s string) (VelocityMode, error) {
	switch strings.ToLower(s) {
	case "", "hybrid":
		return VelocityHybrid, nil
	case "time":
		return VelocityTime, nil
	case "distance":
		return VelocityDistance, nil
	}
	return VelocityHybrid, fmt.Errorf("contact: unknown velocity fade mode %q", s)
}

// VelocityConfig controls the fade of a repulsion impulse.
type VelocityConfig struct {
	Mode      VelocityMode
	Duration  float64 // seconds
	Distance  float64 // world units travelled
	DecayRate float64
	Epsilon   float64 // speeds below this count as stopped
	Drag      float64 // extra linear drag per second, 0 disables
}

// DefaultVelocityConfig returns a hybrid fade over 1 s or 0.2 units.
func DefaultVelocityConfig() VelocityConfig {
	return VelocityConfig{
		Mode:      VelocityHybrid,
		Duration:  1.0,
		Distance:  0.2,
		DecayRate: 3.0,
		Epsilon:   0.001,
	}
}

// Validate checks the fade parameters.
func (c VelocityConfig) Validate() error {
	switch {
	case c.DecayRate <= 0:
		return fmt.Errorf("contact: decay_rate %g must be positive", c.DecayRate)
	case c.Epsilon <= 0:
		return fmt.Errorf("contact: velocity_epsilon %g must be positive", c.Epsilon)
	case c.Drag < 0:
		return fmt.Errorf("contact: drag %g must be >= 0", c.Drag)
	case c.Mode != VelocityDistance && c.Duration <= 0:
		return fmt.Errorf("contact: fade duration %g must be positive", c.Duration)
	case c.Mode != VelocityTime && c.Distance <= 0:
		return fmt.Errorf("contact: fade distance %g must be positive", c.Distance)
	}
	return nil
}

func (c VelocityConfig) decay(elapsed, travelled float64) float64 {
	timeFactor := math.Exp(-c.DecayRate * elapsed / c.Duration)
	distFactor := math.Exp(-c.DecayRate * travelled / c.Distance)
	switch c.Mode {
	case VelocityTime:
		return timeFactor
	case VelocityDistance:
		return distFactor
	}
	return math.Min(timeFactor, distFactor)
}

// FromForce converts a force applied over dt into a velocity.
func FromForce(force r3.Vec, mass, dt float64) (r3.Vec, error) {
	if mass <= 0 {
		return r3.Vec{}, fmt.Errorf("%w: got %g", ErrInvalidMass, mass)
	}
	return r3.Scale(dt/mass, force), nil
}

// VelocityFade decays an initial impulse toward zero.
type VelocityFade struct {
	cfg VelocityConfig

	velocity  r3.Vec
	initial   r3.Vec
	elapsed   float64
	travelled float64
	active    bool
}

// NewVelocityFade returns a stopped fade.
func NewVelocityFade(cfg VelocityConfig) *VelocityFade {
	return &VelocityFade{cfg: cfg}
}

// Start begins a fade from v.
func (f *VelocityFade) Start(v r3.Vec) {
	f.velocity = v
	f.initial = v
	f.elapsed = 0
	f.travelled = 0
	f.active = r3.Norm(v) > 0
}

// Advance applies one frame of decay.
func (f *VelocityFade) Advance(dt float64) {
	if !f.active {
		return
	}
	f.travelled += r3.Norm(f.velocity) * dt
	f.elapsed += dt

	v := r3.Scale(f.cfg.decay(f.elapsed, f.travelled), f.initial)
	if f.cfg.Drag > 0 {
		v = r3.Scale(math.Max(0, 1-f.cfg.Drag*dt), v)
	}
	if r3.Norm(v) < f.cfg.Epsilon {
		v = r3.Vec{}
		f.active = false
	}
	f.velocity = v
}

// Displacement is the position change for a frame of length dt at the
// current velocity.
func (f *VelocityFade) Displacement(dt float64) r3.Vec {
	return r3.Scale(dt, f.velocity)
}

// Progress runs from 0 at the initial speed to 1 when stopped.
func (f *VelocityFade) Progress() float64 {
	if !f.active {
		return 1
	}
	initial := r3.Norm(f.initial)
	if initial < f.cfg.Epsilon {
		return 1
	}
	return 1 - r3.Norm(f.velocity)/initial
}

// Velocity returns the current velocity.
func (f *VelocityFade) Velocity() r3.Vec { return f.velocity }

// Speed returns the current speed.
func (f *VelocityFade) Speed() float64 { return r3.Norm(f.velocity) }

// Travelled is the distance covered since Start.
func (f *VelocityFade) Travelled() float64 { return f.travelled }

// Stopped reports whether the velocity has reached zero.
func (f *VelocityFade) Stopped() bool { return !f.active }

// Reset stops the fade.
func (f *VelocityFade) Reset() {
	*f = VelocityFade{cfg: f.cfg}
}
