package contact

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ColorState is the shock color state of a creature.
type ColorState uint8

const (
	ColorNormal ColorState = iota
	ColorShocked
	ColorRecovering
)

func (s ColorState) String() string {
	switch s {
	case ColorShocked:
		return "shocked"
	case ColorRecovering:
		return "recovering"
	default:
		return "normal"
	}
}

// FadeMode selects what drives the recovery fade.
type FadeMode uint8

const (
	FadeTime FadeMode = iota
	FadeDistance
	FadeSpeed
)

func (m FadeMode) String() string {
	switch m {
	case FadeDistance:
		return "distance"
	case FadeSpeed:
		return "speed"
	default:
		return "time"
	}
}

// ParseFadeMode accepts "time", "distance" or "speed".
func ParseFadeMode(s string) (FadeMode, error) {
	switch strings.ToLower(s) {
	case "", "time":
		return FadeTime, nil
	case "distance":
		return FadeDistance, nil
	case "speed":
		return FadeSpeed, nil
	}
	return FadeTime, fmt.Errorf("contact: unknown fade mode %q", s)
}

// Easing shapes fade progress.
type Easing uint8

const (
	EaseLinear Easing = iota
	EaseIn
	EaseOut
	EaseInOut
)

// ParseEasing accepts "linear", "ease_in", "ease_out" or "ease_in_out".
func ParseEasing(s string) (Easing, error) {
	switch strings.ToLower(s) {
	case "", "linear":
		return EaseLinear, nil
	case "ease_in":
		return EaseIn, nil
	case "ease_out":
		return EaseOut, nil
	case "ease_in_out":
		return EaseInOut, nil
	}
	return EaseLinear, fmt.Errorf("contact: unknown easing %q", s)
}

// Apply maps linear progress p in [0, 1] through the easing curve.
func (e Easing) Apply(p float64) float64 {
	p = clamp01(p)
	switch e {
	case EaseIn:
		return p * p
	case EaseOut:
		return 1 - (1-p)*(1-p)
	case EaseInOut:
		if p < 0.5 {
			return 2 * p * p
		}
		return 1 - 2*(1-p)*(1-p)
	}
	return p
}

// ColorConfig holds the colors and fade parameters.
type ColorConfig struct {
	Normal colorful.Color
	Shock  colorful.Color

	Mode   FadeMode
	Easing Easing

	RecoveryDuration  float64 // seconds, time mode
	FadeStartDistance float64 // distance mode: still fully shocked here
	FadeEndDistance   float64 // distance mode: fully normal here
	MaxSpeed          float64 // speed mode: fully shocked at or above
	MinSpeed          float64 // speed mode: fully normal at or below
}

// DefaultColorConfig returns cyan body, orange-red shock, 0.5 s linear fade.
func DefaultColorConfig() ColorConfig {
	return ColorConfig{
		Normal:            colorful.Color{R: 0.2, G: 0.8, B: 0.9},
		Shock:             colorful.Color{R: 1.0, G: 0.3, B: 0.1},
		Mode:              FadeTime,
		Easing:            EaseLinear,
		RecoveryDuration:  0.5,
		FadeStartDistance: 0.1,
		FadeEndDistance:   0.25,
		MaxSpeed:          2.0,
		MinSpeed:          0.2,
	}
}

// Validate checks the fade ranges used by the selected mode.
func (c ColorConfig) Validate() error {
	switch c.Mode {
	case FadeTime:
		if c.RecoveryDuration <= 0 {
			return fmt.Errorf("contact: recovery_duration %g must be positive", c.RecoveryDuration)
		}
	case FadeDistance:
		if c.FadeEndDistance <= c.FadeStartDistance {
			return fmt.Errorf("contact: fade_end_distance %g must exceed start %g", c.FadeEndDistance, c.FadeStartDistance)
		}
	case FadeSpeed:
		if c.MaxSpeed <= c.MinSpeed {
			return fmt.Errorf("contact: max_speed %g must exceed min %g", c.MaxSpeed, c.MinSpeed)
		}
	}
	return nil
}

// progress returns the linear fade progress for the current mode.
func (c ColorConfig) progress(elapsed, distance, speed float64) float64 {
	switch c.Mode {
	case FadeDistance:
		if distance <= c.FadeStartDistance {
			return 0
		}
		if distance >= c.FadeEndDistance {
			return 1
		}
		return (distance - c.FadeStartDistance) / (c.FadeEndDistance - c.FadeStartDistance)
	case FadeSpeed:
		if speed >= c.MaxSpeed {
			return 0
		}
		if speed <= c.MinSpeed {
			return 1
		}
		return 1 - (speed-c.MinSpeed)/(c.MaxSpeed-c.MinSpeed)
	default:
		if elapsed <= 0 {
			return 0
		}
		if elapsed >= c.RecoveryDuration {
			return 1
		}
		return elapsed / c.RecoveryDuration
	}
}

// ColorEffect tracks the shock color of one creature.
type ColorEffect struct {
	cfg ColorConfig

	state      ColorState
	progress   float64
	elapsed    float64
	ShockCount int
}

// NewColorEffect returns an effect in the normal state.
func NewColorEffect(cfg ColorConfig) *ColorEffect {
	return &ColorEffect{cfg: cfg, progress: 1}
}

// TriggerShock switches to the shock color regardless of state.
func (c *ColorEffect) TriggerShock() {
	c.state = ColorShocked
	c.progress = 0
	c.elapsed = 0
	c.ShockCount++
}

// BeginRecovery starts fading a shocked effect. Other states are unchanged.
func (c *ColorEffect) BeginRecovery() {
	if c.state != ColorShocked {
		return
	}
	c.state = ColorRecovering
	c.elapsed = 0
}

// Advance progresses a recovering fade by dt. Progress never moves
// backwards within one recovery. Returns true when the effect is normal.
func (c *ColorEffect) Advance(dt, distance, speed float64) bool {
	if c.state != ColorRecovering {
		return c.state == ColorNormal
	}
	c.elapsed += dt
	p := c.cfg.progress(c.elapsed, distance, speed)
	if p > c.progress {
		c.progress = p
	}
	if c.progress >= 1 {
		c.progress = 1
		c.state = ColorNormal
	}
	return c.state == ColorNormal
}

// Reset jumps straight to normal, keeping the shock count.
func (c *ColorEffect) Reset() {
	c.state = ColorNormal
	c.progress = 1
	c.elapsed = 0
}

// State returns the current state.
func (c *ColorEffect) State() ColorState { return c.state }

// Progress is the linear fade progress, 0 shocked to 1 normal.
func (c *ColorEffect) Progress() float64 { return c.progress }

// IsNormal reports whether the color has fully recovered.
func (c *ColorEffect) IsNormal() bool { return c.state == ColorNormal }

// Color returns the displayed color.
func (c *ColorEffect) Color() colorful.Color {
	switch c.state {
	case ColorShocked:
		return c.cfg.Shock
	case ColorNormal:
		return c.cfg.Normal
	}
	return c.cfg.Shock.BlendRgb(c.cfg.Normal, c.cfg.Easing.Apply(c.progress))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
