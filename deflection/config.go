// Package deflection bends tendroids away from an approaching creature.
// Each tendroid's bend angle is smoothed toward a geometric target with
// asymmetric attack/decay rates, and its bend axis is latched while the
// deflection is active.
package deflection

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidConfig reports deflection limits or zones that cannot work.
var ErrInvalidConfig = errors.New("deflection: invalid config")

// Config holds bend limits, smoothing rates and detection zones.
// Angles are radians, rates radians per second, distances world units.
type Config struct {
	MinDeflection  float64 `yaml:"min_deflection"` // at the base
	MaxDeflection  float64 `yaml:"max_deflection"` // at the tip
	DeflectionRate float64 `yaml:"deflection_rate"`
	RecoveryRate   float64 `yaml:"recovery_rate"`

	ApproachBuffer float64 `yaml:"approach_buffer"` // contact circle = radius + buffer
	DetectionRange float64 `yaml:"detection_range"` // horizontal, from tendroid axis

	EnableVertical bool `yaml:"enable_vertical"`
	EnableHeadOn   bool `yaml:"enable_head_on"`
	EnablePassBy   bool `yaml:"enable_pass_by"`
}

// DefaultConfig returns the standard limits (3° to 30°).
func DefaultConfig() Config {
	return Config{
		MinDeflection:  0.0524,
		MaxDeflection:  0.5236,
		DeflectionRate: 1.5,
		RecoveryRate:   0.8,
		ApproachBuffer: 0.15,
		DetectionRange: 0.5,
		EnableVertical: true,
		EnableHeadOn:   true,
		EnablePassBy:   true,
	}
}

func degrees(d float64) float64 {
	return d * math.Pi / 180
}

// Preset returns "default", "sensitive" or "subtle".
func Preset(name string) (Config, error) {
	cfg := DefaultConfig()
	switch name {
	case "", "default":
	case "sensitive":
		cfg.MinDeflection = degrees(5)
		cfg.MaxDeflection = degrees(45)
		cfg.ApproachBuffer = 0.25
		cfg.DetectionRange = 0.75
	case "subtle":
		cfg.MinDeflection = degrees(1)
		cfg.MaxDeflection = degrees(15)
		cfg.ApproachBuffer = 0.10
		cfg.DetectionRange = 0.30
	default:
		return Config{}, fmt.Errorf("deflection: unknown preset %q", name)
	}
	return cfg, nil
}

// Validate checks limits and rates.
func (c Config) Validate() error {
	switch {
	case c.MinDeflection < 0:
		return fmt.Errorf("%w: min_deflection %g must be >= 0", ErrInvalidConfig, c.MinDeflection)
	case c.MaxDeflection <= c.MinDeflection:
		return fmt.Errorf("%w: max_deflection %g must exceed min %g", ErrInvalidConfig, c.MaxDeflection, c.MinDeflection)
	case c.MaxDeflection > math.Pi/2:
		return fmt.Errorf("%w: max_deflection %g exceeds 90 degrees", ErrInvalidConfig, c.MaxDeflection)
	case c.DeflectionRate <= 0 || c.RecoveryRate <= 0:
		return fmt.Errorf("%w: rates must be positive", ErrInvalidConfig)
	case c.ApproachBuffer < 0:
		return fmt.Errorf("%w: approach_buffer %g must be >= 0", ErrInvalidConfig, c.ApproachBuffer)
	case c.DetectionRange <= c.ApproachBuffer:
		return fmt.Errorf("%w: detection_range %g must exceed approach_buffer %g", ErrInvalidConfig, c.DetectionRange, c.ApproachBuffer)
	}
	return nil
}

// Enabled reports whether deflection responds to approach type t.
func (c Config) Enabled(t ApproachType) bool {
	switch t {
	case ApproachVertical:
		return c.EnableVertical
	case ApproachHeadOn:
		return c.EnableHeadOn
	case ApproachPassBy:
		return c.EnablePassBy
	default:
		return false
	}
}
