// Package proximity classifies creature-to-tendroid surface distance into
// zones and tracks a per-pair approach/contact/recovery state machine.
package proximity

import (
	"errors"
	"fmt"
)

// ErrInvalidThresholds reports a violated threshold ordering.
var ErrInvalidThresholds = errors.New("proximity: thresholds must satisfy 0 < epsilon < minimum < warning < detection")

// Zone is a distance band around a tendroid surface.
type Zone uint8

const (
	ZoneIdle Zone = iota
	ZoneDetected
	ZoneApproaching
	ZoneRecovering
	ZoneContact
)

var zoneNames = [...]string{"idle", "detected", "approaching", "recovering", "contact"}

func (z Zone) String() string {
	if int(z) < len(zoneNames) {
		return zoneNames[z]
	}
	return fmt.Sprintf("zone(%d)", z)
}

// ApproachParameters are the four increasing distance thresholds, measured
// from the tendroid surface.
type ApproachParameters struct {
	Epsilon   float64 `yaml:"epsilon"`   // contact
	Minimum   float64 `yaml:"minimum"`   // recovery must clear this
	Warning   float64 `yaml:"warning"`   // approach warning
	Detection float64 `yaml:"detection"` // outer detection radius
}

// Validate checks the threshold ordering. Values are never clamped.
func (p ApproachParameters) Validate() error {
	if !(p.Epsilon > 0 && p.Epsilon < p.Minimum && p.Minimum < p.Warning && p.Warning < p.Detection) {
		return fmt.Errorf("%w (got %g, %g, %g, %g)",
			ErrInvalidThresholds, p.Epsilon, p.Minimum, p.Warning, p.Detection)
	}
	return nil
}

// Zone classifies a surface distance. It is a pure function of d and the
// thresholds, independent of any state history.
func (p ApproachParameters) Zone(d float64) Zone {
	switch {
	case d <= p.Epsilon:
		return ZoneContact
	case d <= p.Minimum:
		return ZoneRecovering
	case d <= p.Warning:
		return ZoneApproaching
	case d <= p.Detection:
		return ZoneDetected
	default:
		return ZoneIdle
	}
}

// DefaultParameters returns the standard thresholds.
func DefaultParameters() ApproachParameters {
	return ApproachParameters{Epsilon: 0.04, Minimum: 0.15, Warning: 0.25, Detection: 1.0}
}

// Preset returns named thresholds: "default", "small_creature",
// "large_creature" or "sensitive".
func Preset(name string) (ApproachParameters, error) {
	switch name {
	case "", "default":
		return DefaultParameters(), nil
	case "small_creature":
		return ApproachParameters{Epsilon: 0.02, Minimum: 0.08, Warning: 0.15, Detection: 0.5}, nil
	case "large_creature":
		return ApproachParameters{Epsilon: 0.08, Minimum: 0.25, Warning: 0.50, Detection: 2.0}, nil
	case "sensitive":
		return ApproachParameters{Epsilon: 0.10, Minimum: 0.30, Warning: 0.60, Detection: 1.5}, nil
	default:
		return ApproachParameters{}, fmt.Errorf("proximity: unknown preset %q", name)
	}
}

// Scaled multiplies every threshold by f, for scenes authored in larger
// world units.
func (p ApproachParameters) Scaled(f float64) ApproachParameters {
	return ApproachParameters{
		Epsilon:   p.Epsilon * f,
		Minimum:   p.Minimum * f,
		Warning:   p.Warning * f,
		Detection: p.Detection * f,
	}
}

// zoneForce is the soft push magnitude applied per zone.
var zoneForce = [...]float64{
	ZoneIdle:        0,
	ZoneDetected:    0.5,
	ZoneApproaching: 2,
	ZoneRecovering:  5,
	ZoneContact:     10,
}

// ZoneForce returns the repulsion strength for a zone.
func ZoneForce(z Zone) float64 {
	if int(z) < len(zoneForce) {
		return zoneForce[z]
	}
	return 0
}
