package game

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/tendroids/animation"
	"github.com/pthm-cable/tendroids/config"
	"github.com/pthm-cable/tendroids/contact"
	"github.com/pthm-cable/tendroids/deform"
	"github.com/pthm-cable/tendroids/recovery"
)

// Options holds per-run settings that are not part of the scene config.
type Options struct {
	Seed      int64           // 0 uses sim.seed
	OutputDir string          // empty disables CSV output
	LogStats  bool            // log frame and perf rows as they are written
	Sink      deform.MeshSink // nil keeps vertices in a MemorySink
	Executor  deform.Executor // nil picks serial or parallel from deform.parallel
}

func rgb(v [3]float64) colorful.Color {
	return colorful.Color{R: v[0], G: v[1], B: v[2]}
}

func waveConfig(c config.WaveConfig) animation.WaveConfig {
	return animation.WaveConfig{
		Amplitude:        c.Amplitude,
		Frequency:        c.Frequency,
		Direction:        r3.Vec{X: c.Direction[0], Y: c.Direction[1], Z: c.Direction[2]},
		BaseResponse:     c.BaseResponse,
		TipResponse:      c.TipResponse,
		ShoreForceMin:    c.ShoreForceMin,
		ShoreForceMax:    c.ShoreForceMax,
		ShoreDurationMin: c.ShoreDurationMin,
		ShoreDurationMax: c.ShoreDurationMax,
		RestDurationMin:  c.RestDurationMin,
		RestDurationMax:  c.RestDurationMax,
		EbbRatioMin:      c.EbbRatioMin,
		EbbRatioMax:      c.EbbRatioMax,
		Turbulence:       c.Turbulence,
		TurbulenceScale:  c.TurbulenceScale,
		TurbulenceSpeed:  c.TurbulenceSpeed,
	}
}

func bubbleConfig(c config.BubbleConfig) animation.BubbleConfig {
	return animation.BubbleConfig{
		SpawnHeightPct:     c.SpawnHeightPct,
		MaxDiameterPct:     c.MaxDiameterPct,
		DiameterMultiplier: c.DiameterMultiplier,
		RiseSpeed:          c.RiseSpeed,
		ReleasedRiseSpeed:  c.ReleasedRiseSpeed,
		MinPopHeight:       c.MinPopHeight,
		MaxPopHeight:       c.MaxPopHeight,
		RespawnDelay:       c.RespawnDelay,
		AutoRespawn:        c.AutoRespawn,
	}
}

func colorConfig(c config.ColorConfig) (contact.ColorConfig, error) {
	mode, err := contact.ParseFadeMode(c.FadeMode)
	if err != nil {
		return contact.ColorConfig{}, err
	}
	easing, err := contact.ParseEasing(c.Easing)
	if err != nil {
		return contact.ColorConfig{}, err
	}
	return contact.ColorConfig{
		Normal:            rgb(c.Normal),
		Shock:             rgb(c.Shock),
		Mode:              mode,
		Easing:            easing,
		RecoveryDuration:  c.RecoveryDuration,
		FadeStartDistance: c.FadeStartDistance,
		FadeEndDistance:   c.FadeEndDistance,
		MaxSpeed:          c.MaxSpeed,
		MinSpeed:          c.MinSpeed,
	}, nil
}

func velocityConfig(c config.VelocityFadeConfig) (contact.VelocityConfig, error) {
	mode, err := contact.ParseVelocityMode(c.Mode)
	if err != nil {
		return contact.VelocityConfig{}, err
	}
	return contact.VelocityConfig{
		Mode:      mode,
		Duration:  c.Duration,
		Distance:  c.Distance,
		DecayRate: c.DecayRate,
		Epsilon:   c.VelocityEpsilon,
		Drag:      c.Drag,
	}, nil
}

func repulsionConfig(c config.RepulsionConfig) contact.RepulsionConfig {
	return contact.RepulsionConfig{
		BaseForce:             c.BaseForce,
		MinForce:              c.MinForce,
		MaxForce:              c.MaxForce,
		PenetrationMultiplier: c.PenetrationMultiplier,
		VelocityMultiplier:    c.VelocityMultiplier,
		SafetyMargin:          c.SafetyMargin,
	}
}

// recoveryConfig maps the color, velocity_fade, repulsion and recovery
// sections onto one orchestrator config.
func recoveryConfig(c *config.Config) (recovery.Config, error) {
	color, err := colorConfig(c.Color)
	if err != nil {
		return recovery.Config{}, fmt.Errorf("%w: color: %w", config.ErrInvalid, err)
	}
	velocity, err := velocityConfig(c.VelocityFade)
	if err != nil {
		return recovery.Config{}, fmt.Errorf("%w: velocity_fade: %w", config.ErrInvalid, err)
	}
	return recovery.Config{
		Approach:      c.Approach.ApproachParameters,
		Color:         color,
		Velocity:      velocity,
		Repulsion:     repulsionConfig(c.Repulsion),
		Mass:          c.Creature.Mass,
		ImpulseTime:   c.Recovery.ImpulseTime,
		RestTolerance: c.Recovery.RestTolerance,
		SurfaceRelax:  c.Recovery.SurfaceRelax,
	}, nil
}
