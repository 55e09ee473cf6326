package main

import "github.com/pthm-cable/tendroids/config"

// ParamSpec defines a single tunable parameter and where it lives in the
// config.
type ParamSpec struct {
	Name    string
	Min     float64
	Max     float64
	Default float64
	Get     func(*config.Config) float64
	Set     func(*config.Config, float64)
}

// ParamVector holds the tunable parameters in search order.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set: bend dynamics, repulsion and
// the recovery fade.
func NewParamVector() *ParamVector {
	return &ParamVector{Specs: []ParamSpec{
		{
			Name: "deflection_rate", Min: 0.3, Max: 5, Default: 1.5,
			Get: func(c *config.Config) float64 { return c.Deflection.DeflectionRate },
			Set: func(c *config.Config, v float64) { c.Deflection.DeflectionRate = v },
		},
		{
			Name: "recovery_rate", Min: 0.1, Max: 3, Default: 0.8,
			Get: func(c *config.Config) float64 { return c.Deflection.RecoveryRate },
			Set: func(c *config.Config, v float64) { c.Deflection.RecoveryRate = v },
		},
		{
			Name: "approach_buffer", Min: 0.05, Max: 0.4, Default: 0.15,
			Get: func(c *config.Config) float64 { return c.Deflection.ApproachBuffer },
			Set: func(c *config.Config, v float64) { c.Deflection.ApproachBuffer = v },
		},
		{
			Name: "base_force", Min: 20, Max: 400, Default: 100,
			Get: func(c *config.Config) float64 { return c.Repulsion.BaseForce },
			Set: func(c *config.Config, v float64) { c.Repulsion.BaseForce = v },
		},
		{
			Name: "fade_duration", Min: 0.2, Max: 3, Default: 1,
			Get: func(c *config.Config) float64 { return c.VelocityFade.Duration },
			Set: func(c *config.Config, v float64) { c.VelocityFade.Duration = v },
		},
		{
			Name: "decay_rate", Min: 0.5, Max: 10, Default: 3,
			Get: func(c *config.Config) float64 { return c.VelocityFade.DecayRate },
			Set: func(c *config.Config, v float64) { c.VelocityFade.DecayRate = v },
		},
		{
			Name: "surface_relax", Min: 0.5, Max: 12, Default: 4,
			Get: func(c *config.Config) float64 { return c.Recovery.SurfaceRelax },
			Set: func(c *config.Config, v float64) { c.Recovery.SurfaceRelax = v },
		},
	}}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int { return len(pv.Specs) }

// Names lists parameter names in order.
func (pv *ParamVector) Names() []string {
	names := make([]string, len(pv.Specs))
	for i, s := range pv.Specs {
		names[i] = s.Name
	}
	return names
}

// DefaultVector returns the default values.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, s := range pv.Specs {
		v[i] = s.Default
	}
	return v
}

// Normalize maps raw values to [0, 1] over each range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	out := make([]float64, len(pv.Specs))
	for i, s := range pv.Specs {
		out[i] = (raw[i] - s.Min) / (s.Max - s.Min)
	}
	return out
}

// Denormalize maps [0, 1] values back to raw values.
func (pv *ParamVector) Denormalize(norm []float64) []float64 {
	out := make([]float64, len(pv.Specs))
	for i, s := range pv.Specs {
		out[i] = s.Min + norm[i]*(s.Max-s.Min)
	}
	return out
}

// Clamp bounds every value to its range.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	out := make([]float64, len(pv.Specs))
	for i, s := range pv.Specs {
		out[i] = max(s.Min, min(v[i], s.Max))
	}
	return out
}

// Apply writes clamped values into cfg.
func (pv *ParamVector) Apply(cfg *config.Config, values []float64) {
	for i, v := range pv.Clamp(values) {
		pv.Specs[i].Set(cfg, v)
	}
}

// Extract reads the current values from cfg.
func (pv *ParamVector) Extract(cfg *config.Config) []float64 {
	out := make([]float64, len(pv.Specs))
	for i, s := range pv.Specs {
		out[i] = s.Get(cfg)
	}
	return out
}
