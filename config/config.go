// Package config provides configuration loading and access for the tendroid
// scene.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/pthm-cable/tendroids/deflection"
	"github.com/pthm-cable/tendroids/proximity"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalid reports a loaded config that fails validation.
var ErrInvalid = errors.New("config: invalid")

// Config holds all scene configuration parameters.
type Config struct {
	Screen       ScreenConfig       `yaml:"screen"`
	Sim          SimConfig          `yaml:"sim"`
	Field        FieldConfig        `yaml:"field"`
	Deform       DeformConfig       `yaml:"deform"`
	Wave         WaveConfig         `yaml:"wave"`
	Bubble       BubbleConfig       `yaml:"bubble"`
	Approach     ApproachConfig     `yaml:"approach"`
	Deflection   DeflectionConfig   `yaml:"deflection"`
	Color        ColorConfig        `yaml:"color"`
	VelocityFade VelocityFadeConfig `yaml:"velocity_fade"`
	Repulsion    RepulsionConfig    `yaml:"repulsion"`
	Recovery     RecoveryConfig     `yaml:"recovery"`
	Creature     CreatureConfig     `yaml:"creature"`
	Telemetry    TelemetryConfig    `yaml:"telemetry"`
	Logging      LoggingConfig      `yaml:"logging"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds viewer window settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// SimConfig holds the fixed timestep and run length.
type SimConfig struct {
	DT       float64 `yaml:"dt"`
	Seed     int64   `yaml:"seed"`
	MaxTicks int     `yaml:"max_ticks"` // 0 runs until closed
}

// FieldConfig describes the tendroid field layout.
type FieldConfig struct {
	Count     int     `yaml:"count"`
	Spacing   float64 `yaml:"spacing"`    // grid pitch between roots
	Jitter    float64 `yaml:"jitter"`     // random root offset, fraction of spacing
	RadiusMin float64 `yaml:"radius_min"`
	RadiusMax float64 `yaml:"radius_max"`
	LengthMin float64 `yaml:"length_min"`
	LengthMax float64 `yaml:"length_max"`
	Segments  int     `yaml:"segments"` // rings along the length
	Radial    int     `yaml:"radial"`   // vertices per ring
}

// DeformConfig holds kernel and executor settings.
type DeformConfig struct {
	MaxAmplitude      float64 `yaml:"max_amplitude"`
	BulgeWidth        float64 `yaml:"bulge_width"`
	Parallel          bool    `yaml:"parallel"`
	ParallelThreshold int     `yaml:"parallel_threshold"` // vertices below this run serially
	Workers           int     `yaml:"workers"`            // 0 uses GOMAXPROCS
}

// WaveConfig holds the tidal current.
type WaveConfig struct {
	Enabled          bool       `yaml:"enabled"`
	Amplitude        float64    `yaml:"amplitude"`
	Frequency        float64    `yaml:"frequency"`
	Direction        [3]float64 `yaml:"direction"`
	BaseResponse     float64    `yaml:"base_response"`
	TipResponse      float64    `yaml:"tip_response"`
	ShoreForceMin    float64    `yaml:"shore_force_min"`
	ShoreForceMax    float64    `yaml:"shore_force_max"`
	ShoreDurationMin float64    `yaml:"shore_duration_min"`
	ShoreDurationMax float64    `yaml:"shore_duration_max"`
	RestDurationMin  float64    `yaml:"rest_duration_min"`
	RestDurationMax  float64    `yaml:"rest_duration_max"`
	EbbRatioMin      float64    `yaml:"ebb_ratio_min"`
	EbbRatioMax      float64    `yaml:"ebb_ratio_max"`
	Turbulence       float64    `yaml:"turbulence"`
	TurbulenceScale  float64    `yaml:"turbulence_scale"`
	TurbulenceSpeed  float64    `yaml:"turbulence_speed"`
}

// BubbleConfig holds the bubble lifecycle.
type BubbleConfig struct {
	Enabled            bool    `yaml:"enabled"`
	SpawnHeightPct     float64 `yaml:"spawn_height_pct"`
	MaxDiameterPct     float64 `yaml:"max_diameter_pct"`
	DiameterMultiplier float64 `yaml:"diameter_multiplier"`
	RiseSpeed          float64 `yaml:"rise_speed"`
	ReleasedRiseSpeed  float64 `yaml:"released_rise_speed"`
	MinPopHeight       float64 `yaml:"min_pop_height"`
	MaxPopHeight       float64 `yaml:"max_pop_height"`
	RespawnDelay       float64 `yaml:"respawn_delay"`
	AutoRespawn        bool    `yaml:"auto_respawn"`
}

// ApproachConfig holds the proximity thresholds. A non-empty preset
// replaces the explicit values. Scale multiplies the thresholds for
// scenes authored in other world units. Load applies both, then clears
// the preset and resets the scale to 1 so a written snapshot reloads
// unchanged.
type ApproachConfig struct {
	Preset                       string  `yaml:"preset"`
	Scale                        float64 `yaml:"scale"` // 0 means 1
	proximity.ApproachParameters `yaml:",inline"`
}

// DeflectionConfig holds bend limits and rates. A non-empty preset
// replaces the explicit values.
type DeflectionConfig struct {
	Preset            string `yaml:"preset"`
	Active            bool   `yaml:"active"` // false leaves every tendroid upright
	deflection.Config `yaml:",inline"`
}

// ColorConfig holds the shock color effect.
type ColorConfig struct {
	Normal            [3]float64 `yaml:"normal"`
	Shock             [3]float64 `yaml:"shock"`
	FadeMode          string     `yaml:"fade_mode"` // time, distance or speed
	Easing            string     `yaml:"easing"`    // linear, ease_in, ease_out, ease_in_out
	RecoveryDuration  float64    `yaml:"recovery_duration"`
	FadeStartDistance float64    `yaml:"fade_start_distance"`
	FadeEndDistance   float64    `yaml:"fade_end_distance"`
	MaxSpeed          float64    `yaml:"max_speed"`
	MinSpeed          float64    `yaml:"min_speed"`
}

// VelocityFadeConfig holds the repulsion velocity decay.
type VelocityFadeConfig struct {
	Mode            string  `yaml:"mode"` // hybrid, time or distance
	Duration        float64 `yaml:"duration"`
	Distance        float64 `yaml:"distance"`
	DecayRate       float64 `yaml:"decay_rate"`
	VelocityEpsilon float64 `yaml:"velocity_epsilon"`
	Drag            float64 `yaml:"drag"`
}

// RepulsionConfig holds the contact push-out force.
type RepulsionConfig struct {
	BaseForce             float64 `yaml:"base_force"`
	MinForce              float64 `yaml:"min_force"`
	MaxForce              float64 `yaml:"max_force"`
	PenetrationMultiplier float64 `yaml:"penetration_multiplier"`
	VelocityMultiplier    float64 `yaml:"velocity_multiplier"`
	SafetyMargin          float64 `yaml:"safety_margin"`
}

// RecoveryConfig holds orchestrator settings.
type RecoveryConfig struct {
	ImpulseTime   float64 `yaml:"impulse_time"`
	RestTolerance float64 `yaml:"rest_tolerance"`
	SurfaceRelax  float64 `yaml:"surface_relax"`
	Deflection    float64 `yaml:"deflection"` // surface dent depth at contact
}

// CreatureConfig holds the swimmer body and autopilot path.
type CreatureConfig struct {
	Radius    float64 `yaml:"radius"`
	Mass      float64 `yaml:"mass"`
	Speed     float64 `yaml:"speed"`
	Accel     float64 `yaml:"accel"`
	Height    float64 `yaml:"height"`    // swim height above the floor
	PathFreq  float64 `yaml:"path_freq"` // Lissajous base frequency
	Autopilot bool    `yaml:"autopilot"`
}

// TelemetryConfig holds CSV output settings.
type TelemetryConfig struct {
	FrameInterval int `yaml:"frame_interval"` // ticks between frames.csv rows
	PerfWindow    int `yaml:"perf_window"`    // ticks per perf.csv row
}

// LoggingConfig holds log level and rotation.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT32        float32 // Sim.DT as float32
	ScreenW32   float32
	ScreenH32   float32
	FieldSide   int     // tendroids per row of the square field
	FieldExtent float64 // half-width of the field in world units
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Defaults returns the embedded defaults without touching the global.
func Defaults() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults,
// then applies presets and validates.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.applyPresets(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()
	return cfg, nil
}

func (c *Config) applyPresets() error {
	if c.Approach.Preset != "" {
		p, err := proximity.Preset(c.Approach.Preset)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalid, err)
		}
		c.Approach.ApproachParameters = p
		c.Approach.Preset = "" // thresholds are explicit from here on
	}
	switch s := c.Approach.Scale; {
	case s < 0:
		return fmt.Errorf("%w: approach.scale %g must be positive", ErrInvalid, s)
	case s > 0 && s != 1:
		c.Approach.ApproachParameters = c.Approach.Scaled(s)
	}
	c.Approach.Scale = 1
	if c.Deflection.Preset != "" {
		d, err := deflection.Preset(c.Deflection.Preset)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalid, err)
		}
		d.EnableVertical = c.Deflection.EnableVertical
		d.EnableHeadOn = c.Deflection.EnableHeadOn
		d.EnablePassBy = c.Deflection.EnablePassBy
		c.Deflection.Config = d
	}
	return nil
}

// Validate checks the sections that have invariants of their own. Thresholds
// are never clamped into order.
func (c *Config) Validate() error {
	if err := c.Approach.Validate(); err != nil {
		return fmt.Errorf("approach: %w", err)
	}
	if err := c.Deflection.Config.Validate(); err != nil {
		return fmt.Errorf("deflection: %w", err)
	}
	switch {
	case c.Sim.DT <= 0:
		return fmt.Errorf("%w: sim.dt %g must be positive", ErrInvalid, c.Sim.DT)
	case c.Field.Count < 0:
		return fmt.Errorf("%w: field.count %d must be >= 0", ErrInvalid, c.Field.Count)
	case c.Field.RadiusMin <= 0 || c.Field.RadiusMax < c.Field.RadiusMin:
		return fmt.Errorf("%w: field radius range [%g, %g]", ErrInvalid, c.Field.RadiusMin, c.Field.RadiusMax)
	case c.Field.LengthMin <= 0 || c.Field.LengthMax < c.Field.LengthMin:
		return fmt.Errorf("%w: field length range [%g, %g]", ErrInvalid, c.Field.LengthMin, c.Field.LengthMax)
	case c.Field.Segments < 1 || c.Field.Radial < 3:
		return fmt.Errorf("%w: field needs segments >= 1 and radial >= 3", ErrInvalid)
	case c.Deform.MaxAmplitude < 0:
		return fmt.Errorf("%w: deform.max_amplitude %g must be >= 0", ErrInvalid, c.Deform.MaxAmplitude)
	case c.Creature.Mass <= 0:
		return fmt.Errorf("%w: creature.mass %g must be positive", ErrInvalid, c.Creature.Mass)
	case c.Creature.Radius <= 0:
		return fmt.Errorf("%w: creature.radius %g must be positive", ErrInvalid, c.Creature.Radius)
	case c.Bubble.MinPopHeight > c.Bubble.MaxPopHeight:
		return fmt.Errorf("%w: bubble pop heights [%g, %g]", ErrInvalid, c.Bubble.MinPopHeight, c.Bubble.MaxPopHeight)
	case c.Recovery.SurfaceRelax <= 0:
		return fmt.Errorf("%w: recovery.surface_relax %g must be positive", ErrInvalid, c.Recovery.SurfaceRelax)
	case c.Recovery.RestTolerance < 0:
		return fmt.Errorf("%w: recovery.rest_tolerance %g must be >= 0", ErrInvalid, c.Recovery.RestTolerance)
	case c.Telemetry.FrameInterval < 1:
		return fmt.Errorf("%w: telemetry.frame_interval %d must be >= 1", ErrInvalid, c.Telemetry.FrameInterval)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.DT32 = float32(c.Sim.DT)
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)

	side := 0
	for side*side < c.Field.Count {
		side++
	}
	c.Derived.FieldSide = side
	c.Derived.FieldExtent = float64(side) * c.Field.Spacing / 2
}

// SetFieldCount overrides the number of tendroids and refreshes the
// derived field layout.
func (c *Config) SetFieldCount(n int) {
	c.Field.Count = n
	c.computeDerived()
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
