package deflection

import (
	"errors"
	"math"
	"testing"

	"github.com/pthm-cable/tendroids/deform"
	"gonum.org/v1/gonum/spatial/r3"
)

const tol = 1e-9

func vecNear(a, b r3.Vec) bool {
	return r3.Norm(r3.Sub(a, b)) < 1e-9
}

func TestAxisLatchScenario(t *testing.T) {
	cfg := DefaultConfig()
	c := NewController()

	c.Update(Target{Angle: 0.1, Direction: r3.Vec{X: 1}}, 1.0, cfg)
	if math.Abs(c.Angle()-0.1) > tol {
		t.Fatalf("angle = %v, want 0.1", c.Angle())
	}
	if !vecNear(c.Axis(), r3.Vec{Z: 1}) {
		t.Fatalf("initial axis = %v, want (0,0,1)", c.Axis())
	}

	// creature sweeps through: fresh axis flips, reported axis must not
	c.Update(Target{Angle: 0.1, Direction: r3.Vec{X: -1}}, 0.016, cfg)
	if !vecNear(c.Axis(), r3.Vec{Z: 1}) {
		t.Fatalf("axis after sweep = %v, want latched (0,0,1)", c.Axis())
	}

	frames := 0
	for c.Latched() {
		c.Update(Target{Direction: r3.Vec{X: -1}}, 0.016, cfg)
		if c.Latched() && !vecNear(c.Axis(), r3.Vec{Z: 1}) {
			t.Fatalf("axis changed while latched at angle %v", c.Angle())
		}
		frames++
		if frames > 1000 {
			t.Fatal("controller never unlatched")
		}
	}
	if c.Angle() >= settleAngle {
		t.Errorf("unlatched at angle %v", c.Angle())
	}
	if !vecNear(c.Axis(), r3.Vec{Z: -1}) {
		t.Errorf("axis after unlatch = %v, want fresh (0,0,-1)", c.Axis())
	}
}

func TestStepAsymmetricRates(t *testing.T) {
	tests := []struct {
		name    string
		current float64
		target  float64
		want    float64
	}{
		{"rising uses deflection rate", 0, 1, 0.15},
		{"falling uses recovery rate", 1, 0, 0.92},
		{"snaps within one step", 0.1, 0.2, 0.2},
		{"snaps below settle threshold", 0.0995, 0.1, 0.1},
		{"at target", 0.3, 0.3, 0.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Step(tt.current, tt.target, 0.1, 1.5, 0.8)
			if math.Abs(got-tt.want) > tol {
				t.Errorf("Step(%v, %v) = %v, want %v", tt.current, tt.target, got, tt.want)
			}
		})
	}
}

func TestClassifyApproach(t *testing.T) {
	toward := r3.Vec{X: 1}
	tests := []struct {
		vel  r3.Vec
		want ApproachType
	}{
		{r3.Vec{X: 1}, ApproachHeadOn},
		{r3.Vec{Z: 1}, ApproachPassBy},
		{r3.Vec{X: -1}, ApproachVertical},
		{r3.Vec{X: 0.05}, ApproachVertical},
		{r3.Vec{Y: -3}, ApproachVertical},
		{r3.Vec{X: 0.6, Z: 0.8}, ApproachVertical},
	}

	for _, tt := range tests {
		if got := ClassifyApproach(toward, tt.vel); got != tt.want {
			t.Errorf("ClassifyApproach(%v) = %v, want %v", tt.vel, got, tt.want)
		}
	}
}

func TestComputeTarget(t *testing.T) {
	cfg := DefaultConfig()
	cyl := Cylinder{Length: 1, Radius: 0.1}
	full := cfg.MinDeflection + (cfg.MaxDeflection-cfg.MinDeflection)*0.5

	tests := []struct {
		name string
		pos  r3.Vec
		want float64
	}{
		{"inside contact circle", r3.Vec{X: -0.2, Y: 0.5}, full},
		{"halfway through falloff", r3.Vec{X: -0.375, Y: 0.5}, full * 0.5},
		{"outside detection range", r3.Vec{X: -0.6, Y: 0.5}, 0},
		{"above tip", r3.Vec{X: -0.2, Y: 1.2}, 0},
		{"below base", r3.Vec{X: -0.2, Y: -0.1}, 0},
		{"at base", r3.Vec{X: -0.2}, cfg.MinDeflection},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeTarget(cyl, tt.pos, r3.Vec{}, cfg)
			if math.Abs(got.Angle-tt.want) > tol {
				t.Errorf("angle = %v, want %v", got.Angle, tt.want)
			}
		})
	}

	got := ComputeTarget(cyl, r3.Vec{X: -0.2, Y: 0.5}, r3.Vec{}, cfg)
	if !vecNear(got.Direction, r3.Vec{X: 1}) {
		t.Errorf("direction = %v, want (1,0,0)", got.Direction)
	}

	onAxis := ComputeTarget(cyl, r3.Vec{Y: 0.5}, r3.Vec{}, cfg)
	if !vecNear(onAxis.Direction, r3.Vec{X: 1}) {
		t.Errorf("degenerate direction = %v, want fallback (1,0,0)", onAxis.Direction)
	}
}

// The full-strength edge sits at radius + approach_buffer; nothing else
// moves it.
func TestComputeTargetContactCircle(t *testing.T) {
	cyl := Cylinder{Length: 1, Radius: 0.1}
	pos := r3.Vec{X: -0.35, Y: 0.5}

	tests := []struct {
		buffer float64
		ratio  float64
	}{
		{0.15, 0.4}, // contact 0.25, span 0.25
		{0.30, 0},   // contact 0.40, inside
		{0.05, 4.0 / 7}, // contact 0.15, span 0.35
	}
	for _, tt := range tests {
		cfg := DefaultConfig()
		cfg.ApproachBuffer = tt.buffer
		full := cfg.MinDeflection + (cfg.MaxDeflection-cfg.MinDeflection)*0.5

		got := ComputeTarget(cyl, pos, r3.Vec{}, cfg)
		if math.Abs(got.DistanceRatio-tt.ratio) > tol {
			t.Errorf("buffer %v: distance ratio = %v, want %v", tt.buffer, got.DistanceRatio, tt.ratio)
		}
		if want := full * (1 - tt.ratio); math.Abs(got.Angle-want) > tol {
			t.Errorf("buffer %v: angle = %v, want %v", tt.buffer, got.Angle, want)
		}
	}
}

func TestComputeTargetDisabledType(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EnableVertical = false
	cyl := Cylinder{Length: 1, Radius: 0.1}

	got := ComputeTarget(cyl, r3.Vec{X: -0.2, Y: 0.5}, r3.Vec{}, cfg)
	if got.Angle != 0 {
		t.Errorf("disabled vertical approach angle = %v, want 0", got.Angle)
	}
	if got.Type != ApproachVertical {
		t.Errorf("type = %v, want vertical", got.Type)
	}

	headOn := ComputeTarget(cyl, r3.Vec{X: -0.2, Y: 0.5}, r3.Vec{X: 1}, cfg)
	if headOn.Angle == 0 {
		t.Error("head-on approach should still deflect")
	}
}

// TestBendAxisPushesAway checks that a positive bend about BendAxis moves
// the tip along the push direction.
func TestBendAxisPushesAway(t *testing.T) {
	dirs := []r3.Vec{{X: 1}, {X: -1}, {Z: 1}, {X: 0.6, Z: -0.8}}
	for _, d := range dirs {
		axis := BendAxis(d)
		tip := deform.Bend(deform.Vec3{Y: 1}, 1, 0.3, float32(axis.X), float32(axis.Z))
		along := float64(tip.X)*d.X + float64(tip.Z)*d.Z
		if along <= 0 {
			t.Errorf("dir %v: tip %v moved toward the creature", d, tip)
		}
	}
	if !vecNear(BendAxis(r3.Vec{}), r3.Vec{Z: 1}) {
		t.Errorf("degenerate BendAxis = %v, want (0,0,1)", BendAxis(r3.Vec{}))
	}
}

func TestPresetsValidate(t *testing.T) {
	for _, name := range []string{"default", "sensitive", "subtle"} {
		cfg, err := Preset(name)
		if err != nil {
			t.Fatalf("Preset(%q): %v", name, err)
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("preset %q invalid: %v", name, err)
		}
	}
	if _, err := Preset("wild"); err == nil {
		t.Error("unknown preset accepted")
	}
}

func TestValidateRejects(t *testing.T) {
	mutate := []struct {
		name string
		fn   func(*Config)
	}{
		{"negative min", func(c *Config) { c.MinDeflection = -0.1 }},
		{"max below min", func(c *Config) { c.MaxDeflection = c.MinDeflection }},
		{"max beyond right angle", func(c *Config) { c.MaxDeflection = 2 }},
		{"zero recovery rate", func(c *Config) { c.RecoveryRate = 0 }},
		{"range inside buffer", func(c *Config) { c.DetectionRange = c.ApproachBuffer }},
	}

	for _, m := range mutate {
		t.Run(m.name, func(t *testing.T) {
			cfg := DefaultConfig()
			m.fn(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() = %v, want ErrInvalidConfig", err)
			}
			if _, err := NewManager(cfg); err == nil {
				t.Error("NewManager accepted invalid config")
			}
		})
	}
}

func TestManagerBendsAndDisable(t *testing.T) {
	m, err := NewManager(DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	m.Register(7, Cylinder{Length: 1, Radius: 0.1})
	m.Register(3, Cylinder{Center: r3.Vec{X: 5}, Length: 1, Radius: 0.1})

	creature := r3.Vec{X: -0.2, Y: 0.5}
	for i := 0; i < 60; i++ {
		m.Update(creature, r3.Vec{}, 1.0/60)
	}

	bends := m.AppendBends(nil)
	if len(bends) != 2 || bends[0].ID != 3 || bends[1].ID != 7 {
		t.Fatalf("bends = %+v, want ids 3, 7", bends)
	}
	if bends[0].Angle != 0 {
		t.Errorf("far tendroid angle = %v, want 0", bends[0].Angle)
	}
	if bends[1].Angle <= 0 {
		t.Errorf("near tendroid angle = %v, want > 0", bends[1].Angle)
	}
	if got := m.Deflecting(); len(got) != 1 || got[0] != 7 {
		t.Errorf("deflecting = %v, want [7]", got)
	}

	m.SetEnabled(false)
	for i := 0; i < 600; i++ {
		m.Update(creature, r3.Vec{}, 1.0/60)
	}
	if a := m.Controller(7).Angle(); a != 0 {
		t.Errorf("angle after disable = %v, want 0", a)
	}

	m.Unregister(3)
	if m.Len() != 1 || m.Controller(3) != nil || m.Controller(7) == nil {
		t.Errorf("unregister left len=%d", m.Len())
	}
}
