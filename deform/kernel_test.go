package deform

import (
	"math"
	"math/rand"
	"testing"
)

func testParams() Params {
	return Rest(10, 0.8, 0.9)
}

func TestHeightFactor(t *testing.T) {
	tests := []struct {
		name   string
		y      float32
		length float32
		want   float32
	}{
		{"base", 0, 100, 0},
		{"tip", 100, 100, 1},
		{"middle", 50, 100, 0.5},
		{"quarter", 25, 100, 0.15625},
		{"below base clamps", -5, 100, 0},
		{"above tip clamps", 150, 100, 1},
		{"zero length", 50, 0, 0},
		{"negative length", 50, -1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HeightFactor(tt.y, tt.length)
			if math.Abs(float64(got-tt.want)) > 1e-6 {
				t.Errorf("HeightFactor(%v, %v) = %v, want %v", tt.y, tt.length, got, tt.want)
			}
		})
	}
}

// TestDeformIdentity checks that no-op parameters reproduce the input exactly.
func TestDeformIdentity(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	p := testParams()

	for i := 0; i < 1000; i++ {
		v := Vec3{
			X: rng.Float32()*40 - 20,
			Y: rng.Float32() * 120,
			Z: rng.Float32()*40 - 20,
		}
		h := HeightFactor(v.Y, 100)
		got := Deform(v, h, &p)
		if got != v {
			t.Fatalf("Deform(%v) = %v, want identity", v, got)
		}
	}
}

func TestBubbleScaleScenario(t *testing.T) {
	p := testParams()
	v := Vec3{X: 10, Y: 50, Z: 0}

	if got := Scale(v.Y, &p); got != 1 {
		t.Errorf("scale at bubble_radius=radius = %v, want 1", got)
	}

	p.BubbleRadius = 18
	p.BubbleY = 50
	if g := Growth(&p); math.Abs(float64(g-1)) > 1e-6 {
		t.Errorf("growth = %v, want 1", g)
	}
	got := Scale(v.Y, &p)
	if math.Abs(float64(got-1.8)) > 1e-5 {
		t.Errorf("scale = %v, want 1.8", got)
	}

	out := Deform(v, HeightFactor(v.Y, 100), &p)
	if math.Abs(float64(out.X-18)) > 1e-4 {
		t.Errorf("deformed x = %v, want 18", out.X)
	}
	if out.Y != v.Y {
		t.Errorf("deformed y = %v, want %v", out.Y, v.Y)
	}
}

// TestGrowthMonotonic checks scale never drops as the bubble inflates.
func TestGrowthMonotonic(t *testing.T) {
	p := testParams()
	p.BubbleY = 50
	maxRadius := p.Radius * (1 + p.MaxAmplitude)

	prev := float32(0)
	for i := 0; i <= 100; i++ {
		p.BubbleRadius = p.Radius + (maxRadius-p.Radius)*float32(i)/100
		s := Scale(50, &p)
		if s < prev {
			t.Fatalf("scale decreased at step %d: %v < %v", i, s, prev)
		}
		prev = s
	}
	if math.Abs(float64(prev-1.8)) > 1e-5 {
		t.Errorf("final scale = %v, want 1.8", prev)
	}
}

func TestGrowthDegenerateRange(t *testing.T) {
	p := Params{Radius: 10, MaxAmplitude: 0, BulgeWidth: 0.9, BubbleRadius: 30}
	if g := Growth(&p); g != 0 {
		t.Errorf("growth with zero range = %v, want 0", g)
	}
	if s := Scale(0, &p); s != 1 {
		t.Errorf("scale with zero range = %v, want 1", s)
	}
}

func TestScaleZeroSigma(t *testing.T) {
	p := Params{Radius: 10, MaxAmplitude: 0.8, BulgeWidth: 0, BubbleY: 20, BubbleRadius: 18}
	if s := Scale(20, &p); math.Abs(float64(s-1.8)) > 1e-6 {
		t.Errorf("scale at centre with zero sigma = %v, want 1.8", s)
	}
	if s := Scale(21, &p); s != 1 {
		t.Errorf("scale off centre with zero sigma = %v, want 1", s)
	}
}

// TestWaveScaleIndependence checks the wave offset is added after scaling.
func TestWaveScaleIndependence(t *testing.T) {
	p := testParams()
	p.BubbleY = 40
	p.BubbleRadius = 15

	v := Vec3{X: 7, Y: 45, Z: -7}
	h := HeightFactor(v.Y, 100)

	scaleBefore := Scale(v.Y, &p)
	a := Deform(v, h, &p)

	p.WaveDX = 3.5
	p.WaveDZ = -1.25
	scaleAfter := Scale(v.Y, &p)
	b := Deform(v, h, &p)

	if scaleBefore != scaleAfter {
		t.Errorf("scale changed with wave: %v vs %v", scaleBefore, scaleAfter)
	}
	if math.Abs(float64((b.X-a.X)-3.5*h)) > 1e-5 {
		t.Errorf("dx = %v, want %v", b.X-a.X, 3.5*h)
	}
	if b.Y != a.Y {
		t.Errorf("y changed with wave: %v vs %v", a.Y, b.Y)
	}
	if math.Abs(float64((b.Z-a.Z)-(-1.25*h))) > 1e-5 {
		t.Errorf("dz = %v, want %v", b.Z-a.Z, -1.25*h)
	}
}

func TestBend(t *testing.T) {
	tests := []struct {
		name   string
		p      Vec3
		h      float32
		angle  float32
		ax, az float32
		want   Vec3
	}{
		{"no angle", Vec3{1, 10, 0}, 1, 0, 1, 0, Vec3{1, 10, 0}},
		{"anchored base", Vec3{1, 0, 0}, 0, 0.5, 1, 0, Vec3{1, 0, 0}},
		{"degenerate axis", Vec3{1, 10, 0}, 1, 0.5, 0, 0, Vec3{1, 10, 0}},
		// Axis +X: perp is +Z, so a point on the Y axis tips toward -Z.
		{"quarter turn about x", Vec3{0, 10, 0}, 1, math.Pi / 2, 1, 0, Vec3{0, 0, -10}},
		// Axis +Z: perp is -X, so a point on the Y axis tips toward +X.
		{"quarter turn about z", Vec3{0, 10, 0}, 1, math.Pi / 2, 0, 1, Vec3{10, 0, 0}},
		{"unnormalized axis", Vec3{0, 10, 0}, 1, math.Pi / 2, 0, 4, Vec3{10, 0, 0}},
		{"point on axis unchanged", Vec3{5, 0, 0}, 1, 0.7, 1, 0, Vec3{5, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Bend(tt.p, tt.h, tt.angle, tt.ax, tt.az)
			if math.Abs(float64(got.X-tt.want.X)) > 1e-4 ||
				math.Abs(float64(got.Y-tt.want.Y)) > 1e-4 ||
				math.Abs(float64(got.Z-tt.want.Z)) > 1e-4 {
				t.Errorf("Bend(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

// TestBendPreservesLength checks rotation keeps distance from the origin.
func TestBendPreservesLength(t *testing.T) {
	v := Vec3{X: 3, Y: 40, Z: -2}
	got := Bend(v, 0.8, 0.4, 0.6, 0.8)
	before := math.Sqrt(float64(v.X*v.X + v.Y*v.Y + v.Z*v.Z))
	after := math.Sqrt(float64(got.X*got.X + got.Y*got.Y + got.Z*got.Z))
	if math.Abs(before-after) > 1e-3 {
		t.Errorf("length changed: %v -> %v", before, after)
	}
}

// TestBulgeUsesOriginalHeight checks the gaussian is evaluated at the
// pre-bend height even when bending moves the vertex.
func TestBulgeUsesOriginalHeight(t *testing.T) {
	p := testParams()
	p.BubbleY = 50
	p.BubbleRadius = 18
	p.BendAngle = 0.6
	p.BendAxisX = 1

	v := Vec3{X: 10, Y: 50, Z: 0}
	h := HeightFactor(v.Y, 100)
	got := Deform(v, h, &p)

	bent := Bend(v, h, p.BendAngle, p.BendAxisX, p.BendAxisZ)
	want := Vec3{X: bent.X * 1.8, Y: bent.Y, Z: bent.Z * 1.8}
	if math.Abs(float64(got.X-want.X)) > 1e-4 ||
		math.Abs(float64(got.Y-want.Y)) > 1e-4 ||
		math.Abs(float64(got.Z-want.Z)) > 1e-4 {
		t.Errorf("Deform = %v, want %v", got, want)
	}
}

func TestNewCylinder(t *testing.T) {
	m := NewCylinder(6, 100, 16, 10)
	if len(m.Vertices) != 16*11 {
		t.Fatalf("vertex count = %d, want %d", len(m.Vertices), 16*11)
	}
	if len(m.Indices) != 10*16*6 {
		t.Errorf("index count = %d, want %d", len(m.Indices), 10*16*6)
	}
	for i, v := range m.Vertices {
		r := math.Sqrt(float64(v.X*v.X + v.Z*v.Z))
		if math.Abs(r-6) > 1e-4 {
			t.Fatalf("vertex %d radius = %v, want 6", i, r)
		}
	}
	if top := m.Vertices[len(m.Vertices)-1].Y; math.Abs(float64(top-100)) > 1e-4 {
		t.Errorf("top ring y = %v, want 100", top)
	}
}
