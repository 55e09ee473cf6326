package animation

import (
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func calmWave() WaveConfig {
	cfg := DefaultWaveConfig()
	cfg.Turbulence = 0
	return cfg
}

func TestWaveEnergyBalance(t *testing.T) {
	w := NewWave(calmWave(), 7)
	seen := 0
	last := w.Cycles()
	for i := 0; i < 20000 && seen < 10; i++ {
		c := w.Cycle()
		if got, want := c.EbbForce*c.EbbDuration, c.ShoreForce*c.ShoreDuration; math.Abs(got-want) > 1e-9 {
			t.Fatalf("cycle %d: ebb energy %v, shore energy %v", w.Cycles(), got, want)
		}
		ratio := c.EbbForce / c.ShoreForce
		if ratio < 0.4 || ratio > 0.6 {
			t.Fatalf("ebb ratio %v outside [0.4, 0.6]", ratio)
		}
		if c.ShoreForce < 0.8 || c.ShoreForce > 1.2 {
			t.Fatalf("shore force %v outside range", c.ShoreForce)
		}
		w.Update(1.0 / 30)
		if w.Cycles() != last {
			last = w.Cycles()
			seen++
		}
	}
	if seen < 10 {
		t.Errorf("only %d cycles completed", seen)
	}
}

func TestWavePhaseOrder(t *testing.T) {
	w := NewWave(calmWave(), 3)
	order := []TidePhase{w.Phase()}
	for i := 0; i < 5000 && len(order) < 7; i++ {
		w.Update(1.0 / 60)
		if p := w.Phase(); p != order[len(order)-1] {
			order = append(order, p)
		}
		switch w.Phase() {
		case TideShoreSurge:
			if w.Displacement() > 0 {
				t.Fatalf("shore surge displacement %v should be <= 0", w.Displacement())
			}
		case TideEbb:
			if w.Displacement() < 0 {
				t.Fatalf("ebb displacement %v should be >= 0", w.Displacement())
			}
		}
	}
	want := []TidePhase{TideShoreSurge, TideRest, TideEbb, TideShoreSurge, TideRest, TideEbb, TideShoreSurge}
	if len(order) != len(want) {
		t.Fatalf("phases = %v", order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("phase %d = %v, want %v", i, order[i], want[i])
		}
	}
}

func TestWaveOffset(t *testing.T) {
	w := NewWave(calmWave(), 1)
	for i := 0; i < 20; i++ {
		w.Update(1.0 / 30)
	}
	d := w.Displacement()
	if d == 0 {
		t.Fatal("no displacement after 20 frames of surge")
	}

	dir := r3.Unit(r3.Vec{X: 1, Z: 0.3})
	dx, dz := w.Offset(0, 0)
	amp := calmWave().Amplitude
	if math.Abs(dx-d*amp*dir.X) > 1e-12 || math.Abs(dz-d*amp*dir.Z) > 1e-12 {
		t.Errorf("Offset(0,0) = (%v, %v), want (%v, %v)", dx, dz, d*amp*dir.X, d*amp*dir.Z)
	}

	// spatial variation is bounded by 15%
	x, z := 300.0, 100.0
	dx2, _ := w.Offset(x, z)
	want := dx * (1 + math.Sin(x*0.003+z*0.002)*0.15)
	if math.Abs(dx2-want) > 1e-12 {
		t.Errorf("Offset(%v,%v) dx = %v, want %v", x, z, dx2, want)
	}

	w.Enabled = false
	if dx, dz := w.Offset(0, 0); dx != 0 || dz != 0 {
		t.Errorf("disabled offset = (%v, %v)", dx, dz)
	}
	before := w.State()
	w.Update(1)
	if w.State() != before {
		t.Error("disabled wave advanced")
	}
}

func TestWaveSeedDeterministic(t *testing.T) {
	a := NewWave(DefaultWaveConfig(), 99)
	b := NewWave(DefaultWaveConfig(), 99)
	for i := 0; i < 500; i++ {
		a.Update(1.0 / 60)
		b.Update(1.0 / 60)
	}
	ax, az := a.Offset(1.5, -2)
	bx, bz := b.Offset(1.5, -2)
	if ax != bx || az != bz {
		t.Errorf("same seed diverged: (%v,%v) vs (%v,%v)", ax, az, bx, bz)
	}
}

func TestSegmentFactor(t *testing.T) {
	w := NewWave(calmWave(), 1)
	tests := []struct {
		h, want float64
	}{
		{-1, 0},
		{0, 0},
		{0.5, 0.5},
		{1, 1},
		{2, 1},
	}
	for _, tt := range tests {
		if got := w.SegmentFactor(tt.h); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("SegmentFactor(%v) = %v, want %v", tt.h, got, tt.want)
		}
	}
}

func TestBubbleLifecycleOrder(t *testing.T) {
	b := NewBubble(0.05, 1.0, 0.8, DefaultBubbleConfig(), rand.New(rand.NewSource(5)))
	if b.Phase() != BubbleRising {
		t.Fatalf("new bubble phase = %v", b.Phase())
	}

	order := []BubblePhase{b.Phase()}
	lastR := b.Radius()
	for i := 0; i < 100000 && b.Spawns < 2; i++ {
		p := b.Update(1.0/60, 0.01, 0)
		if p == BubbleRising && order[len(order)-1] == BubbleRising {
			if b.Radius() < lastR-1e-12 {
				t.Fatalf("radius shrank while rising: %v -> %v", lastR, b.Radius())
			}
			lastR = b.Radius()
		}
		if p == BubbleReleased && order[len(order)-1] == BubbleExiting {
			if _, y, _ := b.Position(); y-b.Radius() < 1.0 {
				t.Errorf("released at y=%v before the bubble cleared the mouth", y)
			}
		}
		if p != order[len(order)-1] {
			order = append(order, p)
		}
	}

	want := []BubblePhase{BubbleRising, BubbleExiting, BubbleReleased, BubblePopped, BubbleIdle, BubbleRising}
	if len(order) != len(want) {
		t.Fatalf("phases = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("phase %d = %v, want %v", i, order[i], want[i])
		}
	}
	if b.Pops != 1 || b.Spawns != 2 {
		t.Errorf("pops = %d spawns = %d", b.Pops, b.Spawns)
	}
}

func TestBubbleDeformState(t *testing.T) {
	const radius, length, amp = 0.05, 1.0, 0.8
	cfg := DefaultBubbleConfig()
	b := NewBubble(radius, length, amp, cfg, rand.New(rand.NewSource(1)))

	for b.Y() < length*cfg.MaxDiameterPct {
		b.Update(1.0/60, 0, 0)
	}
	_, r := b.DeformState()
	want := radius * (1 + amp) * cfg.DiameterMultiplier
	if math.Abs(r-want) > 1e-12 {
		t.Errorf("full grown bulge radius = %v, want %v", r, want)
	}

	for b.Phase() != BubbleReleased {
		b.Update(1.0/60, 0, 0)
	}
	if _, r := b.DeformState(); r != radius {
		t.Errorf("released bubble radius = %v, want the no-bubble sentinel %v", r, radius)
	}
	if !b.Visible() {
		t.Error("released bubble should be visible")
	}
}

func TestBubbleNoRespawn(t *testing.T) {
	cfg := DefaultBubbleConfig()
	cfg.AutoRespawn = false
	b := NewBubble(0.05, 1.0, 0.8, cfg, rand.New(rand.NewSource(2)))
	for i := 0; i < 100000; i++ {
		b.Update(1.0/60, 0, 0)
	}
	if b.Phase() != BubbleIdle || b.Spawns != 1 {
		t.Errorf("phase = %v spawns = %d", b.Phase(), b.Spawns)
	}
	b.Reset()
	if b.Phase() != BubbleRising || b.Spawns != 2 {
		t.Errorf("after reset phase = %v spawns = %d", b.Phase(), b.Spawns)
	}
}
