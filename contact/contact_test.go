package contact

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

const tol = 1e-9

func TestSurfaceTrackerLifecycle(t *testing.T) {
	tr := NewSurfaceTracker()
	if tr.Phase() != PhaseInactive || tr.Progress() != 0 {
		t.Fatalf("new tracker phase=%v progress=%v", tr.Phase(), tr.Progress())
	}

	contactPt := r3.Vec{X: 0.1, Y: 0.5}
	normal := r3.Vec{X: 1}
	tr.Start(contactPt, normal, r3.Vec{X: 0.12, Y: 0.5}, 0.15, 0.02)

	st := tr.Status()
	if st.Phase != PhaseTracking || math.Abs(st.Current-0.02) > tol || st.UpdateCount != 1 {
		t.Fatalf("after Start: %+v", st)
	}
	if got := tr.Surface().Rest; r3.Norm(r3.Sub(got, r3.Vec{X: 0.12, Y: 0.5})) > tol {
		t.Errorf("rest = %v, want contact + normal*0.02", got)
	}

	// surface moves toward the creature while recovering
	surf := r3.Vec{X: 0.11, Y: 0.5}
	if ph := tr.Update(r3.Vec{X: 0.2, Y: 0.5}, &surf); ph != PhaseTracking {
		t.Errorf("phase at 0.09 = %v, want tracking", ph)
	}
	if math.Abs(tr.Status().Current-0.09) > tol {
		t.Errorf("distance = %v, want measured from current surface 0.09", tr.Status().Current)
	}
	if p := tr.Progress(); p <= 0 || p >= 1 {
		t.Errorf("progress mid-recovery = %v", p)
	}

	if ph := tr.Update(r3.Vec{X: 0.3, Y: 0.5}, nil); ph != PhaseThresholdCrossed {
		t.Errorf("phase at 0.19 = %v, want threshold_crossed", ph)
	}
	if !tr.Crossed() {
		t.Error("Crossed() = false after crossing")
	}

	tr.Complete()
	if tr.Status().RecoveryCount != 1 || tr.Progress() != 1 {
		t.Errorf("after Complete: %+v", tr.Status())
	}

	tr.Reset()
	if tr.Phase() != PhaseInactive || tr.Status().RecoveryCount != 1 {
		t.Errorf("after Reset: %+v", tr.Status())
	}
	if tr.Update(r3.Vec{}, nil) != PhaseInactive {
		t.Error("inactive tracker should ignore updates")
	}
}

func TestSignedDistance(t *testing.T) {
	tr := NewSurfaceTracker()
	tr.Start(r3.Vec{X: 1}, r3.Vec{X: 1}, r3.Vec{X: 1.5}, 0.15, 0)
	if got := tr.SignedDistance(r3.Vec{X: 1.5, Y: 3}); math.Abs(got-0.5) > tol {
		t.Errorf("outside signed distance = %v, want 0.5", got)
	}
	if got := tr.SignedDistance(r3.Vec{X: 0.8}); got >= 0 {
		t.Errorf("inside signed distance = %v, want negative", got)
	}
}

func TestEasing(t *testing.T) {
	tests := []struct {
		e    Easing
		p    float64
		want float64
	}{
		{EaseLinear, 0.3, 0.3},
		{EaseIn, 0.5, 0.25},
		{EaseOut, 0.5, 0.75},
		{EaseInOut, 0.25, 0.125},
		{EaseInOut, 0.75, 0.875},
		{EaseIn, 1.5, 1},
		{EaseOut, -1, 0},
	}
	for _, tt := range tests {
		if got := tt.e.Apply(tt.p); math.Abs(got-tt.want) > tol {
			t.Errorf("easing %d Apply(%v) = %v, want %v", tt.e, tt.p, got, tt.want)
		}
	}
}

func TestColorEffectTimeFade(t *testing.T) {
	cfg := DefaultColorConfig()
	c := NewColorEffect(cfg)
	if !c.IsNormal() || c.Color() != cfg.Normal {
		t.Fatal("new effect should be normal")
	}

	c.TriggerShock()
	if c.State() != ColorShocked || c.ShockCount != 1 || c.Color() != cfg.Shock {
		t.Fatalf("after shock: state=%v count=%d", c.State(), c.ShockCount)
	}

	// shocked holds until recovery begins
	if c.Advance(10, 0, 0) {
		t.Error("shocked effect advanced without BeginRecovery")
	}

	c.BeginRecovery()
	c.Advance(0.25, 0, 0)
	if c.State() != ColorRecovering || math.Abs(c.Progress()-0.5) > tol {
		t.Fatalf("half way: state=%v progress=%v", c.State(), c.Progress())
	}
	mid := c.Color()
	want := cfg.Shock.BlendRgb(cfg.Normal, 0.5)
	if math.Abs(mid.R-want.R) > tol || math.Abs(mid.G-want.G) > tol || math.Abs(mid.B-want.B) > tol {
		t.Errorf("mid color = %v, want %v", mid, want)
	}

	if !c.Advance(0.25, 0, 0) {
		t.Error("fade did not complete after recovery_duration")
	}
	if c.Color() != cfg.Normal {
		t.Error("completed fade is not the normal color")
	}
}

func TestColorEffectModes(t *testing.T) {
	tests := []struct {
		name     string
		mode     FadeMode
		distance float64
		speed    float64
		want     float64
	}{
		{"distance before start", FadeDistance, 0.05, 0, 0},
		{"distance midway", FadeDistance, 0.175, 0, 0.5},
		{"distance past end", FadeDistance, 1, 0, 1},
		{"speed fast", FadeSpeed, 0, 5, 0},
		{"speed midway", FadeSpeed, 0, 1.1, 0.5},
		{"speed slow", FadeSpeed, 0, 0.1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultColorConfig()
			cfg.Mode = tt.mode
			c := NewColorEffect(cfg)
			c.TriggerShock()
			c.BeginRecovery()
			c.Advance(0.016, tt.distance, tt.speed)
			if math.Abs(c.Progress()-tt.want) > 1e-6 {
				t.Errorf("progress = %v, want %v", c.Progress(), tt.want)
			}
		})
	}
}

func TestColorProgressNeverRegresses(t *testing.T) {
	cfg := DefaultColorConfig()
	cfg.Mode = FadeDistance
	c := NewColorEffect(cfg)
	c.TriggerShock()
	c.BeginRecovery()
	c.Advance(0.016, 0.2, 0)
	before := c.Progress()
	c.Advance(0.016, 0.12, 0)
	if c.Progress() < before {
		t.Errorf("progress went from %v to %v", before, c.Progress())
	}
}

func TestVelocityFadeModes(t *testing.T) {
	modes := []VelocityMode{VelocityTime, VelocityDistance, VelocityHybrid}
	for _, mode := range modes {
		t.Run(mode.String(), func(t *testing.T) {
			cfg := DefaultVelocityConfig()
			cfg.Mode = mode
			f := NewVelocityFade(cfg)
			f.Start(r3.Vec{X: 1.6})

			prev := f.Speed()
			for i := 0; i < 20000 && !f.Stopped(); i++ {
				f.Advance(1.0 / 60)
				if f.Speed() > prev+tol {
					t.Fatalf("speed increased from %v to %v", prev, f.Speed())
				}
				prev = f.Speed()
			}
			if !f.Stopped() || f.Speed() != 0 {
				t.Errorf("fade never stopped, speed %v", f.Speed())
			}
			if f.Progress() != 1 {
				t.Errorf("progress when stopped = %v", f.Progress())
			}
		})
	}
}

func TestVelocityHybridIsFastest(t *testing.T) {
	run := func(mode VelocityMode) float64 {
		cfg := DefaultVelocityConfig()
		cfg.Mode = mode
		f := NewVelocityFade(cfg)
		f.Start(r3.Vec{Z: 2})
		for i := 0; i < 10; i++ {
			f.Advance(1.0 / 60)
		}
		return f.Speed()
	}
	hybrid := run(VelocityHybrid)
	if hybrid > run(VelocityTime)+tol || hybrid > run(VelocityDistance)+tol {
		t.Errorf("hybrid speed %v exceeds a single mode", hybrid)
	}
}

func TestVelocityDrag(t *testing.T) {
	cfg := DefaultVelocityConfig()
	plain := NewVelocityFade(cfg)
	cfg.Drag = 5
	dragged := NewVelocityFade(cfg)

	plain.Start(r3.Vec{X: 1})
	dragged.Start(r3.Vec{X: 1})
	plain.Advance(0.1)
	dragged.Advance(0.1)
	if math.Abs(dragged.Speed()-plain.Speed()*0.5) > 1e-6 {
		t.Errorf("dragged speed = %v, want half of %v", dragged.Speed(), plain.Speed())
	}
}

func TestFromForce(t *testing.T) {
	v, err := FromForce(r3.Vec{X: 100}, 2, 0.016)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(v.X-0.8) > tol {
		t.Errorf("v = %v, want 0.8", v.X)
	}
	for _, m := range []float64{0, -1} {
		if _, err := FromForce(r3.Vec{X: 1}, m, 0.016); !errors.Is(err, ErrInvalidMass) {
			t.Errorf("mass %v: err = %v, want ErrInvalidMass", m, err)
		}
	}
}

func TestDisplacement(t *testing.T) {
	f := NewVelocityFade(DefaultVelocityConfig())
	f.Start(r3.Vec{X: 1, Z: -2})
	d := f.Displacement(0.5)
	if math.Abs(d.X-0.5) > tol || math.Abs(d.Z+1) > tol {
		t.Errorf("displacement = %v", d)
	}
	f.Reset()
	if f.Displacement(1) != (r3.Vec{}) || !f.Stopped() {
		t.Error("reset fade should not move")
	}
}

func TestInputLock(t *testing.T) {
	var l InputLock
	if l.IsLocked() || l.Reason() != LockNone {
		t.Fatal("zero lock should be unlocked")
	}

	l.SetReason(LockRepelling)
	if l.Reason() != LockNone {
		t.Error("SetReason changed an unlocked lock")
	}

	l.Lock(LockContact)
	l.Lock(LockContact)
	if l.LockCount != 1 {
		t.Errorf("lock count = %d, want 1 for a held lock", l.LockCount)
	}
	l.SetReason(LockRepelling)
	if l.Reason() != LockRepelling {
		t.Errorf("reason = %v", l.Reason())
	}

	l.Unlock()
	if l.IsLocked() || l.Reason() != LockNone {
		t.Error("Unlock left the lock engaged")
	}

	l.SyncColor(ColorShocked)
	if l.Reason() != LockContact || l.LockCount != 2 {
		t.Errorf("sync shocked: reason=%v count=%d", l.Reason(), l.LockCount)
	}
	l.SyncColor(ColorShocked)
	if l.Reason() != LockRepelling {
		t.Errorf("second sync shocked: reason=%v", l.Reason())
	}
	l.SyncColor(ColorRecovering)
	if l.Reason() != LockRecovering {
		t.Errorf("sync recovering: reason=%v", l.Reason())
	}
	l.SyncColor(ColorNormal)
	if l.IsLocked() {
		t.Error("sync normal left input locked")
	}
}

func TestRepulsion(t *testing.T) {
	cfg := DefaultRepulsionConfig()

	tests := []struct {
		name        string
		penetration float64
		speed       float64
		want        float64
	}{
		{"base only", 0, 0, 100},
		{"penetration adds", 5, 0, 110},
		{"speed adds", 0, 20, 110},
		{"negative ignored", -3, -3, 100},
		{"clamped", 300, 0, 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Force(r3.Vec{Z: 1}, tt.penetration, tt.speed, cfg)
			if math.Abs(f.Z-tt.want) > tol || f.X != 0 {
				t.Errorf("force = %v, want (0,0,%v)", f, tt.want)
			}
		})
	}

	cfg.BaseForce = 1
	if f := Force(r3.Vec{X: 1}, 0, 0, cfg); math.Abs(f.X-cfg.MinForce) > tol {
		t.Errorf("weak force = %v, want min %v", f.X, cfg.MinForce)
	}
}

func TestSurfaceNormalAndCorrection(t *testing.T) {
	n, pen := SurfaceNormal(r3.Vec{X: 3, Y: 7, Z: 4}, r3.Vec{}, 6)
	if math.Abs(n.X-0.6) > tol || math.Abs(n.Z-0.8) > tol || n.Y != 0 {
		t.Errorf("normal = %v", n)
	}
	if math.Abs(pen-1) > tol {
		t.Errorf("penetration = %v, want 1", pen)
	}

	n, pen = SurfaceNormal(r3.Vec{Y: 2}, r3.Vec{}, 0.1)
	if n != (r3.Vec{X: 1}) || pen != 0.1 {
		t.Errorf("on-axis normal = %v pen = %v", n, pen)
	}

	c := CorrectedPosition(r3.Vec{X: 0.05, Y: 0.4}, r3.Vec{}, 0.1, 0.01)
	if math.Abs(c.X-0.11) > tol || c.Y != 0.4 || c.Z != 0 {
		t.Errorf("corrected = %v", c)
	}

	r := Repel(r3.Vec{X: 0.05}, r3.Vec{}, 0.1, 0, DefaultRepulsionConfig())
	if math.Abs(r.Penetration-0.05) > tol || r.Magnitude < 100 {
		t.Errorf("repel = %+v", r)
	}
}

func TestExtract(t *testing.T) {
	creature := Actor{Kind: ActorCreature, ID: 1}
	tendroid := Actor{Kind: ActorTendroid, ID: 9}
	other := Actor{Kind: ActorOther, ID: 4}
	n := r3.Vec{X: 1}

	ev, ok := Extract(creature, tendroid, r3.Vec{}, n, 2, -0.01)
	if !ok || ev.Creature != 1 || ev.Tendroid != 9 || ev.Normal != n {
		t.Errorf("creature first: %+v ok=%v", ev, ok)
	}

	ev, ok = Extract(tendroid, creature, r3.Vec{}, n, 2, -0.01)
	if !ok || ev.Creature != 1 || ev.Tendroid != 9 || ev.Normal != (r3.Vec{X: -1}) {
		t.Errorf("tendroid first: %+v ok=%v", ev, ok)
	}

	for _, pair := range [][2]Actor{{creature, other}, {tendroid, tendroid}, {creature, creature}} {
		if _, ok := Extract(pair[0], pair[1], r3.Vec{}, n, 0, 0); ok {
			t.Errorf("pair %v accepted", pair)
		}
	}
}

func TestParseModes(t *testing.T) {
	if m, err := ParseFadeMode("distance"); err != nil || m != FadeDistance {
		t.Errorf("ParseFadeMode = %v, %v", m, err)
	}
	if _, err := ParseFadeMode("volume"); err == nil {
		t.Error("unknown fade mode accepted")
	}
	if m, err := ParseVelocityMode("TIME"); err != nil || m != VelocityTime {
		t.Errorf("ParseVelocityMode = %v, %v", m, err)
	}
	if e, err := ParseEasing("ease_in_out"); err != nil || e != EaseInOut {
		t.Errorf("ParseEasing = %v, %v", e, err)
	}
}
