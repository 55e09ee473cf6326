package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/tendroids/deflection"
	"github.com/pthm-cable/tendroids/proximity"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load defaults: %v", err)
	}

	if cfg.Approach.ApproachParameters != proximity.DefaultParameters() {
		t.Errorf("approach = %+v, want %+v", cfg.Approach.ApproachParameters, proximity.DefaultParameters())
	}
	if cfg.Deflection.Config != deflection.DefaultConfig() {
		t.Errorf("deflection = %+v, want %+v", cfg.Deflection.Config, deflection.DefaultConfig())
	}
	if cfg.Field.Count != 16 || cfg.Derived.FieldSide != 4 {
		t.Errorf("field count %d side %d", cfg.Field.Count, cfg.Derived.FieldSide)
	}
	if math.Abs(cfg.Derived.FieldExtent-1.2) > 1e-9 {
		t.Errorf("field extent = %v", cfg.Derived.FieldExtent)
	}
	if cfg.Derived.DT32 != float32(cfg.Sim.DT) {
		t.Errorf("DT32 = %v", cfg.Derived.DT32)
	}
	if cfg.Color.RecoveryDuration != 0.5 || cfg.Color.FadeMode != "time" {
		t.Errorf("color = %+v", cfg.Color)
	}
}

func TestLoadOverridesMerge(t *testing.T) {
	path := writeFile(t, "field:\n  count: 9\nwave:\n  amplitude: 0.2\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Field.Count != 9 || cfg.Derived.FieldSide != 3 {
		t.Errorf("count %d side %d", cfg.Field.Count, cfg.Derived.FieldSide)
	}
	if cfg.Wave.Amplitude != 0.2 {
		t.Errorf("amplitude = %v", cfg.Wave.Amplitude)
	}
	if cfg.Field.Spacing != 0.6 {
		t.Errorf("unrelated default lost: spacing = %v", cfg.Field.Spacing)
	}
}

func TestLoadRejectsThresholdOrdering(t *testing.T) {
	path := writeFile(t, "approach:\n  minimum: 0.3\n  warning: 0.25\n")
	_, err := Load(path)
	if !errors.Is(err, proximity.ErrInvalidThresholds) {
		t.Fatalf("err = %v, want ErrInvalidThresholds", err)
	}
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name string
		body string
		want error
	}{
		{"deflection limits", "deflection:\n  max_deflection: 0.01\n", deflection.ErrInvalidConfig},
		{"zero dt", "sim:\n  dt: 0\n", ErrInvalid},
		{"zero mass", "creature:\n  mass: 0\n", ErrInvalid},
		{"unknown preset", "approach:\n  preset: huge\n", ErrInvalid},
		{"radius range", "field:\n  radius_min: 0.1\n  radius_max: 0.05\n", ErrInvalid},
		{"negative approach scale", "approach:\n  scale: -2\n", ErrInvalid},
		{"no surface relax", "recovery:\n  surface_relax: 0\n", ErrInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.body))
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestPresetsApply(t *testing.T) {
	path := writeFile(t, "approach:\n  preset: sensitive\ndeflection:\n  preset: subtle\n  enable_pass_by: false\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	want, _ := proximity.Preset("sensitive")
	if cfg.Approach.ApproachParameters != want {
		t.Errorf("approach = %+v, want %+v", cfg.Approach.ApproachParameters, want)
	}
	subtle, _ := deflection.Preset("subtle")
	if cfg.Deflection.MaxDeflection != subtle.MaxDeflection {
		t.Errorf("max deflection = %v, want %v", cfg.Deflection.MaxDeflection, subtle.MaxDeflection)
	}
	if cfg.Deflection.EnablePassBy {
		t.Error("preset overwrote the pass-by toggle")
	}
}

func TestApproachScale(t *testing.T) {
	cfg, err := Load(writeFile(t, "approach:\n  preset: sensitive\n  scale: 10\n"))
	if err != nil {
		t.Fatal(err)
	}
	base, _ := proximity.Preset("sensitive")
	want := base.Scaled(10)
	if cfg.Approach.ApproachParameters != want {
		t.Errorf("approach = %+v, want %+v", cfg.Approach.ApproachParameters, want)
	}
	if cfg.Approach.Scale != 1 || cfg.Approach.Preset != "" {
		t.Errorf("scale %v preset %q left after applying", cfg.Approach.Scale, cfg.Approach.Preset)
	}

	// a snapshot must not scale twice
	path := filepath.Join(t.TempDir(), "scaled.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatal(err)
	}
	back, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if back.Approach.ApproachParameters != want {
		t.Errorf("reloaded approach = %+v, want %+v", back.Approach.ApproachParameters, want)
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg := Defaults()
	cfg.Field.Count = 25
	path := filepath.Join(t.TempDir(), "snapshot.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatal(err)
	}
	back, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if back.Field.Count != 25 || back.Derived.FieldSide != 5 {
		t.Errorf("snapshot count %d side %d", back.Field.Count, back.Derived.FieldSide)
	}
}

func TestCfgPanicsBeforeInit(t *testing.T) {
	saved := global
	global = nil
	defer func() {
		global = saved
		if recover() == nil {
			t.Error("Cfg() did not panic before Init")
		}
	}()
	Cfg()
}

func TestSetFieldCount(t *testing.T) {
	cfg := Defaults()
	cfg.SetFieldCount(10)
	if cfg.Field.Count != 10 || cfg.Derived.FieldSide != 4 {
		t.Errorf("count %d side %d", cfg.Field.Count, cfg.Derived.FieldSide)
	}
	cfg.SetFieldCount(0)
	if cfg.Derived.FieldSide != 0 || cfg.Derived.FieldExtent != 0 {
		t.Errorf("empty field side %d extent %v", cfg.Derived.FieldSide, cfg.Derived.FieldExtent)
	}
}
