package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/tendroids/config"
)

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}

func TestOutputManagerHeadersOnce(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}

	for tick := int32(10); tick <= 30; tick += 10 {
		if err := om.WriteFrame(FrameStats{Tick: tick, Tendroids: 4}); err != nil {
			t.Fatal(err)
		}
	}
	if err := om.WriteEvents(nil); err != nil {
		t.Fatal(err)
	}
	if err := om.WriteEvents([]Event{{Tick: 1, Type: "contact"}, {Tick: 2, Type: "transition"}}); err != nil {
		t.Fatal(err)
	}
	if err := om.WriteEvents([]Event{{Tick: 3, Type: "bubble_pop"}}); err != nil {
		t.Fatal(err)
	}
	if err := om.WritePerf(PerfStats{}, 120); err != nil {
		t.Fatal(err)
	}
	if err := om.Close(); err != nil {
		t.Fatal(err)
	}

	frames := readLines(t, filepath.Join(dir, FramesFile))
	if len(frames) != 4 {
		t.Fatalf("frames.csv has %d lines, want header + 3", len(frames))
	}
	if !strings.HasPrefix(frames[0], "tick,sim_time,tendroids") {
		t.Errorf("frames header = %q", frames[0])
	}
	if !strings.HasPrefix(frames[3], "30,") {
		t.Errorf("last frame row = %q", frames[3])
	}

	events := readLines(t, filepath.Join(dir, EventsFile))
	if len(events) != 4 {
		t.Fatalf("events.csv has %d lines, want header + 3", len(events))
	}
	if strings.Count(strings.Join(events, "\n"), "tick,time,type") != 1 {
		t.Error("events header written more than once")
	}

	perf := readLines(t, filepath.Join(dir, PerfFile))
	if len(perf) != 2 || !strings.HasPrefix(perf[1], "120,") {
		t.Errorf("perf.csv = %q", perf)
	}

	// nothing recorded, so only the empty file exists
	info, err := os.Stat(filepath.Join(dir, RecoveriesFile))
	if err != nil || info.Size() != 0 {
		t.Errorf("recoveries.csv stat = %v, %v", info, err)
	}
}

func TestOutputManagerWriteConfig(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer om.Close()

	cfg := config.Defaults()
	if err := om.WriteConfig(cfg); err != nil {
		t.Fatal(err)
	}
	back, err := config.Load(filepath.Join(dir, ConfigFile))
	if err != nil {
		t.Fatal(err)
	}
	if back.Field.Count != cfg.Field.Count {
		t.Errorf("count = %d, want %d", back.Field.Count, cfg.Field.Count)
	}
}

func TestNilOutputManager(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("NewOutputManager(\"\") = %v, %v", om, err)
	}
	if err := om.WriteFrame(FrameStats{}); err != nil {
		t.Error(err)
	}
	if err := om.WriteConfig(nil); err != nil {
		t.Error(err)
	}
	if om.Dir() != "" || om.Close() != nil {
		t.Error("nil manager should be inert")
	}
}
