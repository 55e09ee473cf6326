package telemetry

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/pthm-cable/tendroids/config"
)

// Output file names inside the run directory.
const (
	FramesFile     = "frames.csv"
	EventsFile     = "events.csv"
	RecoveriesFile = "recoveries.csv"
	PerfFile       = "perf.csv"
	ConfigFile     = "config.yaml"
)

// csvFile writes rows of one record type, emitting the header on the
// first non-empty write only.
type csvFile struct {
	f      *os.File
	header bool
}

func (c *csvFile) write(rows any, n int) error {
	if n == 0 {
		return nil
	}
	if !c.header {
		if err := gocsv.Marshal(rows, c.f); err != nil {
			return err
		}
		c.header = true
		return nil
	}
	return gocsv.MarshalWithoutHeaders(rows, c.f)
}

// OutputManager writes a run's CSV streams to a directory. A nil
// *OutputManager is valid and discards everything.
type OutputManager struct {
	dir        string
	frames     csvFile
	events     csvFile
	recoveries csvFile
	perf       csvFile
}

// NewOutputManager creates dir and the CSV files in it. It returns nil
// when dir is empty.
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}
	for _, target := range []struct {
		name string
		file *csvFile
	}{
		{FramesFile, &om.frames},
		{EventsFile, &om.events},
		{RecoveriesFile, &om.recoveries},
		{PerfFile, &om.perf},
	} {
		f, err := os.Create(filepath.Join(dir, target.name))
		if err != nil {
			om.Close()
			return nil, fmt.Errorf("creating %s: %w", target.name, err)
		}
		target.file.f = f
	}
	return om, nil
}

// WriteConfig saves the resolved configuration next to the CSVs.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, ConfigFile))
}

// WriteFrame appends a row to frames.csv.
func (om *OutputManager) WriteFrame(s FrameStats) error {
	if om == nil {
		return nil
	}
	if err := om.frames.write([]FrameStats{s}, 1); err != nil {
		return fmt.Errorf("writing frame: %w", err)
	}
	return nil
}

// WriteEvents appends rows to events.csv.
func (om *OutputManager) WriteEvents(events []Event) error {
	if om == nil {
		return nil
	}
	if err := om.events.write(events, len(events)); err != nil {
		return fmt.Errorf("writing events: %w", err)
	}
	return nil
}

// WriteRecoveries appends rows to recoveries.csv.
func (om *OutputManager) WriteRecoveries(rs []RecoveryRecord) error {
	if om == nil {
		return nil
	}
	if err := om.recoveries.write(rs, len(rs)); err != nil {
		return fmt.Errorf("writing recoveries: %w", err)
	}
	return nil
}

// WritePerf appends a row to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, windowEnd int32) error {
	if om == nil {
		return nil
	}
	if err := om.perf.write([]PerfStatsCSV{stats.ToCSV(windowEnd)}, 1); err != nil {
		return fmt.Errorf("writing perf: %w", err)
	}
	return nil
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close closes every open file and returns the first error.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}
	var firstErr error
	for _, c := range []*csvFile{&om.frames, &om.events, &om.recoveries, &om.perf} {
		if c.f == nil {
			continue
		}
		if err := c.f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		c.f = nil
	}
	return firstErr
}

var _ io.Closer = (*OutputManager)(nil)
