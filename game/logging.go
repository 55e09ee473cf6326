package game

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/pthm-cable/tendroids/config"
)

// LogOptions selects where logs go.
type LogOptions struct {
	Level string // overrides logging.level when set
	File  string // rotated log file, empty logs to stdout only
}

// SetupLogging installs a JSON slog handler as the default logger. With a
// file set, output also goes to a lumberjack-rotated file. The returned
// closer releases the file and is never nil.
func SetupLogging(cfg config.LoggingConfig, opts LogOptions) (io.Closer, error) {
	levelName := cfg.Level
	if opts.Level != "" {
		levelName = opts.Level
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(levelName)); err != nil {
		return nil, fmt.Errorf("parsing log level: %w", err)
	}

	var w io.Writer = os.Stdout
	var closer io.Closer = nopCloser{}
	if opts.File != "" {
		rotated := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress,
		}
		w = io.MultiWriter(os.Stdout, rotated)
		closer = rotated
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})))
	return closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// LogSummary logs run totals.
func (s *Scene) LogSummary() {
	contacts, recoveries := s.recoveries.Totals()
	pops := 0
	for _, b := range s.bubbles {
		pops += b.Pops
	}
	slog.Info("scene summary",
		"ticks", s.tick,
		"sim_time", s.time,
		"contacts", contacts,
		"recoveries", recoveries,
		"active_recoveries", len(s.recoveries.Active()),
		"tide_cycles", s.wave.Cycles(),
		"bubble_pops", pops,
		"deform_dispatches", s.batch.Stats().Dispatches,
		"perf", s.perf.Stats(),
	)
}
