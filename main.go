package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/tendroids/config"
	"github.com/pthm-cable/tendroids/game"
	"github.com/pthm-cable/tendroids/viewer"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Log frame and perf rows as they are written")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = sim.seed, -1 = time-based)")
	maxTicks := flag.Int("max-ticks", -1, "Stop after N ticks (0 = unlimited, -1 = sim.max_ticks)")
	tendroids := flag.Int("tendroids", -1, "Tendroid count (-1 = field.count)")
	serial := flag.Bool("serial", false, "Deform on one goroutine")
	logFile := flag.String("log-file", "", "Also write logs to this rotated file")
	logLevel := flag.String("log-level", "", "Log level (empty = logging.level)")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()
	if *tendroids >= 0 {
		cfg.SetFieldCount(*tendroids)
	}
	if *serial {
		cfg.Deform.Parallel = false
	}
	ticks := cfg.Sim.MaxTicks
	if *maxTicks >= 0 {
		ticks = *maxTicks
	}

	closer, err := game.SetupLogging(cfg.Logging, game.LogOptions{Level: *logLevel, File: *logFile})
	if err != nil {
		slog.Error("failed to set up logging", "error", err)
		os.Exit(1)
	}
	defer closer.Close()

	rngSeed := *seed
	if rngSeed < 0 {
		rngSeed = time.Now().UnixNano()
	}
	opts := game.Options{
		Seed:      rngSeed,
		OutputDir: *outputDir,
		LogStats:  *logStats,
	}

	if *headless {
		if err := runHeadless(cfg, opts, ticks); err != nil {
			slog.Error("headless run failed", "error", err)
			os.Exit(1)
		}
		return
	}

	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Tendroids")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	scene, err := game.NewScene(cfg, opts)
	if err != nil {
		slog.Error("failed to build scene", "error", err)
		os.Exit(1)
	}
	defer scene.Close()

	v := viewer.New(scene)
	defer v.Unload()

	for !rl.WindowShouldClose() {
		v.Update()
		v.Draw()
		if ticks > 0 && int(scene.Tick()) >= ticks {
			break
		}
	}
	scene.LogSummary()
}

// runHeadless steps the scene at the fixed dt with no window.
func runHeadless(cfg *config.Config, opts game.Options, ticks int) error {
	scene, err := game.NewScene(cfg, opts)
	if err != nil {
		return err
	}
	defer scene.Close()

	slog.Info("starting headless run",
		"seed", scene.Seed(),
		"tendroids", len(scene.Tendroids()),
		"max_ticks", ticks,
	)
	if ticks <= 0 {
		slog.Warn("no tick limit set, running until killed")
	}
	for ticks <= 0 || int(scene.Tick()) < ticks {
		scene.Step(cfg.Sim.DT)
	}
	scene.LogSummary()
	return nil
}
