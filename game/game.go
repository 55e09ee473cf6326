// Package game assembles the tendroid scene: an ark world of tendroids and
// a creature, driven each frame through wave, bubble, proximity, contact,
// recovery, deflection and deformation phases.
package game

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/tendroids/animation"
	"github.com/pthm-cable/tendroids/components"
	"github.com/pthm-cable/tendroids/config"
	"github.com/pthm-cable/tendroids/deflection"
	"github.com/pthm-cable/tendroids/deform"
	"github.com/pthm-cable/tendroids/proximity"
	"github.com/pthm-cable/tendroids/recovery"
	"github.com/pthm-cable/tendroids/telemetry"
)

// CreatureID is the id of the scene's single creature in the proximity
// and recovery trackers.
const CreatureID = 0

// recentEvents is how many events the scene keeps for overlays.
const recentEvents = 8

// Tendroid describes one tendroid of the field.
type Tendroid struct {
	ID     int
	Name   string
	Entity ecs.Entity
	Root   r3.Vec // base position, Y is the floor
	Radius float64
	Length float64
	Mesh   deform.CylinderMesh // rest geometry, shared with the deformer
}

// Scene owns the world and every per-frame system.
type Scene struct {
	cfg   *config.Config
	world *ecs.World
	rng   *rand.Rand
	seed  int64

	tendroidMap *ecs.Map8[
		components.Tendroid,
		components.Transform,
		components.Mesh,
		components.Name,
		components.Bubble,
		components.Wave,
		components.Bend,
		components.Proximity,
	]
	creatureMap *ecs.Map4[
		components.Creature,
		components.Transform,
		components.Velocity,
		components.Tint,
	]
	waveFilter   *ecs.Filter3[components.Tendroid, components.Transform, components.Wave]
	bubbleFilter *ecs.Filter3[components.Tendroid, components.Wave, components.Bubble]
	deformFilter *ecs.Filter4[components.Tendroid, components.Bubble, components.Wave, components.Bend]

	bendMap *ecs.Map[components.Bend]
	proxMap *ecs.Map[components.Proximity]

	tendroids []Tendroid
	bubbles   []*animation.Bubble // by tendroid id, nil when bubbles are off
	creature  ecs.Entity
	maxRadius float64

	wave       *animation.Wave
	batch      *deform.Batch
	sink       deform.MeshSink
	grid       *proximity.Grid
	proximity  *proximity.Manager
	deflection *deflection.Manager
	recoveries *recovery.Registry
	repulsion  repulsionParams

	pilot     autopilot
	autopilot bool
	input     r3.Vec

	// Per-frame scratch
	neighbors   []proximity.Neighbor
	visited     []bool
	overlapping []bool
	bends       []deflection.Bend
	states      []deform.EntityState
	out         []deform.Vec3
	samples     []float64
	nearest     float64

	collector *telemetry.Collector
	perf      *telemetry.PerfCollector
	output    *telemetry.OutputManager
	logStats  bool
	recent    []telemetry.Event

	tick    int32
	time    float64
	written int
}

// NewScene builds the field and creature described by cfg.
func NewScene(cfg *config.Config, opts Options) (*Scene, error) {
	recCfg, err := recoveryConfig(cfg)
	if err != nil {
		return nil, err
	}
	registry, err := recovery.NewRegistry(recCfg)
	if err != nil {
		return nil, fmt.Errorf("creating recovery registry: %w", err)
	}
	prox, err := proximity.NewManager(cfg.Approach.ApproachParameters)
	if err != nil {
		return nil, err
	}
	defl, err := deflection.NewManager(cfg.Deflection.Config)
	if err != nil {
		return nil, fmt.Errorf("creating deflection manager: %w", err)
	}
	defl.SetEnabled(cfg.Deflection.Active)

	seed := opts.Seed
	if seed == 0 {
		seed = cfg.Sim.Seed
	}

	exec := opts.Executor
	if exec == nil {
		if cfg.Deform.Parallel {
			exec = deform.NewParallel(cfg.Deform.Workers, cfg.Deform.ParallelThreshold)
		} else {
			exec = deform.Serial{}
		}
	}

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	if err := output.WriteConfig(cfg); err != nil {
		output.Close()
		return nil, err
	}

	world := ecs.NewWorld()
	s := &Scene{
		cfg:   cfg,
		world: world,
		rng:   rand.New(rand.NewSource(seed)),
		seed:  seed,
		tendroidMap: ecs.NewMap8[
			components.Tendroid,
			components.Transform,
			components.Mesh,
			components.Name,
			components.Bubble,
			components.Wave,
			components.Bend,
			components.Proximity,
		](world),
		creatureMap: ecs.NewMap4[
			components.Creature,
			components.Transform,
			components.Velocity,
			components.Tint,
		](world),
		waveFilter:   ecs.NewFilter3[components.Tendroid, components.Transform, components.Wave](world),
		bubbleFilter: ecs.NewFilter3[components.Tendroid, components.Wave, components.Bubble](world),
		deformFilter: ecs.NewFilter4[components.Tendroid, components.Bubble, components.Wave, components.Bend](world),
		bendMap:      ecs.NewMap[components.Bend](world),
		proxMap:      ecs.NewMap[components.Proximity](world),

		wave:       animation.NewWave(waveConfig(cfg.Wave), seed),
		batch:      deform.NewBatch(exec),
		grid:       proximity.NewGrid(cfg.Field.Spacing),
		proximity:  prox,
		deflection: defl,
		recoveries: registry,
		repulsion:  repulsionParams{cfg: recCfg.Repulsion, deflection: cfg.Recovery.Deflection},
		autopilot:  cfg.Creature.Autopilot,

		collector: telemetry.NewCollector(cfg.Telemetry.FrameInterval),
		perf:      telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		output:    output,
		logStats:  opts.LogStats,
	}
	s.wave.Enabled = cfg.Wave.Enabled

	if err := s.buildField(); err != nil {
		s.Close()
		return nil, err
	}
	s.spawnCreature()
	s.wireEvents()

	s.sink = opts.Sink
	if s.sink == nil {
		mem := NewMemorySink()
		for _, t := range s.tendroids {
			mem.Add(t.ID, len(t.Mesh.Vertices))
		}
		s.sink = mem
	}

	slog.Info("scene ready",
		"seed", seed,
		"tendroids", len(s.tendroids),
		"vertices", s.batch.Stats().Vertices,
		"bubbles", cfg.Bubble.Enabled,
		"wave", cfg.Wave.Enabled,
		"deflection", cfg.Deflection.Active,
	)
	return s, nil
}

// wireEvents routes tracker callbacks into telemetry.
func (s *Scene) wireEvents() {
	s.proximity.OnChange(func(ev proximity.StateChangeEvent) {
		s.record(telemetry.NewTransitionEvent(s.tick, ev))
		slog.Debug("proximity", "event", ev)
	})
	s.recoveries.OnRecoveryComplete(func(r recovery.Recovery) {
		s.collector.RecordRecovery(telemetry.NewRecoveryRecord(s.tick, s.time, r))
		s.record(telemetry.NewRecoveredEvent(s.tick, s.time, r))
	})
}

func (s *Scene) record(e telemetry.Event) {
	s.collector.RecordEvent(e)
	if len(s.recent) == recentEvents {
		copy(s.recent, s.recent[1:])
		s.recent = s.recent[:recentEvents-1]
	}
	s.recent = append(s.recent, e)
}

// Step advances the scene by dt seconds.
func (s *Scene) Step(dt float64) {
	s.perf.StartTick()
	s.tick++
	s.time += dt

	s.perf.StartPhase(telemetry.PhaseWave)
	s.updateWave(dt)

	s.perf.StartPhase(telemetry.PhaseBubbles)
	s.updateBubbles(dt)

	s.perf.StartPhase(telemetry.PhaseCreature)
	s.updateCreature(dt)

	s.perf.StartPhase(telemetry.PhaseProximity)
	s.updateProximity()

	s.perf.StartPhase(telemetry.PhaseContact)
	s.detectContacts()

	s.perf.StartPhase(telemetry.PhaseRecovery)
	s.updateRecovery(dt)

	s.perf.StartPhase(telemetry.PhaseDeflection)
	s.updateDeflection(dt)

	s.perf.StartPhase(telemetry.PhaseDeform)
	s.deform()

	s.perf.StartPhase(telemetry.PhaseApply)
	s.written = s.batch.Apply(s.sink, s.out)

	s.perf.StartPhase(telemetry.PhaseTelemetry)
	s.flushTelemetry()

	s.perf.EndTick()
}

// Reset returns every tendroid and the creature to their starting state.
// The field layout is kept.
func (s *Scene) Reset() {
	s.wave.Reset()
	for _, b := range s.bubbles {
		b.Reset()
	}
	s.proximity.Reset()
	s.deflection.Reset()
	s.recoveries.Reset()
	for i := range s.overlapping {
		s.overlapping[i] = false
	}
	s.placeCreature()
	slog.Info("scene reset", "tick", s.tick)
}

// SetSink replaces the mesh sink, for viewers that upload their own meshes.
func (s *Scene) SetSink(sink deform.MeshSink) { s.sink = sink }

// Sink returns the mesh sink.
func (s *Scene) Sink() deform.MeshSink { return s.sink }

// Close stops the deformer workers and closes telemetry output.
func (s *Scene) Close() error {
	s.batch.Close()
	return s.output.Close()
}

// Config returns the scene configuration.
func (s *Scene) Config() *config.Config { return s.cfg }

// World returns the ark world.
func (s *Scene) World() *ecs.World { return s.world }

// Tick returns the number of steps taken.
func (s *Scene) Tick() int32 { return s.tick }

// Time returns simulated seconds.
func (s *Scene) Time() float64 { return s.time }

// Seed returns the seed the scene was built with.
func (s *Scene) Seed() int64 { return s.seed }

// Tendroids returns the field, indexed by tendroid id.
func (s *Scene) Tendroids() []Tendroid { return s.tendroids }

// Bubble returns tendroid id's bubble, nil when bubbles are disabled.
func (s *Scene) Bubble(id int) *animation.Bubble {
	if id < 0 || id >= len(s.bubbles) {
		return nil
	}
	return s.bubbles[id]
}

// Wave returns the tidal controller.
func (s *Scene) Wave() *animation.Wave { return s.wave }

// Batch returns the deformer.
func (s *Scene) Batch() *deform.Batch { return s.batch }

// Proximity returns the approach tracker.
func (s *Scene) Proximity() *proximity.Manager { return s.proximity }

// Deflection returns the bend manager.
func (s *Scene) Deflection() *deflection.Manager { return s.deflection }

// Recoveries returns the recovery registry.
func (s *Scene) Recoveries() *recovery.Registry { return s.recoveries }

// Perf returns the step timing collector.
func (s *Scene) Perf() *telemetry.PerfCollector { return s.perf }

// RecentEvents returns the latest events, oldest first.
func (s *Scene) RecentEvents() []telemetry.Event { return s.recent }

// Written is the number of meshes updated by the last step.
func (s *Scene) Written() int { return s.written }
