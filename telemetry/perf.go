package telemetry

import (
	"log/slog"
	"time"

	"gonum.org/v1/gonum/floats"
)

// Phase names for the scene step, in execution order.
const (
	PhaseWave       = "wave"
	PhaseBubbles    = "bubbles"
	PhaseCreature   = "creature"
	PhaseProximity  = "proximity"
	PhaseContact    = "contact"
	PhaseRecovery   = "recovery"
	PhaseDeflection = "deflection"
	PhaseDeform     = "deform"
	PhaseApply      = "apply"
	PhaseTelemetry  = "telemetry"
)

// Phases lists every step phase in execution order.
var Phases = []string{
	PhaseWave, PhaseBubbles, PhaseCreature, PhaseProximity, PhaseContact,
	PhaseRecovery, PhaseDeflection, PhaseDeform, PhaseApply, PhaseTelemetry,
}

// tickSample is one step's wall time and its per-phase split, indexed
// by the collector's phase ordinals.
type tickSample struct {
	total  time.Duration
	phases []time.Duration
}

// PerfCollector keeps a ring of tick timings. Phase names get an ordinal
// the first time they are seen, so samples are reused without
// allocating once the ring is warm.
type PerfCollector struct {
	ring  []tickSample
	next  int
	count int

	names []string
	index map[string]int

	cur        tickSample
	tickStart  time.Time
	phaseStart time.Time
	phase      int // -1 outside a phase

	// render loop only
	lastFrame time.Time
	frame     time.Duration
}

// NewPerfCollector creates a collector averaging over windowSize ticks.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	p := &PerfCollector{
		ring:  make([]tickSample, windowSize),
		index: make(map[string]int, len(Phases)),
		phase: -1,
	}
	for _, name := range Phases {
		p.ordinal(name)
	}
	return p
}

func (p *PerfCollector) ordinal(name string) int {
	if i, ok := p.index[name]; ok {
		return i
	}
	i := len(p.names)
	p.names = append(p.names, name)
	p.index[name] = i
	return i
}

// StartTick begins timing a scene step.
func (p *PerfCollector) StartTick() {
	p.tickStart = time.Now()
	p.phase = -1
	slot := &p.ring[p.next]
	p.cur = tickSample{phases: slot.phases[:0]}
}

// StartPhase closes the running phase and starts timing phase.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	p.closePhase(now)
	p.phase = p.ordinal(phase)
	p.phaseStart = now
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.phase < 0 {
		return
	}
	for len(p.cur.phases) <= p.phase {
		p.cur.phases = append(p.cur.phases, 0)
	}
	p.cur.phases[p.phase] += now.Sub(p.phaseStart)
	p.phase = -1
}

// EndTick closes the last phase and stores the sample in the ring.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	p.closePhase(now)
	p.cur.total = now.Sub(p.tickStart)
	p.ring[p.next] = p.cur
	p.next = (p.next + 1) % len(p.ring)
	p.count = min(p.count+1, len(p.ring))
}

// RecordFrame marks the end of a rendered frame.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrame.IsZero() {
		p.frame = now.Sub(p.lastFrame)
	}
	p.lastFrame = now
}

// PerfStats aggregates a PerfCollector window.
type PerfStats struct {
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration
	P90TickDuration time.Duration

	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64 // share of the average step

	TicksPerSecond float64

	FrameDuration time.Duration
	FPS           float64
}

// Stats aggregates the samples currently in the ring.
func (p *PerfCollector) Stats() PerfStats {
	s := PerfStats{
		PhaseAvg:      make(map[string]time.Duration),
		PhasePct:      make(map[string]float64),
		FrameDuration: p.frame,
	}
	if p.frame > 0 {
		s.FPS = float64(time.Second) / float64(p.frame)
	}
	if p.count == 0 {
		return s
	}

	totals := make([]float64, p.count)
	sums := make([]time.Duration, len(p.names))
	seen := make([]bool, len(p.names))
	for i, sample := range p.ring[:p.count] {
		totals[i] = float64(sample.total)
		for j, d := range sample.phases {
			if d > 0 {
				sums[j] += d
				seen[j] = true
			}
		}
	}
	s.MinTickDuration = time.Duration(floats.Min(totals))
	sum := Summarize(totals)
	s.AvgTickDuration = time.Duration(sum.Mean)
	s.MaxTickDuration = time.Duration(sum.Max)
	s.P90TickDuration = time.Duration(sum.P90)

	n := time.Duration(p.count)
	for j, name := range p.names {
		if !seen[j] {
			continue
		}
		avg := sums[j] / n
		s.PhaseAvg[name] = avg
		if s.AvgTickDuration > 0 {
			s.PhasePct[name] = float64(avg) / float64(s.AvgTickDuration) * 100
		}
	}
	if s.AvgTickDuration > 0 {
		s.TicksPerSecond = float64(time.Second) / float64(s.AvgTickDuration)
	}
	return s
}

// LogStats logs the window at info level, skipping phases under 0.1%.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_tick_us", s.AvgTickDuration.Microseconds(),
		"min_tick_us", s.MinTickDuration.Microseconds(),
		"max_tick_us", s.MaxTickDuration.Microseconds(),
		"p90_tick_us", s.P90TickDuration.Microseconds(),
		"ticks_per_sec", int(s.TicksPerSecond),
	}

	if s.FPS > 0 {
		attrs = append(attrs, "fps", int(s.FPS))
	}

	for _, phase := range Phases {
		if pct, ok := s.PhasePct[phase]; ok && pct > 0.1 {
			attrs = append(attrs, phase+"_pct", int(pct*10)/10.0)
		}
	}

	slog.Info("perf", attrs...)
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("min_tick_us", s.MinTickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Int64("p90_tick_us", s.P90TickDuration.Microseconds()),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
	}

	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}

	for phase, pct := range s.PhasePct {
		attrs = append(attrs, slog.Float64(phase+"_pct", pct))
	}

	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is one row of perf.csv.
type PerfStatsCSV struct {
	WindowEnd     int32   `csv:"window_end"`
	AvgTickUS     int64   `csv:"avg_tick_us"`
	MinTickUS     int64   `csv:"min_tick_us"`
	MaxTickUS     int64   `csv:"max_tick_us"`
	P90TickUS     int64   `csv:"p90_tick_us"`
	TicksPerSec   float64 `csv:"ticks_per_sec"`
	FPS           float64 `csv:"fps"`
	WavePct       float64 `csv:"wave_pct"`
	BubblesPct    float64 `csv:"bubbles_pct"`
	CreaturePct   float64 `csv:"creature_pct"`
	ProximityPct  float64 `csv:"proximity_pct"`
	ContactPct    float64 `csv:"contact_pct"`
	RecoveryPct   float64 `csv:"recovery_pct"`
	DeflectionPct float64 `csv:"deflection_pct"`
	DeformPct     float64 `csv:"deform_pct"`
	ApplyPct      float64 `csv:"apply_pct"`
	TelemetryPct  float64 `csv:"telemetry_pct"`
}

// ToCSV flattens the stats for perf.csv.
func (s PerfStats) ToCSV(windowEnd int32) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:     windowEnd,
		AvgTickUS:     s.AvgTickDuration.Microseconds(),
		MinTickUS:     s.MinTickDuration.Microseconds(),
		MaxTickUS:     s.MaxTickDuration.Microseconds(),
		P90TickUS:     s.P90TickDuration.Microseconds(),
		TicksPerSec:   s.TicksPerSecond,
		FPS:           s.FPS,
		WavePct:       s.PhasePct[PhaseWave],
		BubblesPct:    s.PhasePct[PhaseBubbles],
		CreaturePct:   s.PhasePct[PhaseCreature],
		ProximityPct:  s.PhasePct[PhaseProximity],
		ContactPct:    s.PhasePct[PhaseContact],
		RecoveryPct:   s.PhasePct[PhaseRecovery],
		DeflectionPct: s.PhasePct[PhaseDeflection],
		DeformPct:     s.PhasePct[PhaseDeform],
		ApplyPct:      s.PhasePct[PhaseApply],
		TelemetryPct:  s.PhasePct[PhaseTelemetry],
	}
}
