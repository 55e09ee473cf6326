package game

import (
	"log/slog"
	"math"

	"github.com/pthm-cable/tendroids/animation"
	"github.com/pthm-cable/tendroids/telemetry"
)

// flushTelemetry writes a frames.csv row with the buffered events and
// recoveries every frame interval, and a perf.csv row every perf window.
func (s *Scene) flushTelemetry() {
	if s.collector.ShouldFlush(s.tick) {
		stats := s.collector.Flush(s.tick, s.sampleFrame())
		if s.logStats {
			slog.Info("frame", "stats", stats)
		}
		if err := s.output.WriteFrame(stats); err != nil {
			slog.Error("failed to write frame", "error", err)
		}
		if err := s.output.WriteEvents(s.collector.DrainEvents()); err != nil {
			slog.Error("failed to write events", "error", err)
		}
		if err := s.output.WriteRecoveries(s.collector.DrainRecoveries()); err != nil {
			slog.Error("failed to write recoveries", "error", err)
		}
	}

	window := int32(s.cfg.Telemetry.PerfWindow)
	if window > 0 && s.tick%window == 0 {
		perfStats := s.perf.Stats()
		if s.logStats {
			perfStats.LogStats()
		}
		if err := s.output.WritePerf(perfStats, s.tick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}
}

// sampleFrame measures the current frame. Event counts are filled in by
// the collector.
func (s *Scene) sampleFrame() telemetry.FrameStats {
	c := s.Creature()
	stats := telemetry.FrameStats{
		SimTime:          s.time,
		Tendroids:        len(s.tendroids),
		Vertices:         s.batch.Stats().Vertices,
		Written:          s.written,
		WaveDisp:         s.wave.Displacement(),
		TidePhase:        s.wave.Phase().String(),
		CreatureX:        c.Position.X,
		CreatureZ:        c.Position.Z,
		Nearest:          s.nearest,
		Locked:           c.Locked,
		ActiveRecoveries: len(s.recoveries.Active()),
		Deflecting:       len(s.deflection.Deflecting()),
	}
	if math.IsInf(stats.Nearest, 1) {
		stats.Nearest = s.proximity.Params().Detection
	}

	disp := telemetry.Summarize(s.tipDisplacements())
	stats.DispMax, stats.DispMean, stats.DispP90 = disp.Max, disp.Mean, disp.P90

	s.samples = s.samples[:0]
	for _, b := range s.bends {
		s.samples = append(s.samples, float64(b.Angle))
	}
	bend := telemetry.Summarize(s.samples)
	stats.BendMax, stats.BendMean = bend.Max, bend.Mean

	for _, b := range s.bubbles {
		if p := b.Phase(); p == animation.BubbleRising || p == animation.BubbleExiting {
			stats.Bubbles++
		}
	}
	return stats
}

// tipDisplacements returns the largest vertex displacement of each
// tendroid in the last deformed frame.
func (s *Scene) tipDisplacements() []float64 {
	s.samples = s.samples[:0]
	if s.out == nil {
		return s.samples
	}
	base := s.batch.Base()
	for _, t := range s.tendroids {
		span := s.batch.Span(t.ID)
		most := 0.0
		for i := span.Offset; i < span.Offset+span.Count; i++ {
			dx := float64(s.out[i].X - base[i].X)
			dy := float64(s.out[i].Y - base[i].Y)
			dz := float64(s.out[i].Z - base[i].Z)
			most = math.Max(most, math.Sqrt(dx*dx+dy*dy+dz*dz))
		}
		s.samples = append(s.samples, most)
	}
	return s.samples
}
