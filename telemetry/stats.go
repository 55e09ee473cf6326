package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// FrameStats is one row of frames.csv: a sample of the scene every
// frame interval, with event counts accumulated since the previous row.
type FrameStats struct {
	Tick    int32   `csv:"tick"`
	SimTime float64 `csv:"sim_time"`

	Tendroids int `csv:"tendroids"`
	Vertices  int `csv:"vertices"`
	Written   int `csv:"written"` // entities applied to the mesh sink

	DispMax  float64 `csv:"disp_max"`
	DispMean float64 `csv:"disp_mean"`
	DispP90  float64 `csv:"disp_p90"`

	BendMax    float64 `csv:"bend_max"`
	BendMean   float64 `csv:"bend_mean"`
	Deflecting int     `csv:"deflecting"`

	Bubbles   int     `csv:"bubbles"` // bubbles inside or leaving a tube
	WaveDisp  float64 `csv:"wave_disp"`
	TidePhase string  `csv:"tide_phase"`

	CreatureX float64 `csv:"creature_x"`
	CreatureZ float64 `csv:"creature_z"`
	Nearest   float64 `csv:"nearest"` // surface distance to the closest tendroid
	Locked    bool    `csv:"locked"`

	ActiveRecoveries int `csv:"active_recoveries"`
	Transitions      int `csv:"transitions"`
	Contacts         int `csv:"contacts"`
	Recoveries       int `csv:"recoveries"`
	Pops             int `csv:"pops"`
}

// Summary is max, mean and 90th percentile of a sample.
type Summary struct {
	Max  float64
	Mean float64
	P90  float64
}

// Summarize computes a Summary. values is sorted in place.
func Summarize(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}
	s := Summary{
		Max:  floats.Max(values),
		Mean: floats.Sum(values) / float64(len(values)),
	}
	sort.Float64s(values)
	s.P90 = Percentile(values, 0.90)
	return s
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// LogValue implements slog.LogValuer for structured logging.
func (s FrameStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("tick", int(s.Tick)),
		slog.Float64("sim_time", s.SimTime),
		slog.Int("vertices", s.Vertices),
		slog.Float64("disp_max", s.DispMax),
		slog.Float64("bend_max", s.BendMax),
		slog.Int("deflecting", s.Deflecting),
		slog.Int("bubbles", s.Bubbles),
		slog.String("tide", s.TidePhase),
		slog.Float64("nearest", s.Nearest),
		slog.Bool("locked", s.Locked),
		slog.Int("active_recoveries", s.ActiveRecoveries),
		slog.Int("contacts", s.Contacts),
		slog.Int("recoveries", s.Recoveries),
	)
}
