package main

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/tendroids/config"
	"github.com/pthm-cable/tendroids/game"
	"github.com/pthm-cable/tendroids/proximity"
)

// Targets is the feel the tuner steers toward.
type Targets struct {
	RecoverySec float64 // contact to recovered
	PeakBend    float64 // mean per-approach peak bend, radians
}

// Fitness weights.
const (
	weightRecovery   = 1.0
	weightBend       = 0.6
	weightLocked     = 0.4
	weightUnrecovery = 2.0

	// noContactPenalty is charged for a run the autopilot never touched
	// anything in, which says nothing about recovery.
	noContactPenalty = 10.0
)

// runResult holds the measurements of one headless run.
type runResult struct {
	contacts    int
	latencies   []float64 // seconds from contact to recovered
	peakBends   []float64 // per tendroid, over the run
	lockedFrac  float64
	unrecovered int
}

// Evaluator runs headless scenes and scores them (lower is better).
type Evaluator struct {
	params  *ParamVector
	base    *config.Config
	ticks   int
	seeds   []int64
	targets Targets

	mu   sync.Mutex
	last runResult
}

// NewEvaluator creates an evaluator over copies of base.
func NewEvaluator(params *ParamVector, base *config.Config, ticks int, seeds []int64, targets Targets) *Evaluator {
	return &Evaluator{params: params, base: base, ticks: ticks, seeds: seeds, targets: targets}
}

// Evaluate runs every seed in parallel with raw parameter values x and
// returns the mean fitness. Invalid configs score +Inf.
func (e *Evaluator) Evaluate(x []float64) float64 {
	results := make([]runResult, len(e.seeds))
	errs := make([]error, len(e.seeds))
	var wg sync.WaitGroup
	for i, seed := range e.seeds {
		wg.Add(1)
		go func(i int, seed int64) {
			defer wg.Done()
			results[i], errs[i] = e.run(x, seed)
		}(i, seed)
	}
	wg.Wait()

	total := 0.0
	for i, r := range results {
		if errs[i] != nil {
			return math.Inf(1)
		}
		total += e.score(r)
	}
	e.mu.Lock()
	e.last = results[0]
	e.mu.Unlock()
	return total / float64(len(results))
}

// Last returns the first seed's measurements from the latest Evaluate.
func (e *Evaluator) Last() (contacts int, meanRecovery, meanBend float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.last.contacts, mean(e.last.latencies), mean(e.last.peakBends)
}

// run executes one scene for e.ticks steps.
func (e *Evaluator) run(x []float64, seed int64) (runResult, error) {
	cfg := *e.base
	cfg.Deform.Parallel = false
	e.params.Apply(&cfg, x)

	scene, err := game.NewScene(&cfg, game.Options{Seed: seed})
	if err != nil {
		return runResult{}, err
	}
	defer scene.Close()
	scene.SetAutopilot(true)

	var res runResult
	started := map[int]float64{}
	scene.Proximity().OnContactEnter(func(ev proximity.StateChangeEvent) {
		res.contacts++
		if _, open := started[ev.Tendroid]; !open {
			started[ev.Tendroid] = ev.Time
		}
	})
	scene.Proximity().OnRecovered(func(ev proximity.StateChangeEvent) {
		if t0, open := started[ev.Tendroid]; open {
			res.latencies = append(res.latencies, ev.Time-t0)
			delete(started, ev.Tendroid)
		}
	})

	peaks := make([]float64, len(scene.Tendroids()))
	locked := 0
	for scene.Tick() < int32(e.ticks) {
		scene.Step(cfg.Sim.DT)
		for _, t := range scene.Tendroids() {
			if c := scene.Deflection().Controller(t.ID); c != nil {
				peaks[t.ID] = max(peaks[t.ID], c.Angle())
			}
		}
		if scene.Creature().Locked {
			locked++
		}
	}

	for _, p := range peaks {
		if p > 0 {
			res.peakBends = append(res.peakBends, p)
		}
	}
	res.unrecovered = len(started)
	res.lockedFrac = float64(locked) / float64(max(e.ticks, 1))
	return res, nil
}

// score turns measurements into a scalar. Each term is a squared
// relative error so the weights are comparable.
func (e *Evaluator) score(r runResult) float64 {
	if r.contacts == 0 {
		return noContactPenalty
	}
	rel := func(got, want float64) float64 {
		if want == 0 {
			return got * got
		}
		d := (got - want) / want
		return d * d
	}

	f := weightUnrecovery * float64(r.unrecovered) / float64(r.contacts)
	if len(r.latencies) > 0 {
		f += weightRecovery * rel(mean(r.latencies), e.targets.RecoverySec)
	} else {
		f += weightRecovery
	}
	if len(r.peakBends) > 0 {
		f += weightBend * rel(mean(r.peakBends), e.targets.PeakBend)
	}
	return f + weightLocked*r.lockedFrac
}

func mean(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	return stat.Mean(v, nil)
}
