package proximity

import (
	"fmt"
	"math"
	"sort"
)

// Pair identifies one creature–tendroid relationship.
type Pair struct {
	Creature int
	Tendroid int
}

// Tracked is the per-pair state record. It is created lazily on the first
// update and only ever reset back to Idle.
type Tracked struct {
	State              State
	Distance           float64 // latest surface distance
	PreviousDistance   float64
	MinDistance        float64 // minimum since the current contact began
	FramesInState      int
	TotalContactFrames int
	RecoveryCount      int // completed Retreating -> Recovered cycles
}

// Handler receives state change events.
type Handler func(StateChangeEvent)

// Manager tracks every pair's state machine against shared thresholds.
// It is not safe for concurrent use; distinct pairs may be updated in any
// order within a frame.
type Manager struct {
	params ApproachParameters
	pairs  map[Pair]*Tracked

	onChange         []Handler
	onContactEnter   []Handler
	onContactExit    []Handler
	onDetectionEnter []Handler
	onDetectionExit  []Handler
	onRecovered      []Handler
}

// NewManager validates params and returns an empty manager.
func NewManager(params ApproachParameters) (*Manager, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("creating proximity manager: %w", err)
	}
	return &Manager{
		params: params,
		pairs:  make(map[Pair]*Tracked),
	}, nil
}

// Params returns the thresholds in use.
func (m *Manager) Params() ApproachParameters {
	return m.params
}

// OnChange registers a handler for every transition.
func (m *Manager) OnChange(h Handler) { m.onChange = append(m.onChange, h) }

// OnContactEnter registers a handler for transitions into Contact.
func (m *Manager) OnContactEnter(h Handler) { m.onContactEnter = append(m.onContactEnter, h) }

// OnContactExit registers a handler for transitions out of Contact.
func (m *Manager) OnContactExit(h Handler) { m.onContactExit = append(m.onContactExit, h) }

// OnDetectionEnter registers a handler for pairs leaving Idle.
func (m *Manager) OnDetectionEnter(h Handler) { m.onDetectionEnter = append(m.onDetectionEnter, h) }

// OnDetectionExit registers a handler for pairs returning to Idle.
func (m *Manager) OnDetectionExit(h Handler) { m.onDetectionExit = append(m.onDetectionExit, h) }

// OnRecovered registers a handler for transitions into Recovered.
func (m *Manager) OnRecovered(h Handler) { m.onRecovered = append(m.onRecovered, h) }

// Update feeds one distance sample for a pair at time t. It returns the
// new state and, if the state changed, the emitted event.
func (m *Manager) Update(creature, tendroid int, d, t float64) (State, *StateChangeEvent) {
	key := Pair{Creature: creature, Tendroid: tendroid}
	tr, ok := m.pairs[key]
	if !ok {
		tr = &Tracked{
			State:            StateIdle,
			PreviousDistance: d,
			MinDistance:      math.Inf(1),
		}
		m.pairs[key] = tr
	}

	prevDistance := tr.Distance
	if !ok {
		prevDistance = d
	}
	next := NextState(tr.State, d, prevDistance, m.params)

	tr.PreviousDistance = prevDistance
	tr.Distance = d

	if next == StateContact || tr.State == StateContact {
		tr.TotalContactFrames++
	}
	if next == StateContact && tr.State != StateContact {
		tr.MinDistance = d
	} else if d < tr.MinDistance {
		tr.MinDistance = d
	}

	if next == tr.State {
		tr.FramesInState++
		return tr.State, nil
	}

	ev := StateChangeEvent{
		Creature: creature,
		Tendroid: tendroid,
		Previous: tr.State,
		New:      next,
		Distance: d,
		Time:     t,
	}
	tr.State = next
	tr.FramesInState = 0
	if next == StateRecovered && ev.Previous == StateRetreating {
		tr.RecoveryCount++
	}

	m.dispatch(ev)
	return next, &ev
}

func (m *Manager) dispatch(ev StateChangeEvent) {
	for _, h := range m.onChange {
		h(ev)
	}
	if ev.IsContactEnter() {
		for _, h := range m.onContactEnter {
			h(ev)
		}
	}
	if ev.IsContactExit() {
		for _, h := range m.onContactExit {
			h(ev)
		}
	}
	if ev.IsDetectionEnter() {
		for _, h := range m.onDetectionEnter {
			h(ev)
		}
	}
	if ev.IsDetectionExit() {
		for _, h := range m.onDetectionExit {
			h(ev)
		}
	}
	if ev.New == StateRecovered {
		for _, h := range m.onRecovered {
			h(ev)
		}
	}
}

// Get returns a copy of a pair's record and whether it exists.
func (m *Manager) Get(creature, tendroid int) (Tracked, bool) {
	tr, ok := m.pairs[Pair{Creature: creature, Tendroid: tendroid}]
	if !ok {
		return Tracked{}, false
	}
	return *tr, true
}

// State returns a pair's state, Idle if never seen.
func (m *Manager) State(creature, tendroid int) State {
	if tr, ok := m.pairs[Pair{Creature: creature, Tendroid: tendroid}]; ok {
		return tr.State
	}
	return StateIdle
}

// Pairs returns every tracked pair in creature, tendroid order.
func (m *Manager) Pairs() []Pair {
	out := make([]Pair, 0, len(m.pairs))
	for p := range m.pairs {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Creature != out[j].Creature {
			return out[i].Creature < out[j].Creature
		}
		return out[i].Tendroid < out[j].Tendroid
	})
	return out
}

// CountIn returns how many pairs are currently in state s.
func (m *Manager) CountIn(s State) int {
	n := 0
	for _, tr := range m.pairs {
		if tr.State == s {
			n++
		}
	}
	return n
}

// ResetPair returns one pair to Idle, keeping its record.
func (m *Manager) ResetPair(creature, tendroid int) {
	if tr, ok := m.pairs[Pair{Creature: creature, Tendroid: tendroid}]; ok {
		*tr = Tracked{State: StateIdle, MinDistance: math.Inf(1)}
	}
}

// Reset returns every pair to Idle. Handlers stay registered.
func (m *Manager) Reset() {
	for _, tr := range m.pairs {
		*tr = Tracked{State: StateIdle, MinDistance: math.Inf(1)}
	}
}
