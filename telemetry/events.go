// Package telemetry records per-frame scene statistics, state machine
// events and finished recoveries, and writes them as CSV.
package telemetry

import (
	"fmt"

	"github.com/pthm-cable/tendroids/proximity"
	"github.com/pthm-cable/tendroids/recovery"
)

// EventType identifies telemetry events.
type EventType uint8

const (
	EventTransition EventType = iota
	EventContact
	EventRecovered
	EventBubblePop
)

func (t EventType) String() string {
	switch t {
	case EventTransition:
		return "transition"
	case EventContact:
		return "contact"
	case EventRecovered:
		return "recovered"
	case EventBubblePop:
		return "bubble_pop"
	}
	return fmt.Sprintf("event(%d)", t)
}

// Event is one row of events.csv.
type Event struct {
	Tick     int32   `csv:"tick"`
	Time     float64 `csv:"time"`
	Type     string  `csv:"type"`
	Creature int     `csv:"creature"`
	Tendroid int     `csv:"tendroid"`
	From     string  `csv:"from"`
	To       string  `csv:"to"`
	Distance float64 `csv:"distance"`
	Detail   string  `csv:"detail"`
}

// NewTransitionEvent records a proximity state change. Contact entries are
// typed as contacts so they can be counted without parsing states.
func NewTransitionEvent(tick int32, ev proximity.StateChangeEvent) Event {
	typ := EventTransition
	if ev.IsContactEnter() {
		typ = EventContact
	}
	return Event{
		Tick:     tick,
		Time:     ev.Time,
		Type:     typ.String(),
		Creature: ev.Creature,
		Tendroid: ev.Tendroid,
		From:     ev.Previous.String(),
		To:       ev.New.String(),
		Distance: ev.Distance,
		Detail:   ev.Description(),
	}
}

// NewBubblePopEvent records a bubble popping above a tendroid.
func NewBubblePopEvent(tick int32, t float64, tendroid int, height float64) Event {
	return Event{
		Tick:     tick,
		Time:     t,
		Type:     EventBubblePop.String(),
		Creature: -1,
		Tendroid: tendroid,
		Distance: height,
	}
}

// NewRecoveredEvent records the frame a recovery released the input lock.
func NewRecoveredEvent(tick int32, t float64, r recovery.Recovery) Event {
	return Event{
		Tick:     tick,
		Time:     t,
		Type:     EventRecovered.String(),
		Creature: r.Creature,
		Tendroid: r.Tendroid,
		Distance: r.MaxDist,
		Detail:   fmt.Sprintf("after %.2fs", r.Duration),
	}
}

// RecoveryRecord is one row of recoveries.csv.
type RecoveryRecord struct {
	Tick       int32   `csv:"tick"`
	Time       float64 `csv:"time"`
	Creature   int     `csv:"creature"`
	Tendroid   int     `csv:"tendroid"`
	Count      int     `csv:"count"`
	Duration   float64 `csv:"duration"`
	MinDist    float64 `csv:"min_distance"`
	MaxDist    float64 `csv:"max_distance"`
	ShockCount int     `csv:"shock_count"`
}

// NewRecoveryRecord flattens a finished recovery.
func NewRecoveryRecord(tick int32, t float64, r recovery.Recovery) RecoveryRecord {
	return RecoveryRecord{
		Tick:       tick,
		Time:       t,
		Creature:   r.Creature,
		Tendroid:   r.Tendroid,
		Count:      r.Count,
		Duration:   r.Duration,
		MinDist:    r.MinDist,
		MaxDist:    r.MaxDist,
		ShockCount: r.ShockCount,
	}
}
