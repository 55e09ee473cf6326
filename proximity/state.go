package proximity

import (
	"fmt"
	"log/slog"
)

// State is a creature–tendroid pair's position in the approach cycle.
type State uint8

const (
	StateIdle State = iota
	StateApproaching
	StateContact
	StateRetreating
	StateRecovered
)

var stateNames = [...]string{"idle", "approaching", "contact", "retreating", "recovered"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("state(%d)", s)
}

// MovementThreshold is the per-update distance decrease that counts as
// moving toward the tendroid.
const MovementThreshold = 0.001

// NextState applies the transition table to one distance sample.
// prevDistance is the previous sample for the pair (used to detect a
// renewed approach from Recovered). The first matching rule wins and at
// most one table step is taken per call.
func NextState(cur State, d, prevDistance float64, p ApproachParameters) State {
	if d > p.Detection {
		return StateIdle
	}

	switch cur {
	case StateIdle:
		return StateApproaching
	case StateApproaching:
		if d <= p.Epsilon {
			return StateContact
		}
	case StateContact:
		if d > p.Epsilon {
			return StateRetreating
		}
	case StateRetreating:
		if d <= p.Epsilon {
			return StateContact
		}
		if d > p.Minimum {
			return StateRecovered
		}
	case StateRecovered:
		if d <= p.Epsilon {
			return StateContact
		}
		if d <= p.Warning && prevDistance-d > MovementThreshold {
			return StateApproaching
		}
	}
	return cur
}

// Describe returns a short human-readable label for a transition.
func Describe(from, to State) string {
	switch {
	case from == StateIdle && to == StateApproaching:
		return "creature entered detection range"
	case from == StateApproaching && to == StateContact:
		return "creature made contact"
	case from == StateContact && to == StateRetreating:
		return "creature retreating from contact"
	case from == StateRetreating && to == StateRecovered:
		return "creature reached safe distance"
	case from == StateRetreating && to == StateContact:
		return "creature re-entered contact"
	case from == StateRecovered && to == StateApproaching:
		return "creature approaching again"
	case from == StateRecovered && to == StateContact:
		return "new contact from recovered"
	case to == StateIdle:
		return "creature left detection range"
	default:
		return "state changed"
	}
}

// StateChangeEvent is emitted once per actual transition of a pair.
type StateChangeEvent struct {
	Creature int
	Tendroid int
	Previous State
	New      State
	Distance float64
	Time     float64
}

// IsContactEnter reports a transition into Contact.
func (e StateChangeEvent) IsContactEnter() bool {
	return e.New == StateContact && e.Previous != StateContact
}

// IsContactExit reports a transition out of Contact.
func (e StateChangeEvent) IsContactExit() bool {
	return e.Previous == StateContact && e.New != StateContact
}

// IsDetectionEnter reports the pair leaving Idle.
func (e StateChangeEvent) IsDetectionEnter() bool {
	return e.Previous == StateIdle && e.New != StateIdle
}

// IsDetectionExit reports the pair returning to Idle.
func (e StateChangeEvent) IsDetectionExit() bool {
	return e.Previous != StateIdle && e.New == StateIdle
}

// Description names the transition.
func (e StateChangeEvent) Description() string {
	return Describe(e.Previous, e.New)
}

// LogValue implements slog.LogValuer.
func (e StateChangeEvent) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("creature", e.Creature),
		slog.Int("tendroid", e.Tendroid),
		slog.String("from", e.Previous.String()),
		slog.String("to", e.New.String()),
		slog.Float64("distance", e.Distance),
		slog.Float64("time", e.Time),
	)
}
