// Package recovery coordinates the contact sub-systems into one
// per-pair recovery cycle and decides when creature input is released.
package recovery

import (
	"fmt"
	"log/slog"
	"strings"
)

// Condition is one requirement for a recovery to finish.
type Condition uint8

const (
	DistanceCleared Condition = iota
	ColorNormal
	VelocityStopped
	TendroidAtRest
)

var conditionNames = [...]string{"distance_cleared", "color_normal", "velocity_stopped", "tendroid_at_rest"}

func (c Condition) String() string {
	if int(c) < len(conditionNames) {
		return conditionNames[c]
	}
	return fmt.Sprintf("condition(%d)", c)
}

// CompletionStatus holds the four recovery conditions. Input unlocks only
// when all of them hold on the same frame.
type CompletionStatus struct {
	DistanceCleared bool
	ColorNormal     bool
	VelocityStopped bool
	TendroidAtRest  bool
}

// IsComplete is the conjunction of all four conditions.
func (s CompletionStatus) IsComplete() bool {
	return s.DistanceCleared && s.ColorNormal && s.VelocityStopped && s.TendroidAtRest
}

func (s CompletionStatus) flags() [4]bool {
	return [4]bool{s.DistanceCleared, s.ColorNormal, s.VelocityStopped, s.TendroidAtRest}
}

// Pending lists unmet conditions in check order.
func (s CompletionStatus) Pending() []Condition {
	var out []Condition
	for i, ok := range s.flags() {
		if !ok {
			out = append(out, Condition(i))
		}
	}
	return out
}

// Blocking returns the first unmet condition.
func (s CompletionStatus) Blocking() (Condition, bool) {
	for i, ok := range s.flags() {
		if !ok {
			return Condition(i), true
		}
	}
	return 0, false
}

// Progress is the fraction of conditions met.
func (s CompletionStatus) Progress() float64 {
	met := 0
	for _, ok := range s.flags() {
		if ok {
			met++
		}
	}
	return float64(met) / 4
}

// Summary renders a one-line status such as
// "pending [distance:ok color:-- velocity:ok tendroid:ok]".
func (s CompletionStatus) Summary() string {
	mark := func(ok bool) string {
		if ok {
			return "ok"
		}
		return "--"
	}
	var b strings.Builder
	if s.IsComplete() {
		b.WriteString("complete [")
	} else {
		b.WriteString("pending [")
	}
	fmt.Fprintf(&b, "distance:%s color:%s velocity:%s tendroid:%s]",
		mark(s.DistanceCleared), mark(s.ColorNormal), mark(s.VelocityStopped), mark(s.TendroidAtRest))
	return b.String()
}

// LogValue implements slog.LogValuer.
func (s CompletionStatus) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("distance_cleared", s.DistanceCleared),
		slog.Bool("color_normal", s.ColorNormal),
		slog.Bool("velocity_stopped", s.VelocityStopped),
		slog.Bool("tendroid_at_rest", s.TendroidAtRest),
		slog.Float64("progress", s.Progress()),
	)
}
