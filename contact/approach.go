// Package contact holds the per-contact sub-systems driven by the
// recovery orchestrator: surface distance tracking, the shock color
// effect, velocity fade, input lock, repulsion and contact filtering.
package contact

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Phase is the surface tracker's progress through one recovery.
type Phase uint8

const (
	PhaseInactive Phase = iota
	PhaseTracking
	PhaseThresholdCrossed
	PhaseComplete
)

func (p Phase) String() string {
	switch p {
	case PhaseTracking:
		return "tracking"
	case PhaseThresholdCrossed:
		return "threshold_crossed"
	case PhaseComplete:
		return "complete"
	default:
		return "inactive"
	}
}

// SurfacePoint is a point on a tendroid surface that may be displaced
// from its rest position while the tendroid recovers.
type SurfacePoint struct {
	Contact r3.Vec // where the surface was when contact began
	Current r3.Vec
	Rest    r3.Vec
	Normal  r3.Vec // points away from the tendroid
}

// NewSurfacePoint places the rest position deflection units along normal
// from the contact point.
func NewSurfacePoint(contact, normal r3.Vec, deflection float64) SurfacePoint {
	return SurfacePoint{
		Contact: contact,
		Current: contact,
		Rest:    r3.Add(contact, r3.Scale(deflection, normal)),
		Normal:  normal,
	}
}

// DeflectionAmount is how far the surface is from rest.
func (s SurfacePoint) DeflectionAmount() float64 {
	return r3.Norm(r3.Sub(s.Current, s.Rest))
}

// Relaxed returns the surface position with remaining in [0, 1] of the
// initial dent left: 1 is the contact point, 0 the rest position.
func (s SurfacePoint) Relaxed(remaining float64) r3.Vec {
	return r3.Add(s.Rest, r3.Scale(clamp01(remaining), r3.Sub(s.Contact, s.Rest)))
}

// AtRest reports whether the surface is within tol of its rest position.
func (s SurfacePoint) AtRest(tol float64) bool {
	return s.DeflectionAmount() <= tol
}

// Status is a snapshot of the surface tracker.
type Status struct {
	Phase         Phase
	Current       float64
	Threshold     float64
	MinRecorded   float64
	MaxRecorded   float64
	UpdateCount   int
	RecoveryCount int
}

// SurfaceTracker measures creature to surface distance during recovery
// and reports when it exceeds the approach minimum.
type SurfaceTracker struct {
	status  Status
	surface SurfacePoint
}

// NewSurfaceTracker returns an inactive tracker.
func NewSurfaceTracker() *SurfaceTracker {
	t := &SurfaceTracker{}
	t.Reset()
	return t
}

// Start begins tracking from a contact. The recovery count survives.
func (t *SurfaceTracker) Start(contact, normal, creature r3.Vec, threshold, deflection float64) {
	t.surface = NewSurfacePoint(contact, normal, deflection)
	d := r3.Norm(r3.Sub(creature, contact))
	t.status = Status{
		Phase:         PhaseTracking,
		Current:       d,
		Threshold:     threshold,
		MinRecorded:   d,
		MaxRecorded:   d,
		UpdateCount:   1,
		RecoveryCount: t.status.RecoveryCount,
	}
}

// Update records the creature distance to the surface. When surface is
// non-nil it replaces the current surface position, which is what the
// distance is measured from. Returns the new phase.
func (t *SurfaceTracker) Update(creature r3.Vec, surface *r3.Vec) Phase {
	switch t.status.Phase {
	case PhaseTracking, PhaseThresholdCrossed:
	default:
		return t.status.Phase
	}
	if surface != nil {
		t.surface.Current = *surface
	}

	d := r3.Norm(r3.Sub(creature, t.surface.Current))
	t.status.Current = d
	t.status.MinRecorded = math.Min(t.status.MinRecorded, d)
	t.status.MaxRecorded = math.Max(t.status.MaxRecorded, d)
	t.status.UpdateCount++
	if d > t.status.Threshold {
		t.status.Phase = PhaseThresholdCrossed
	}
	return t.status.Phase
}

// SignedDistance is the creature offset along the surface normal;
// negative means the creature is inside.
func (t *SurfaceTracker) SignedDistance(creature r3.Vec) float64 {
	return r3.Dot(r3.Sub(creature, t.surface.Current), t.surface.Normal)
}

// Crossed reports whether the threshold has been exceeded.
func (t *SurfaceTracker) Crossed() bool {
	switch t.status.Phase {
	case PhaseThresholdCrossed, PhaseComplete:
		return true
	case PhaseTracking:
		return t.status.Current > t.status.Threshold
	}
	return false
}

// Complete marks the recovery finished and counts it.
func (t *SurfaceTracker) Complete() {
	t.status.Phase = PhaseComplete
	t.status.RecoveryCount++
}

// Reset returns to inactive, keeping the threshold and recovery count.
func (t *SurfaceTracker) Reset() {
	t.status = Status{
		Phase:         PhaseInactive,
		Current:       math.Inf(1),
		Threshold:     t.status.Threshold,
		MinRecorded:   math.Inf(1),
		RecoveryCount: t.status.RecoveryCount,
	}
}

// Progress runs from 0 at the closest recorded distance to 1 at the
// threshold.
func (t *SurfaceTracker) Progress() float64 {
	s := t.status
	switch s.Phase {
	case PhaseInactive:
		return 0
	case PhaseComplete:
		return 1
	}
	if s.Threshold <= s.MinRecorded {
		return 1
	}
	p := (s.Current - s.MinRecorded) / (s.Threshold - s.MinRecorded)
	return math.Max(0, math.Min(1, p))
}

// Status returns a snapshot.
func (t *SurfaceTracker) Status() Status { return t.status }

// Surface returns the tracked surface point.
func (t *SurfaceTracker) Surface() SurfacePoint { return t.surface }

// Phase returns the current phase.
func (t *SurfaceTracker) Phase() Phase { return t.status.Phase }
