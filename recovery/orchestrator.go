package recovery

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/pthm-cable/tendroids/contact"
	"github.com/pthm-cable/tendroids/proximity"
	"gonum.org/v1/gonum/spatial/r3"
)

// ErrInvalidConfig reports an orchestrator config that cannot run.
var ErrInvalidConfig = errors.New("recovery: invalid config")

// contactOffset is how far outside the contact point a creature is
// assumed to be when the event does not carry its position.
const contactOffset = 0.1

// Config groups everything one orchestrator needs.
type Config struct {
	Approach  proximity.ApproachParameters
	Color     contact.ColorConfig
	Velocity  contact.VelocityConfig
	Repulsion contact.RepulsionConfig

	Mass          float64 // creature mass for force to velocity
	ImpulseTime   float64 // seconds the contact force acts for
	RestTolerance float64 // surface distance from rest that counts as settled
	SurfaceRelax  float64 // 1/s, exponential rate the contact dent springs back; must be > 0
}

// DefaultConfig returns the standard recovery tuning.
func DefaultConfig() Config {
	return Config{
		Approach:      proximity.DefaultParameters(),
		Color:         contact.DefaultColorConfig(),
		Velocity:      contact.DefaultVelocityConfig(),
		Repulsion:     contact.DefaultRepulsionConfig(),
		Mass:          1,
		ImpulseTime:   0.016,
		RestTolerance: 0.01,
		SurfaceRelax:  4,
	}
}

// Validate checks every sub-config.
func (c Config) Validate() error {
	if err := c.Approach.Validate(); err != nil {
		return err
	}
	if err := c.Color.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := c.Velocity.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := c.Repulsion.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.Mass <= 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, contact.ErrInvalidMass)
	}
	switch {
	case c.ImpulseTime <= 0:
		return fmt.Errorf("%w: impulse_time %g must be positive", ErrInvalidConfig, c.ImpulseTime)
	case c.RestTolerance < 0:
		return fmt.Errorf("%w: rest_tolerance %g must be >= 0", ErrInvalidConfig, c.RestTolerance)
	case c.SurfaceRelax <= 0:
		// the dent never springs back, so the tendroid never comes to rest
		return fmt.Errorf("%w: surface_relax %g must be positive", ErrInvalidConfig, c.SurfaceRelax)
	}
	return nil
}

// Recovery describes one finished recovery.
type Recovery struct {
	Creature   int
	Tendroid   int
	Count      int     // total recoveries so far for this orchestrator
	Duration   float64 // seconds from contact to unlock
	MinDist    float64
	MaxDist    float64
	ShockCount int
}

// LogValue implements slog.LogValuer.
func (r Recovery) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("creature", r.Creature),
		slog.Int("tendroid", r.Tendroid),
		slog.Int("count", r.Count),
		slog.Float64("duration", r.Duration),
	)
}

// Orchestrator runs one contact to recovery cycle: it tracks distance from
// the recovering surface, fades the shock color and repulsion velocity,
// and holds the input lock until every condition is met.
type Orchestrator struct {
	cfg Config

	tracker  *contact.SurfaceTracker
	color    *contact.ColorEffect
	velocity *contact.VelocityFade
	lock     contact.InputLock

	completion CompletionStatus
	last       contact.Event
	elapsed    float64

	totalContacts   int
	totalRecoveries int

	onComplete func(Recovery)
}

// New validates cfg and returns an idle orchestrator.
func New(cfg Config) (*Orchestrator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return newOrchestrator(cfg), nil
}

func newOrchestrator(cfg Config) *Orchestrator {
	return &Orchestrator{
		cfg:      cfg,
		tracker:  contact.NewSurfaceTracker(),
		color:    contact.NewColorEffect(cfg.Color),
		velocity: contact.NewVelocityFade(cfg.Velocity),
	}
}

// OnRecoveryComplete registers fn to run on the frame input unlocks.
func (o *Orchestrator) OnRecoveryComplete(fn func(Recovery)) {
	o.onComplete = fn
}

// HandleContact starts or restarts a recovery cycle.
func (o *Orchestrator) HandleContact(ev contact.Event) error {
	v, err := contact.FromForce(ev.Force, o.cfg.Mass, o.cfg.ImpulseTime)
	if err != nil {
		return err
	}

	o.tracker.Start(ev.Point, ev.Normal, ev.CreaturePos, o.cfg.Approach.Minimum, ev.Deflection)
	o.color.TriggerShock()
	o.velocity.Start(v)
	o.lock.Lock(contact.LockContact)
	o.completion = CompletionStatus{}
	o.last = ev
	o.elapsed = 0
	o.totalContacts++

	slog.Debug("contact",
		"creature", ev.Creature,
		"tendroid", ev.Tendroid,
		"speed", r3.Norm(v),
		"contacts", o.totalContacts,
	)
	return nil
}

// UpdateFrame advances the active recovery by dt. surface is where the
// contacted tendroid surface currently is. It returns the displacement to
// apply to the creature this frame, zero when nothing is active.
func (o *Orchestrator) UpdateFrame(creature, surface r3.Vec, dt float64) r3.Vec {
	if !o.IsActive() {
		return r3.Vec{}
	}
	o.elapsed += dt

	o.tracker.Update(creature, &surface)

	switch o.color.State() {
	case contact.ColorShocked:
		if o.tracker.Crossed() {
			o.color.BeginRecovery()
		}
	case contact.ColorRecovering:
		o.color.Advance(dt, o.tracker.Status().Current, o.velocity.Speed())
	}

	disp := o.velocity.Displacement(dt)
	o.velocity.Advance(dt)

	o.completion = CompletionStatus{
		DistanceCleared: o.tracker.Crossed(),
		ColorNormal:     o.color.IsNormal(),
		VelocityStopped: o.velocity.Stopped(),
		TendroidAtRest:  o.tracker.Surface().AtRest(o.cfg.RestTolerance),
	}

	switch {
	case o.completion.IsComplete():
		o.finish()
	case o.velocity.Stopped():
		o.lock.SetReason(contact.LockRecovering)
	default:
		o.lock.SetReason(contact.LockRepelling)
	}
	return disp
}

func (o *Orchestrator) finish() {
	o.tracker.Complete()
	o.lock.Unlock()
	o.totalRecoveries++

	st := o.tracker.Status()
	r := Recovery{
		Creature:   o.last.Creature,
		Tendroid:   o.last.Tendroid,
		Count:      o.totalRecoveries,
		Duration:   o.elapsed,
		MinDist:    st.MinRecorded,
		MaxDist:    st.MaxRecorded,
		ShockCount: o.color.ShockCount,
	}
	slog.Debug("recovery complete", "recovery", r)
	if o.onComplete != nil {
		o.onComplete(r)
	}
}

// RelaxedSurface is where the contacted surface sits after the dent has
// sprung back for the time elapsed since contact.
func (o *Orchestrator) RelaxedSurface() r3.Vec {
	return o.tracker.Surface().Relaxed(math.Exp(-o.cfg.SurfaceRelax * o.elapsed))
}

// IsActive reports whether a recovery is in progress.
func (o *Orchestrator) IsActive() bool {
	switch o.tracker.Phase() {
	case contact.PhaseTracking, contact.PhaseThresholdCrossed:
		return true
	}
	return o.lock.IsLocked()
}

// InputLocked reports whether creature steering must be ignored.
func (o *Orchestrator) InputLocked() bool { return o.lock.IsLocked() }

// LockReason returns why input is locked.
func (o *Orchestrator) LockReason() contact.LockReason { return o.lock.Reason() }

// Completion returns the conditions from the latest frame.
func (o *Orchestrator) Completion() CompletionStatus { return o.completion }

// Tracker exposes the surface tracker.
func (o *Orchestrator) Tracker() *contact.SurfaceTracker { return o.tracker }

// Color exposes the color effect.
func (o *Orchestrator) Color() *contact.ColorEffect { return o.color }

// Velocity exposes the velocity fade.
func (o *Orchestrator) Velocity() *contact.VelocityFade { return o.velocity }

// TotalContacts counts handled contacts.
func (o *Orchestrator) TotalContacts() int { return o.totalContacts }

// TotalRecoveries counts completed recoveries.
func (o *Orchestrator) TotalRecoveries() int { return o.totalRecoveries }

// LastContact returns the event that started the current cycle.
func (o *Orchestrator) LastContact() contact.Event { return o.last }

// Status renders a one-line summary for debug overlays.
func (o *Orchestrator) Status() string {
	active := "idle"
	if o.IsActive() {
		active = "active"
	}
	return fmt.Sprintf("recovery:%s input:%s color:%s speed:%.3f %s contacts:%d recoveries:%d",
		active, o.lock.Reason(), o.color.State(), o.velocity.Speed(),
		o.completion.Summary(), o.totalContacts, o.totalRecoveries)
}

// Reset clears every sub-system and the counters.
func (o *Orchestrator) Reset() {
	o.tracker = contact.NewSurfaceTracker()
	o.color = contact.NewColorEffect(o.cfg.Color)
	o.velocity.Reset()
	o.lock = contact.InputLock{}
	o.completion = CompletionStatus{}
	o.last = contact.Event{}
	o.elapsed = 0
	o.totalContacts = 0
	o.totalRecoveries = 0
}

// ContactForce converts a contact impulse along normal into a force.
func ContactForce(normal r3.Vec, impulse float64) r3.Vec {
	return r3.Scale(impulse, normal)
}

// EstimateCreaturePosition places the creature just outside the contact
// point along the normal.
func EstimateCreaturePosition(point, normal r3.Vec) r3.Vec {
	return r3.Add(point, r3.Scale(contactOffset, normal))
}
