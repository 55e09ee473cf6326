package deflection

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/r3"
)

// settleAngle is the angle below which a deflection counts as finished.
const settleAngle = 0.001

// Controller smooths one tendroid's bend angle toward its target and
// latches the bend axis while the deflection is active.
type Controller struct {
	current float64
	target  float64

	direction r3.Vec
	fresh     r3.Vec // axis computed from the latest target
	latched   r3.Vec
	isLatched bool

	lastType ApproachType
}

// NewController returns an idle controller with the fallback axis.
func NewController() *Controller {
	c := &Controller{}
	c.Reset()
	return c
}

// Step moves current toward target by at most rate·dt, picking the
// deflection rate when rising and the recovery rate when relaxing.
func Step(current, target, dt, deflectionRate, recoveryRate float64) float64 {
	diff := target - current
	rate := recoveryRate
	if diff > 0 {
		rate = deflectionRate
	}
	step := rate * dt
	if math.Abs(diff) <= step || math.Abs(diff) < settleAngle {
		return target
	}
	if diff > 0 {
		return current + step
	}
	return current - step
}

// Update feeds a new target and advances the smoothed angle by dt.
func (c *Controller) Update(t Target, dt float64, cfg Config) {
	c.target = t.Angle
	c.lastType = t.Type
	c.fresh = BendAxis(t.Direction)

	if t.Angle > settleAngle && !c.isLatched {
		c.latched = c.fresh
		c.direction = t.Direction
		c.isLatched = true
	}

	c.current = Step(c.current, c.target, dt, cfg.DeflectionRate, cfg.RecoveryRate)

	if c.current < settleAngle && c.target < settleAngle {
		c.isLatched = false
	}
}

// Angle is the smoothed bend angle in radians.
func (c *Controller) Angle() float64 { return c.current }

// TargetAngle is the last requested angle.
func (c *Controller) TargetAngle() float64 { return c.target }

// Axis is the latched axis while deflecting, otherwise the fresh one.
func (c *Controller) Axis() r3.Vec {
	if c.isLatched {
		return c.latched
	}
	return c.fresh
}

// Latched reports whether the axis is frozen.
func (c *Controller) Latched() bool { return c.isLatched }

// Deflecting reports whether the tendroid is visibly bent or about to be.
func (c *Controller) Deflecting() bool {
	return c.isLatched || c.current >= settleAngle
}

// LastApproach is the approach type from the latest update.
func (c *Controller) LastApproach() ApproachType { return c.lastType }

// Reset returns the controller to rest.
func (c *Controller) Reset() {
	*c = Controller{
		direction: r3.Vec{X: 1},
		fresh:     r3.Vec{Z: 1},
		latched:   r3.Vec{Z: 1},
	}
}

// Bend is the per-tendroid output fed to the deformer.
type Bend struct {
	ID    int
	Angle float32
	AxisX float32
	AxisZ float32
}

type entry struct {
	id   int
	cyl  Cylinder
	ctrl *Controller
}

// Manager runs one controller per registered tendroid.
type Manager struct {
	cfg     Config
	enabled bool
	entries []entry
	index   map[int]int
}

// NewManager validates cfg and returns an empty manager.
func NewManager(cfg Config) (*Manager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Manager{
		cfg:     cfg,
		enabled: true,
		index:   make(map[int]int),
	}, nil
}

// Config returns the active configuration.
func (m *Manager) Config() Config { return m.cfg }

// SetConfig swaps the configuration after validating it. Controller state
// is kept so a preset change does not snap tendroids upright.
func (m *Manager) SetConfig(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	m.cfg = cfg
	return nil
}

// Register adds or replaces the geometry for tendroid id.
func (m *Manager) Register(id int, cyl Cylinder) {
	if i, ok := m.index[id]; ok {
		m.entries[i].cyl = cyl
		return
	}
	m.index[id] = len(m.entries)
	m.entries = append(m.entries, entry{id: id, cyl: cyl, ctrl: NewController()})
}

// Unregister removes tendroid id.
func (m *Manager) Unregister(id int) {
	i, ok := m.index[id]
	if !ok {
		return
	}
	last := len(m.entries) - 1
	m.entries[i] = m.entries[last]
	m.index[m.entries[i].id] = i
	m.entries = m.entries[:last]
	delete(m.index, id)
}

// Len is the number of registered tendroids.
func (m *Manager) Len() int { return len(m.entries) }

// Enabled reports whether deflection is active.
func (m *Manager) Enabled() bool { return m.enabled }

// SetEnabled toggles deflection. Disabling drops every target to zero so
// tendroids relax at the recovery rate.
func (m *Manager) SetEnabled(v bool) { m.enabled = v }

// Controller returns the controller for id, or nil.
func (m *Manager) Controller(id int) *Controller {
	if i, ok := m.index[id]; ok {
		return m.entries[i].ctrl
	}
	return nil
}

// Update advances every controller for a creature at pos moving at vel.
func (m *Manager) Update(pos, vel r3.Vec, dt float64) {
	for i := range m.entries {
		e := &m.entries[i]
		var t Target
		if m.enabled {
			t = ComputeTarget(e.cyl, pos, vel, m.cfg)
		} else {
			t = Target{Direction: e.ctrl.direction}
		}
		e.ctrl.Update(t, dt, m.cfg)
	}
}

// AppendBends appends the bend output of every tendroid to dst, sorted by id.
func (m *Manager) AppendBends(dst []Bend) []Bend {
	start := len(dst)
	for _, e := range m.entries {
		axis := e.ctrl.Axis()
		dst = append(dst, Bend{
			ID:    e.id,
			Angle: float32(e.ctrl.Angle()),
			AxisX: float32(axis.X),
			AxisZ: float32(axis.Z),
		})
	}
	out := dst[start:]
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return dst
}

// Deflecting returns the ids of tendroids currently deflecting, sorted.
func (m *Manager) Deflecting() []int {
	var ids []int
	for _, e := range m.entries {
		if e.ctrl.Deflecting() {
			ids = append(ids, e.id)
		}
	}
	sort.Ints(ids)
	return ids
}

// Reset returns every controller to rest.
func (m *Manager) Reset() {
	for _, e := range m.entries {
		e.ctrl.Reset()
	}
}
