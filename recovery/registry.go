package recovery

import (
	"sort"

	"github.com/pthm-cable/tendroids/contact"
)

// Key identifies a creature and tendroid pair.
type Key struct {
	Creature int
	Tendroid int
}

// Registry holds one orchestrator per pair, created on first contact.
type Registry struct {
	cfg        Config
	byPair     map[Key]*Orchestrator
	onComplete func(Recovery)
}

// NewRegistry validates cfg once for every orchestrator it will create.
func NewRegistry(cfg Config) (*Registry, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Registry{cfg: cfg, byPair: make(map[Key]*Orchestrator)}, nil
}

// OnRecoveryComplete registers fn for every orchestrator, present and future.
func (r *Registry) OnRecoveryComplete(fn func(Recovery)) {
	r.onComplete = fn
	for _, o := range r.byPair {
		o.OnRecoveryComplete(fn)
	}
}

// Get returns the orchestrator for a pair, creating it if needed.
func (r *Registry) Get(creature, tendroid int) *Orchestrator {
	k := Key{creature, tendroid}
	if o, ok := r.byPair[k]; ok {
		return o
	}
	// cfg was validated by NewRegistry
	o := newOrchestrator(r.cfg)
	o.OnRecoveryComplete(r.onComplete)
	r.byPair[k] = o
	return o
}

// Lookup returns the orchestrator for a pair without creating one.
func (r *Registry) Lookup(creature, tendroid int) (*Orchestrator, bool) {
	o, ok := r.byPair[Key{creature, tendroid}]
	return o, ok
}

// HandleContact routes ev to its pair's orchestrator.
func (r *Registry) HandleContact(ev contact.Event) error {
	return r.Get(ev.Creature, ev.Tendroid).HandleContact(ev)
}

// Active returns the keys of pairs with a recovery in progress, sorted.
func (r *Registry) Active() []Key {
	var keys []Key
	for k, o := range r.byPair {
		if o.IsActive() {
			keys = append(keys, k)
		}
	}
	sortKeys(keys)
	return keys
}

// Keys returns every known pair, sorted.
func (r *Registry) Keys() []Key {
	keys := make([]Key, 0, len(r.byPair))
	for k := range r.byPair {
		keys = append(keys, k)
	}
	sortKeys(keys)
	return keys
}

// InputLocked reports whether any orchestrator for creature holds a lock.
func (r *Registry) InputLocked(creature int) bool {
	for k, o := range r.byPair {
		if k.Creature == creature && o.InputLocked() {
			return true
		}
	}
	return false
}

// Totals sums contacts and recoveries across all pairs.
func (r *Registry) Totals() (contacts, recoveries int) {
	for _, o := range r.byPair {
		contacts += o.TotalContacts()
		recoveries += o.TotalRecoveries()
	}
	return contacts, recoveries
}

// Reset resets every orchestrator, keeping the pairs.
func (r *Registry) Reset() {
	for _, o := range r.byPair {
		o.Reset()
	}
}

func sortKeys(keys []Key) {
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Creature != keys[j].Creature {
			return keys[i].Creature < keys[j].Creature
		}
		return keys[i].Tendroid < keys[j].Tendroid
	})
}
