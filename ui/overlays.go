package ui

import (
	"slices"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// OverlayID uniquely identifies an overlay.
type OverlayID string

// Scene overlay IDs.
const (
	OverlayZones    OverlayID = "zones"
	OverlayBends    OverlayID = "bends"
	OverlayContacts OverlayID = "contacts"
	OverlayFlow     OverlayID = "flow"
	OverlayGrid     OverlayID = "grid"
	OverlayPath     OverlayID = "path"
	OverlayLabels   OverlayID = "labels"
)

// OverlayDescriptor defines a toggleable overlay.
type OverlayDescriptor struct {
	ID          OverlayID
	Name        string
	Description string
	Key         int32  // raylib key that toggles it, 0 for none
	KeyLabel    string
	Category    string // "scene" or "debug"
}

// OverlayRegistry holds overlay metadata and on/off state in
// registration order.
type OverlayRegistry struct {
	descriptors []OverlayDescriptor
	enabled     map[OverlayID]bool
}

// NewOverlayRegistry creates a registry with the scene overlays.
func NewOverlayRegistry() *OverlayRegistry {
	r := &OverlayRegistry{enabled: make(map[OverlayID]bool)}
	r.registerDefaults()
	return r
}

// registerDefaults adds the scene overlays. Flow and zones start on.
func (r *OverlayRegistry) registerDefaults() {
	for _, d := range []OverlayDescriptor{
		{ID: OverlayZones, Name: "Zone Rings", Description: "Distance bands and zone tints around tracked tendroids", Key: rl.KeyZ, KeyLabel: "Z", Category: "scene"},
		{ID: OverlayFlow, Name: "Current", Description: "Motes carried by the tide", Key: rl.KeyF, KeyLabel: "F", Category: "scene"},
		{ID: OverlayLabels, Name: "Labels", Description: "Tendroid names and proximity states", Key: rl.KeyL, KeyLabel: "L", Category: "scene"},
		{ID: OverlayBends, Name: "Bend Axes", Description: "Deflection axis and angle per tendroid", Key: rl.KeyX, KeyLabel: "X", Category: "debug"},
		{ID: OverlayContacts, Name: "Recoveries", Description: "Relaxed surface points of active recoveries", Key: rl.KeyC, KeyLabel: "C", Category: "debug"},
		{ID: OverlayGrid, Name: "Field Grid", Description: "Layout cells of the tendroid field", Key: rl.KeyG, KeyLabel: "G", Category: "debug"},
		{ID: OverlayPath, Name: "Creature Trail", Description: "The creature's recent path", Key: rl.KeyT, KeyLabel: "T", Category: "debug"},
	} {
		r.Register(d)
	}
	r.enabled[OverlayZones] = true
	r.enabled[OverlayFlow] = true
}

// Register adds an overlay, initially off.
func (r *OverlayRegistry) Register(d OverlayDescriptor) {
	r.descriptors = append(r.descriptors, d)
	r.enabled[d.ID] = false
}

// Toggle flips an overlay and returns its new state. Unknown IDs stay
// off.
func (r *OverlayRegistry) Toggle(id OverlayID) bool {
	if _, ok := r.enabled[id]; !ok {
		return false
	}
	r.enabled[id] = !r.enabled[id]
	return r.enabled[id]
}

// SetEnabled sets a registered overlay's state.
func (r *OverlayRegistry) SetEnabled(id OverlayID, on bool) {
	if _, ok := r.enabled[id]; ok {
		r.enabled[id] = on
	}
}

// IsEnabled reports whether an overlay is on.
func (r *OverlayRegistry) IsEnabled(id OverlayID) bool {
	return r.enabled[id]
}

// All returns every overlay in registration order.
func (r *OverlayRegistry) All() []OverlayDescriptor {
	return r.descriptors
}

// ByCategory returns the overlays of one category.
func (r *OverlayRegistry) ByCategory(category string) []OverlayDescriptor {
	var out []OverlayDescriptor
	for _, d := range r.descriptors {
		if d.Category == category {
			out = append(out, d)
		}
	}
	return out
}

// Categories returns the categories in first-seen order.
func (r *OverlayRegistry) Categories() []string {
	var cats []string
	for _, d := range r.descriptors {
		if !slices.Contains(cats, d.Category) {
			cats = append(cats, d.Category)
		}
	}
	return cats
}

// HandleKeys toggles every overlay whose key was pressed this frame.
func (r *OverlayRegistry) HandleKeys() {
	for _, d := range r.descriptors {
		if d.Key != 0 && rl.IsKeyPressed(d.Key) {
			r.Toggle(d.ID)
		}
	}
}
