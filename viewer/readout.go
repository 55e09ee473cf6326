package viewer

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/tendroids/components"
	"github.com/pthm-cable/tendroids/game"
	"github.com/pthm-cable/tendroids/inspector"
	"github.com/pthm-cable/tendroids/proximity"
	"github.com/pthm-cable/tendroids/ui"
)

// creatureReadout is the data the creature panel reads.
type creatureReadout struct {
	creature components.Creature
	velocity components.Velocity
	tint     rl.Color
}

// tendroidReadout is the data the hovered tendroid panel reads.
type tendroidReadout struct {
	name      string
	zone      proximity.Zone
	bend      components.Bend
	proximity components.Proximity
	bubble    components.Bubble
	wave      components.Wave
}

// readoutSections converts component descriptors to panel sections,
// one section per descriptor group.
func readoutSections(title string, descs []components.FieldDescriptor, value func(data any, id string) float32) []ui.SectionDescriptor {
	var out []ui.SectionDescriptor
	index := map[string]int{}
	for _, d := range descs {
		i, ok := index[d.Group]
		if !ok {
			i = len(out)
			index[d.Group] = i
			out = append(out, ui.SectionDescriptor{ID: d.Group, Title: d.Group})
		}
		w := ui.WidgetText
		switch {
		case d.IsBar && d.IsCentered:
			w = ui.WidgetCenteredBar
		case d.IsBar:
			w = ui.WidgetBar
		}
		id := d.ID
		out[i].Fields = append(out[i].Fields, ui.FieldDescriptor{
			ID:     id,
			Label:  d.Label,
			Widget: w,
			Format: d.Format,
			Range:  ui.FieldRange{Min: d.Min, Max: d.Max},
			Getter: func(data any) float32 { return value(data, id) },
		})
	}
	if len(out) > 0 {
		out[0].Title = title + " / " + out[0].Title
	}
	return out
}

// panels holds the prebuilt readout sections and the component maps
// they are filled from.
type panels struct {
	creature []ui.SectionDescriptor
	tendroid []ui.SectionDescriptor

	tendroidMap *ecs.Map[components.Tendroid]
	meshMap     *ecs.Map[components.Mesh]
	bendMap     *ecs.Map[components.Bend]
	proxMap     *ecs.Map[components.Proximity]
	bubbleMap   *ecs.Map[components.Bubble]
	waveMap     *ecs.Map[components.Wave]
}

func newPanels(world *ecs.World) *panels {
	p := &panels{
		tendroidMap: ecs.NewMap[components.Tendroid](world),
		meshMap:     ecs.NewMap[components.Mesh](world),
		bendMap:     ecs.NewMap[components.Bend](world),
		proxMap:     ecs.NewMap[components.Proximity](world),
		bubbleMap:   ecs.NewMap[components.Bubble](world),
		waveMap:     ecs.NewMap[components.Wave](world),
	}

	p.creature = readoutSections("Creature", components.CreatureFieldDescriptors(), func(data any, id string) float32 {
		r := data.(*creatureReadout)
		return components.CreatureValue(&r.creature, &r.velocity, id)
	})
	p.creature = append(p.creature, ui.SectionDescriptor{
		Fields: []ui.FieldDescriptor{
			{Label: "Tint", Widget: ui.WidgetColorSwatch, ColorGetter: func(data any) rl.Color { return data.(*creatureReadout).tint }},
			{Label: "Input", Widget: ui.WidgetText, TextGetter: func(data any) string {
				if data.(*creatureReadout).creature.Locked {
					return "locked"
				}
				return "free"
			}},
		},
	})

	p.tendroid = readoutSections("Tendroid", components.TendroidFieldDescriptors(), func(data any, id string) float32 {
		r := data.(*tendroidReadout)
		return components.TendroidValue(&r.bend, &r.proximity, &r.bubble, &r.wave, id)
	})
	p.tendroid = append(p.tendroid, ui.SectionDescriptor{
		Fields: []ui.FieldDescriptor{
			{Label: "Name", Widget: ui.WidgetText, TextGetter: func(data any) string { return data.(*tendroidReadout).name }},
			{Label: "Zone", Widget: ui.WidgetText, TextGetter: func(data any) string { return data.(*tendroidReadout).zone.String() }},
		},
	})
	return p
}

// creatureData snapshots the creature for the readout panel.
func (v *Viewer) creatureData() *creatureReadout {
	c := v.scene.Creature()
	return &creatureReadout{
		creature: components.Creature{
			ID:       game.CreatureID,
			Radius:   float32(c.Radius),
			Locked:   c.Locked,
			Contacts: int32(c.Contacts),
		},
		velocity: components.Velocity{X: float32(c.Velocity.X), Y: float32(c.Velocity.Y), Z: float32(c.Velocity.Z)},
		tint:     tintColor(c.Tint),
	}
}

// tendroidData snapshots tendroid id's components.
func (v *Viewer) tendroidData(id int) *tendroidReadout {
	t := v.scene.Tendroids()[id]
	prox := *v.panels.proxMap.Get(t.Entity)
	return &tendroidReadout{
		name:      t.Name,
		zone:      proximity.Zone(prox.Zone),
		bend:      *v.panels.bendMap.Get(t.Entity),
		proximity: prox,
		bubble:    *v.panels.bubbleMap.Get(t.Entity),
		wave:      *v.panels.waveMap.Get(t.Entity),
	}
}

// inspectorSections lists every inspectable component of tendroid id.
func (v *Viewer) inspectorSections(id int) (string, []inspector.Section) {
	t := v.scene.Tendroids()[id]
	e := t.Entity
	p := v.panels
	sections := []inspector.Section{
		inspector.NewSection("", p.tendroidMap.Get(e)),
		inspector.NewSection("", p.meshMap.Get(e)),
		inspector.NewSection("", p.bendMap.Get(e)),
		inspector.NewSection("", p.proxMap.Get(e)),
		inspector.NewSection("", p.waveMap.Get(e)),
	}
	if v.scene.Bubble(id) != nil {
		sections = append(sections, inspector.NewSection("", p.bubbleMap.Get(e)))
	}
	if o, ok := v.scene.Recoveries().Lookup(game.CreatureID, id); ok {
		sections = append(sections, inspector.Section{
			Title: "Recovery",
			Fields: []inspector.Field{
				{Name: "Status", Value: o.Status(), Widget: inspector.WidgetLabel},
				{Name: "Contacts", Value: o.TotalContacts(), Widget: inspector.WidgetLabel},
				{Name: "Recoveries", Value: o.TotalRecoveries(), Widget: inspector.WidgetLabel},
				{Name: "Locked", Value: o.InputLocked(), Widget: inspector.WidgetBool},
			},
		})
	}
	return fmt.Sprintf("%s (#%d)", t.Name, t.ID), sections
}

func tintColor(t components.Tint) rl.Color {
	return rl.Color{
		R: uint8(max(0, min(t.R, 1)) * 255),
		G: uint8(max(0, min(t.G, 1)) * 255),
		B: uint8(max(0, min(t.B, 1)) * 255),
		A: 255,
	}
}
