package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/pthm-cable/tendroids/telemetry"
)

// HUDData holds everything the top-left readout shows.
type HUDData struct {
	Title      string
	Tick       int32
	Time       float64
	FPS        int32
	Tendroids  int
	Speed      float32
	Paused     bool
	Autopilot  bool
	Locked     bool
	Contacts   int
	Recoveries int
	Active     int // recoveries in progress
	Tide       string
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a HUD.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer()}
}

// Draw renders the HUD.
func (h *HUD) Draw(d HUDData) {
	rl.DrawText(d.Title, 10, 10, 20, rl.White)
	rl.DrawText(fmt.Sprintf("Tick: %d | Time: %.1fs | Speed: %.2gx | FPS: %d", d.Tick, d.Time, d.Speed, d.FPS),
		10, 35, 16, rl.LightGray)
	rl.DrawText(fmt.Sprintf("Tendroids: %d | Tide: %s | Contacts: %d | Recoveries: %d",
		d.Tendroids, d.Tide, d.Contacts, d.Recoveries), 10, 55, 16, rl.LightGray)

	status, c := "Running", rl.Yellow
	switch {
	case d.Paused:
		status = "PAUSED"
	case d.Locked:
		status, c = "LOCKED", rl.Orange
	case d.Active > 0:
		status = fmt.Sprintf("Recovering (%d)", d.Active)
	}
	if d.Autopilot {
		status += " | autopilot"
	}
	rl.DrawText(status, 10, 75, 16, c)
}

// DrawControls renders the key legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, legend string) {
	rl.DrawText(legend, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanel renders step timing per phase.
type PerfPanel struct {
	x, y int32
}

// NewPerfPanel creates a perf panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{x: x, y: y}
}

// SetPosition moves the panel.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x, p.y = x, y
}

// Draw renders stats in phase order.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	x, y := p.x, p.y
	rl.DrawText("Step Performance", x, y, 16, rl.White)
	y += 20
	rl.DrawText(fmt.Sprintf("Step: %s (p90 %s, max %s) | %.0f/s",
		stats.AvgTickDuration.Round(time.Microsecond), stats.P90TickDuration.Round(time.Microsecond),
		stats.MaxTickDuration.Round(time.Microsecond), stats.TicksPerSecond), x, y, 14, rl.Yellow)
	y += 16

	for _, phase := range telemetry.Phases {
		pct := stats.PhasePct[phase]
		c := rl.LightGray
		if pct > 40 {
			c = rl.Red
		} else if pct > 20 {
			c = rl.Orange
		}
		rl.DrawText(fmt.Sprintf("%-11s %8s %5.1f%%", phase, stats.PhaseAvg[phase].Round(time.Microsecond), pct),
			x, y, 12, c)
		y += 14
	}
}

// EventLog lists the most recent telemetry events, newest first.
type EventLog struct {
	renderer *Renderer
	x, y     int32
	width    int32
	rows     int
}

// NewEventLog creates an event log showing up to rows events.
func NewEventLog(x, y, width int32, rows int) *EventLog {
	return &EventLog{renderer: NewRenderer(), x: x, y: y, width: width, rows: rows}
}

// SetPosition moves the log.
func (l *EventLog) SetPosition(x, y int32) {
	l.x, l.y = x, y
}

// Draw renders events, which are ordered oldest first.
func (l *EventLog) Draw(events []telemetry.Event) {
	t := l.renderer.Theme
	n := min(len(events), l.rows)
	l.renderer.DrawPanel(l.x, l.y, l.width, t.Padding*2+t.LineHeight*int32(n+1))
	y := l.renderer.DrawSectionHeader(l.x+t.Padding, l.y+t.Padding, "Events")
	for i := 0; i < n; i++ {
		e := events[len(events)-1-i]
		text := fmt.Sprintf("%6d %-10s #%d", e.Tick, e.Type, e.Tendroid)
		if e.To != "" {
			text += " " + e.From + ">" + e.To
		}
		rl.DrawText(text, l.x+t.Padding, y, t.FontSize, eventColor(e.Type))
		y += t.LineHeight
	}
}

func eventColor(kind string) rl.Color {
	switch kind {
	case "contact":
		return rl.Red
	case "recovered":
		return rl.Green
	case "bubble_pop":
		return rl.SkyBlue
	}
	return rl.LightGray
}

// ReadoutPanel draws described sections in a panel at the bottom right.
type ReadoutPanel struct {
	renderer *Renderer
	width    int32
}

// NewReadoutPanel creates a readout panel.
func NewReadoutPanel(width int32) *ReadoutPanel {
	return &ReadoutPanel{renderer: NewRenderer(), width: width}
}

// Draw renders sections against data anchored to the screen corner.
func (p *ReadoutPanel) Draw(screenW, screenH int32, sections []SectionDescriptor, data any) {
	t := p.renderer.Theme
	h := t.Padding * 2
	for _, sd := range sections {
		h += p.renderer.SectionHeight(sd)
	}
	x, y := screenW-p.width-10, screenH-h-40
	p.renderer.DrawPanel(x, y, p.width, h)
	y += t.Padding
	for _, sd := range sections {
		y = p.renderer.DrawSection(x+t.Padding, y, sd, data, p.width-2*t.Padding)
	}
}
