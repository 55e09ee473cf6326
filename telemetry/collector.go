package telemetry

// Collector counts events between frames.csv rows and buffers event and
// recovery rows until they are written.
type Collector struct {
	interval int32
	lastFlush int32

	transitions int
	contacts    int
	recoveries  int
	pops        int

	events     []Event
	recoveryRs []RecoveryRecord
}

// NewCollector creates a collector that flushes every interval ticks.
func NewCollector(interval int) *Collector {
	if interval < 1 {
		interval = 1
	}
	return &Collector{interval: int32(interval)}
}

// RecordEvent counts and buffers an event row.
func (c *Collector) RecordEvent(e Event) {
	switch e.Type {
	case EventContact.String():
		c.contacts++
		c.transitions++
	case EventTransition.String():
		c.transitions++
	case EventBubblePop.String():
		c.pops++
	}
	c.events = append(c.events, e)
}

// RecordRecovery counts and buffers a finished recovery.
func (c *Collector) RecordRecovery(r RecoveryRecord) {
	c.recoveries++
	c.recoveryRs = append(c.recoveryRs, r)
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(tick int32) bool {
	return tick-c.lastFlush >= c.interval
}

// Flush stamps the window counts onto s and resets them.
func (c *Collector) Flush(tick int32, s FrameStats) FrameStats {
	s.Tick = tick
	s.Transitions = c.transitions
	s.Contacts = c.contacts
	s.Recoveries = c.recoveries
	s.Pops = c.pops

	c.lastFlush = tick
	c.transitions, c.contacts, c.recoveries, c.pops = 0, 0, 0, 0
	return s
}

// DrainEvents returns buffered event rows and clears the buffer. The
// returned slice is valid until the next RecordEvent.
func (c *Collector) DrainEvents() []Event {
	out := c.events
	c.events = c.events[:0]
	return out
}

// DrainRecoveries returns buffered recovery rows and clears the buffer.
func (c *Collector) DrainRecoveries() []RecoveryRecord {
	out := c.recoveryRs
	c.recoveryRs = c.recoveryRs[:0]
	return out
}

// Interval returns the ticks between flushes.
func (c *Collector) Interval() int32 { return c.interval }
