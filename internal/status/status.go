// Package status provides a thread-safe status tracker for the lcd-agent
// daemon. It is read by HTTP handlers and the MQTT mirror.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/lcd-agent/internal/telemetry"
)

// Panel identifies the discovered LCD panel. This is a local copy to avoid
// importing internal/device from status.
type Panel struct {
	UID    string
	Name   string
	Width  int
	Height int
}

// Config contains agent configuration for display.
type Config struct {
	IntervalMs  int64
	BaseURL     string
	HTTPAddr    string
	Broker      string
	Brightness  int
	Orientation int
}

// Counts tallies per-cycle outcomes since startup.
type Counts struct {
	Cycles         int
	Renders        int
	Skipped        int
	Deliveries     int
	ReadErrors     int
	ComposeErrors  int
	DeliveryErrors int
}

// Snapshot is a point-in-time view of agent state.
// It is a value type — safe to use after the lock is released.
type Snapshot struct {
	LastReading   telemetry.Reading
	HasReading    bool
	Panel         Panel
	Counts        Counts
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Config        Config
}

// Uptime returns the duration since the agent started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable agent state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// SetPanel records the discovered panel. Called once after discovery.
func (t *Tracker) SetPanel(p Panel) {
	t.mu.Lock()
	t.snap.Panel = p
	t.mu.Unlock()
}

// RecordCycle counts one loop iteration.
func (t *Tracker) RecordCycle() {
	t.mu.Lock()
	t.snap.Counts.Cycles++
	t.mu.Unlock()
}

// RecordRender records a rendered reading.
func (t *Tracker) RecordRender(r telemetry.Reading) {
	t.mu.Lock()
	t.snap.LastReading = r
	t.snap.HasReading = true
	t.snap.Counts.Renders++
	t.mu.Unlock()
}

// RecordSkip counts a cycle suppressed by the change gate.
func (t *Tracker) RecordSkip() {
	t.mu.Lock()
	t.snap.Counts.Skipped++
	t.mu.Unlock()
}

// RecordDelivery counts a successful frame upload.
func (t *Tracker) RecordDelivery() {
	t.mu.Lock()
	t.snap.Counts.Deliveries++
	t.mu.Unlock()
}

// RecordReadError counts a failed telemetry read.
func (t *Tracker) RecordReadError() {
	t.mu.Lock()
	t.snap.Counts.ReadErrors++
	t.mu.Unlock()
}

// RecordComposeError counts a failed frame composition.
func (t *Tracker) RecordComposeError() {
	t.mu.Lock()
	t.snap.Counts.ComposeErrors++
	t.mu.Unlock()
}

// RecordDeliveryError counts a failed frame upload.
func (t *Tracker) RecordDeliveryError() {
	t.mu.Lock()
	t.snap.Counts.DeliveryErrors++
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT mirror connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the agent state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
