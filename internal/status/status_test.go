package status

import (
	"testing"
	"time"

	"github.com/sweeney/lcd-agent/internal/telemetry"
)

func newTracker() *Tracker {
	return NewTracker(time.Now(), Config{
		IntervalMs: 2000,
		BaseURL:    "http://127.0.0.1:11987",
		HTTPAddr:   ":8687",
		Brightness: 80,
	})
}

func TestInitialSnapshot(t *testing.T) {
	tr := newTracker()
	s := tr.Snapshot()

	if s.HasReading {
		t.Error("no reading recorded yet")
	}
	if s.Counts != (Counts{}) {
		t.Errorf("counts must start at zero, got %+v", s.Counts)
	}
	if s.Config.IntervalMs != 2000 {
		t.Errorf("config: got %+v", s.Config)
	}
}

func TestRecordRender(t *testing.T) {
	tr := newTracker()
	r := telemetry.Reading{Primary: 45.5, Secondary: 38.0, HasPrimary: true, HasSecondary: true}

	tr.RecordRender(r)
	s := tr.Snapshot()

	if !s.HasReading {
		t.Error("HasReading must be set after a render")
	}
	if s.LastReading != r {
		t.Errorf("LastReading: got %+v, want %+v", s.LastReading, r)
	}
	if s.Counts.Renders != 1 {
		t.Errorf("Renders: got %d, want 1", s.Counts.Renders)
	}
}

func TestCounters(t *testing.T) {
	tr := newTracker()

	tr.RecordCycle()
	tr.RecordCycle()
	tr.RecordCycle()
	tr.RecordSkip()
	tr.RecordRender(telemetry.Reading{HasPrimary: true})
	tr.RecordDelivery()
	tr.RecordReadError()
	tr.RecordComposeError()
	tr.RecordDeliveryError()

	c := tr.Snapshot().Counts
	want := Counts{
		Cycles:         3,
		Renders:        1,
		Skipped:        1,
		Deliveries:     1,
		ReadErrors:     1,
		ComposeErrors:  1,
		DeliveryErrors: 1,
	}
	if c != want {
		t.Errorf("counts: got %+v, want %+v", c, want)
	}
}

func TestSetPanel(t *testing.T) {
	tr := newTracker()
	p := Panel{UID: "aio-1", Name: "Kraken Elite", Width: 320, Height: 320}

	tr.SetPanel(p)
	if got := tr.Snapshot().Panel; got != p {
		t.Errorf("panel: got %+v, want %+v", got, p)
	}
}

func TestSetMQTTConnected(t *testing.T) {
	tr := newTracker()

	if tr.Snapshot().MQTTConnected {
		t.Error("must start disconnected")
	}
	tr.SetMQTTConnected(true)
	if !tr.Snapshot().MQTTConnected {
		t.Error("expected connected")
	}
	tr.SetMQTTConnected(false)
	if tr.Snapshot().MQTTConnected {
		t.Error("expected disconnected")
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	tr := newTracker()
	tr.RecordCycle()

	s := tr.Snapshot()
	tr.RecordCycle()
	tr.RecordCycle()

	if s.Counts.Cycles != 1 {
		t.Errorf("snapshot mutated after the fact: got %d cycles", s.Counts.Cycles)
	}
}

func TestUptime(t *testing.T) {
	start := time.Now().Add(-90 * time.Second)
	tr := NewTracker(start, Config{})

	up := tr.Snapshot().Uptime()
	if up < 89*time.Second || up > 2*time.Minute {
		t.Errorf("uptime: got %v, want ~90s", up)
	}
}
