// Package mqtt provides an optional MQTT mirror of the agent's telemetry
// with abstraction for testing. Rendered readings are published best-effort
// (QoS 0); lifecycle events use QoS 1 so a SHUTDOWN is not lost.
package mqtt

import (
	"encoding/json"
	"time"

	"github.com/sweeney/lcd-agent/internal/telemetry"
)

// TopicReadings is the MQTT topic for rendered readings.
const TopicReadings = "hardware/lcd-agent/readings"

// TopicSystem is the MQTT topic for system lifecycle events.
const TopicSystem = "hardware/lcd-agent/system"

// Publisher publishes agent telemetry to MQTT.
type Publisher interface {
	// PublishReading mirrors a rendered reading to the broker.
	// Returns error if publishing fails (should not crash the process).
	PublishReading(r telemetry.Reading, ts time.Time) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// SystemEvent represents a system lifecycle event (e.g., startup, shutdown).
type SystemEvent struct {
	Timestamp time.Time
	Event     string // e.g., "STARTUP", "SHUTDOWN"
	Reason    string // e.g., "SIGTERM", "SIGINT" (shutdown only)
	Retained  bool   // Whether the message should be retained by the broker
}

// ReadingPayload represents the MQTT message payload for a reading.
type ReadingPayload struct {
	Panel PanelReading `json:"panel"`
}

// PanelReading contains the reading details. Absent sensors are null.
type PanelReading struct {
	Timestamp string   `json:"timestamp"`
	Primary   *float64 `json:"primary"`
	Secondary *float64 `json:"secondary"`
}

// FormatReadingPayload creates the JSON payload for a rendered reading.
func FormatReadingPayload(r telemetry.Reading, ts time.Time) ([]byte, error) {
	pr := PanelReading{Timestamp: ts.UTC().Format(time.RFC3339)}
	if r.HasPrimary {
		v := r.Primary
		pr.Primary = &v
	}
	if r.HasSecondary {
		v := r.Secondary
		pr.Secondary = &v
	}
	return json.Marshal(ReadingPayload{Panel: pr})
}

// SystemPayload represents the MQTT message payload for system events.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}
