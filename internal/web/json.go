package web

import (
	"encoding/json"
	"time"

	"github.com/sweeney/lcd-agent/internal/status"
)

// StatusJSON is the JSON representation of the agent status.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Reading       *ReadingJSON `json:"reading,omitempty"`
	Panel         PanelJSON    `json:"panel"`
	UptimeSeconds int64        `json:"uptime_seconds"`
	StartTime     string       `json:"start_time"`
	Timestamp     string       `json:"timestamp"`
	MQTT          MQTTStatus   `json:"mqtt"`
	Counts        CountsJSON   `json:"counts"`
	Config        ConfigJSON   `json:"config"`
}

// ReadingJSON is the last rendered reading. Absent sensors serialize as
// null values.
type ReadingJSON struct {
	Primary   *float64 `json:"primary"`
	Secondary *float64 `json:"secondary"`
}

// PanelJSON identifies the discovered panel.
type PanelJSON struct {
	UID    string `json:"uid"`
	Name   string `json:"name"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// MQTTStatus reports MQTT mirror connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of cycle counts.
type CountsJSON struct {
	Cycles         int `json:"cycles"`
	Renders        int `json:"renders"`
	Skipped        int `json:"skipped"`
	Deliveries     int `json:"deliveries"`
	ReadErrors     int `json:"read_errors"`
	ComposeErrors  int `json:"compose_errors"`
	DeliveryErrors int `json:"delivery_errors"`
}

// ConfigJSON is the JSON representation of agent config.
type ConfigJSON struct {
	IntervalMs  int64  `json:"interval_ms"`
	BaseURL     string `json:"base_url"`
	HTTPAddr    string `json:"http_addr"`
	Broker      string `json:"broker,omitempty"`
	Brightness  int    `json:"brightness"`
	Orientation int    `json:"orientation"`
}

func formatJSON(snap status.Snapshot) []byte {
	sj := StatusJSON{
		Status: StatusInner{
			Panel: PanelJSON{
				UID:    snap.Panel.UID,
				Name:   snap.Panel.Name,
				Width:  snap.Panel.Width,
				Height: snap.Panel.Height,
			},
			UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
			StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
			Timestamp:     snap.Now.UTC().Format(time.RFC3339),
			MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
			Counts: CountsJSON{
				Cycles:         snap.Counts.Cycles,
				Renders:        snap.Counts.Renders,
				Skipped:        snap.Counts.Skipped,
				Deliveries:     snap.Counts.Deliveries,
				ReadErrors:     snap.Counts.ReadErrors,
				ComposeErrors:  snap.Counts.ComposeErrors,
				DeliveryErrors: snap.Counts.DeliveryErrors,
			},
			Config: ConfigJSON{
				IntervalMs:  snap.Config.IntervalMs,
				BaseURL:     snap.Config.BaseURL,
				HTTPAddr:    snap.Config.HTTPAddr,
				Broker:      snap.Config.Broker,
				Brightness:  snap.Config.Brightness,
				Orientation: snap.Config.Orientation,
			},
		},
	}

	if snap.HasReading {
		r := &ReadingJSON{}
		if snap.LastReading.HasPrimary {
			v := snap.LastReading.Primary
			r.Primary = &v
		}
		if snap.LastReading.HasSecondary {
			v := snap.LastReading.Secondary
			r.Secondary = &v
		}
		sj.Status.Reading = r
	}

	data, _ := json.MarshalIndent(sj, "", "  ")
	return data
}
