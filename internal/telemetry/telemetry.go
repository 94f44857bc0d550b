// Package telemetry extracts the two dashboard temperatures from the
// daemon's status response.
package telemetry

import (
	"context"
	"fmt"
	"strings"

	"github.com/sweeney/lcd-agent/internal/daemon"
)

// Plausibility window for a temperature sample, in Celsius. Values outside
// it are sensor noise and are treated as "sensor absent", not as errors.
const (
	MinTemp = -50.0
	MaxTemp = 150.0
)

// Reading is one cycle's pair of temperatures. The Has flags distinguish a
// genuinely absent sensor from a sensor reading exactly 0.0.
type Reading struct {
	Primary      float64
	Secondary    float64
	HasPrimary   bool
	HasSecondary bool
}

// Policy names the device classes and temp entries the extraction looks
// for. The zero value is not useful; use DefaultPolicy.
type Policy struct {
	PrimaryClass   string // device type carrying the primary sensor
	PrimaryName    string // exact temp name match
	SecondaryClass string // device type carrying the secondary sensor
	SecondaryMark  string // case-insensitive substring match on temp name
}

// DefaultPolicy matches the liquid temperature of the AIO device and the
// GPU temperature of the GPU device.
func DefaultPolicy() Policy {
	return Policy{
		PrimaryClass:   daemon.DeviceClassLCD,
		PrimaryName:    "temp1",
		SecondaryClass: "GPU",
		SecondaryMark:  "gpu",
	}
}

// Reader fetches and extracts readings through a daemon client.
type Reader struct {
	client daemon.Client
	policy Policy
}

// NewReader creates a Reader with the given extraction policy.
func NewReader(client daemon.Client, policy Policy) *Reader {
	return &Reader{client: client, policy: policy}
}

// Read queries the daemon for the latest status and extracts a Reading.
// A transport or decode failure yields an error and no partial reading.
func (r *Reader) Read(ctx context.Context) (Reading, error) {
	status, err := r.client.LatestStatus(ctx)
	if err != nil {
		return Reading{}, fmt.Errorf("read telemetry: %w", err)
	}
	return Extract(status, r.policy), nil
}

// Extract scans the status response for the two readings.
//
// Policy: for each device class, the first matching temp entry of the most
// recent status_history element wins and scanning of that class stops. This
// tie-break is deliberate — when a device exposes several candidate
// sensors, the daemon lists the canonical one first.
func Extract(status daemon.StatusResponse, p Policy) Reading {
	var reading Reading

	for _, dev := range status.Devices {
		if !reading.HasPrimary && dev.Type == p.PrimaryClass {
			if v, ok := latestTemp(dev, func(t daemon.TempEntry) bool {
				return t.Name == p.PrimaryName
			}); ok {
				reading.Primary = v
				reading.HasPrimary = true
			}
		}
		if !reading.HasSecondary && dev.Type == p.SecondaryClass {
			if v, ok := latestTemp(dev, func(t daemon.TempEntry) bool {
				return strings.Contains(strings.ToLower(t.Name), p.SecondaryMark)
			}); ok {
				reading.Secondary = v
				reading.HasSecondary = true
			}
		}
	}

	return reading
}

// latestTemp scans the most recent snapshot of a device's history for the
// first temp entry accepted by match. An out-of-window value on the
// matching entry means the sensor is absent; scanning does not continue to
// a later entry.
func latestTemp(dev daemon.StatusDevice, match func(daemon.TempEntry) bool) (float64, bool) {
	if len(dev.StatusHistory) == 0 {
		return 0, false
	}
	latest := dev.StatusHistory[len(dev.StatusHistory)-1]
	for _, t := range latest.Temps {
		if !match(t) {
			continue
		}
		if t.Temp < MinTemp || t.Temp > MaxTemp {
			return 0, false
		}
		return t.Temp, true
	}
	return 0, false
}
