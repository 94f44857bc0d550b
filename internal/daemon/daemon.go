// Package daemon is the HTTP client for the remote monitoring daemon that
// owns device communication and sensor aggregation. The agent consumes three
// endpoints: the device listing, the latest status snapshot, and the LCD
// image upload. The Client interface abstracts them for testing.
package daemon

import (
	"context"
	"errors"
	"fmt"
)

// DeviceClassLCD is the device class that carries the LCD panel.
const DeviceClassLCD = "Liquidctl"

// ErrStatus is wrapped by errors caused by a non-200 daemon response.
var ErrStatus = errors.New("unexpected daemon status")

// Client talks to the monitoring daemon.
type Client interface {
	// ListDevices returns the daemon's device inventory.
	ListDevices(ctx context.Context) (DeviceList, error)

	// LatestStatus returns the most recent status snapshot for every device
	// (history is not requested).
	LatestStatus(ctx context.Context) (StatusResponse, error)

	// UploadImage PUTs a frame to the panel of the device with the given
	// uid. Success means the daemon answered HTTP 200.
	UploadImage(ctx context.Context, uid string, up ImageUpload) error
}

// DeviceList is the wire shape of GET {base}/devices.
type DeviceList struct {
	Devices []Device `json:"devices"`
}

// Device is one entry of the device listing.
type Device struct {
	Type string     `json:"type"`
	UID  string     `json:"uid"`
	Name string     `json:"name"`
	Info DeviceInfo `json:"info"`
}

// DeviceInfo holds the nested channel metadata. Only the LCD channel is of
// interest here; other channels are ignored by the decoder.
type DeviceInfo struct {
	Channels DeviceChannels `json:"channels"`
}

// DeviceChannels holds the per-channel device metadata.
type DeviceChannels struct {
	LCD LCDChannel `json:"lcd"`
}

// LCDChannel describes a device's LCD channel.
type LCDChannel struct {
	LCDInfo LCDInfo `json:"lcd_info"`
}

// LCDInfo carries the panel's native resolution. Zero means the daemon did
// not report one.
type LCDInfo struct {
	ScreenWidth  int `json:"screen_width"`
	ScreenHeight int `json:"screen_height"`
}

// StatusResponse is the wire shape of POST {base}/status.
type StatusResponse struct {
	Devices []StatusDevice `json:"devices"`
}

// StatusDevice is one device's status entry.
type StatusDevice struct {
	Type          string           `json:"type"`
	StatusHistory []StatusSnapshot `json:"status_history"`
}

// StatusSnapshot is one sample in a device's status history. With the
// "latest only" request body the history holds a single element, but the
// decoder does not rely on that.
type StatusSnapshot struct {
	Temps []TempEntry `json:"temps"`
}

// TempEntry is one named temperature within a snapshot.
type TempEntry struct {
	Name string  `json:"name"`
	Temp float64 `json:"temp"`
}

// ImageUpload is the payload of an LCD image delivery.
type ImageUpload struct {
	Mode        string // "image"
	Brightness  int    // 0..100
	Orientation int    // degrees
	PNG         []byte
}

func statusError(code int, endpoint string) error {
	return fmt.Errorf("%s: %w %d", endpoint, ErrStatus, code)
}
