// Package device discovers the LCD panel's identity and native resolution
// from the daemon's device listing and caches it for the process lifetime.
package device

import (
	"context"
	"errors"
	"fmt"

	"github.com/sweeney/lcd-agent/internal/daemon"
)

// ErrNoPanel means the daemon's device listing contains no LCD-class device.
// This is fatal for the agent: there is nothing to deliver frames to.
var ErrNoPanel = errors.New("no LCD device found")

// Descriptor identifies the target panel. ScreenWidth/ScreenHeight are 0
// when the daemon did not report a resolution; the configured resolution is
// used instead.
type Descriptor struct {
	UID          string
	Name         string
	ScreenWidth  int
	ScreenHeight int
}

// Cache performs one-time panel discovery. Not safe for concurrent use;
// the control loop is its only caller.
type Cache struct {
	client daemon.Client
	desc   *Descriptor
}

// NewCache creates a Cache that discovers through the given client.
func NewCache(client daemon.Client) *Cache {
	return &Cache{client: client}
}

// Discover returns the panel descriptor, querying the daemon only on the
// first call. The first device whose type is the LCD device class wins.
func (c *Cache) Discover(ctx context.Context) (Descriptor, error) {
	if c.desc != nil {
		return *c.desc, nil
	}

	list, err := c.client.ListDevices(ctx)
	if err != nil {
		return Descriptor{}, fmt.Errorf("discover panel: %w", err)
	}

	for _, d := range list.Devices {
		if d.Type != daemon.DeviceClassLCD {
			continue
		}
		desc := Descriptor{
			UID:          d.UID,
			Name:         d.Name,
			ScreenWidth:  d.Info.Channels.LCD.LCDInfo.ScreenWidth,
			ScreenHeight: d.Info.Channels.LCD.LCDInfo.ScreenHeight,
		}
		c.desc = &desc
		return desc, nil
	}

	return Descriptor{}, ErrNoPanel
}
