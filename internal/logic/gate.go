// Package logic contains pure business logic for frame change suppression.
// This package has NO external dependencies (no HTTP, rendering, OS, or
// time.Sleep). State is explicit and owned by the caller.
package logic

import "github.com/sweeney/lcd-agent/internal/telemetry"

// Gate suppresses re-rendering when the reading has not changed since the
// last rendered frame, avoiding redundant composition and panel flicker.
type Gate struct {
	last     telemetry.Reading
	rendered bool
}

// NewGate creates a Gate in its initial state: the first reading always
// renders, whatever its values.
func NewGate() *Gate {
	return &Gate{}
}

// ShouldRender reports whether the reading differs from the last rendered
// one, and records it as the new last-rendered state when it does.
// Comparison is exact — any nonzero change in either value, or a sensor
// appearing or disappearing, triggers a render. No epsilon: the daemon
// already quantizes its samples, and a missed equal-looking update costs
// one redundant frame at worst.
func (g *Gate) ShouldRender(r telemetry.Reading) bool {
	if g.rendered && r == g.last {
		return false
	}
	g.last = r
	g.rendered = true
	return true
}

// Invalidate forgets the stored state so the next reading renders
// unconditionally. Called when a render that ShouldRender approved failed
// downstream; without this an unchanged reading would stay suppressed
// forever.
func (g *Gate) Invalidate() {
	g.rendered = false
}

// Last returns the most recently rendered reading and whether any frame has
// been rendered yet.
func (g *Gate) Last() (telemetry.Reading, bool) {
	return g.last, g.rendered
}
