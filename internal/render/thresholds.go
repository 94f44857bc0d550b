package render

import (
	"fmt"
	"image/color"

	"github.com/sweeney/lcd-agent/internal/config"
)

// Threshold is one bucket of a color table: values up to and including
// UpperBound take Color.
type Threshold struct {
	UpperBound float64
	Color      color.RGBA
}

// ColorTable maps a temperature to a bar fill color. Bounds are strictly
// increasing; values above the last bound take the fallback color.
type ColorTable struct {
	buckets  []Threshold
	fallback color.RGBA
}

// NewColorTable builds a table from ordered buckets and a fallback color.
// Any number of buckets (including zero) is accepted as long as bounds are
// strictly increasing.
func NewColorTable(buckets []Threshold, fallback color.RGBA) (ColorTable, error) {
	for i := 1; i < len(buckets); i++ {
		if buckets[i].UpperBound <= buckets[i-1].UpperBound {
			return ColorTable{}, fmt.Errorf("color table bounds not strictly increasing at index %d", i)
		}
	}
	return ColorTable{buckets: buckets, fallback: fallback}, nil
}

// ColorTableFromConfig converts validated config thresholds (bounded
// buckets followed by one else bucket) into a ColorTable.
func ColorTableFromConfig(ts []config.Threshold) (ColorTable, error) {
	if len(ts) == 0 {
		return ColorTable{}, fmt.Errorf("color table needs at least one bucket")
	}
	last := ts[len(ts)-1]
	if last.UpTo != nil {
		return ColorTable{}, fmt.Errorf("final color bucket must be unbounded")
	}
	fallback, err := config.ParseHexColor(last.Color)
	if err != nil {
		return ColorTable{}, err
	}

	buckets := make([]Threshold, 0, len(ts)-1)
	for i, t := range ts[:len(ts)-1] {
		if t.UpTo == nil {
			return ColorTable{}, fmt.Errorf("color bucket %d missing up_to", i)
		}
		c, err := config.ParseHexColor(t.Color)
		if err != nil {
			return ColorTable{}, err
		}
		buckets = append(buckets, Threshold{UpperBound: *t.UpTo, Color: c})
	}
	return NewColorTable(buckets, fallback)
}

// Lookup returns the color of the first bucket whose bound is >= v, or the
// fallback when v exceeds every bound. The boundary value itself belongs to
// the lower bucket.
func (t ColorTable) Lookup(v float64) color.RGBA {
	for _, b := range t.buckets {
		if v <= b.UpperBound {
			return b.Color
		}
	}
	return t.fallback
}
