// Package render composes telemetry readings into PNG frames sized for the
// target panel. Layout is designed at a fixed 240x240 reference resolution
// and scaled linearly to whatever resolution discovery reports.
package render

import "github.com/sweeney/lcd-agent/internal/config"

// RefSize is the reference design resolution. Scale factors are
// width/RefSize and height/RefSize.
const RefSize = 240.0

// Reference vertical layout, in reference pixels.
const (
	refTempCenterY  = 70.0  // center line of the numeric readouts
	refBarTop       = 130.0 // top edge of the first bar
	refLabelOffsetY = 6.0   // gap between a bar and its label
	refStrokeWidth  = 2.0   // bar border width
)

// Params holds every derived pixel offset for one panel resolution. It is a
// pure function of the resolution and the layout config; recomputing it per
// frame is cheap.
type Params struct {
	Width, Height  int
	ScaleX, ScaleY float64

	BarWidth     float64
	BarHeight    float64
	BarGap       float64
	CornerRadius float64
	BarTop       float64

	TempCenterY  float64
	LabelOffsetY float64
	StrokeWidth  float64
}

// ComputeParams derives the scaling parameters for a panel of the given
// resolution. Callers guarantee positive dimensions; a zero resolution is a
// configuration error rejected upstream.
func ComputeParams(width, height int, l config.LayoutConfig) Params {
	sx := float64(width) / RefSize
	sy := float64(height) / RefSize

	barHeight := float64(l.BarHeight) * sy
	return Params{
		Width:  width,
		Height: height,
		ScaleX: sx,
		ScaleY: sy,

		BarWidth:     float64(l.BarWidth) * sx,
		BarHeight:    barHeight,
		BarGap:       float64(l.BarGap) * sy,
		CornerRadius: barHeight / 2,
		BarTop:       refBarTop * sy,

		TempCenterY:  refTempCenterY * sy,
		LabelOffsetY: refLabelOffsetY * sy,
		StrokeWidth:  refStrokeWidth * sy,
	}
}
