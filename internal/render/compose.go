package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"

	"github.com/llgcode/draw2d/draw2dimg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/sweeney/lcd-agent/internal/config"
	"github.com/sweeney/lcd-agent/internal/telemetry"
)

// FullScaleTemp is the temperature at which a bar reaches full width.
const FullScaleTemp = 105.0

// HotCutoff suppresses the bar labels: at or above this temperature on
// either sensor the bars are near overflow and the labels would overlap.
const HotCutoff = 99.0

// Frame is one composed, encoded image plus the reading it was derived
// from. It is consumed by the delivery engine and then discarded.
type Frame struct {
	PNG     []byte
	Reading telemetry.Reading
	Width   int
	Height  int
}

// Composer draws readings onto an off-screen raster surface and encodes the
// result as PNG. Font faces are built once for the panel resolution, which
// is fixed for the process lifetime.
type Composer struct {
	layout config.LayoutConfig
	table  ColorTable

	tempColor  color.RGBA
	labelColor color.RGBA
	barColor   color.RGBA

	tempFace  font.Face
	labelFace font.Face

	width, height int
}

// NewComposer creates a Composer for a panel of the given resolution.
// An empty layout.FontFile selects the built-in Go Regular face.
func NewComposer(layout config.LayoutConfig, table ColorTable, width, height int) (*Composer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("panel resolution %dx%d: must be positive", width, height)
	}

	tempColor, err := config.ParseHexColor(layout.TempColor)
	if err != nil {
		return nil, err
	}
	labelColor, err := config.ParseHexColor(layout.LabelColor)
	if err != nil {
		return nil, err
	}
	barColor, err := config.ParseHexColor(layout.BarColor)
	if err != nil {
		return nil, err
	}

	ttf := goregular.TTF
	if layout.FontFile != "" {
		ttf, err = os.ReadFile(layout.FontFile)
		if err != nil {
			return nil, fmt.Errorf("load font: %w", err)
		}
	}
	fnt, err := opentype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}

	scaleY := float64(height) / RefSize
	tempFace, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size: layout.TempFontSize * scaleY, DPI: 72, Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("temp face: %w", err)
	}
	labelFace, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size: layout.LabelFontSize * scaleY, DPI: 72, Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("label face: %w", err)
	}

	return &Composer{
		layout:     layout,
		table:      table,
		tempColor:  tempColor,
		labelColor: labelColor,
		barColor:   barColor,
		tempFace:   tempFace,
		labelFace:  labelFace,
		width:      width,
		height:     height,
	}, nil
}

// Compose renders the reading into a PNG frame: background, two numeric
// readouts (left/right halves), two stacked capsule bars color-mapped by
// the threshold table, and — below the hot cutoff — a text label per bar.
func (c *Composer) Compose(r telemetry.Reading) (Frame, error) {
	p := ComputeParams(c.width, c.height, c.layout)

	img := image.NewRGBA(image.Rect(0, 0, p.Width, p.Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)

	drawCentered(img, readoutText(r.Primary, r.HasPrimary),
		float64(p.Width)/4, p.TempCenterY, c.tempFace, c.tempColor)
	drawCentered(img, readoutText(r.Secondary, r.HasSecondary),
		float64(p.Width)*3/4, p.TempCenterY, c.tempFace, c.tempColor)

	gc := draw2dimg.NewGraphicContext(img)
	barX := (float64(p.Width) - p.BarWidth) / 2
	c.drawBar(gc, p, barX, p.BarTop, r.Primary, r.HasPrimary)
	c.drawBar(gc, p, barX, p.BarTop+p.BarHeight+p.BarGap, r.Secondary, r.HasSecondary)

	if r.Primary < HotCutoff && r.Secondary < HotCutoff {
		labelHalf := c.layout.LabelFontSize * p.ScaleY / 2
		drawCentered(img, c.layout.PrimaryLabel,
			float64(p.Width)/2, p.BarTop-p.LabelOffsetY-labelHalf, c.labelFace, c.labelColor)
		drawCentered(img, c.layout.SecondaryLabel,
			float64(p.Width)/2, p.BarTop+p.BarHeight+p.BarGap-p.LabelOffsetY-labelHalf, c.labelFace, c.labelColor)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return Frame{}, fmt.Errorf("encode frame: %w", err)
	}
	return Frame{PNG: buf.Bytes(), Reading: r, Width: p.Width, Height: p.Height}, nil
}

// drawBar draws one capsule bar at (x, y): rounded background, the
// proportional fill colored by the threshold table, and a stroked border.
func (c *Composer) drawBar(gc *draw2dimg.GraphicContext, p Params, x, y, v float64, has bool) {
	gc.SetFillColor(c.barColor)
	roundedRectPath(gc, x, y, p.BarWidth, p.BarHeight, p.CornerRadius)
	gc.Fill()

	if has {
		if fw := FillWidth(v, p.BarWidth); fw > 0 {
			gc.SetFillColor(c.table.Lookup(v))
			if fw < 2*p.CornerRadius {
				// Too narrow for the capsule arcs; a rounded path would need
				// a negative-radius degenerate arc.
				rectPath(gc, x, y, fw, p.BarHeight)
			} else {
				roundedRectPath(gc, x, y, fw, p.BarHeight, p.CornerRadius)
			}
			gc.Fill()
		}
	}

	gc.SetStrokeColor(c.labelColor)
	gc.SetLineWidth(p.StrokeWidth)
	roundedRectPath(gc, x, y, p.BarWidth, p.BarHeight, p.CornerRadius)
	gc.Stroke()
}

// FillWidth returns the fill width for a reading: clamp(v/105, 0, 1) of the
// bar width.
func FillWidth(v, barWidth float64) float64 {
	ratio := v / FullScaleTemp
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	return ratio * barWidth
}

// readoutText formats a numeric readout; an absent sensor reads "--°".
func readoutText(v float64, has bool) string {
	if !has {
		return "--°"
	}
	return fmt.Sprintf("%d°", int(math.Round(v)))
}

// drawCentered draws text centered on (cx, cy), correcting for the face's
// ascent so the visual center lands on cy.
func drawCentered(img *image.RGBA, text string, cx, cy float64, face font.Face, clr color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(clr),
		Face: face,
	}
	w := d.MeasureString(text).Round()
	m := face.Metrics()
	h := (m.Ascent + m.Descent).Round()
	x := int(cx) - w/2
	y := int(cy) - h/2 + m.Ascent.Round()
	d.Dot = fixed.P(x, y)
	d.DrawString(text)
}

func roundedRectPath(gc *draw2dimg.GraphicContext, x, y, w, h, r float64) {
	gc.MoveTo(x+r, y)
	gc.LineTo(x+w-r, y)
	gc.ArcTo(x+w-r, y+r, r, r, -math.Pi/2, math.Pi/2)
	gc.LineTo(x+w, y+h-r)
	gc.ArcTo(x+w-r, y+h-r, r, r, 0, math.Pi/2)
	gc.LineTo(x+r, y+h)
	gc.ArcTo(x+r, y+h-r, r, r, math.Pi/2, math.Pi/2)
	gc.LineTo(x, y+r)
	gc.ArcTo(x+r, y+r, r, r, math.Pi, math.Pi/2)
	gc.Close()
}

func rectPath(gc *draw2dimg.GraphicContext, x, y, w, h float64) {
	gc.MoveTo(x, y)
	gc.LineTo(x+w, y)
	gc.LineTo(x+w, y+h)
	gc.LineTo(x, y+h)
	gc.Close()
}
