// Package config loads and validates the agent's YAML configuration file.
// Operational knobs (refresh interval, daemon URL, HTTP addr, broker) come
// from flags in cmd/lcd-agent; this file covers the visual and filesystem
// side: panel settings, layout geometry, fonts, color thresholds, paths.
package config

import (
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the top-level agent configuration.
type Config struct {
	Panel      PanelConfig  `yaml:"panel"`
	Layout     LayoutConfig `yaml:"layout"`
	Thresholds []Threshold  `yaml:"thresholds"`
	Paths      PathsConfig  `yaml:"paths"`
}

// PanelConfig contains LCD panel delivery settings.
type PanelConfig struct {
	// Resolution is "auto" (use the resolution discovered from the daemon)
	// or "WxH" (e.g. "320x320") to override it.
	Resolution  string `yaml:"resolution"`
	Brightness  int    `yaml:"brightness"`  // 0..100
	Orientation int    `yaml:"orientation"` // degrees: 0, 90, 180, 270
}

// LayoutConfig contains frame geometry and typography. All pixel values are
// in reference-resolution units (240x240) and are scaled to the panel's
// native resolution at composition time.
type LayoutConfig struct {
	FontFile       string  `yaml:"font_file"` // TTF path; empty = built-in Go Regular
	TempFontSize   float64 `yaml:"temp_font_size"`
	LabelFontSize  float64 `yaml:"label_font_size"`
	TempColor      string  `yaml:"temp_color"`  // hex, e.g. "#ffffff"
	LabelColor     string  `yaml:"label_color"` // hex
	BarColor       string  `yaml:"bar_color"`   // capsule background hex
	BarWidth       int     `yaml:"bar_width"`
	BarHeight      int     `yaml:"bar_height"`
	BarGap         int     `yaml:"bar_gap"`
	PrimaryLabel   string  `yaml:"primary_label"`
	SecondaryLabel string  `yaml:"secondary_label"`
}

// Threshold is one color bucket. UpTo is the inclusive upper bound; the
// final entry omits up_to and acts as the "else" bucket for values above
// every bound.
type Threshold struct {
	UpTo  *float64 `yaml:"up_to,omitempty"`
	Color string   `yaml:"color"`
}

// PathsConfig contains filesystem paths used by the agent.
type PathsConfig struct {
	// Output is the stable path the rendered frame is written to (and read
	// back from for upload).
	Output string `yaml:"output"`
	// ShutdownImage is an optional static asset delivered on termination.
	// If the file does not exist the last frame is re-delivered at
	// brightness 0 instead.
	ShutdownImage string `yaml:"shutdown_image"`
}

// Default returns the configuration used when no file is given. Values
// mirror a 240x240 AIO pump cap panel.
func Default() *Config {
	return &Config{
		Panel: PanelConfig{
			Resolution:  "auto",
			Brightness:  80,
			Orientation: 0,
		},
		Layout: LayoutConfig{
			TempFontSize:   52,
			LabelFontSize:  18,
			TempColor:      "#ffffff",
			LabelColor:     "#c0c0c0",
			BarColor:       "#1e1e1e",
			BarWidth:       200,
			BarHeight:      30,
			BarGap:         20,
			PrimaryLabel:   "LIQUID",
			SecondaryLabel: "GPU",
		},
		Thresholds: []Threshold{
			{UpTo: f(60), Color: "#00c853"},
			{UpTo: f(75), Color: "#ff9100"},
			{UpTo: f(90), Color: "#ff1744"},
			{Color: "#b71c1c"},
		},
		Paths: PathsConfig{
			Output: "/tmp/lcd-agent/frame.png",
		},
	}
}

func f(v float64) *float64 { return &v }

// Load reads and parses a YAML configuration file. Fields absent from the
// file keep their defaults; a thresholds list in the file replaces the
// default list wholesale.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the agent cannot run with.
func (c *Config) Validate() error {
	if c.Panel.Brightness < 0 || c.Panel.Brightness > 100 {
		return fmt.Errorf("panel.brightness %d out of range 0..100", c.Panel.Brightness)
	}
	switch c.Panel.Orientation {
	case 0, 90, 180, 270:
	default:
		return fmt.Errorf("panel.orientation %d: must be 0, 90, 180 or 270", c.Panel.Orientation)
	}
	if _, _, _, err := c.Panel.ParseResolution(); err != nil {
		return err
	}

	if c.Layout.BarWidth <= 0 || c.Layout.BarHeight <= 0 {
		return fmt.Errorf("layout: bar_width and bar_height must be positive")
	}
	if c.Layout.TempFontSize <= 0 || c.Layout.LabelFontSize <= 0 {
		return fmt.Errorf("layout: font sizes must be positive")
	}
	for _, hex := range []string{c.Layout.TempColor, c.Layout.LabelColor, c.Layout.BarColor} {
		if _, err := ParseHexColor(hex); err != nil {
			return fmt.Errorf("layout: %w", err)
		}
	}

	if err := validateThresholds(c.Thresholds); err != nil {
		return err
	}

	if c.Paths.Output == "" {
		return fmt.Errorf("paths.output must be set")
	}
	return nil
}

func validateThresholds(ts []Threshold) error {
	if len(ts) == 0 {
		return fmt.Errorf("thresholds: at least one bucket required")
	}
	last := ts[len(ts)-1]
	if last.UpTo != nil {
		return fmt.Errorf("thresholds: final bucket must omit up_to (it is the else bucket)")
	}
	prev := 0.0
	for i, t := range ts[:len(ts)-1] {
		if t.UpTo == nil {
			return fmt.Errorf("thresholds[%d]: only the final bucket may omit up_to", i)
		}
		if i > 0 && *t.UpTo <= prev {
			return fmt.Errorf("thresholds[%d]: bounds must be strictly increasing (%.1f after %.1f)", i, *t.UpTo, prev)
		}
		prev = *t.UpTo
	}
	for i, t := range ts {
		if _, err := ParseHexColor(t.Color); err != nil {
			return fmt.Errorf("thresholds[%d]: %w", i, err)
		}
	}
	return nil
}

// ParseResolution returns the configured resolution. auto=true means the
// discovered panel resolution should be used.
func (p PanelConfig) ParseResolution() (w, h int, auto bool, err error) {
	if p.Resolution == "" || p.Resolution == "auto" {
		return 0, 0, true, nil
	}
	parts := strings.SplitN(p.Resolution, "x", 2)
	if len(parts) != 2 {
		return 0, 0, false, fmt.Errorf("panel.resolution %q: want \"auto\" or \"WxH\"", p.Resolution)
	}
	w, err = strconv.Atoi(parts[0])
	if err == nil {
		h, err = strconv.Atoi(parts[1])
	}
	if err != nil || w <= 0 || h <= 0 {
		return 0, 0, false, fmt.Errorf("panel.resolution %q: want \"auto\" or \"WxH\"", p.Resolution)
	}
	return w, h, false, nil
}

// ParseHexColor parses "#rgb" or "#rrggbb" into an opaque RGBA color.
func ParseHexColor(s string) (color.RGBA, error) {
	if !strings.HasPrefix(s, "#") {
		return color.RGBA{}, fmt.Errorf("color %q: must start with #", s)
	}
	hex := s[1:]
	var r, g, b uint64
	var err error
	switch len(hex) {
	case 3:
		r, g, b, err = parseHex3(hex)
	case 6:
		r, err = strconv.ParseUint(hex[0:2], 16, 8)
		if err == nil {
			g, err = strconv.ParseUint(hex[2:4], 16, 8)
		}
		if err == nil {
			b, err = strconv.ParseUint(hex[4:6], 16, 8)
		}
	default:
		err = fmt.Errorf("bad length")
	}
	if err != nil {
		return color.RGBA{}, fmt.Errorf("color %q: not a hex color", s)
	}
	return color.RGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: 0xff}, nil
}

func parseHex3(hex string) (r, g, b uint64, err error) {
	r, err = strconv.ParseUint(hex[0:1], 16, 8)
	if err == nil {
		g, err = strconv.ParseUint(hex[1:2], 16, 8)
	}
	if err == nil {
		b, err = strconv.ParseUint(hex[2:3], 16, 8)
	}
	return r * 17, g * 17, b * 17, err
}
