package config

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("default config must validate: %v", err)
	}
}

func writeConfig(t *testing.T, yaml string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lcd-agent.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
panel:
  resolution: 320x320
  brightness: 60
layout:
  primary_label: COOLANT
thresholds:
  - up_to: 55
    color: "#00ff00"
  - color: "#ff0000"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Panel.Resolution != "320x320" || cfg.Panel.Brightness != 60 {
		t.Errorf("panel: got %+v", cfg.Panel)
	}
	if cfg.Layout.PrimaryLabel != "COOLANT" {
		t.Errorf("primary_label: got %q", cfg.Layout.PrimaryLabel)
	}
	// Unset fields keep their defaults.
	if cfg.Layout.SecondaryLabel != "GPU" {
		t.Errorf("secondary_label: got %q, want default GPU", cfg.Layout.SecondaryLabel)
	}
	if cfg.Panel.Orientation != 0 {
		t.Errorf("orientation: got %d, want default 0", cfg.Panel.Orientation)
	}
	// A thresholds list replaces the default list wholesale.
	if len(cfg.Thresholds) != 2 {
		t.Errorf("thresholds: got %d buckets, want 2", len(cfg.Thresholds))
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadBadYAML(t *testing.T) {
	path := writeConfig(t, "panel: [not a map")
	_, err := Load(path)
	if err == nil {
		t.Error("expected parse error")
	}
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"brightness high", func(c *Config) { c.Panel.Brightness = 101 }, "brightness"},
		{"brightness negative", func(c *Config) { c.Panel.Brightness = -1 }, "brightness"},
		{"orientation", func(c *Config) { c.Panel.Orientation = 45 }, "orientation"},
		{"resolution", func(c *Config) { c.Panel.Resolution = "320by320" }, "resolution"},
		{"bar width", func(c *Config) { c.Layout.BarWidth = 0 }, "bar_width"},
		{"font size", func(c *Config) { c.Layout.TempFontSize = 0 }, "font sizes"},
		{"bad color", func(c *Config) { c.Layout.TempColor = "white" }, "color"},
		{"empty output", func(c *Config) { c.Paths.Output = "" }, "output"},
		{"no thresholds", func(c *Config) { c.Thresholds = nil }, "thresholds"},
		{"bounded else bucket", func(c *Config) {
			c.Thresholds = []Threshold{{UpTo: f(50), Color: "#fff"}}
		}, "else"},
		{"non-increasing bounds", func(c *Config) {
			c.Thresholds = []Threshold{
				{UpTo: f(75), Color: "#fff"},
				{UpTo: f(60), Color: "#fff"},
				{Color: "#fff"},
			}
		}, "increasing"},
		{"threshold color", func(c *Config) {
			c.Thresholds = []Threshold{{Color: "red"}}
		}, "color"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestParseResolution(t *testing.T) {
	tests := []struct {
		in       string
		w, h     int
		auto, ok bool
	}{
		{"auto", 0, 0, true, true},
		{"", 0, 0, true, true},
		{"320x320", 320, 320, false, true},
		{"480x240", 480, 240, false, true},
		{"320", 0, 0, false, false},
		{"0x240", 0, 0, false, false},
		{"-320x320", 0, 0, false, false},
		{"320xtall", 0, 0, false, false},
	}

	for _, tt := range tests {
		p := PanelConfig{Resolution: tt.in}
		w, h, auto, err := p.ParseResolution()
		if (err == nil) != tt.ok {
			t.Errorf("%q: err = %v, want ok=%v", tt.in, err, tt.ok)
			continue
		}
		if !tt.ok {
			continue
		}
		if w != tt.w || h != tt.h || auto != tt.auto {
			t.Errorf("%q: got (%d, %d, %v), want (%d, %d, %v)", tt.in, w, h, auto, tt.w, tt.h, tt.auto)
		}
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.RGBA
		ok   bool
	}{
		{"#ffffff", color.RGBA{0xff, 0xff, 0xff, 0xff}, true},
		{"#00c853", color.RGBA{0x00, 0xc8, 0x53, 0xff}, true},
		{"#f00", color.RGBA{0xff, 0x00, 0x00, 0xff}, true},
		{"#1e2", color.RGBA{0x11, 0xee, 0x22, 0xff}, true},
		{"ffffff", color.RGBA{}, false},
		{"#ffff", color.RGBA{}, false},
		{"#gggggg", color.RGBA{}, false},
		{"", color.RGBA{}, false},
	}

	for _, tt := range tests {
		got, err := ParseHexColor(tt.in)
		if (err == nil) != tt.ok {
			t.Errorf("%q: err = %v, want ok=%v", tt.in, err, tt.ok)
			continue
		}
		if tt.ok && got != tt.want {
			t.Errorf("%q: got %v, want %v", tt.in, got, tt.want)
		}
	}
}
