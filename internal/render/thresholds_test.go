package render

import (
	"image/color"
	"testing"

	"github.com/sweeney/lcd-agent/internal/config"
)

var (
	green   = color.RGBA{0x00, 0xc8, 0x53, 0xff}
	orange  = color.RGBA{0xff, 0x91, 0x00, 0xff}
	red     = color.RGBA{0xff, 0x17, 0x44, 0xff}
	deepRed = color.RGBA{0xb7, 0x1c, 0x1c, 0xff}
)

func testTable(t *testing.T) ColorTable {
	t.Helper()
	table, err := NewColorTable([]Threshold{
		{UpperBound: 50, Color: green},
		{UpperBound: 70, Color: orange},
		{UpperBound: 85, Color: red},
	}, deepRed)
	if err != nil {
		t.Fatalf("NewColorTable: %v", err)
	}
	return table
}

func TestLookupBoundaries(t *testing.T) {
	table := testTable(t)

	tests := []struct {
		v    float64
		want color.RGBA
	}{
		{49.9, green},  // inside bucket 0
		{50, green},    // boundary belongs to the lower bucket
		{70.1, red},    // just past bucket 1
		{200, deepRed}, // above every bound: else bucket
		{-10, green},   // below everything: first bucket
		{85, red},      // last bounded bucket, inclusive
		{85.01, deepRed},
	}
	for _, tt := range tests {
		if got := table.Lookup(tt.v); got != tt.want {
			t.Errorf("Lookup(%.2f): got %v, want %v", tt.v, got, tt.want)
		}
	}
}

func TestSingleBucketTable(t *testing.T) {
	table, err := NewColorTable(nil, deepRed)
	if err != nil {
		t.Fatalf("NewColorTable: %v", err)
	}
	if got := table.Lookup(0); got != deepRed {
		t.Errorf("else-only table: got %v, want %v", got, deepRed)
	}
}

func TestNonIncreasingBoundsRejected(t *testing.T) {
	_, err := NewColorTable([]Threshold{
		{UpperBound: 50, Color: green},
		{UpperBound: 50, Color: orange},
	}, deepRed)
	if err == nil {
		t.Error("expected error for equal bounds")
	}

	_, err = NewColorTable([]Threshold{
		{UpperBound: 70, Color: green},
		{UpperBound: 50, Color: orange},
	}, deepRed)
	if err == nil {
		t.Error("expected error for decreasing bounds")
	}
}

func TestColorTableFromConfig(t *testing.T) {
	table, err := ColorTableFromConfig(config.Default().Thresholds)
	if err != nil {
		t.Fatalf("ColorTableFromConfig: %v", err)
	}

	if got := table.Lookup(45); got != green {
		t.Errorf("45°C: got %v, want green", got)
	}
	if got := table.Lookup(92); got != deepRed {
		t.Errorf("92°C: got %v, want deep red (else bucket)", got)
	}
}

func TestColorTableFromConfigRequiresElseBucket(t *testing.T) {
	up := 50.0
	_, err := ColorTableFromConfig([]config.Threshold{
		{UpTo: &up, Color: "#00ff00"},
	})
	if err == nil {
		t.Error("expected error when final bucket is bounded")
	}
}
