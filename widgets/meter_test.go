package widgets

import (
	"strings"
	"testing"
	"time"
)

func TestProgressCells(t *testing.T) {
	tests := []struct {
		frac        float64
		width       int
		full, empty int
	}{
		{0, 10, 0, 10},
		{0.5, 10, 5, 5},
		{1.2, 10, 10, 0},
		{-1, 10, 0, 10},
		{0.5, 0, 0, 0},
	}
	for _, tt := range tests {
		full, empty := ProgressCells(tt.frac, tt.width)
		if full != tt.full || empty != tt.empty {
			t.Errorf("ProgressCells(%v, %d) = %d,%d", tt.frac, tt.width, full, empty)
		}
	}
}

func TestFormatClock(t *testing.T) {
	if got := FormatClock(83*time.Second + 460*time.Millisecond); got != "1:23.5" {
		t.Errorf("FormatClock = %q", got)
	}
	if got := FormatClock(-time.Second); got != "0:00.0" {
		t.Errorf("negative = %q", got)
	}
}

func TestChannelMetersLabels(t *testing.T) {
	var levels [16]uint8
	levels[9] = 127
	out := RenderChannelMeters(levels, func(float64) [3]uint8 { return [3]uint8{} }, '●', '·')
	lines := strings.Split(out, "\n")
	if len(lines) != 2 || lines[1] != "0 1 2 3 4 5 6 7 8 9 A B C D E F" {
		t.Fatalf("meters = %q", out)
	}
	if strings.Count(lines[0], "●") != 1 || strings.Count(lines[0], "·") != 15 {
		t.Errorf("glyph row = %q", lines[0])
	}
}
