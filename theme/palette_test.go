package theme

import (
	"strings"
	"testing"
)

const gpl = `GIMP Palette
Name: Test
Columns: 2
# comment
  0   0   0	black
255 255 255	white
`

func TestParseGPL(t *testing.T) {
	p, err := ParseGPL(strings.NewReader(gpl))
	if err != nil {
		t.Fatal(err)
	}
	if p.Name != "Test" || len(p.Colors) != 2 {
		t.Fatalf("palette = %+v", p)
	}
	if _, err := ParseGPL(strings.NewReader("GIMP Palette\n")); err == nil {
		t.Error("empty palette accepted")
	}
}

func TestLookupEndsAndMidpoint(t *testing.T) {
	p, _ := ParseGPL(strings.NewReader(gpl))
	if c := p.Lookup(-1); c != (RGB{0, 0, 0}) {
		t.Errorf("Lookup(-1) = %v", c)
	}
	if c := p.Lookup(2); c != (RGB{255, 255, 255}) {
		t.Errorf("Lookup(2) = %v", c)
	}
	// Lab midpoint of black and white is a mid grey, lighter than the
	// sRGB average because L* is perceptual
	mid := p.Lookup(0.5)
	lo, hi := min(mid[0], mid[1], mid[2]), max(mid[0], mid[1], mid[2])
	if hi-lo > 1 {
		t.Errorf("midpoint not grey: %v", mid)
	}
	if mid[0] <= 110 || mid[0] >= 140 {
		t.Errorf("midpoint = %v", mid)
	}
}

func TestThemeDefaults(t *testing.T) {
	th := New(nil)
	if len(th.Palette.Colors) == 0 {
		t.Fatal("builtin palette empty")
	}
	if got := string(th.Success()); got != th.Palette.Index(len(th.Palette.Colors)-1).Hex() {
		t.Errorf("Success = %s", got)
	}
	if c := (RGB{1, 2, 255}); c.Hex() != "#0102ff" {
		t.Error("Hex wrong")
	}
}
