package smf

import (
	"math"
	"testing"
	"time"
)

func TestQuarterNoteTickDuration(t *testing.T) {
	div := QuarterNote(96)
	got := div.TickDuration(DefaultTempo)
	if got < 5207*time.Microsecond || got > 5209*time.Microsecond {
		t.Fatalf("tick at 96 tpq, 500000us = %v, want ~5208us", got)
	}
	if d := div.Duration(96, DefaultTempo); d != 500*time.Millisecond {
		t.Errorf("one quarter = %v, want 500ms", d)
	}
}

func TestDurationDoesNotDrift(t *testing.T) {
	div := QuarterNote(96)
	const ticks = 96 * 1000
	var summed time.Duration
	for i := 0; i < ticks; i++ {
		summed += div.TickDuration(DefaultTempo)
	}
	exact := div.Duration(ticks, DefaultTempo)
	if exact != 500*time.Second {
		t.Fatalf("1000 quarters = %v, want 500s", exact)
	}
	// per-tick truncation loses under 1ns each
	if drift := exact - summed; drift < 0 || drift > ticks*time.Nanosecond {
		t.Errorf("drift %v out of bounds", drift)
	}
}

func TestSMPTEIgnoresTempo(t *testing.T) {
	div := ParseDivision(0xE728) // -25 fps, 40 ticks per frame
	if !div.IsSMPTE() || div.FramesPerSecond != 25 || div.TicksPerFrame != 40 {
		t.Fatalf("ParseDivision(0xE728) = %+v", div)
	}
	if d := div.TickDuration(DefaultTempo); d != time.Millisecond {
		t.Errorf("tick = %v, want 1ms", d)
	}
	if a, b := div.TickDuration(250000), div.TickDuration(1000000); a != b {
		t.Errorf("tempo changed SMPTE tick: %v vs %v", a, b)
	}
	if div.Raw() != 0xE728 {
		t.Errorf("Raw = %#x", div.Raw())
	}
	if s := div.String(); s != "Frames per second: 25, Ticks per frame: 40" {
		t.Errorf("String = %q", s)
	}
}

func TestParseQuarterNoteDivision(t *testing.T) {
	div := ParseDivision(0x0060)
	if div.IsSMPTE() || div.TicksPerQuarter != 96 {
		t.Fatalf("ParseDivision(0x60) = %+v", div)
	}
	if s := div.String(); s != "Quarter note division: 96" {
		t.Errorf("String = %q", s)
	}
}

func TestTempoBPM(t *testing.T) {
	if got := TempoFromBPM(120); got != DefaultTempo {
		t.Errorf("TempoFromBPM(120) = %d", got)
	}
	if bpm := Tempo(400000).BPM(); bpm != 150 {
		t.Errorf("BPM = %v, want 150", bpm)
	}
}

func TestDurationLargeTickCounts(t *testing.T) {
	tests := []struct {
		name  string
		div   Division
		ticks uint64
		want  time.Duration
	}{
		{"2^40 ticks at 96 tpq", QuarterNote(96), 1 << 40, 5726623061333333333},
		{"2^40 ticks smpte 25x40", SMPTE(25, 40), 1 << 40, 1099511627776000000},
		{"saturates", QuarterNote(96), 1 << 62, math.MaxInt64},
		{"max uint64", QuarterNote(1), math.MaxUint64, math.MaxInt64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.div.Duration(tt.ticks, DefaultTempo); got != tt.want {
				t.Errorf("Duration(%d) = %d, want %d", tt.ticks, got, tt.want)
			}
		})
	}

	// monotonic across the old 64-bit overflow point
	div := QuarterNote(96)
	prev := time.Duration(0)
	for shift := 30; shift < 64; shift++ {
		d := div.Duration(1<<shift, DefaultTempo)
		if d < prev {
			t.Fatalf("Duration(1<<%d) = %v went backwards from %v", shift, d, prev)
		}
		prev = d
	}
}
