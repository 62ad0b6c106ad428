package smf

import (
	"fmt"
	"math"
	"math/bits"
	"time"
)

// Tempo is microseconds per quarter note.
type Tempo uint32

// DefaultTempo applies until the first Set Tempo event: 120 BPM.
const DefaultTempo Tempo = 500000

// BPM converts to beats per minute.
func (t Tempo) BPM() float64 {
	if t == 0 {
		return 0
	}
	return 60e6 / float64(t)
}

// TempoFromBPM converts beats per minute, rounding to the nearest microsecond.
func TempoFromBPM(bpm float64) Tempo {
	if bpm <= 0 {
		return DefaultTempo
	}
	return Tempo(60e6/bpm + 0.5)
}

// DivisionKind tags the two header time formats.
type DivisionKind int

const (
	QuarterNoteDivision DivisionKind = iota
	SMPTEDivision
)

// Division maps ticks to real time. It is fixed once the header is read.
type Division struct {
	Kind            DivisionKind
	TicksPerQuarter uint16
	FramesPerSecond uint8
	TicksPerFrame   uint8
}

func QuarterNote(ticks uint16) Division {
	return Division{Kind: QuarterNoteDivision, TicksPerQuarter: ticks}
}

func SMPTE(fps, ticksPerFrame uint8) Division {
	return Division{Kind: SMPTEDivision, FramesPerSecond: fps, TicksPerFrame: ticksPerFrame}
}

// ParseDivision decodes the 16-bit header field. With the top bit clear the
// low 15 bits are ticks per quarter note; with it set the high byte is the
// negated frame rate and the low byte ticks per frame.
func ParseDivision(v uint16) Division {
	if v&0x8000 == 0 {
		return QuarterNote(v)
	}
	fps := -int8(byte(v >> 8))
	return SMPTE(uint8(fps), uint8(v))
}

// Raw re-encodes the header field.
func (d Division) Raw() uint16 {
	if d.Kind == SMPTEDivision {
		return uint16(byte(-int8(d.FramesPerSecond)))<<8 | uint16(d.TicksPerFrame)
	}
	return d.TicksPerQuarter & 0x7FFF
}

func (d Division) IsSMPTE() bool { return d.Kind == SMPTEDivision }

func (d Division) valid() bool {
	if d.Kind == SMPTEDivision {
		return d.FramesPerSecond > 0 && d.TicksPerFrame > 0
	}
	return d.TicksPerQuarter > 0
}

func (d Division) String() string {
	if d.Kind == SMPTEDivision {
		return fmt.Sprintf("Frames per second: %d, Ticks per frame: %d", d.FramesPerSecond, d.TicksPerFrame)
	}
	return fmt.Sprintf("Quarter note division: %d", d.TicksPerQuarter)
}

// TickDuration is the length of one tick. Quarter-note divisions scale with
// tempo; SMPTE divisions are locked to real time and ignore it.
func (d Division) TickDuration(tempo Tempo) time.Duration {
	return d.Duration(1, tempo)
}

// Duration is the length of n ticks at a constant tempo. The product is
// formed in 128 bits before dividing, so the result is truncated once, not
// per tick. Durations beyond the range of time.Duration saturate.
func (d Division) Duration(ticks uint64, tempo Tempo) time.Duration {
	if !d.valid() {
		return 0
	}
	if d.Kind == SMPTEDivision {
		perSecond := uint64(d.FramesPerSecond) * uint64(d.TicksPerFrame)
		return mulDiv(ticks, uint64(time.Second), perSecond)
	}
	return mulDiv(ticks, uint64(tempo)*uint64(time.Microsecond), uint64(d.TicksPerQuarter))
}

// mulDiv is a*b/div in nanoseconds, clamped to the largest Duration.
func mulDiv(a, b, div uint64) time.Duration {
	hi, lo := bits.Mul64(a, b)
	if hi >= div {
		return math.MaxInt64
	}
	q, _ := bits.Div64(hi, lo, div)
	return time.Duration(min(q, math.MaxInt64))
}
