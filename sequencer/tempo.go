package sequencer

import (
	"time"

	"go-smfplay/smf"
)

// timeline maps ticks to offsets from the playback anchor. Each Set Tempo
// closes a segment; a deadline is the segment's start offset plus the
// exact duration of the ticks since the segment began, so rounding never
// accumulates across ticks.
type timeline struct {
	div      smf.Division
	tempo    smf.Tempo
	segTick  uint64
	segStart time.Duration
}

func newTimeline(div smf.Division) *timeline {
	return &timeline{div: div, tempo: smf.DefaultTempo}
}

// At is the offset of tick. tick must not precede the current segment.
func (tl *timeline) At(tick uint64) time.Duration {
	return tl.segStart + tl.div.Duration(tick-tl.segTick, tl.tempo)
}

// SetTempo starts a new segment at tick.
func (tl *timeline) SetTempo(tick uint64, tempo smf.Tempo) {
	if tempo == 0 {
		return
	}
	tl.segStart = tl.At(tick)
	tl.segTick = tick
	tl.tempo = tempo
}

// TempoChange is one Set Tempo event on the merged timeline.
type TempoChange struct {
	Tick  uint64
	Tempo smf.Tempo
}

// TempoMap is the tempo history of a whole sequence, in merged order.
type TempoMap struct {
	Division smf.Division
	Changes  []TempoChange
	End      uint64 // last tick of the longest track
}

// NewTempoMap collects every Set Tempo event across all tracks.
func NewTempoMap(seq *smf.Sequence) *TempoMap {
	m := &TempoMap{Division: seq.Division}
	for _, s := range Merge(seq) {
		if st, ok := s.Event.(*smf.SetTempo); ok {
			m.Changes = append(m.Changes, TempoChange{Tick: s.Event.Timestamp(), Tempo: st.Tempo})
		}
	}
	for _, tr := range seq.Tracks {
		if end := tr.End(); end > m.End {
			m.End = end
		}
	}
	return m
}

// TempoAt is the tempo in effect at tick.
func (m *TempoMap) TempoAt(tick uint64) smf.Tempo {
	tempo := smf.DefaultTempo
	for _, c := range m.Changes {
		if c.Tick > tick {
			break
		}
		if c.Tempo != 0 {
			tempo = c.Tempo
		}
	}
	return tempo
}

// Time is the playback offset of tick, computed the way the player
// computes deadlines.
func (m *TempoMap) Time(tick uint64) time.Duration {
	tl := newTimeline(m.Division)
	for _, c := range m.Changes {
		if c.Tick > tick {
			break
		}
		tl.SetTempo(c.Tick, c.Tempo)
	}
	return tl.At(tick)
}

// Length is the playback length of the whole sequence.
func (m *TempoMap) Length() time.Duration {
	return m.Time(m.End)
}
