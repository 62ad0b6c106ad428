package sequencer

import (
	"sort"

	"go-smfplay/smf"
)

// Scheduled is one event placed on the merged timeline.
type Scheduled struct {
	Track int
	Index int // position within its track
	Event smf.Event
}

// Tick is the event's absolute track timestamp.
func (s Scheduled) Tick() uint64 { return s.Event.Timestamp() }

// Merge flattens all tracks into one timestamp-ordered list. The sort is
// stable over track-major input, so equal ticks keep track index order and
// events within a track keep file order. Emission order matches Play.
func Merge(seq *smf.Sequence) []Scheduled {
	var all []Scheduled
	for ti, tr := range seq.Tracks {
		for i, ev := range tr.Events {
			all = append(all, Scheduled{Track: ti, Index: i, Event: ev})
		}
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Tick() < all[j].Tick()
	})
	return all
}
