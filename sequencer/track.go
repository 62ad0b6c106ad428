package sequencer

import "go-smfplay/smf"

// trackCursor is the playback read position in one track. Tracks are never
// mutated by playback; concurrent players each keep their own cursors.
type trackCursor struct {
	index  int
	events []smf.Event
	pos    int
}

func newCursors(seq *smf.Sequence) []*trackCursor {
	cursors := make([]*trackCursor, len(seq.Tracks))
	for i, tr := range seq.Tracks {
		cursors[i] = &trackCursor{index: i, events: tr.Events}
	}
	return cursors
}

func (c *trackCursor) Done() bool { return c.pos >= len(c.events) }

// Peek returns the next unread event, or nil when the track is exhausted.
func (c *trackCursor) Peek() smf.Event {
	if c.Done() {
		return nil
	}
	return c.events[c.pos]
}

// NextDue returns the next event at or before tick and advances past it.
func (c *trackCursor) NextDue(tick uint64) (smf.Event, bool) {
	ev := c.Peek()
	if ev == nil || ev.Timestamp() > tick {
		return nil, false
	}
	c.pos++
	return ev, true
}
