package smf

// Track is the ordered event list of one MTrk chunk.
type Track struct {
	Events []Event
}

func (t *Track) Len() int { return len(t.Events) }

// Name returns the first track name meta event, if any.
func (t *Track) Name() string {
	for _, ev := range t.Events {
		if txt, ok := ev.(*Text); ok && txt.Kind == MetaTrackName {
			return txt.Text()
		}
	}
	return ""
}

// End is the timestamp of the last event.
func (t *Track) End() uint64 {
	if len(t.Events) == 0 {
		return 0
	}
	return t.Events[len(t.Events)-1].Timestamp()
}

// UpdateTimestamps sets every timestamp to the running sum of deltas.
func (t *Track) UpdateTimestamps() {
	var now uint64
	for _, ev := range t.Events {
		h := ev.header()
		now += h.DeltaTime
		h.Time = now
	}
}

// Append adds an event built outside the decoder and stamps its timestamp.
func (t *Track) Append(ev Event) {
	h := ev.header()
	h.Time = t.End() + h.DeltaTime
	t.Events = append(t.Events, ev)
}

// decodeTrack reads events until End of Track or the chunk bound.
//
// A byte whose high nibble is below 8 where a status is expected is running
// status: it is pushed back and decoded as data under the previous status.
func decodeTrack(c *Cursor, lenient bool) (*Track, error) {
	track := &Track{Events: make([]Event, 0, c.Remaining()/3)}
	var prev Event

	for !c.Done() {
		delta, err := c.ReadVLQ()
		if err != nil {
			return nil, err
		}
		statusAt := c.Pos()
		status, err := c.ReadU8()
		if err != nil {
			return nil, err
		}
		if status>>4 < 8 {
			if prev == nil {
				return nil, newError(InvalidRunningStatus, statusAt, "no previous event")
			}
			c.Unread()
			status = prev.Status()
		}

		h := Header{DeltaTime: delta}
		var ev Event
		switch CategoryOf(status) {
		case Meta:
			ev, err = decodeMeta(c, h, lenient)
		case System:
			ev, err = decodeSystem(c, h, status)
		default:
			ev, err = decodeChannel(c, h, status)
		}
		if err != nil {
			return nil, err
		}
		track.Events = append(track.Events, ev)
		prev = ev

		if _, ok := ev.(*EndOfTrack); ok {
			break
		}
	}

	if n := len(track.Events); n == 0 || !isEndOfTrack(track.Events[n-1]) {
		track.Events = append(track.Events, &EndOfTrack{})
	}
	track.UpdateTimestamps()
	return track, nil
}

func isEndOfTrack(ev Event) bool {
	_, ok := ev.(*EndOfTrack)
	return ok
}
