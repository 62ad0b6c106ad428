package sequencer

import (
	"time"

	"go-smfplay/smf"
)

// PlayState is the Manager's transport state
type PlayState int

const (
	Stopped PlayState = iota
	Playing
)

func (s PlayState) String() string {
	if s == Playing {
		return "playing"
	}
	return "stopped"
}

// Status is a snapshot of the Manager for display
type Status struct {
	State PlayState

	// Current item
	File   string
	Index  int // position in the playlist, 0-based
	Total  int
	Format smf.Format
	Tracks int

	// Position
	Tick    uint64
	Elapsed time.Duration
	Length  time.Duration
	Tempo   smf.Tempo

	// Counters for the whole run
	Sent    int
	Errors  int
	Skipped []string // files that failed to decode

	// Last note-on velocity per channel, 0 after note-off
	Channels [16]uint8

	LastErr error
}

// Progress is Elapsed over Length, clamped to [0,1]
func (s Status) Progress() float64 {
	if s.Length <= 0 {
		return 0
	}
	p := float64(s.Elapsed) / float64(s.Length)
	return max(0, min(1, p))
}
