package smf

// Category groups events by their status byte.
type Category int

const (
	Meta Category = iota
	Midi
	System
)

func (c Category) String() string {
	switch c {
	case Meta:
		return "META"
	case Midi:
		return "MIDI"
	case System:
		return "SYSEX"
	}
	return "?"
}

// CategoryOf classifies a status byte: 0xFF is Meta, any other 0xFx is
// System, everything else is a channel (Midi) event.
func CategoryOf(status byte) Category {
	switch {
	case status == 0xFF:
		return Meta
	case status>>4 == 0xF:
		return System
	}
	return Midi
}

// Event is one decoded track event. The set of implementations is closed;
// callers dispatch with a type switch over the concrete pointer types in
// this package.
type Event interface {
	Category() Category
	// Status is the reconstructed status byte, including the channel
	// nibble for channel events.
	Status() byte
	// Delta is the tick distance from the previous event of the track.
	Delta() uint64
	// Timestamp is the absolute tick inside the track.
	Timestamp() uint64

	header() *Header
}

// Header holds the timing shared by every event.
type Header struct {
	DeltaTime uint64
	Time      uint64
}

func (h *Header) Delta() uint64     { return h.DeltaTime }
func (h *Header) Timestamp() uint64 { return h.Time }
func (h *Header) header() *Header   { return h }

// ChannelEvent is implemented by every Midi category event.
type ChannelEvent interface {
	Event
	Channel() uint8
	Type() ChannelType
	// Binary packs the message into one word, status in the low byte and
	// data bytes above it: status | d0<<8 | d1<<16.
	Binary() uint32
	// Bytes is the 2 or 3 byte wire form.
	Bytes() []byte
}

func clamp7(v int) byte {
	if v < 0 {
		return 0
	}
	if v > 127 {
		return 127
	}
	return byte(v)
}
