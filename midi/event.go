package midi

import "fmt"

// Channel message status nibbles (upper four bits of the status byte)
const (
	NoteOff         uint8 = 0x80
	NoteOn          uint8 = 0x90
	PolyPressure    uint8 = 0xA0
	CC              uint8 = 0xB0
	ProgramChange   uint8 = 0xC0
	ChannelPressure uint8 = 0xD0
	PitchBend       uint8 = 0xE0
)

// Controller numbers used when silencing a device
const (
	ResetAllControllers uint8 = 121
	AllNotesOff         uint8 = 123
)

// ShortMessage is a packed 1-3 byte MIDI message: status in the low byte,
// then the first and second data bytes.
type ShortMessage uint32

// Pack builds a ShortMessage from its bytes.
func Pack(status, data0, data1 uint8) ShortMessage {
	return ShortMessage(uint32(status) | uint32(data0)<<8 | uint32(data1)<<16)
}

func (m ShortMessage) Status() uint8 { return uint8(m) }
func (m ShortMessage) Data0() uint8  { return uint8(m >> 8) }
func (m ShortMessage) Data1() uint8  { return uint8(m >> 16) }

// Channel is the low nibble of a channel message status.
func (m ShortMessage) Channel() uint8 { return m.Status() & 0x0F }

// Len is the wire length implied by the status byte, 0 if the status cannot
// start a short message (data byte, sysex start).
func (m ShortMessage) Len() int {
	s := m.Status()
	switch {
	case s < 0x80:
		return 0
	case s < 0xF0:
		if t := s & 0xF0; t == ProgramChange || t == ChannelPressure {
			return 2
		}
		return 3
	}
	switch s {
	case 0xF1, 0xF3:
		return 2
	case 0xF2:
		return 3
	case 0xF6, 0xF7, 0xF8, 0xFA, 0xFB, 0xFC, 0xFE, 0xFF:
		return 1
	}
	return 0
}

// Bytes is the wire form, nil if the status is not valid for a short message.
func (m ShortMessage) Bytes() []byte {
	n := m.Len()
	if n == 0 {
		return nil
	}
	b := []byte{m.Status(), m.Data0(), m.Data1()}
	return b[:n]
}

func (m ShortMessage) String() string {
	switch m.Len() {
	case 1:
		return fmt.Sprintf("%02X", m.Status())
	case 2:
		return fmt.Sprintf("%02X %02X", m.Status(), m.Data0())
	case 3:
		return fmt.Sprintf("%02X %02X %02X", m.Status(), m.Data0(), m.Data1())
	}
	return fmt.Sprintf("invalid(%06X)", uint32(m))
}
