package smf

import "fmt"

// ChannelType is the high nibble of a channel event status byte.
type ChannelType byte

const (
	TypeNoteOff         ChannelType = 0x8
	TypeNoteOn          ChannelType = 0x9
	TypeKeyPressure     ChannelType = 0xA
	TypeControlChange   ChannelType = 0xB
	TypeProgramChange   ChannelType = 0xC
	TypeChannelPressure ChannelType = 0xD
	TypePitchBend       ChannelType = 0xE
)

func (t ChannelType) String() string {
	switch t {
	case TypeNoteOff:
		return "Note Off"
	case TypeNoteOn:
		return "Note On"
	case TypeKeyPressure:
		return "Polyphonic Key Pressure"
	case TypeControlChange:
		return "Control Change"
	case TypeProgramChange:
		return "Program Change"
	case TypeChannelPressure:
		return "Channel Pressure"
	case TypePitchBend:
		return "Pitch Bend"
	}
	return fmt.Sprintf("Channel 0x%X", byte(t))
}

// DataLen is the number of data bytes that follow the status byte.
func (t ChannelType) DataLen() int {
	if t == TypeProgramChange || t == TypeChannelPressure {
		return 1
	}
	return 2
}

type channelBase struct {
	Header
	typ  ChannelType
	ch   uint8
	Data [2]byte
}

func (e *channelBase) Category() Category { return Midi }
func (e *channelBase) Type() ChannelType  { return e.typ }
func (e *channelBase) Channel() uint8     { return e.ch }
func (e *channelBase) Status() byte       { return byte(e.typ)<<4 | e.ch }

// SetChannel clamps to [0,15].
func (e *channelBase) SetChannel(ch int) {
	if ch < 0 {
		ch = 0
	}
	if ch > 15 {
		ch = 15
	}
	e.ch = uint8(ch)
}

func (e *channelBase) setData0(v int) { e.Data[0] = clamp7(v) }
func (e *channelBase) setData1(v int) { e.Data[1] = clamp7(v) }

func (e *channelBase) Binary() uint32 {
	w := uint32(e.Status()) | uint32(e.Data[0])<<8
	if e.typ.DataLen() == 2 {
		w |= uint32(e.Data[1]) << 16
	}
	return w
}

func (e *channelBase) Bytes() []byte {
	if e.typ.DataLen() == 1 {
		return []byte{e.Status(), e.Data[0]}
	}
	return []byte{e.Status(), e.Data[0], e.Data[1]}
}

func newChannelBase(h Header, typ ChannelType, ch int, d0, d1 int) channelBase {
	b := channelBase{Header: h, typ: typ}
	b.SetChannel(ch)
	b.setData0(d0)
	b.setData1(d1)
	return b
}

// NoteOff is status 0x8n.
type NoteOff struct{ channelBase }

func NewNoteOff(delta uint64, ch int, note Note, velocity int) *NoteOff {
	return &NoteOff{newChannelBase(Header{DeltaTime: delta}, TypeNoteOff, ch, note.Number(), velocity)}
}

func (e *NoteOff) Note() Note        { return Note(e.Data[0]) }
func (e *NoteOff) Velocity() uint8   { return e.Data[1] }
func (e *NoteOff) SetNote(n Note)    { e.setData0(n.Number()) }
func (e *NoteOff) SetVelocity(v int) { e.setData1(v) }

// NoteOn is status 0x9n. A velocity of zero is kept as a NoteOn; sinks
// treat it as a release.
type NoteOn struct{ channelBase }

func NewNoteOn(delta uint64, ch int, note Note, velocity int) *NoteOn {
	return &NoteOn{newChannelBase(Header{DeltaTime: delta}, TypeNoteOn, ch, note.Number(), velocity)}
}

func (e *NoteOn) Note() Note        { return Note(e.Data[0]) }
func (e *NoteOn) Velocity() uint8   { return e.Data[1] }
func (e *NoteOn) SetNote(n Note)    { e.setData0(n.Number()) }
func (e *NoteOn) SetVelocity(v int) { e.setData1(v) }

// KeyPressure is polyphonic aftertouch, status 0xAn.
type KeyPressure struct{ channelBase }

func (e *KeyPressure) Note() Note        { return Note(e.Data[0]) }
func (e *KeyPressure) Pressure() uint8   { return e.Data[1] }
func (e *KeyPressure) SetNote(n Note)    { e.setData0(n.Number()) }
func (e *KeyPressure) SetPressure(v int) { e.setData1(v) }

// ControlChange is status 0xBn.
type ControlChange struct{ channelBase }

func NewControlChange(delta uint64, ch int, c Controller, value int) *ControlChange {
	return &ControlChange{newChannelBase(Header{DeltaTime: delta}, TypeControlChange, ch, int(c), value)}
}

func (e *ControlChange) Controller() Controller     { return Controller(e.Data[0]) }
func (e *ControlChange) Value() uint8               { return e.Data[1] }
func (e *ControlChange) SetController(c Controller) { e.setData0(int(c)) }
func (e *ControlChange) SetValue(v int)             { e.setData1(v) }

// ProgramChange is status 0xCn and carries a single data byte.
type ProgramChange struct{ channelBase }

func NewProgramChange(delta uint64, ch int, inst Instrument) *ProgramChange {
	return &ProgramChange{newChannelBase(Header{DeltaTime: delta}, TypeProgramChange, ch, int(inst), 0)}
}

func (e *ProgramChange) Instrument() Instrument     { return Instrument(e.Data[0]) }
func (e *ProgramChange) SetInstrument(i Instrument) { e.setData0(int(i)) }

// ChannelPressure is status 0xDn and carries a single data byte.
type ChannelPressure struct{ channelBase }

func (e *ChannelPressure) Pressure() uint8   { return e.Data[0] }
func (e *ChannelPressure) SetPressure(v int) { e.setData0(v) }

// PitchBend is status 0xEn. The first data byte is the LSB.
type PitchBend struct{ channelBase }

func (e *PitchBend) LSB() uint8 { return e.Data[0] }
func (e *PitchBend) MSB() uint8 { return e.Data[1] }

// Value is the 14-bit bend, 0x2000 at rest.
func (e *PitchBend) Value() uint16 {
	return uint16(e.Data[1])<<7 | uint16(e.Data[0])
}

func (e *PitchBend) SetLSB(v int) { e.setData0(v) }
func (e *PitchBend) SetMSB(v int) { e.setData1(v) }

// decodeChannel consumes the data bytes of a channel event. The cursor sits
// just after the status byte, or on the first data byte under running status.
func decodeChannel(c *Cursor, h Header, status byte) (Event, error) {
	typ := ChannelType(status >> 4)
	if typ < TypeNoteOff || typ > TypePitchBend {
		return nil, unknownKind(c.Pos(), status, "channel")
	}
	d0, err := c.ReadU8()
	if err != nil {
		return nil, err
	}
	var d1 byte
	if typ.DataLen() == 2 {
		if d1, err = c.ReadU8(); err != nil {
			return nil, err
		}
	}
	base := channelBase{Header: h, typ: typ, ch: status & 0x0F, Data: [2]byte{d0 & 0x7F, d1 & 0x7F}}

	switch typ {
	case TypeNoteOff:
		return &NoteOff{base}, nil
	case TypeNoteOn:
		return &NoteOn{base}, nil
	case TypeKeyPressure:
		return &KeyPressure{base}, nil
	case TypeControlChange:
		return &ControlChange{base}, nil
	case TypeProgramChange:
		return &ProgramChange{base}, nil
	case TypeChannelPressure:
		return &ChannelPressure{base}, nil
	default:
		return &PitchBend{base}, nil
	}
}
