package smf

import "fmt"

// MetaType is the second byte of an 0xFF event.
type MetaType byte

const (
	MetaSequenceNumber   MetaType = 0x00
	MetaText             MetaType = 0x01
	MetaCopyright        MetaType = 0x02
	MetaTrackName        MetaType = 0x03
	MetaInstrumentName   MetaType = 0x04
	MetaLyric            MetaType = 0x05
	MetaMarker           MetaType = 0x06
	MetaCuePoint         MetaType = 0x07
	MetaProgramName      MetaType = 0x08
	MetaDeviceName       MetaType = 0x09
	MetaChannelPrefix    MetaType = 0x20
	MetaMIDIPort         MetaType = 0x21
	MetaEndOfTrack       MetaType = 0x2F
	MetaSetTempo         MetaType = 0x51
	MetaSMPTEOffset      MetaType = 0x54
	MetaTimeSignature    MetaType = 0x58
	MetaKeySignature     MetaType = 0x59
	MetaSequenceSpecific MetaType = 0x7F
)

var metaNames = map[MetaType]string{
	MetaSequenceNumber:   "Sequence Number",
	MetaText:             "User Text",
	MetaCopyright:        "Copyright",
	MetaTrackName:        "Track Name",
	MetaInstrumentName:   "Instrument Name",
	MetaLyric:            "Lyric",
	MetaMarker:           "Marker",
	MetaCuePoint:         "Cue Point",
	MetaProgramName:      "Program Name",
	MetaDeviceName:       "Device Name",
	MetaChannelPrefix:    "Channel Prefix",
	MetaMIDIPort:         "MIDI Port",
	MetaEndOfTrack:       "End of Track",
	MetaSetTempo:         "Set Tempo",
	MetaSMPTEOffset:      "SMPTE Offset",
	MetaTimeSignature:    "Time Signature",
	MetaKeySignature:     "Key Signature",
	MetaSequenceSpecific: "Sequence Specific",
}

func (t MetaType) String() string {
	if name, ok := metaNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Meta 0x%02X", byte(t))
}

// IsText reports whether the payload of this meta type is free text.
func (t MetaType) IsText() bool {
	return t >= MetaText && t <= MetaDeviceName
}

// MetaEvent is implemented by every Meta category event.
type MetaEvent interface {
	Event
	MetaType() MetaType
	// Payload is the raw bytes that followed the length field.
	Payload() []byte
}

type metaBase struct {
	Header
	Data []byte
}

func (m *metaBase) Category() Category { return Meta }
func (m *metaBase) Status() byte       { return 0xFF }
func (m *metaBase) Payload() []byte    { return m.Data }

// SequenceNumber is meta 0x00.
type SequenceNumber struct{ metaBase }

func (e *SequenceNumber) MetaType() MetaType { return MetaSequenceNumber }

// Number is the 16-bit big-endian sequence number. An empty payload means
// "use the track's position" and reads as 0.
func (e *SequenceNumber) Number() int {
	if len(e.Data) < 2 {
		return 0
	}
	return int(e.Data[0])<<8 | int(e.Data[1])
}

// Text covers meta 0x01 through 0x09; Kind tells which.
type Text struct {
	metaBase
	Kind MetaType
}

func (e *Text) MetaType() MetaType { return e.Kind }

// Text returns the payload as raw bytes converted to a string. Use the dump
// package to decode legacy encodings.
func (e *Text) Text() string { return string(e.Data) }

// ChannelPrefix is meta 0x20.
type ChannelPrefix struct {
	metaBase
	Channel uint8
}

func (e *ChannelPrefix) MetaType() MetaType { return MetaChannelPrefix }

// MIDIPort is meta 0x21.
type MIDIPort struct {
	metaBase
	Port uint8
}

func (e *MIDIPort) MetaType() MetaType { return MetaMIDIPort }

// EndOfTrack is meta 0x2F. It is always the last event of a decoded track.
type EndOfTrack struct{ metaBase }

func (e *EndOfTrack) MetaType() MetaType { return MetaEndOfTrack }

// SetTempo is meta 0x51.
type SetTempo struct {
	metaBase
	Tempo Tempo
}

func (e *SetTempo) MetaType() MetaType { return MetaSetTempo }

// SMPTEOffset is meta 0x54.
type SMPTEOffset struct {
	metaBase
	Hour, Minute, Second, Frame, Subframe uint8
}

func (e *SMPTEOffset) MetaType() MetaType { return MetaSMPTEOffset }

// TimeSignature is meta 0x58. Denominator is stored as the power-of-two
// exponent found in the file.
type TimeSignature struct {
	metaBase
	Numerator       uint8
	Denominator     uint8
	MetronomeTicks  uint8
	ThirtySecondths uint8 // 32nd notes per quarter note
}

func (e *TimeSignature) MetaType() MetaType { return MetaTimeSignature }

// DenominatorValue is 2^Denominator, the value a musician would write.
func (e *TimeSignature) DenominatorValue() int {
	if e.Denominator > 30 {
		return 0
	}
	return 1 << e.Denominator
}

// KeySignature is meta 0x59.
type KeySignature struct {
	metaBase
	Key   int8 // sharps when positive, flats when negative
	Minor bool
}

func (e *KeySignature) MetaType() MetaType { return MetaKeySignature }
func (e *KeySignature) Major() bool        { return !e.Minor }

// SequenceSpecific is meta 0x7F.
type SequenceSpecific struct{ metaBase }

func (e *SequenceSpecific) MetaType() MetaType { return MetaSequenceSpecific }

// UnknownMeta keeps a meta event whose type is not recognised. It is only
// produced by a Decoder with SkipUnknownMeta set.
type UnknownMeta struct {
	metaBase
	Type MetaType
}

func (e *UnknownMeta) MetaType() MetaType { return e.Type }

// decodeMeta consumes type, VLQ length and payload. The cursor sits just
// after the 0xFF status byte.
func decodeMeta(c *Cursor, h Header, lenient bool) (Event, error) {
	start := c.Pos()
	tb, err := c.ReadU8()
	if err != nil {
		return nil, err
	}
	length, err := c.ReadVLQ()
	if err != nil {
		return nil, err
	}
	if length > uint64(c.Remaining()) {
		return nil, newError(OutOfRange, c.Pos(), "meta payload")
	}
	data, err := c.ReadBytes(int(length))
	if err != nil {
		return nil, err
	}
	typ := MetaType(tb)
	base := metaBase{Header: h, Data: data}
	p := NewCursor(data)

	switch {
	case typ == MetaSequenceNumber:
		return &SequenceNumber{base}, nil
	case typ.IsText():
		return &Text{metaBase: base, Kind: typ}, nil
	case typ == MetaChannelPrefix:
		ch, err := p.ReadU8()
		if err != nil {
			return nil, payloadErr(start, typ)
		}
		return &ChannelPrefix{metaBase: base, Channel: ch & 0x0F}, nil
	case typ == MetaMIDIPort:
		port, err := p.ReadU8()
		if err != nil {
			return nil, payloadErr(start, typ)
		}
		return &MIDIPort{metaBase: base, Port: port}, nil
	case typ == MetaEndOfTrack:
		return &EndOfTrack{base}, nil
	case typ == MetaSetTempo:
		us, err := p.ReadU24()
		if err != nil {
			return nil, payloadErr(start, typ)
		}
		return &SetTempo{metaBase: base, Tempo: Tempo(us)}, nil
	case typ == MetaSMPTEOffset:
		if len(data) < 5 {
			return nil, payloadErr(start, typ)
		}
		return &SMPTEOffset{
			metaBase: base,
			Hour:     data[0],
			Minute:   data[1],
			Second:   data[2],
			Frame:    data[3],
			Subframe: data[4],
		}, nil
	case typ == MetaTimeSignature:
		if len(data) < 4 {
			return nil, payloadErr(start, typ)
		}
		return &TimeSignature{
			metaBase:        base,
			Numerator:       data[0],
			Denominator:     data[1],
			MetronomeTicks:  data[2],
			ThirtySecondths: data[3],
		}, nil
	case typ == MetaKeySignature:
		if len(data) < 2 {
			return nil, payloadErr(start, typ)
		}
		return &KeySignature{metaBase: base, Key: int8(data[0]), Minor: data[1] == 1}, nil
	case typ == MetaSequenceSpecific:
		return &SequenceSpecific{base}, nil
	}

	if lenient {
		return &UnknownMeta{metaBase: base, Type: typ}, nil
	}
	return nil, unknownKind(start, tb, "meta")
}

func payloadErr(offset int, typ MetaType) error {
	return newError(OutOfRange, offset, typ.String()+" payload too short")
}

func NewSetTempo(delta uint64, tempo Tempo) *SetTempo {
	data := []byte{byte(tempo >> 16), byte(tempo >> 8), byte(tempo)}
	return &SetTempo{metaBase: metaBase{Header: Header{DeltaTime: delta}, Data: data}, Tempo: tempo & 0xFFFFFF}
}

func NewText(delta uint64, kind MetaType, text string) *Text {
	return &Text{metaBase: metaBase{Header: Header{DeltaTime: delta}, Data: []byte(text)}, Kind: kind}
}

func NewEndOfTrack(delta uint64) *EndOfTrack {
	return &EndOfTrack{metaBase{Header: Header{DeltaTime: delta}}}
}
