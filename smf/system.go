package smf

import "fmt"

// SystemType is the full status byte of a System event (0xF0-0xFE).
type SystemType byte

const (
	SysExStart      SystemType = 0xF0
	MTCQuarterFrame SystemType = 0xF1
	SongPosition    SystemType = 0xF2
	SongSelect      SystemType = 0xF3
	TuneRequest     SystemType = 0xF6
	SysExEnd        SystemType = 0xF7
	TimingClock     SystemType = 0xF8
	Start           SystemType = 0xFA
	Continue        SystemType = 0xFB
	Stop            SystemType = 0xFC
	ActiveSensing   SystemType = 0xFE
)

func (t SystemType) String() string {
	switch t {
	case SysExStart:
		return "Sysex Messages"
	case MTCQuarterFrame:
		return "MTC Quarter Frame"
	case SongPosition:
		return "Song Position Pointer"
	case SongSelect:
		return "Song Request"
	case TuneRequest:
		return "Tune Request"
	case SysExEnd:
		return "End of Sysex"
	case TimingClock:
		return "Timing Clock"
	case Start:
		return "Start Sequence"
	case Continue:
		return "Continue Sequence"
	case Stop:
		return "Stop Sequence"
	case ActiveSensing:
		return "Active Sensing"
	}
	return fmt.Sprintf("System 0x%02X", byte(t))
}

// DataLen is the fixed payload size, or -1 for the F7-terminated sysex.
func (t SystemType) DataLen() int {
	switch t {
	case SysExStart:
		return -1
	case MTCQuarterFrame, SongSelect:
		return 1
	case SongPosition:
		return 2
	case TuneRequest, SysExEnd, TimingClock, Start, Continue, Stop, ActiveSensing:
		return 0
	}
	return -2
}

// SystemEvent is implemented by every System category event.
type SystemEvent interface {
	Event
	Type() SystemType
}

type systemBase struct {
	Header
	typ SystemType
}

func (e *systemBase) Category() Category { return System }
func (e *systemBase) Status() byte       { return byte(e.typ) }
func (e *systemBase) Type() SystemType   { return e.typ }

// SysEx holds everything after 0xF0 up to and including the closing 0xF7.
type SysEx struct {
	systemBase
	Data []byte
}

// QuarterFrame is an MTC quarter frame message.
type QuarterFrame struct {
	systemBase
	Value uint8
}

// SongPositionPointer carries a 14-bit position in MIDI beats.
type SongPositionPointer struct {
	systemBase
	LSB, MSB uint8
}

func (e *SongPositionPointer) Position() uint16 {
	return uint16(e.MSB)<<7 | uint16(e.LSB)
}

// SongRequest selects a song by number.
type SongRequest struct {
	systemBase
	Song uint8
}

// Realtime covers the payload-free system messages: tune request, end of
// sysex, timing clock, start, continue, stop and active sensing.
type Realtime struct{ systemBase }

func decodeSystem(c *Cursor, h Header, status byte) (Event, error) {
	typ := SystemType(status)
	base := systemBase{Header: h, typ: typ}
	switch typ.DataLen() {
	case -1:
		var data []byte
		for {
			b, err := c.ReadU8()
			if err != nil {
				return nil, err
			}
			data = append(data, b)
			if b == byte(SysExEnd) {
				return &SysEx{systemBase: base, Data: data}, nil
			}
		}
	case 0:
		return &Realtime{base}, nil
	case 1:
		v, err := c.ReadU8()
		if err != nil {
			return nil, err
		}
		if typ == MTCQuarterFrame {
			return &QuarterFrame{systemBase: base, Value: v}, nil
		}
		return &SongRequest{systemBase: base, Song: v & 0x7F}, nil
	case 2:
		lsb, err := c.ReadU8()
		if err != nil {
			return nil, err
		}
		msb, err := c.ReadU8()
		if err != nil {
			return nil, err
		}
		return &SongPositionPointer{systemBase: base, LSB: lsb & 0x7F, MSB: msb & 0x7F}, nil
	}
	return nil, unknownKind(c.Pos()-1, status, "system")
}
