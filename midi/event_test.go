package midi

import (
	"bytes"
	"errors"
	"testing"
)

func TestShortMessageBytes(t *testing.T) {
	tests := []struct {
		msg  ShortMessage
		want []byte
	}{
		{Pack(NoteOn|3, 60, 100), []byte{0x93, 60, 100}},
		{Pack(ProgramChange|1, 5, 0), []byte{0xC1, 5}},
		{Pack(ChannelPressure, 40, 99), []byte{0xD0, 40}},
		{Pack(PitchBend|15, 0, 0x40), []byte{0xEF, 0, 0x40}},
		{Pack(0xF8, 0, 0), []byte{0xF8}},
		{Pack(0xF2, 0x10, 0x02), []byte{0xF2, 0x10, 0x02}},
		{Pack(0xF3, 4, 0), []byte{0xF3, 4}},
		{Pack(0x3C, 0, 0), nil},
		{Pack(0xF0, 0, 0), nil},
	}
	for _, tt := range tests {
		if got := tt.msg.Bytes(); !bytes.Equal(got, tt.want) {
			t.Errorf("%s: Bytes = % x, want % x", tt.msg, got, tt.want)
		}
	}
}

func TestPackLayout(t *testing.T) {
	m := Pack(0x93, 60, 100)
	if uint32(m) != 0x93|60<<8|100<<16 {
		t.Fatalf("packed = %#x", uint32(m))
	}
	if m.Status() != 0x93 || m.Data0() != 60 || m.Data1() != 100 || m.Channel() != 3 {
		t.Errorf("fields = %02x %d %d ch %d", m.Status(), m.Data0(), m.Data1(), m.Channel())
	}
	if s := m.String(); s != "93 3C 64" {
		t.Errorf("String = %q", s)
	}
}

func TestRecorder(t *testing.T) {
	r := NewRecorder()
	boom := errors.New("boom")
	r.FailWith(func(m ShortMessage) error {
		if m.Data0() == 61 {
			return boom
		}
		return nil
	})

	if err := r.Send(Pack(NoteOn, 60, 1)); err != nil {
		t.Fatal(err)
	}
	err := r.Send(Pack(NoteOn, 61, 1))
	if !errors.Is(err, ErrSink) || !errors.Is(err, boom) {
		t.Fatalf("failed send = %v", err)
	}
	var se *SinkError
	if !errors.As(err, &se) || se.Msg.Data0() != 61 {
		t.Errorf("SinkError = %+v", se)
	}
	if err := r.Send(Pack(0x40, 0, 0)); !errors.Is(err, ErrInvalidMessage) {
		t.Errorf("data byte status: %v", err)
	}

	if msgs := r.Messages(); len(msgs) != 1 || msgs[0].Data0() != 60 {
		t.Errorf("messages = %v", msgs)
	}
	if inits, _, _ := r.Counts(); inits != 1 {
		t.Errorf("lazy init ran %d times", inits)
	}
}

func TestResetSilencesAllChannels(t *testing.T) {
	r := NewRecorder()
	l := NewLocked(r)
	if err := l.Reset(); err != nil {
		t.Fatal(err)
	}
	msgs := r.Messages()
	if len(msgs) != 32 {
		t.Fatalf("reset sent %d messages, want 32", len(msgs))
	}
	seen := map[uint8]int{}
	for _, m := range msgs {
		if m.Status()&0xF0 != CC {
			t.Fatalf("non-CC message %s", m)
		}
		if m.Data0() != AllNotesOff && m.Data0() != ResetAllControllers {
			t.Errorf("unexpected controller %d", m.Data0())
		}
		seen[m.Channel()]++
	}
	if len(seen) != 16 {
		t.Errorf("reset reached %d channels", len(seen))
	}
	if _, resets, _ := r.Counts(); resets != 1 {
		t.Errorf("resets = %d", resets)
	}
	l.Close()
	if _, _, closes := r.Counts(); closes != 1 {
		t.Errorf("closes = %d", closes)
	}
}
