// Package dump renders a decoded sequence as a human-readable listing.
package dump

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go-smfplay/smf"

	"github.com/mattn/go-runewidth"
)

const (
	rule      = "==================================================================="
	typeWidth = 24
	textWidth = 48
	hexBytes  = 16
)

// ErrNoPath is returned by SaveSibling for sequences not read from disk.
var ErrNoPath = errors.New("dump: sequence has no file path")

// Write renders seq to w: a header block, then one line per event giving
// index, delta, absolute tick, category, type and a decoded payload.
func Write(w io.Writer, seq *smf.Sequence, text TextDecoder) error {
	if text == nil {
		text = func(b []byte) string { return string(b) }
	}
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "Header\n")
	fmt.Fprintf(bw, "Format: %s\n", seq.Format())
	fmt.Fprintf(bw, "Num of tracks: %d\n", seq.TrackCount())
	fmt.Fprintf(bw, "Division: %s\n", seq.Division)
	fmt.Fprintf(bw, "\n%s\n", rule)

	for i, tr := range seq.Tracks {
		fmt.Fprintf(bw, "Track %d", i)
		if name := tr.Name(); name != "" {
			fmt.Fprintf(bw, " %q", text([]byte(name)))
		}
		fmt.Fprintf(bw, "\nNum of Events: %d\n", tr.Len())
		for j, ev := range tr.Events {
			fmt.Fprintf(bw, "%6d | %8d %8d | %-5s | %s | %s\n",
				j, ev.Delta(), ev.Timestamp(), ev.Category(),
				runewidth.FillRight(TypeName(ev), typeWidth), Detail(ev, text))
		}
		fmt.Fprintf(bw, "%s\n", rule)
	}
	return bw.Flush()
}

// String is Write into a string.
func String(seq *smf.Sequence, text TextDecoder) string {
	var sb strings.Builder
	Write(&sb, seq, text)
	return sb.String()
}

// SaveSibling writes the listing next to the source file with a .txt
// extension and returns the path written.
func SaveSibling(seq *smf.Sequence, text TextDecoder) (string, error) {
	src := seq.FilePath()
	if src == "" {
		return "", ErrNoPath
	}
	path := strings.TrimSuffix(src, filepath.Ext(src)) + ".txt"

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	if err := Write(f, seq, text); err != nil {
		f.Close()
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, f.Close()
}

// TypeName names the event's kind within its category.
func TypeName(ev smf.Event) string {
	switch ev := ev.(type) {
	case smf.MetaEvent:
		return ev.MetaType().String()
	case smf.ChannelEvent:
		return ev.Type().String()
	case smf.SystemEvent:
		return ev.Type().String()
	}
	return "?"
}

// Detail renders the event payload.
func Detail(ev smf.Event, text TextDecoder) string {
	switch ev := ev.(type) {
	case *smf.NoteOff:
		return fmt.Sprintf("ch: %2d: %s %d", ev.Channel(), ev.Note(), ev.Velocity())
	case *smf.NoteOn:
		return fmt.Sprintf("ch: %2d: %s %d", ev.Channel(), ev.Note(), ev.Velocity())
	case *smf.KeyPressure:
		return fmt.Sprintf("ch: %2d: %s %d", ev.Channel(), ev.Note(), ev.Pressure())
	case *smf.ControlChange:
		return fmt.Sprintf("ch: %2d: %s = %d", ev.Channel(), ev.Controller(), ev.Value())
	case *smf.ProgramChange:
		return fmt.Sprintf("ch: %2d: %d (%s)", ev.Channel(), ev.Instrument(), ev.Instrument().Name())
	case *smf.ChannelPressure:
		return fmt.Sprintf("ch: %2d: %d", ev.Channel(), ev.Pressure())
	case *smf.PitchBend:
		return fmt.Sprintf("ch: %2d: %d", ev.Channel(), int(ev.Value())-0x2000)

	case *smf.Text:
		return fmt.Sprintf("%q", runewidth.Truncate(text(ev.Payload()), textWidth, "..."))
	case *smf.SequenceNumber:
		return fmt.Sprintf("%d", ev.Number())
	case *smf.ChannelPrefix:
		return fmt.Sprintf("ch: %2d", ev.Channel)
	case *smf.MIDIPort:
		return fmt.Sprintf("port %d", ev.Port)
	case *smf.EndOfTrack:
		return ""
	case *smf.SetTempo:
		return fmt.Sprintf("%d us/qn (%.2f bpm)", ev.Tempo, ev.Tempo.BPM())
	case *smf.SMPTEOffset:
		return fmt.Sprintf("%02d:%02d:%02d:%02d.%02d", ev.Hour, ev.Minute, ev.Second, ev.Frame, ev.Subframe)
	case *smf.TimeSignature:
		return fmt.Sprintf("%d/%d clocks=%d 32nds=%d", ev.Numerator, ev.DenominatorValue(), ev.MetronomeTicks, ev.ThirtySecondths)
	case *smf.KeySignature:
		return keyName(ev.Key, ev.Minor)
	case smf.MetaEvent:
		return hexPayload(ev.Payload())

	case *smf.SysEx:
		return hexPayload(ev.Data)
	case *smf.QuarterFrame:
		return fmt.Sprintf("piece %d value %d", ev.Value>>4, ev.Value&0x0F)
	case *smf.SongPositionPointer:
		return fmt.Sprintf("%d", ev.Position())
	case *smf.SongRequest:
		return fmt.Sprintf("%d", ev.Song)
	}
	return ""
}

var (
	majorKeys = [15]string{"Cb", "Gb", "Db", "Ab", "Eb", "Bb", "F", "C", "G", "D", "A", "E", "B", "F#", "C#"}
	minorKeys = [15]string{"Ab", "Eb", "Bb", "F", "C", "G", "D", "A", "E", "B", "F#", "C#", "G#", "D#", "A#"}
)

func keyName(key int8, minor bool) string {
	i := int(key) + 7
	if i < 0 || i >= len(majorKeys) {
		return fmt.Sprintf("key %d", key)
	}
	if minor {
		return minorKeys[i] + " minor"
	}
	return majorKeys[i] + " major"
}

func hexPayload(b []byte) string {
	if len(b) > hexBytes {
		return fmt.Sprintf("%d bytes: % X ...", len(b), b[:hexBytes])
	}
	return fmt.Sprintf("%d bytes: % X", len(b), b)
}
