package smf

import (
	"fmt"
	"io"
	"os"

	"github.com/ghostiam/binstruct"
)

const (
	headerMagic = "MThd"
	trackMagic  = "MTrk"
	headerLen   = 6
)

// Format classifies a sequence by its track layout.
type Format int

const (
	SingleTrack Format = iota
	MultipleTrack
	MultipleSong
)

func (f Format) String() string {
	switch f {
	case SingleTrack:
		return "Single Track"
	case MultipleTrack:
		return "Multiple Tracks"
	case MultipleSong:
		return "Multiple Songs"
	}
	return "Unknown"
}

// Sequence is a fully decoded MIDI file. It owns its tracks, which own
// their events; after decoding nothing is shared and reads are safe from
// any number of goroutines.
type Sequence struct {
	HeaderFormat uint16 // format word as written in MThd
	Division     Division
	Tracks       []*Track

	path string
}

// Format is MultipleSong for a format 2 header, otherwise it follows the
// track count.
func (s *Sequence) Format() Format {
	if s.HeaderFormat == 2 {
		return MultipleSong
	}
	if len(s.Tracks) > 1 {
		return MultipleTrack
	}
	return SingleTrack
}

func (s *Sequence) TrackCount() int { return len(s.Tracks) }

// EventCount sums the events of every track.
func (s *Sequence) EventCount() int {
	n := 0
	for _, t := range s.Tracks {
		n += len(t.Events)
	}
	return n
}

// FilePath is the path given to Open, empty for in-memory decodes.
func (s *Sequence) FilePath() string { return s.path }

// UpdateTimestamps recomputes every track's absolute timestamps from the
// deltas. Calling it repeatedly gives the same result.
func (s *Sequence) UpdateTimestamps() {
	for _, t := range s.Tracks {
		t.UpdateTimestamps()
	}
}

// Close drops all tracks.
func (s *Sequence) Close() {
	s.Tracks = nil
	s.path = ""
}

// Decoder holds decode policy.
type Decoder struct {
	// SkipUnknownMeta keeps unrecognised meta types as *UnknownMeta instead
	// of failing. Meta events are length-prefixed so the stream stays
	// aligned either way.
	SkipUnknownMeta bool
}

// Decode parses a complete SMF image with the default Decoder.
func Decode(data []byte) (*Sequence, error) {
	return Decoder{}.Decode(data)
}

// Open reads and decodes the file at path with the default Decoder.
func Open(path string) (*Sequence, error) {
	return Decoder{}.Open(path)
}

// Open reads and decodes the file at path.
func (d Decoder) Open(path string) (*Sequence, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	seq, err := d.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	seq.path = path
	return seq, nil
}

// ReadFrom decodes everything r yields.
func (d Decoder) ReadFrom(r io.Reader) (*Sequence, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return d.Decode(data)
}

type chunkHeader struct {
	ID     [4]byte
	Length uint32
}

type headerBody struct {
	Format   uint16
	Tracks   uint16
	Division uint16
}

// Decode parses a complete SMF image. Any failure aborts the whole file;
// no partial sequence is returned.
func (d Decoder) Decode(data []byte) (*Sequence, error) {
	c := NewCursor(data)

	body, err := readChunk(c, headerMagic)
	if err != nil {
		return nil, err
	}
	if body.Remaining() < headerLen {
		return nil, newError(InvalidFile, body.Pos(), "header chunk shorter than 6 bytes")
	}
	raw, err := body.ReadBytes(headerLen)
	if err != nil {
		return nil, err
	}
	var hdr headerBody
	if err := binstruct.UnmarshalBE(raw, &hdr); err != nil {
		return nil, newError(InvalidFile, body.Pos()-headerLen, err.Error())
	}

	div := ParseDivision(hdr.Division)
	if !div.valid() {
		return nil, newError(InvalidFile, body.Pos()-2, "zero division")
	}

	seq := &Sequence{
		HeaderFormat: hdr.Format,
		Division:     div,
		Tracks:       make([]*Track, 0, hdr.Tracks),
	}
	for i := 0; i < int(hdr.Tracks); i++ {
		chunk, err := readChunk(c, trackMagic)
		if err != nil {
			return nil, inTrack(err, i)
		}
		track, err := decodeTrack(chunk, d.SkipUnknownMeta)
		if err != nil {
			return nil, inTrack(err, i)
		}
		seq.Tracks = append(seq.Tracks, track)
	}
	return seq, nil
}

// readChunk checks the magic and returns a cursor bounded to the chunk body.
func readChunk(c *Cursor, magic string) (*Cursor, error) {
	at := c.Pos()
	raw, err := c.ReadBytes(8)
	if err != nil {
		return nil, err
	}
	var hdr chunkHeader
	if err := binstruct.UnmarshalBE(raw, &hdr); err != nil {
		return nil, newError(InvalidFile, at, err.Error())
	}
	if string(hdr.ID[:]) != magic {
		return nil, newError(InvalidFile, at, fmt.Sprintf("expected %q, found %q", magic, hdr.ID[:]))
	}
	if uint64(hdr.Length) > uint64(c.Remaining()) {
		return nil, newError(TruncatedChunk, at, fmt.Sprintf("%s declares %d bytes, %d left", magic, hdr.Length, c.Remaining()))
	}
	return c.Sub(int(hdr.Length))
}
