package smf

import "fmt"

// Pitch is a pitch class, C through B.
type Pitch int

const (
	C Pitch = iota
	CSharp
	D
	DSharp
	E
	F
	FSharp
	G
	GSharp
	A
	ASharp
	B
)

var pitchNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

func (p Pitch) String() string {
	if p < C || p > B {
		return "?"
	}
	return pitchNames[p]
}

// Octave numbering puts note 0 in octave -2 and note 127 in octave 8.
const (
	MinOctave = -2
	MaxOctave = 8
)

// Note is a MIDI note number, 0-127.
type Note uint8

// NoteOf builds a note from pitch class and octave, clamped to [0,127].
func NoteOf(p Pitch, octave int) Note {
	return Note(clamp7((octave+2)*12 + int(p)))
}

// NewNote clamps n into the valid note range.
func NewNote(n int) Note { return Note(clamp7(n)) }

func (n Note) Number() int  { return int(n) }
func (n Note) Pitch() Pitch { return Pitch(int(n) % 12) }
func (n Note) Octave() int  { return int(n)/12 - 2 }

func (n Note) WithPitch(p Pitch) Note { return NoteOf(p, n.Octave()) }
func (n Note) WithOctave(o int) Note  { return NoteOf(n.Pitch(), o) }

// String renders e.g. "Oc 3 - C#" or "Oc-1 -  A".
func (n Note) String() string {
	o := n.Octave()
	prefix := fmt.Sprintf("Oc %d", o)
	if o < 0 {
		prefix = fmt.Sprintf("Oc%d", o)
	}
	return fmt.Sprintf("%s - %2s", prefix, n.Pitch())
}
