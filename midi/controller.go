package midi

import (
	"errors"
	"fmt"
	"sync"
)

// ErrSink matches every *SinkError.
var ErrSink = errors.New("midi: sink error")

// SinkError reports a message the output could not deliver.
type SinkError struct {
	Msg ShortMessage
	Err error
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("midi: send %s: %v", e.Msg, e.Err)
}

func (e *SinkError) Unwrap() []error { return []error{ErrSink, e.Err} }

// Sink accepts packed short messages.
type Sink interface {
	Send(msg ShortMessage) error
}

// Device is a Sink with a lifecycle. Send before Init is valid: devices
// initialise lazily on first use.
type Device interface {
	Sink
	Init() error
	// Reset silences the device (all notes off, controllers reset).
	Reset() error
	Close() error
}

// Locked serialises access to a Device shared between playback flows.
type Locked struct {
	mu  sync.Mutex
	dev Device
}

func NewLocked(dev Device) *Locked {
	return &Locked{dev: dev}
}

func (l *Locked) Send(msg ShortMessage) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.dev.Send(msg)
}

func (l *Locked) Init() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.dev.Init()
}

func (l *Locked) Reset() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.dev.Reset()
}

func (l *Locked) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.dev.Close()
}

// silence sends All Notes Off and Reset All Controllers on every channel.
// It keeps going past failures and returns the first one.
func silence(s Sink) error {
	var first error
	for ch := uint8(0); ch < 16; ch++ {
		for _, cc := range [...]uint8{AllNotesOff, ResetAllControllers} {
			if err := s.Send(Pack(CC|ch, cc, 0)); err != nil && first == nil {
				first = err
			}
		}
	}
	return first
}
