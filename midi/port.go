package midi

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"go-smfplay/debug"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

var (
	ErrNoPort         = errors.New("midi: no matching output port")
	ErrInvalidMessage = errors.New("midi: status byte does not start a short message")
)

// PortSink is a Device backed by a gomidi output port. The port is looked
// up and opened on the first Init or Send.
type PortSink struct {
	name string

	mu   sync.RWMutex
	out  drivers.Out
	send func(gomidi.Message) error
}

// NewPortSink returns a sink for the named port. An empty name selects the
// first output port; otherwise an exact match wins over a case-insensitive
// substring match.
func NewPortSink(name string) *PortSink {
	return &PortSink{name: name}
}

// Name is the opened port's name, or the requested name before Init.
func (p *PortSink) Name() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.out != nil {
		return p.out.String()
	}
	return p.name
}

func (p *PortSink) Init() error {
	_, err := p.sender()
	return err
}

// sender returns the send function, opening the port on first use
func (p *PortSink) sender() (func(gomidi.Message) error, error) {
	p.mu.RLock()
	if send := p.send; send != nil {
		p.mu.RUnlock()
		return send, nil
	}
	p.mu.RUnlock()

	p.mu.Lock()
	defer p.mu.Unlock()

	// Double-check after acquiring write lock
	if p.send != nil {
		return p.send, nil
	}

	ports, err := outPorts(scanTimeout)
	if err != nil {
		return nil, err
	}
	out := matchPort(ports, p.name)
	if out == nil {
		return nil, fmt.Errorf("%w: %q", ErrNoPort, p.name)
	}
	send, err := gomidi.SendTo(out)
	if err != nil {
		return nil, fmt.Errorf("open output %q: %w", out.String(), err)
	}
	p.out = out
	p.send = send
	debug.Log("midi", "opened output %q", out.String())
	return send, nil
}

func (p *PortSink) Send(msg ShortMessage) error {
	b := msg.Bytes()
	if b == nil {
		return &SinkError{Msg: msg, Err: ErrInvalidMessage}
	}
	send, err := p.sender()
	if err != nil {
		return &SinkError{Msg: msg, Err: err}
	}
	if err := send(gomidi.Message(b)); err != nil {
		return &SinkError{Msg: msg, Err: err}
	}
	return nil
}

// Reset sends All Notes Off and Reset All Controllers on all 16 channels.
func (p *PortSink) Reset() error {
	return silence(p)
}

func (p *PortSink) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.out == nil {
		return nil
	}
	err := p.out.Close()
	debug.Log("midi", "closed output %q", p.out.String())
	p.out = nil
	p.send = nil
	return err
}

func matchPort(ports []drivers.Out, name string) drivers.Out {
	if len(ports) == 0 {
		return nil
	}
	if name == "" {
		return ports[0]
	}
	for _, port := range ports {
		if port.String() == name {
			return port
		}
	}
	lower := strings.ToLower(name)
	for _, port := range ports {
		if strings.Contains(strings.ToLower(port.String()), lower) {
			return port
		}
	}
	return nil
}

// CloseDriver releases the registered gomidi driver. Call once at exit.
func CloseDriver() {
	gomidi.CloseDriver()
}
