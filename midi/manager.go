package midi

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// ErrScanTimeout is returned when the driver does not answer a port query.
var ErrScanTimeout = errors.New("midi: port scan timed out")

// scanTimeout bounds a port query (CoreMIDI can hang)
const scanTimeout = 3 * time.Second

func outPorts(timeout time.Duration) ([]drivers.Out, error) {
	ch := make(chan []drivers.Out, 1)
	go func() {
		ch <- gomidi.GetOutPorts()
	}()

	select {
	case ports := <-ch:
		return ports, nil
	case <-time.After(timeout):
		// User needs to run: sudo killall coreaudiod midiserver
		return nil, ErrScanTimeout
	}
}

// ListOutPorts returns the names of the available output ports.
func ListOutPorts() ([]string, error) {
	ports, err := outPorts(scanTimeout)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(ports))
	for i, p := range ports {
		names[i] = p.String()
	}
	return names, nil
}

// PortEvent is emitted when an output port appears or disappears
type PortEvent struct {
	Type PortEventType
	Name string
}

type PortEventType int

const (
	PortConnected PortEventType = iota
	PortDisconnected
)

// PortWatcher polls for output port hot-plug
type PortWatcher struct {
	ports    map[string]bool
	mu       sync.RWMutex
	events   chan PortEvent
	pollRate time.Duration
	list     func() ([]string, error)
}

// NewPortWatcher creates a watcher polling once per second
func NewPortWatcher() *PortWatcher {
	return &PortWatcher{
		ports:    make(map[string]bool),
		events:   make(chan PortEvent, 16),
		pollRate: time.Second,
		list:     ListOutPorts,
	}
}

// Events returns a channel of connect/disconnect events
func (w *PortWatcher) Events() <-chan PortEvent {
	return w.events
}

// Ports returns a sorted snapshot of the ports seen by the last scan
func (w *PortWatcher) Ports() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	names := make([]string, 0, len(w.ports))
	for name := range w.ports {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether a port with this exact name is present
func (w *PortWatcher) Has(name string) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.ports[name]
}

// Run starts the polling loop (blocking - run in goroutine)
func (w *PortWatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.pollRate)
	defer ticker.Stop()

	// Initial scan
	w.scan()

	for {
		select {
		case <-ctx.Done():
			close(w.events)
			return
		case <-ticker.C:
			w.scan()
		}
	}
}

func (w *PortWatcher) scan() {
	names, err := w.list()
	if err != nil {
		// driver hung - skip this scan
		return
	}

	seen := make(map[string]bool, len(names))
	for _, name := range names {
		seen[name] = true
	}

	w.mu.Lock()
	var changes []PortEvent
	for name := range seen {
		if !w.ports[name] {
			changes = append(changes, PortEvent{Type: PortConnected, Name: name})
		}
	}
	for name := range w.ports {
		if !seen[name] {
			changes = append(changes, PortEvent{Type: PortDisconnected, Name: name})
		}
	}
	w.ports = seen
	w.mu.Unlock()

	sort.Slice(changes, func(i, j int) bool { return changes[i].Name < changes[j].Name })
	for _, ev := range changes {
		select {
		case w.events <- ev:
		default:
			// Drop if nobody is listening
		}
	}
}
