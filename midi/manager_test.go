package midi

import (
	"testing"
	"time"
)

func TestPortWatcherScan(t *testing.T) {
	w := NewPortWatcher()
	names := []string{"IAC Bus 1", "FluidSynth"}
	w.list = func() ([]string, error) { return names, nil }

	w.scan()
	got := drain(w)
	if len(got) != 2 || got[0] != (PortEvent{PortConnected, "FluidSynth"}) || got[1] != (PortEvent{PortConnected, "IAC Bus 1"}) {
		t.Fatalf("first scan events = %v", got)
	}
	if ports := w.Ports(); len(ports) != 2 || ports[0] != "FluidSynth" {
		t.Errorf("Ports = %v", ports)
	}

	names = []string{"IAC Bus 1"}
	w.scan()
	got = drain(w)
	if len(got) != 1 || got[0] != (PortEvent{PortDisconnected, "FluidSynth"}) {
		t.Fatalf("second scan events = %v", got)
	}
	if w.Has("FluidSynth") || !w.Has("IAC Bus 1") {
		t.Errorf("Has after disconnect: %v", w.Ports())
	}
}

func TestPortWatcherSkipsFailedScan(t *testing.T) {
	w := NewPortWatcher()
	w.list = func() ([]string, error) { return []string{"a"}, nil }
	w.scan()
	drain(w)

	w.list = func() ([]string, error) { return nil, ErrScanTimeout }
	w.scan()
	if got := drain(w); len(got) != 0 {
		t.Errorf("timeout produced events %v", got)
	}
	if !w.Has("a") {
		t.Error("timeout dropped known port")
	}
}

func drain(w *PortWatcher) []PortEvent {
	var out []PortEvent
	for {
		select {
		case ev := <-w.events:
			out = append(out, ev)
		case <-time.After(10 * time.Millisecond):
			return out
		}
	}
}
