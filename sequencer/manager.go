package sequencer

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"go-smfplay/debug"
	"go-smfplay/midi"
	"go-smfplay/smf"

	charmlog "github.com/charmbracelet/log"
)

// ErrAlreadyPlaying is returned by Play while a run is active.
var ErrAlreadyPlaying = errors.New("sequencer: already playing")

// ManagerOptions configures playlist playback
type ManagerOptions struct {
	Options
	// ResetBetween silences the device after each item.
	ResetBetween bool
	// Loop restarts the playlist after the last item.
	Loop bool
	// Decoder is used to open each file.
	Decoder smf.Decoder
	// OnLoad runs after a file decodes, before it plays. An error is
	// logged and does not stop playback.
	OnLoad func(*smf.Sequence) error
}

// Manager plays a playlist of files on one output device, one at a time
type Manager struct {
	dev  midi.Device
	opts ManagerOptions

	mu         sync.RWMutex
	status     Status
	cancel     context.CancelFunc // stops the whole run
	cancelItem context.CancelFunc // skips the current item
	itemStart  time.Time
	done       chan struct{}
	err        error

	// Notify TUI of updates
	UpdateChan chan struct{}
}

// NewManager creates a manager writing to dev
func NewManager(dev midi.Device, opts ManagerOptions) *Manager {
	return &Manager{
		dev:        dev,
		opts:       opts,
		UpdateChan: make(chan struct{}, 1),
	}
}

// Play starts playing paths in a background goroutine
func (m *Manager) Play(ctx context.Context, paths []string) error {
	m.mu.Lock()
	if m.status.State == Playing {
		m.mu.Unlock()
		return ErrAlreadyPlaying
	}

	runCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.done = make(chan struct{})
	m.err = nil
	m.status = Status{State: Playing, Total: len(paths)}
	done := m.done
	m.mu.Unlock()

	go func() {
		defer close(done)
		err := m.run(runCtx, paths)
		cancel()

		m.mu.Lock()
		m.status.State = Stopped
		m.err = err
		if err != nil {
			m.status.LastErr = err
		}
		m.mu.Unlock()
		m.notifyUpdate()
	}()

	m.notifyUpdate()
	return nil
}

// Stop ends playback and waits for the device to be silenced
func (m *Manager) Stop() {
	m.mu.RLock()
	cancel, done := m.cancel, m.done
	m.mu.RUnlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Next skips to the following playlist item
func (m *Manager) Next() {
	m.mu.RLock()
	cancel := m.cancelItem
	m.mu.RUnlock()
	if cancel != nil {
		cancel()
	}
}

// Wait blocks until the current run ends and returns its error: nil when
// the playlist finished or was stopped, the sink failure when playback
// aborted.
func (m *Manager) Wait() error {
	m.mu.RLock()
	done := m.done
	m.mu.RUnlock()
	if done == nil {
		return nil
	}
	<-done

	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.err
}

// Status returns the current state snapshot
func (m *Manager) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s := m.status
	s.Skipped = append([]string(nil), m.status.Skipped...)
	if s.State == Playing && !m.itemStart.IsZero() {
		s.Elapsed = min(m.clock().Now().Sub(m.itemStart), s.Length)
	}
	return s
}

func (m *Manager) clock() Clock {
	if m.opts.Clock != nil {
		return m.opts.Clock
	}
	return SystemClock
}

func (m *Manager) run(ctx context.Context, paths []string) error {
	log := charmlog.FromContext(ctx)

	for {
		progressed := false
		for i, path := range paths {
			if ctx.Err() != nil {
				return nil
			}
			played, err := m.playItem(ctx, i, path)
			if err != nil {
				if errors.Is(err, errStopped) {
					return nil
				}
				log.Error("playback aborted", "file", path, "err", err)
				return err
			}
			progressed = progressed || played
		}
		if !m.opts.Loop {
			return nil
		}
		// A pass that took no playback time would restart immediately.
		if !progressed {
			log.Warn("loop stopped, nothing playable", "files", len(paths))
			return nil
		}
	}
}

var errStopped = errors.New("stopped")

// playItem plays one file. played reports whether it took playback time
// or was skipped with Next; files that fail to decode report false.
func (m *Manager) playItem(ctx context.Context, index int, path string) (played bool, err error) {
	log := charmlog.FromContext(ctx).With("file", path)

	seq, err := m.opts.Decoder.Open(path)
	if err != nil {
		// a bad file is skipped, not fatal to the playlist
		log.Error("skipping file", "err", err)
		m.mu.Lock()
		if !slices.Contains(m.status.Skipped, path) {
			m.status.Skipped = append(m.status.Skipped, path)
		}
		m.status.LastErr = err
		m.mu.Unlock()
		m.notifyUpdate()
		return false, nil
	}
	defer seq.Close()

	if m.opts.OnLoad != nil {
		if err := m.opts.OnLoad(seq); err != nil {
			log.Warn("load hook failed", "err", err)
		}
	}

	tm := NewTempoMap(seq)
	itemCtx, cancelItem := context.WithCancel(ctx)
	defer cancelItem()

	length := tm.Length()

	m.mu.Lock()
	m.cancelItem = cancelItem
	m.itemStart = m.clock().Now()
	m.status.File = path
	m.status.Index = index
	m.status.Format = seq.Format()
	m.status.Tracks = seq.TrackCount()
	m.status.Tick = 0
	m.status.Elapsed = 0
	m.status.Length = length
	m.status.Tempo = tm.TempoAt(0)
	m.status.Channels = [16]uint8{}
	total := m.status.Total
	m.mu.Unlock()
	m.notifyUpdate()

	log.Info("playing", "format", seq.Format(), "tracks", seq.TrackCount(), "events", seq.EventCount(), "length", length.Round(time.Millisecond))
	debug.Log("play", "start %s (%d/%d)", path, index+1, total)

	opts := m.opts.Options
	opts.OnEmit = m.observe(m.opts.OnEmit)
	res, err := Play(itemCtx, seq, m.dev, opts)

	m.mu.Lock()
	m.cancelItem = nil
	m.itemStart = time.Time{}
	m.status.Tick = res.Tick
	m.status.Elapsed = res.Elapsed
	m.mu.Unlock()

	interrupted := err != nil
	if interrupted || m.opts.ResetBetween {
		if rerr := m.dev.Reset(); rerr != nil {
			log.Warn("reset failed", "err", rerr)
		}
	}

	switch {
	case err == nil:
		log.Info("finished", "sent", res.Sent, "errors", len(res.Errors))
		return res.Elapsed > 0, nil
	case ctx.Err() != nil:
		return false, errStopped
	case errors.Is(err, context.Canceled):
		log.Info("skipped")
		return true, nil
	}
	return false, err
}

// observe updates the status from emitted events, then chains to next
func (m *Manager) observe(next func(Emitted)) func(Emitted) {
	return func(e Emitted) {
		m.mu.Lock()
		m.status.Tick = e.Tick
		if e.Err != nil {
			m.status.Errors++
			m.status.LastErr = e.Err
		}
		switch ev := e.Event.(type) {
		case *smf.SetTempo:
			m.status.Tempo = ev.Tempo
		case *smf.NoteOn:
			if e.Err == nil {
				m.status.Sent++
				m.status.Channels[ev.Channel()] = ev.Velocity()
			}
		case *smf.NoteOff:
			if e.Err == nil {
				m.status.Sent++
				m.status.Channels[ev.Channel()] = 0
			}
		case smf.ChannelEvent:
			if e.Err == nil {
				m.status.Sent++
			}
		}
		m.mu.Unlock()

		if next != nil {
			next(e)
		}
		m.notifyUpdate()
	}
}

// notifyUpdate wakes the TUI without blocking
func (m *Manager) notifyUpdate() {
	select {
	case m.UpdateChan <- struct{}{}:
	default:
	}
}
