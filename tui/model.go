package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"go-smfplay/midi"
	"go-smfplay/sequencer"
	"go-smfplay/theme"
	"go-smfplay/widgets"
)

// refresh rate for the progress bar between manager updates
const frameRate = time.Second / 30

type Model struct {
	Manager  *sequencer.Manager
	Watcher  *midi.PortWatcher // may be nil
	Theme    *theme.Theme
	PortName string

	ctx      context.Context
	paths    []string
	keys     keyMap
	help     help.Model
	width    int
	quitting bool
}

type UpdateMsg struct{}

type PortEventMsg midi.PortEvent

type frameMsg time.Time

// NewModel builds the player view. ctx carries the playback logger and
// bounds every Play started from the UI.
func NewModel(ctx context.Context, manager *sequencer.Manager, watcher *midi.PortWatcher, th *theme.Theme, portName string, paths []string) Model {
	return Model{
		Manager:  manager,
		Watcher:  watcher,
		Theme:    th,
		PortName: portName,
		ctx:      ctx,
		paths:    paths,
		keys:     defaultKeys(),
		help:     help.New(),
		width:    60,
	}
}

func ListenForUpdates(manager *sequencer.Manager) tea.Cmd {
	return func() tea.Msg {
		<-manager.UpdateChan
		return UpdateMsg{}
	}
}

func ListenForPorts(watcher *midi.PortWatcher) tea.Cmd {
	if watcher == nil {
		return nil
	}
	return func() tea.Msg {
		event, ok := <-watcher.Events()
		if !ok {
			return nil
		}
		return PortEventMsg(event)
	}
}

func frame() tea.Cmd {
	return tea.Tick(frameRate, func(t time.Time) tea.Msg { return frameMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		ListenForUpdates(m.Manager),
		ListenForPorts(m.Watcher),
		frame(),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			m.Manager.Stop()
			return m, tea.Quit

		case key.Matches(msg, m.keys.Play):
			if m.Manager.Status().State == sequencer.Playing {
				m.Manager.Stop()
			} else {
				_ = m.Manager.Play(m.ctx, m.paths)
			}

		case key.Matches(msg, m.keys.Next):
			m.Manager.Next()

		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width

	case UpdateMsg:
		return m, ListenForUpdates(m.Manager)

	case PortEventMsg:
		return m, ListenForPorts(m.Watcher)

	case frameMsg:
		return m, frame()
	}

	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	st := m.Manager.Status()
	th := m.Theme

	// Styles
	headerStyle := lipgloss.NewStyle().Foreground(th.Accent()).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(th.Muted())
	warnStyle := lipgloss.NewStyle().Foreground(th.Warning())

	state := string(th.Symbols.Stopped) + " STOP"
	if st.State == sequencer.Playing {
		state = string(th.Symbols.Playing) + " PLAY"
	}
	header := headerStyle.Render(fmt.Sprintf("go-smfplay  %s  %6.2fbpm", state, st.Tempo.BPM()))

	file := "-"
	if st.File != "" {
		file = fmt.Sprintf("[%d/%d] %s  %s, %d tracks", st.Index+1, st.Total, filepath.Base(st.File), st.Format, st.Tracks)
	}

	barWidth := max(10, min(m.width, 80)-16)
	bar := widgets.RenderProgress(st.Progress(), barWidth, th.Symbols.BarFull, th.Symbols.BarEmpty,
		th.RGB(theme.RoleAccent), th.RGB(theme.RoleSurface))
	progress := fmt.Sprintf("%s %s / %s", bar, widgets.FormatClock(st.Elapsed), widgets.FormatClock(st.Length))

	meters := widgets.RenderChannelMeters(st.Channels, func(norm float64) [3]uint8 {
		if norm == 0 {
			return th.RGB(theme.RoleMuted)
		}
		return th.RGB(theme.RoleFG + norm*(theme.RoleSuccess-theme.RoleFG))
	}, th.Symbols.MeterOn, th.Symbols.MeterOff)

	counters := dimStyle.Render(fmt.Sprintf("sent %d  errors %d  skipped %d", st.Sent, st.Errors, len(st.Skipped)))

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(header)
	out.WriteString("\n")
	out.WriteString(dimStyle.Render("out: " + m.portStatus()))
	out.WriteString("\n\n")
	out.WriteString(file)
	out.WriteString("\n")
	out.WriteString(progress)
	out.WriteString("\n\n")
	out.WriteString(meters)
	out.WriteString("\n\n")
	out.WriteString(counters)
	for _, skipped := range st.Skipped {
		out.WriteString("\n")
		out.WriteString(warnStyle.Render(fmt.Sprintf("%c %s", th.Symbols.Skipped, filepath.Base(skipped))))
	}
	if st.LastErr != nil {
		out.WriteString("\n")
		out.WriteString(warnStyle.Render(st.LastErr.Error()))
	}
	out.WriteString("\n\n")
	out.WriteString(m.help.View(m.keys))

	return out.String()
}

func (m Model) portStatus() string {
	name := m.PortName
	if name == "" {
		name = "(first available)"
	}
	if m.Watcher == nil {
		return name
	}
	for _, p := range m.Watcher.Ports() {
		if p == m.PortName || (m.PortName != "" && strings.Contains(strings.ToLower(p), strings.ToLower(m.PortName))) {
			return p
		}
	}
	if m.PortName == "" && len(m.Watcher.Ports()) > 0 {
		return m.Watcher.Ports()[0]
	}
	return name + " (not connected)"
}
