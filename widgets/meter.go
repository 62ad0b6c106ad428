package widgets

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// RenderPad renders a single colored glyph
func RenderPad(color [3]uint8, glyph rune) string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(rgbToHex(color)))
	return style.Render(string(glyph))
}

// RenderPadRow renders a row of colored glyphs with spacing
func RenderPadRow(colors [][3]uint8, glyphs []rune) string {
	var out strings.Builder
	for i, c := range colors {
		if i > 0 {
			out.WriteString(" ")
		}
		out.WriteString(RenderPad(c, glyphs[i]))
	}
	return out.String()
}

// ProgressCells splits width cells into played and remaining for frac 0-1
func ProgressCells(frac float64, width int) (full, empty int) {
	if width <= 0 {
		return 0, 0
	}
	frac = max(0, min(1, frac))
	full = int(frac*float64(width) + 0.5)
	return full, width - full
}

// RenderProgress draws a one-line progress bar
func RenderProgress(frac float64, width int, full, empty rune, fg, bg [3]uint8) string {
	n, rest := ProgressCells(frac, width)
	played := lipgloss.NewStyle().Foreground(lipgloss.Color(rgbToHex(fg))).Render(strings.Repeat(string(full), n))
	remaining := lipgloss.NewStyle().Foreground(lipgloss.Color(rgbToHex(bg))).Render(strings.Repeat(string(empty), rest))
	return played + remaining
}

// RenderChannelMeters draws one glyph per MIDI channel, colored by the
// last note-on velocity, with channel numbers underneath
func RenderChannelMeters(levels [16]uint8, color func(norm float64) [3]uint8, on, off rune) string {
	colors := make([][3]uint8, len(levels))
	glyphs := make([]rune, len(levels))
	labels := make([]string, len(levels))
	for ch, v := range levels {
		glyphs[ch] = off
		if v > 0 {
			glyphs[ch] = on
		}
		colors[ch] = color(float64(v) / 127)
		labels[ch] = fmt.Sprintf("%X", ch)
	}
	return RenderPadRow(colors, glyphs) + "\n" + strings.Join(labels, " ")
}

// FormatClock renders a duration as m:ss.t
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(100 * time.Millisecond)
	m := int(d / time.Minute)
	s := int(d % time.Minute / time.Second)
	tenths := int(d % time.Second / (100 * time.Millisecond))
	return fmt.Sprintf("%d:%02d.%d", m, s, tenths)
}

func rgbToHex(c [3]uint8) string {
	return fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2])
}
