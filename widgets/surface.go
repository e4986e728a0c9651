package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"go-slmkii/theme"
)

// StripView is what one channel strip shows.
type StripView struct {
	Index int
	Bound bool
	Name  string
	Value string

	Solo, Stop, Mute, Arm uint8
	ArmLit                bool // false while the row belongs to the locked transport
}

// RenderLED renders one LED. Unknown LEDs (never sent) render as off.
func RenderLED(th *theme.Theme, value uint8) string {
	sym, color := th.LED(value)
	return lipgloss.NewStyle().Foreground(color).Render(string(sym))
}

// RenderStrip renders a strip as a fixed-width column:
//
//	name
//	value
//	solo stop
//	mute arm
func RenderStrip(th *theme.Theme, s StripView, width int) string {
	nameStyle := lipgloss.NewStyle().Width(width).Foreground(th.FG())
	dimStyle := lipgloss.NewStyle().Width(width).Foreground(th.Muted())

	if !s.Bound {
		return lipgloss.JoinVertical(lipgloss.Left,
			dimStyle.Render(fmt.Sprintf("%d %c", s.Index+1, th.Symbols.Unbound)),
			dimStyle.Render(""),
			dimStyle.Render(""),
			dimStyle.Render(""),
		)
	}

	arm := RenderLED(th, s.Arm)
	if !s.ArmLit {
		arm = lipgloss.NewStyle().Foreground(th.Muted()).Render("-")
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		nameStyle.Render(fmt.Sprintf("%d %s", s.Index+1, s.Name)),
		dimStyle.Render("  "+s.Value),
		"  "+RenderLED(th, s.Solo)+" "+RenderLED(th, s.Stop),
		"  "+RenderLED(th, s.Mute)+" "+arm,
	)
}

// RenderStrips lays eight strips out side by side.
func RenderStrips(th *theme.Theme, strips []StripView, width int) string {
	cols := make([]string, 0, len(strips))
	for _, s := range strips {
		cols = append(cols, RenderStrip(th, s, width))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

// RenderMeter renders pos (0..127) as a bar of the given width.
func RenderMeter(th *theme.Theme, pos, width int) string {
	if pos < 0 {
		pos = 0
	}
	if pos > 127 {
		pos = 127
	}
	filled := pos * width / 127
	bar := lipgloss.NewStyle().Foreground(th.Accent()).Render(strings.Repeat("█", filled))
	rest := lipgloss.NewStyle().Foreground(th.Surface()).Render(strings.Repeat("░", width-filled))
	return bar + rest
}

// RenderFlag renders a labelled on/off indicator, e.g. "PLAY".
func RenderFlag(th *theme.Theme, label string, on bool) string {
	color := th.Muted()
	if on {
		color = th.Success()
	}
	return lipgloss.NewStyle().Foreground(color).Render(label)
}
