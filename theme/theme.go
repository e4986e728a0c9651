// Package theme colors the surface monitor.
package theme

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

type Theme struct {
	Palette *Palette
	Symbols Symbols
}

type Symbols struct {
	LEDOff  rune // ○
	LEDOn   rune // ●
	LEDFull rune // ◉ solo, playing clip
	Unbound rune // ·

	PageUp   rune
	PageDown rune
}

func New(palette *Palette) *Theme {
	if palette == nil || len(palette.Colors) == 0 {
		palette = Amber()
	}
	return &Theme{
		Palette: palette,
		Symbols: Symbols{
			LEDOff:   '○',
			LEDOn:    '●',
			LEDFull:  '◉',
			Unbound:  '·',
			PageUp:   '▶',
			PageDown: '◀',
		},
	}
}

// Color roles as palette positions (0-1)
const (
	RoleBG      = 0.0
	RoleSurface = 0.15
	RoleMuted   = 0.3
	RoleFG      = 0.45
	RoleAccent  = 0.6
	RoleCursor  = 0.7
	RoleWarning = 0.75
	RoleActive  = 0.85
	RoleSuccess = 1.0
)

func (t *Theme) BG() lipgloss.Color      { return t.role(RoleBG) }
func (t *Theme) Surface() lipgloss.Color { return t.role(RoleSurface) }
func (t *Theme) Muted() lipgloss.Color   { return t.role(RoleMuted) }
func (t *Theme) FG() lipgloss.Color      { return t.role(RoleFG) }
func (t *Theme) Accent() lipgloss.Color  { return t.role(RoleAccent) }
func (t *Theme) Cursor() lipgloss.Color  { return t.role(RoleCursor) }
func (t *Theme) Warning() lipgloss.Color { return t.role(RoleWarning) }
func (t *Theme) Active() lipgloss.Color  { return t.role(RoleActive) }
func (t *Theme) Success() lipgloss.Color { return t.role(RoleSuccess) }

func (t *Theme) role(pos float64) lipgloss.Color {
	return toLipgloss(t.Palette.Lookup(pos))
}

// LED returns the symbol and color for an LED value: 0 off, 1 lit, 127
// full brightness.
func (t *Theme) LED(value uint8) (rune, lipgloss.Color) {
	switch {
	case value == 0:
		return t.Symbols.LEDOff, t.Muted()
	case value >= 127:
		return t.Symbols.LEDFull, t.Success()
	default:
		return t.Symbols.LEDOn, t.Active()
	}
}

func toLipgloss(c RGB) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2]))
}
