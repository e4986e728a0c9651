package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	gomidi "gitlab.com/gomidi/midi/v2"

	"go-slmkii/driver"
	"go-slmkii/midi"
	"go-slmkii/session"
	"go-slmkii/theme"
	"go-slmkii/widgets"
)

const stripWidth = 11

// Model monitors the surface and edits the virtual set as if from the host.
// Every edit runs on the driver goroutine through Post.
type Model struct {
	Driver *driver.Driver
	Set    *session.Set
	Theme  *theme.Theme
	Port   string

	keys     keyMap
	help     help.Model
	input    textinput.Model
	renaming bool
	cursor   int
	snap     driver.Snapshot
	quitting bool
}

type UpdateMsg struct{}

func NewModel(drv *driver.Driver, set *session.Set, th *theme.Theme, port string) Model {
	ti := textinput.New()
	ti.Placeholder = "track name"
	ti.CharLimit = 32
	return Model{
		Driver: drv,
		Set:    set,
		Theme:  th,
		Port:   port,
		keys:   defaultKeys(),
		help:   help.New(),
		input:  ti,
		snap:   drv.Snapshot(),
	}
}

func ListenForUpdates(drv *driver.Driver) tea.Cmd {
	return func() tea.Msg {
		<-drv.Updates()
		return UpdateMsg{}
	}
}

func (m Model) Init() tea.Cmd {
	return ListenForUpdates(m.Driver)
}

// post runs fn against the set on the driver goroutine.
func (m Model) post(fn func(set *session.Set)) {
	set := m.Set
	m.Driver.Post(func() { fn(set) })
}

// press simulates a hardware button going down on the device.
func (m Model) press(cc, value uint8) {
	drv := m.Driver
	drv.Post(func() {
		drv.HandleMessage(gomidi.ControlChange(drv.Channel(), cc, value))
	})
}

func (m Model) selected() (driver.TrackInfo, bool) {
	if m.cursor < 0 || m.cursor >= len(m.snap.Tracks) {
		return driver.TrackInfo{}, false
	}
	return m.snap.Tracks[m.cursor], true
}

func (m Model) onSelected(fn func(set *session.Set, t session.Track)) {
	info, ok := m.selected()
	if !ok {
		return
	}
	m.post(func(set *session.Set) {
		if t, ok := set.Find(info.ID); ok {
			fn(set, t)
		}
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.renaming {
			return m.updateRename(msg)
		}
		return m.updateKeys(msg)

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width

	case UpdateMsg:
		m.snap = m.Driver.Snapshot()
		if m.cursor >= len(m.snap.Tracks) {
			m.cursor = len(m.snap.Tracks) - 1
		}
		if m.cursor < 0 {
			m.cursor = 0
		}
		return m, ListenForUpdates(m.Driver)
	}
	return m, nil
}

func (m Model) updateRename(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		name := strings.TrimSpace(m.input.Value())
		if info, ok := m.selected(); ok && name != "" {
			m.post(func(set *session.Set) { set.Rename(info.ID, name) })
		}
		m.renaming = false
		m.input.Blur()
		return m, nil
	case tea.KeyEsc:
		m.renaming = false
		m.input.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys
	switch {
	case key.Matches(msg, k.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, k.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, k.Down):
		if m.cursor < len(m.snap.Tracks)-1 {
			m.cursor++
		}

	case key.Matches(msg, k.Mute):
		m.onSelected(func(_ *session.Set, t session.Track) {
			if mu, ok := session.AsMutable(t); ok {
				mu.SetMute(!mu.Mute())
			}
		})
	case key.Matches(msg, k.Solo):
		m.onSelected(func(_ *session.Set, t session.Track) {
			if mu, ok := session.AsMutable(t); ok {
				mu.SetSolo(!mu.Solo())
			}
		})
	case key.Matches(msg, k.Arm):
		m.onSelected(func(_ *session.Set, t session.Track) {
			if a, ok := session.AsArmable(t); ok {
				a.SetArm(!a.Arm())
			}
		})
	case key.Matches(msg, k.Clip):
		m.onSelected(func(set *session.Set, t session.Track) {
			c, ok := session.AsClipTrack(t)
			if !ok {
				return
			}
			// idle -> playing -> stop pending -> idle
			switch {
			case c.FiredSlotIndex() == session.FiredStopSlot:
				set.SetClipState(t.ID(), session.NoSlot, session.NoSlot)
			case c.PlayingSlotIndex() >= 0:
				set.SetClipState(t.ID(), session.FiredStopSlot, c.PlayingSlotIndex())
			default:
				set.SetClipState(t.ID(), session.NoSlot, 0)
			}
		})

	case key.Matches(msg, k.AddTrack):
		m.post(func(set *session.Set) { set.CreateMidiTrack(-1) })
	case key.Matches(msg, k.AddReturn):
		m.post(func(set *session.Set) { set.CreateReturnTrack() })
	case key.Matches(msg, k.Delete):
		m.onSelected(func(set *session.Set, t session.Track) { set.RemoveTrack(t.ID()) })
	case key.Matches(msg, k.Hide):
		m.onSelected(func(set *session.Set, t session.Track) { set.SetHidden(t.ID(), true) })
	case key.Matches(msg, k.Unhide):
		m.post(func(set *session.Set) {
			for _, t := range set.NormalTracks() {
				set.SetHidden(t.ID(), false)
			}
		})
	case key.Matches(msg, k.Rename):
		if info, ok := m.selected(); ok {
			m.renaming = true
			m.input.SetValue(info.Name)
			m.input.CursorEnd()
			return m, m.input.Focus()
		}

	case key.Matches(msg, k.Play):
		m.post(func(set *session.Set) {
			if set.IsPlaying() {
				set.StopPlaying()
			} else {
				set.StartPlaying()
			}
		})
	case key.Matches(msg, k.Loop):
		m.post(func(set *session.Set) { set.SetLoop(!set.Loop()) })
	case key.Matches(msg, k.Record):
		m.post(func(set *session.Set) { set.SetRecordMode(!set.RecordMode()) })
	case key.Matches(msg, k.ExclusiveArm):
		m.post(func(set *session.Set) { set.SetExclusiveArm(!set.ExclusiveArm()) })
	case key.Matches(msg, k.ExclusiveSolo):
		m.post(func(set *session.Set) { set.SetExclusiveSolo(!set.ExclusiveSolo()) })

	case key.Matches(msg, k.PageUp):
		m.press(midi.PageUpCC, midi.Pressed)
	case key.Matches(msg, k.PageDown):
		m.press(midi.PageDownCC, midi.Pressed)
	case key.Matches(msg, k.Lock):
		m.press(midi.LockCC, midi.OnOff(!m.snap.Mixer.Locked))
	case key.Matches(msg, k.Refresh):
		drv := m.Driver
		drv.Post(drv.RefreshState)

	case key.Matches(msg, k.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	th := m.Theme
	headerStyle := lipgloss.NewStyle().Foreground(th.Accent()).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(th.Muted())

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(headerStyle.Render("go-slmkii"))
	out.WriteString("  ")
	out.WriteString(m.viewTransport())
	out.WriteString("\n")
	out.WriteString(dimStyle.Render(m.viewStatus()))
	out.WriteString("\n\n")
	out.WriteString(m.viewStrips())
	out.WriteString("\n\n")
	out.WriteString(m.viewTracks())
	out.WriteString("\n")
	if m.renaming {
		out.WriteString("rename: ")
		out.WriteString(m.input.View())
		out.WriteString("\n")
	}
	out.WriteString("\n")
	out.WriteString(m.help.View(m.keys))
	return out.String()
}

func (m Model) viewTransport() string {
	s := m.snap
	play := widgets.RenderFlag(m.Theme, "STOP", true)
	if s.Playing {
		play = widgets.RenderFlag(m.Theme, "PLAY", true)
	}
	parts := []string{
		play,
		widgets.RenderFlag(m.Theme, "LOOP", s.Loop),
		widgets.RenderFlag(m.Theme, "REC", s.Record),
		widgets.RenderFlag(m.Theme, "LOCK", s.Mixer.Locked),
		widgets.RenderFlag(m.Theme, "AUTOMAP", s.Automap),
		widgets.RenderFlag(m.Theme, "X-ARM", s.ExclusiveArm),
		widgets.RenderFlag(m.Theme, "X-SOLO", s.ExclusiveSolo),
		fmt.Sprintf("pos %.0f", s.Position),
	}
	return strings.Join(parts, "  ")
}

func (m Model) viewStatus() string {
	s := m.snap
	port := "no device"
	if s.Connected {
		port = m.Port
	}
	first := s.Mixer.Offset + 1
	last := s.Mixer.Offset + midi.NumStrips
	if last > s.Mixer.TrackCount {
		last = s.Mixer.TrackCount
	}
	status := fmt.Sprintf("%s  bank %d-%d/%d  bindings %d  ticks %d", port, first, last, s.Mixer.TrackCount, s.Bindings, s.Ticks)
	if s.Dropped > 0 {
		status += fmt.Sprintf("  dropped %d", s.Dropped)
	}
	return status
}

func (m Model) viewStrips() string {
	s := m.snap
	led := func(cc uint8) uint8 {
		v, _ := s.LED(cc)
		return v
	}

	views := make([]widgets.StripView, midi.NumStrips)
	for i := range views {
		st := s.Mixer.Strips[i]
		idx := uint8(i)
		views[i] = widgets.StripView{
			Index:  i,
			Bound:  st.Bound,
			Name:   s.Display[i].Name,
			Value:  s.Display[i].Value,
			Solo:   led(midi.SoloBaseCC + idx),
			Stop:   led(midi.StopBaseCC + idx),
			Mute:   led(midi.Button1BaseCC + idx),
			Arm:    led(midi.Button2BaseCC + idx),
			ArmLit: st.SecondButton,
		}
	}

	pages := fmt.Sprintf("%s %s",
		widgets.RenderLED(m.Theme, led(midi.PageDownCC))+string(m.Theme.Symbols.PageDown),
		string(m.Theme.Symbols.PageUp)+widgets.RenderLED(m.Theme, led(midi.PageUpCC)),
	)
	return lipgloss.JoinVertical(lipgloss.Left,
		widgets.RenderStrips(m.Theme, views, stripWidth),
		"",
		pages,
	)
}

func (m Model) viewTracks() string {
	th := m.Theme
	cursorStyle := lipgloss.NewStyle().Foreground(th.Cursor())
	kindStyle := lipgloss.NewStyle().Foreground(th.Muted())

	var lines []string
	for i, t := range m.snap.Tracks {
		prefix := "  "
		if i == m.cursor {
			prefix = cursorStyle.Render("> ")
		}
		flags := []string{
			widgets.RenderFlag(th, "M", t.Mute),
			widgets.RenderFlag(th, "S", t.Solo),
		}
		if t.CanArm {
			flags = append(flags, widgets.RenderFlag(th, "R", t.Arm))
		} else {
			flags = append(flags, " ")
		}
		sel := " "
		if t.ID == m.snap.Selected {
			sel = "*"
		}
		lines = append(lines, fmt.Sprintf("%s%s%-16s %s %s %s",
			prefix,
			sel,
			t.Name,
			kindStyle.Render(fmt.Sprintf("%-6s", t.Kind)),
			widgets.RenderMeter(th, t.Volume, 12),
			strings.Join(flags, " "),
		))
	}
	return strings.Join(lines, "\n")
}
