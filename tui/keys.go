package tui

import "github.com/charmbracelet/bubbles/key"

func binding(help string, keys ...string) key.Binding {
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(keys[0], help))
}

type keyMap struct {
	Up, Down             key.Binding
	Mute, Solo, Arm      key.Binding
	Clip                 key.Binding
	AddTrack, AddReturn  key.Binding
	Delete, Hide, Unhide key.Binding
	Rename               key.Binding
	Play, Loop, Record   key.Binding
	ExclusiveArm         key.Binding
	ExclusiveSolo        key.Binding
	PageUp, PageDown     key.Binding
	Lock                 key.Binding
	Refresh              key.Binding
	Help, Quit           key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Up:            binding("up", "k", "up"),
		Down:          binding("down", "j", "down"),
		Mute:          binding("mute", "m"),
		Solo:          binding("solo", "s"),
		Arm:           binding("arm", "a"),
		Clip:          binding("clip state", "c"),
		AddTrack:      binding("add track", "n"),
		AddReturn:     binding("add return", "N"),
		Delete:        binding("delete", "x"),
		Hide:          binding("hide", "h"),
		Unhide:        binding("unhide all", "H"),
		Rename:        binding("rename", "e"),
		Play:          key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "play/stop")),
		Loop:          binding("loop", "l"),
		Record:        binding("record", "r"),
		ExclusiveArm:  binding("exclusive arm", "A"),
		ExclusiveSolo: binding("exclusive solo", "S"),
		PageUp:        binding("page up", "]"),
		PageDown:      binding("page down", "["),
		Lock:          binding("transport lock", "L"),
		Refresh:       binding("resync", "R"),
		Help:          binding("help", "?"),
		Quit:          binding("quit", "q", "ctrl+c"),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Mute, k.Solo, k.Arm, k.PageDown, k.PageUp, k.Play, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Mute, k.Solo, k.Arm, k.Clip},
		{k.AddTrack, k.AddReturn, k.Delete, k.Hide, k.Unhide, k.Rename},
		{k.Play, k.Loop, k.Record, k.ExclusiveArm, k.ExclusiveSolo},
		{k.PageDown, k.PageUp, k.Lock, k.Refresh, k.Help, k.Quit},
	}
}
