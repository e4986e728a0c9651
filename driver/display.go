package driver

import (
	"fmt"

	"go-slmkii/midi"
	"go-slmkii/midimap"
	"go-slmkii/session"
)

// CellWidth is the number of characters per strip on the left display.
const CellWidth = 9

// Cell is one strip's column on the left display.
type Cell struct {
	Name  string
	Value string
}

// LeftDisplay holds what the left LCD shows: the name of each strip's track
// and the value of its slider parameter.
type LeftDisplay struct {
	names  [midi.NumStrips]string
	params [midi.NumStrips]session.Parameter
}

// SetupLeftDisplay replaces the strip names and parameters.
func (d *LeftDisplay) SetupLeftDisplay(names []string, params []session.Parameter) {
	for i := 0; i < midi.NumStrips; i++ {
		d.names[i] = ""
		d.params[i] = nil
		if i < len(names) {
			d.names[i] = names[i]
		}
		if i < len(params) {
			d.params[i] = params[i]
		}
	}
}

// Cells renders the display, names and values cut to CellWidth.
func (d *LeftDisplay) Cells() [midi.NumStrips]Cell {
	var out [midi.NumStrips]Cell
	for i := range out {
		out[i].Name = clip(d.names[i])
		if p := d.params[i]; p != nil {
			out[i].Value = clip(fmt.Sprintf("%d", midimap.Position(p)))
		}
	}
	return out
}

func clip(s string) string {
	r := []rune(s)
	if len(r) > CellWidth {
		return string(r[:CellWidth])
	}
	return s
}

func (d *LeftDisplay) RefreshState() {}
func (d *LeftDisplay) UpdateDisplay() {}
func (d *LeftDisplay) BuildMidiMap(mm *midimap.Map) {}
func (d *LeftDisplay) Disconnect() { d.SetupLeftDisplay(nil, nil) }

