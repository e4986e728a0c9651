package widgets

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"go-slmkii/theme"
)

func TestRenderMeterWidth(t *testing.T) {
	th := theme.New(nil)
	for _, pos := range []int{-5, 0, 64, 127, 200} {
		got := RenderMeter(th, pos, 10)
		if w := lipgloss.Width(got); w != 10 {
			t.Errorf("RenderMeter(%d) width = %d, want 10", pos, w)
		}
	}
}

func TestRenderStrip(t *testing.T) {
	th := theme.New(nil)

	bound := RenderStrip(th, StripView{Index: 0, Bound: true, Name: "Bass", Value: "99", ArmLit: true}, 10)
	if !strings.Contains(bound, "Bass") {
		t.Errorf("bound strip %q does not show the track name", bound)
	}
	if h := lipgloss.Height(bound); h != 4 {
		t.Errorf("bound strip height = %d, want 4", h)
	}

	unbound := RenderStrip(th, StripView{Index: 7}, 10)
	if strings.Contains(unbound, "Bass") {
		t.Errorf("unbound strip %q shows a name", unbound)
	}
	if h := lipgloss.Height(unbound); h != 4 {
		t.Errorf("unbound strip height = %d, want 4", h)
	}
}
