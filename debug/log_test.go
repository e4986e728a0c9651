package debug

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLogWritesCategory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "debug.log")
	if err := Enable(path); err != nil {
		t.Fatalf("Enable() error = %v", err)
	}
	if !Enabled() {
		t.Fatal("Enabled() = false after Enable")
	}
	Log("bank", "offset=%d", 8)
	Warn("midi", "unknown cc %d", 100)
	Disable()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	for _, want := range []string{"cat=bank", "offset=8", "level=warning", "unknown cc 100"} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %q:\n%s", want, out)
		}
	}
}

func TestLogDisabledIsNoop(t *testing.T) {
	Disable()
	Log("bank", "nothing")
	Warn("midi", "nothing")
	if Enabled() {
		t.Error("Enabled() = true after Disable")
	}
}
