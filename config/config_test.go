package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFileMissingReturnsDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if cfg.TickInterval != 100*time.Millisecond {
		t.Errorf("TickInterval = %v, want 100ms", cfg.TickInterval)
	}
	if cfg.HardwareDelayTicks != 5 || cfg.LockEnquiryTicks != 3 {
		t.Errorf("delays = %d/%d, want 5/3", cfg.HardwareDelayTicks, cfg.LockEnquiryTicks)
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("input_port: ZeRO\ntick_interval: 50ms\nlower_fx_row: select\ndemo:\n  tracks: 3\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if cfg.InputPort != "ZeRO" {
		t.Errorf("InputPort = %q, want %q", cfg.InputPort, "ZeRO")
	}
	if cfg.OutputPort != "SL MkII" {
		t.Errorf("OutputPort = %q, want default", cfg.OutputPort)
	}
	if cfg.TickInterval != 50*time.Millisecond {
		t.Errorf("TickInterval = %v, want 50ms", cfg.TickInterval)
	}
	if cfg.LowerFXRow != LowerRowSelect {
		t.Errorf("LowerFXRow = %q, want select", cfg.LowerFXRow)
	}
	if cfg.Demo.Tracks != 3 || cfg.Demo.Returns != 2 {
		t.Errorf("Demo = %+v, want tracks 3 returns 2", cfg.Demo)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"channel too high", func(c *Config) { c.Channel = 16 }, true},
		{"zero tick", func(c *Config) { c.TickInterval = 0 }, true},
		{"zero hardware delay", func(c *Config) { c.HardwareDelayTicks = 0 }, true},
		{"bad row mode", func(c *Config) { c.LowerFXRow = "mute" }, true},
		{"negative returns", func(c *Config) { c.Demo.Returns = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConfig()
			tt.mutate(c)
			err := c.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	c := DefaultConfig()
	c.OutputPort = "Port 2"
	if err := c.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if got.OutputPort != "Port 2" {
		t.Errorf("OutputPort = %q, want %q", got.OutputPort, "Port 2")
	}
}
