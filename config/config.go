package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
	"gopkg.in/yaml.v3"
)

// LowerRowMode selects what the lower FX button row does.
type LowerRowMode string

const (
	LowerRowStop   LowerRowMode = "stop"
	LowerRowSelect LowerRowMode = "select"
)

// DemoConfig sizes the virtual set the run command drives.
type DemoConfig struct {
	Tracks  int `yaml:"tracks"`
	Returns int `yaml:"returns"`
}

// Config is the main configuration structure
type Config struct {
	InputPort          string        `yaml:"input_port"`
	OutputPort         string        `yaml:"output_port"`
	Channel            int           `yaml:"channel"`
	TickInterval       time.Duration `yaml:"tick_interval"`
	JumpBeats          float64       `yaml:"jump_beats"`
	HardwareDelayTicks int           `yaml:"hardware_delay_ticks"`
	LockEnquiryTicks   int           `yaml:"lock_enquiry_ticks"`
	ProductID          uint8         `yaml:"product_id"`
	LowerFXRow         LowerRowMode  `yaml:"lower_fx_row"`
	Palette            string        `yaml:"palette,omitempty"`
	Debug              bool          `yaml:"debug"`
	Demo               DemoConfig    `yaml:"demo"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		InputPort:          "SL MkII",
		OutputPort:         "SL MkII",
		Channel:            0,
		TickInterval:       100 * time.Millisecond,
		JumpBeats:          1,
		HardwareDelayTicks: 5,
		LockEnquiryTicks:   3,
		ProductID:          0x04,
		LowerFXRow:         LowerRowStop,
		Demo: DemoConfig{
			Tracks:  10,
			Returns: 2,
		},
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "go-slmkii"), nil
}

// ConfigPath returns the full path to config.yaml
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads the config from the default location, or returns defaults if
// not found
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadFile(path)
}

// LoadFile reads a config file. Fields missing from the file keep their
// defaults.
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fault.Wrap(err, fmsg.With("read config"))
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fault.Wrap(err, fmsg.With("parse config "+path))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the driver cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.Channel < 0 || c.Channel > 15:
		return invalid("channel %d out of range 0-15", c.Channel)
	case c.TickInterval <= 0:
		return invalid("tick_interval must be positive, got %s", c.TickInterval)
	case c.HardwareDelayTicks < 1:
		return invalid("hardware_delay_ticks must be at least 1, got %d", c.HardwareDelayTicks)
	case c.LockEnquiryTicks < 1:
		return invalid("lock_enquiry_ticks must be at least 1, got %d", c.LockEnquiryTicks)
	case c.LowerFXRow != LowerRowStop && c.LowerFXRow != LowerRowSelect:
		return invalid("lower_fx_row must be %q or %q, got %q", LowerRowStop, LowerRowSelect, c.LowerFXRow)
	case c.Demo.Tracks < 0 || c.Demo.Returns < 0:
		return invalid("demo track counts must not be negative")
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fault.New(fmt.Sprintf(format, args...), ftag.With(ftag.InvalidArgument))
}

// Save writes the config to path (ConfigPath when empty).
func (c *Config) Save(path string) error {
	if path == "" {
		p, err := ConfigPath()
		if err != nil {
			return err
		}
		path = p
	}

	// Create directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := c.Marshal()
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Marshal encodes the config as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fault.Wrap(err, fmsg.With("encode config"))
	}
	return data, nil
}
