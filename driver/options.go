package driver

import (
	"time"

	"go-slmkii/config"
	"go-slmkii/mixer"
)

// Options tune the driver and the components it owns.
type Options struct {
	Channel            uint8
	ProductID          uint8
	TickInterval       time.Duration
	HardwareDelayTicks int
	Mixer              mixer.Options
}

// DefaultOptions mirrors config.DefaultConfig.
func DefaultOptions() Options {
	return OptionsFromConfig(config.DefaultConfig())
}

// OptionsFromConfig converts a validated config.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Channel:            uint8(cfg.Channel),
		ProductID:          cfg.ProductID,
		TickInterval:       cfg.TickInterval,
		HardwareDelayTicks: cfg.HardwareDelayTicks,
		Mixer: mixer.Options{
			JumpBeats:        cfg.JumpBeats,
			LockEnquiryTicks: cfg.LockEnquiryTicks,
			SelectOnLowerRow: cfg.LowerFXRow == config.LowerRowSelect,
		},
	}
}
