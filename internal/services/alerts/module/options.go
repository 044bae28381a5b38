package module

import "signalfarm/internal/platform/config"

// Options configures the alerts module
type Options struct {
	HardLimit int
}

// FromConfig reads options from config.Conf
func FromConfig(cfg config.Conf) Options {
	af := cfg.Prefix("CORE_ALERTS_")
	return Options{
		HardLimit: af.MayInt("HARD_LIMIT", 50),
	}
}
