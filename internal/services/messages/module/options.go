package module

import "signalfarm/internal/platform/config"

// Options configures the messages module
type Options struct {
	HardLimit int
}

// FromConfig reads options from config.Conf
func FromConfig(cfg config.Conf) Options {
	mf := cfg.Prefix("CORE_MESSAGES_")
	return Options{
		HardLimit: mf.MayInt("HARD_LIMIT", 5000),
	}
}
