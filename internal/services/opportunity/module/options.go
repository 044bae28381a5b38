package module

import "signalfarm/internal/platform/config"

// Options configures the opportunity module
type Options struct {
	Workers     int
	MinActivity float64
	TopLimit    int
}

// FromConfig reads options from config.Conf
func FromConfig(cfg config.Conf) Options {
	of := cfg.Prefix("CORE_OPPORTUNITY_")
	return Options{
		Workers:     of.MayInt("WORKERS", 2),
		MinActivity: of.MayFloat64("MIN_ACTIVITY", 0.3),
		TopLimit:    of.MayInt("TOP_LIMIT", 20),
	}
}
