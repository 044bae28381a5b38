package module

import "signalfarm/internal/platform/config"

// Options configures the signals module
type Options struct {
	HardLimit   int
	MirrorTable string
}

// FromConfig reads options from config.Conf
func FromConfig(cfg config.Conf) Options {
	sf := cfg.Prefix("CORE_SIGNALS_")
	return Options{
		HardLimit:   sf.MayInt("HARD_LIMIT", 100),
		MirrorTable: sf.MayString("MIRROR_TABLE", "signals_archive"),
	}
}
