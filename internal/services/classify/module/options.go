package module

import "signalfarm/internal/platform/config"

// Options holds configuration settings for the classify module
type Options struct {
	Workers           int
	PageSize          int
	PromoteConfidence float64
	AlertPriority     float64
	DryRun            bool
}

// FromConfig extracts Options from the given config.Conf
func FromConfig(cfg config.Conf) Options {
	cf := cfg.Prefix("CORE_CLASSIFY_")
	return Options{
		Workers:           cf.MayInt("WORKERS", 2),
		PageSize:          cf.MayInt("PAGE_SIZE", 5000),
		PromoteConfidence: cf.MayFloat64("PROMOTE_CONFIDENCE", 0.7),
		AlertPriority:     cf.MayFloat64("ALERT_PRIORITY", 1.3),
		DryRun:            cf.MayBool("DRY_RUN", false),
	}
}
