package module

import "signalfarm/internal/platform/config"

// Options holds configuration settings for the projects module
type Options struct {
	CandidateLimit int
	SeedFile       string
}

// FromConfig extracts Options from the given config.Conf
func FromConfig(cfg config.Conf) Options {
	pf := cfg.Prefix("CORE_PROJECTS_")
	return Options{
		CandidateLimit: pf.MayInt("CANDIDATE_LIMIT", 100),
		SeedFile:       pf.MayString("SEED_FILE", ""),
	}
}
