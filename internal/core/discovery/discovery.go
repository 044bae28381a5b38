// Package discovery surfaces candidate project names from message text that
// the tracked registry does not know yet. It is pure pattern work over the
// lexicon's discovery rules; persistence and promotion live in the services.
package discovery

import (
	"strings"

	"signalfarm/internal/core/lexicon"
	"signalfarm/internal/core/normalize"
)

// Candidate is one possible new project pulled out of a message
type Candidate struct {
	// Name as captured, original casing preserved
	Name string
	// Confidence in [0,1]: pattern base plus mention and signal boosts
	Confidence float64
	// Origin is the id of the pattern that produced the candidate
	Origin string
}

// Discoverer scans text with the lexicon's discovery patterns
type Discoverer struct {
	lex  *lexicon.Pack
	norm *normalize.Normalizer
}

func New(lex *lexicon.Pack) *Discoverer {
	if lex == nil {
		panic("discovery: nil lexicon")
	}
	return &Discoverer{lex: lex, norm: normalize.New()}
}

// Scan runs every discovery pattern over raw and returns the surviving
// candidates in pattern order. tracked filters out names the registry already
// knows; a nil tracked keeps everything. Names are deduped case-insensitively
// with the first occurrence kept, so pattern order decides the Origin.
//
// Confidence starts at the pattern base and grows with repeated mentions of
// the name and with signal words appearing outside the matched span. Signal
// words inside the span never boost: a bare "new project: x" scores exactly
// the base even though "project" is itself a signal word.
func (d *Discoverer) Scan(raw string, tracked func(name string) bool) []Candidate {
	norm := d.norm.Normalize(raw)
	if norm == "" {
		return nil
	}

	disc := d.lex.Discovery
	var out []Candidate
	seen := make(map[string]struct{})

	for _, pat := range disc.Patterns {
		text := norm
		if pat.Target == lexicon.TargetRaw {
			text = raw
		}
		for _, m := range pat.FindNames(text) {
			if len(m) < 4 || m[2] < 0 {
				continue
			}
			name := text[m[2]:m[3]]
			key := strings.ToLower(name)
			if _, stop := disc.Stopset[key]; stop {
				continue
			}
			if _, dup := seen[key]; dup {
				continue
			}
			if tracked != nil && tracked(name) {
				continue
			}

			span := text[m[0]:m[1]]
			if pat.Target == lexicon.TargetRaw {
				span = d.norm.Normalize(span)
			}

			conf := pat.BaseConfidence
			conf += boost(extraMentions(norm, key), disc.MentionBoostStep, disc.MentionBoostCap)
			conf += boost(signalsOutside(norm, span, disc.SignalWords), disc.SignalBoostStep, disc.SignalBoostCap)
			if conf > 1 {
				conf = 1
			}

			seen[key] = struct{}{}
			out = append(out, Candidate{Name: name, Confidence: conf, Origin: pat.ID})
		}
	}
	return out
}

// extraMentions counts occurrences of key in norm beyond the first
func extraMentions(norm, key string) int {
	n := strings.Count(norm, key) - 1
	if n < 0 {
		return 0
	}
	return n
}

// signalsOutside counts signal word occurrences in norm that are not
// accounted for by the matched span
func signalsOutside(norm, span string, words []string) int {
	total := 0
	for _, w := range words {
		if n := strings.Count(norm, w) - strings.Count(span, w); n > 0 {
			total += n
		}
	}
	return total
}

func boost(n int, step, limit float64) float64 {
	if n <= 0 {
		return 0
	}
	b := step * float64(n)
	if b > limit {
		b = limit
	}
	return b
}
