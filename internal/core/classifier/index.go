// Package classifier implements message classification over normalized text:
// category and context matching, project identification, and priority scoring
package classifier

import (
	"sort"
	"strings"
)

// Tier is the configured priority tier of a tracked project
type Tier string

const (
	// TierHigh marks projects under active high-priority tracking
	TierHigh Tier = "high"
	// TierMedium marks projects tracked at normal priority
	TierMedium Tier = "medium"
)

// Project is the registry snapshot row the classifier indexes
type Project struct {
	Name      string
	Symbol    string
	Tier      Tier
	Keywords  []string
	Contracts []string
}

// Channel maps a source or channel id to its project and trust weight
type Channel struct {
	Project string
	Weight  float64
	Kind    string // "official" | "partner"
}

type keywordRef struct {
	project string
	tier    Tier
}

// keywordRow keeps keyword matching deterministic: rows are sorted by term
// so classification output order never depends on map iteration
type keywordRow struct {
	term string
	refs []keywordRef
}

// Index is an immutable lookup view over a registry snapshot.
// Build once per snapshot and share across goroutines
type Index struct {
	channels  map[string]Channel
	keywords  map[string][]keywordRef
	kwRows    []keywordRow
	symbols   map[string]string // upper symbol -> project name
	contracts map[string]string // lower 0x addr -> project name
	tiers     map[string]Tier   // lower name -> tier
	names     map[string]string // lower name -> canonical name
}

// NewIndex builds an Index from projects and their channel map.
// Channel ids are matched case-insensitively; project names are unique
// case-insensitively with the first occurrence winning
func NewIndex(projects []Project, channels map[string]Channel) *Index {
	ix := &Index{
		channels:  make(map[string]Channel, len(channels)),
		keywords:  make(map[string][]keywordRef),
		symbols:   make(map[string]string),
		contracts: make(map[string]string),
		tiers:     make(map[string]Tier, len(projects)),
		names:     make(map[string]string, len(projects)),
	}
	for id, ch := range channels {
		id = strings.ToLower(strings.TrimSpace(id))
		if id != "" {
			ix.channels[id] = ch
		}
	}
	for _, p := range projects {
		lower := strings.ToLower(strings.TrimSpace(p.Name))
		if lower == "" {
			continue
		}
		if _, dup := ix.names[lower]; dup {
			continue
		}
		ix.names[lower] = p.Name
		ix.tiers[lower] = p.Tier

		for _, kw := range p.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw == "" {
				continue
			}
			ix.keywords[kw] = append(ix.keywords[kw], keywordRef{project: p.Name, tier: p.Tier})
		}
		if sym := strings.ToUpper(strings.TrimSpace(p.Symbol)); sym != "" {
			if _, dup := ix.symbols[sym]; !dup {
				ix.symbols[sym] = p.Name
			}
		}
		for _, c := range p.Contracts {
			c = strings.ToLower(strings.TrimSpace(c))
			if c != "" {
				ix.contracts[c] = p.Name
			}
		}
	}

	ix.kwRows = make([]keywordRow, 0, len(ix.keywords))
	for term, refs := range ix.keywords {
		ix.kwRows = append(ix.kwRows, keywordRow{term: term, refs: refs})
	}
	sort.Slice(ix.kwRows, func(i, j int) bool { return ix.kwRows[i].term < ix.kwRows[j].term })

	return ix
}

// Channel returns the channel record for id, if tracked
func (ix *Index) Channel(id string) (Channel, bool) {
	ch, ok := ix.channels[strings.ToLower(strings.TrimSpace(id))]
	return ch, ok
}

// HasProject reports whether name is a tracked project (case-insensitive)
func (ix *Index) HasProject(name string) bool {
	_, ok := ix.names[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// TierOf returns the tier of a tracked project, or "" when untracked
func (ix *Index) TierOf(name string) Tier {
	return ix.tiers[strings.ToLower(strings.TrimSpace(name))]
}
