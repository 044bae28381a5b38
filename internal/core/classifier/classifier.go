package classifier

import (
	"regexp"
	"strings"

	"signalfarm/internal/core/lexicon"
	"signalfarm/internal/core/normalize"
)

// Origin indicates which identification rule produced a project match
type Origin string

const (
	// OriginChannel is a match via a tracked official/partner channel
	OriginChannel Origin = "channel"
	// OriginKeyword is a match via a tracked project keyword
	OriginKeyword Origin = "keyword"
	// OriginSymbol is a match via a $SYMBOL mention
	OriginSymbol Origin = "symbol"
	// OriginContract is a match via a contract address (strongest signal)
	OriginContract Origin = "contract"
)

// Identification-rule confidences. Channel matches carry the channel weight
const (
	confKeywordHigh   = 0.8
	confKeywordMedium = 0.6
	confSymbol        = 0.7
	confContract      = 0.9
)

// ProjectMatch is one identified project candidate
type ProjectMatch struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
	Origin     Origin  `json:"origin"`
	Tier       Tier    `json:"tier,omitempty"`
}

// Source describes where a message came from. Both fields optional
type Source struct {
	Channel string // channel/account id, matched against tracked channels
	Type    string // "official" | "partner" | "community" | "general"
}

// Classification is the write-once result of classifying one message
type Classification struct {
	Text          string         `json:"text"` // normalized
	Categories    []string       `json:"categories"`
	Context       []string       `json:"context"`
	Projects      []ProjectMatch `json:"projects"`
	SourceWeight  float64        `json:"source_weight"`
	PriorityScore float64        `json:"priority_score"`
}

// HasCategory reports whether label is among the matched categories
func (c Classification) HasCategory(label string) bool {
	return containsString(c.Categories, label)
}

// HasContext reports whether label is among the matched context indicators
func (c Classification) HasContext(label string) bool {
	return containsString(c.Context, label)
}

var (
	symbolRE   = regexp.MustCompile(`\$([A-Z]{2,10})\b`)
	contractRE = regexp.MustCompile(`0x[a-fA-F0-9]{40}`)
	digitRE    = regexp.MustCompile(`[0-9]`)
)

// Classifier matches messages against the lexicon and a registry index.
// Stateless after construction; safe for concurrent use
type Classifier struct {
	lex  *lexicon.Pack
	norm *normalize.Normalizer
	idx  *Index
}

// New constructs a Classifier over a compiled lexicon and registry index
func New(lex *lexicon.Pack, idx *Index) *Classifier {
	if lex == nil {
		panic("classifier: nil lexicon")
	}
	if idx == nil {
		idx = NewIndex(nil, nil)
	}
	return &Classifier{lex: lex, norm: normalize.New(), idx: idx}
}

// Classify normalizes raw and produces a full Classification including the
// priority score. Empty or garbage input degrades to an empty classification
// with the resolved source weight; it never fails
func (c *Classifier) Classify(raw string, src Source) Classification {
	norm := c.norm.Normalize(raw)

	out := Classification{
		Text:         norm,
		SourceWeight: c.SourceWeight(src),
	}
	if norm == "" {
		out.PriorityScore = c.Score(out)
		return out
	}

	out.Categories = matchLabels(norm, c.lex.Categories)
	out.Context = matchLabels(norm, c.lex.Context)
	if len(out.Categories) == 0 {
		out.Categories = c.inferCategories(norm)
	}
	out.Projects = c.identifyProjects(raw, norm, src)
	out.PriorityScore = c.Score(out)
	return out
}

// SourceWeight resolves the trust weight for a source: channel-specific
// weight when the channel is tracked, else the type default, else the
// general default
func (c *Classifier) SourceWeight(src Source) float64 {
	if ch, ok := c.idx.Channel(src.Channel); ok {
		return ch.Weight
	}
	if w, ok := c.lex.SourceWeights[strings.ToLower(strings.TrimSpace(src.Type))]; ok {
		return w
	}
	return c.lex.DefaultSourceWeight()
}

// matchLabels is boolean per label: the first trigger term found includes the
// label and short-circuits to the next entry
func matchLabels(norm string, entries []lexicon.Entry) []string {
	var out []string
	for _, e := range entries {
		for _, trig := range e.Triggers {
			if strings.Contains(norm, trig) {
				out = append(out, e.Label)
				break
			}
		}
	}
	return out
}

// inferCategories applies the fallback hints when nothing matched directly
func (c *Classifier) inferCategories(norm string) []string {
	var out []string
	inf := c.lex.Inference
	for _, w := range inf.MonitoringWords {
		if strings.Contains(norm, w) {
			out = append(out, inf.MonitoringLabel)
			break
		}
	}
	if digitRE.MatchString(norm) {
		if anyContained(norm, inf.YieldMarkers) {
			out = append(out, inf.YieldLabel)
		} else if anyContained(norm, inf.SupplyMarkers) {
			out = append(out, inf.SupplyLabel)
		}
	}
	return out
}

// identifyProjects applies the four identification rules in order. Each rule
// appends an independent candidate; duplicates by name are dropped with the
// first occurrence winning. Symbol and contract extraction read the raw text
// because normalization neutralizes '$' and case
func (c *Classifier) identifyProjects(raw, norm string, src Source) []ProjectMatch {
	var found []ProjectMatch

	// rule 1: tracked channel
	if ch, ok := c.idx.Channel(src.Channel); ok {
		found = append(found, ProjectMatch{
			Name:       ch.Project,
			Confidence: ch.Weight,
			Origin:     OriginChannel,
			Tier:       c.idx.TierOf(ch.Project),
		})
	}

	// rule 2: tracked keywords
	for _, row := range c.idx.kwRows {
		if !strings.Contains(norm, row.term) {
			continue
		}
		for _, ref := range row.refs {
			conf := confKeywordMedium
			if ref.tier == TierHigh {
				conf = confKeywordHigh
			}
			found = append(found, ProjectMatch{
				Name:       ref.project,
				Confidence: conf,
				Origin:     OriginKeyword,
				Tier:       ref.tier,
			})
		}
	}

	// rule 3: $SYMBOL mentions
	for _, m := range symbolRE.FindAllStringSubmatch(raw, -1) {
		if name, ok := c.idx.symbols[m[1]]; ok {
			found = append(found, ProjectMatch{
				Name:       name,
				Confidence: confSymbol,
				Origin:     OriginSymbol,
				Tier:       c.idx.TierOf(name),
			})
		}
	}

	// rule 4: contract addresses
	for _, addr := range contractRE.FindAllString(raw, -1) {
		if name, ok := c.idx.contracts[strings.ToLower(addr)]; ok {
			found = append(found, ProjectMatch{
				Name:       name,
				Confidence: confContract,
				Origin:     OriginContract,
				Tier:       c.idx.TierOf(name),
			})
		}
	}

	// dedupe by name, first occurrence wins
	if len(found) < 2 {
		return found
	}
	seen := make(map[string]struct{}, len(found))
	out := found[:0]
	for _, pm := range found {
		key := strings.ToLower(pm.Name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, pm)
	}
	return out
}

// Score converts one Classification into its multiplicative priority score.
// The result is always positive; additional positive multipliers can only
// increase it. The source weight is <= 1.0 so it dampens, never amplifies
func (c *Classifier) Score(cl Classification) float64 {
	score := 1.0

	if len(cl.Projects) > 0 {
		mult := c.lex.Multipliers.TierDefault
		for _, pm := range cl.Projects {
			if pm.Tier == TierHigh {
				mult = c.lex.Multipliers.TierHigh
				break
			}
		}
		score *= mult
	}

	for _, ctx := range cl.Context {
		if m, ok := c.lex.Multipliers.Context[ctx]; ok {
			score *= m
		}
	}
	for _, cat := range cl.Categories {
		if m, ok := c.lex.Multipliers.Category[cat]; ok {
			score *= m
		}
	}

	return score * cl.SourceWeight
}

func containsString(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}

func anyContained(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
