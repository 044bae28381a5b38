// Package lexicon loads and compiles the classification dictionaries from the
// embedded rules.json. It prepares category trigger lists, context indicators,
// discovery patterns, and the opportunity taxonomy for the core engines
package lexicon

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strings"
)

//go:embed rules.json
var embedded []byte

// PatternTarget selects which form of the text a discovery pattern scans
type PatternTarget string

const (
	// TargetNormalized scans the normalized (lowercased, stripped) text
	TargetNormalized PatternTarget = "normalized"
	// TargetRaw scans the raw input; needed for case/marker-sensitive patterns like $SYMBOL
	TargetRaw PatternTarget = "raw"
)

type rawEntry struct {
	Label    string   `json:"label"`
	Triggers []string `json:"triggers"`
}

type rawInference struct {
	MonitoringWords []string `json:"monitoring_words"`
	MonitoringLabel string   `json:"monitoring_label"`
	YieldMarkers    []string `json:"yield_markers"`
	YieldLabel      string   `json:"yield_label"`
	SupplyMarkers   []string `json:"supply_markers"`
	SupplyLabel     string   `json:"supply_label"`
}

type rawPattern struct {
	ID             string  `json:"id"`
	Pattern        string  `json:"pattern"`
	BaseConfidence float64 `json:"base_confidence"`
	Target         string  `json:"target"`
}

type rawDiscovery struct {
	Patterns         []rawPattern `json:"patterns"`
	SignalWords      []string     `json:"signal_words"`
	MentionBoostStep float64      `json:"mention_boost_step"`
	MentionBoostCap  float64      `json:"mention_boost_cap"`
	SignalBoostStep  float64      `json:"signal_boost_step"`
	SignalBoostCap   float64      `json:"signal_boost_cap"`
	Stopwords        []string     `json:"stopwords"`
}

type rawMultipliers struct {
	Context     map[string]float64 `json:"context"`
	Category    map[string]float64 `json:"category"`
	TierHigh    float64            `json:"tier_high"`
	TierDefault float64            `json:"tier_default"`
}

type rawOpportunityType struct {
	Name            string   `json:"name"`
	Keywords        []string `json:"keywords"`
	Effort          string   `json:"effort"`
	TimeSensitivity string   `json:"time_sensitivity"`
	ROI             string   `json:"roi"`
}

type rawOpportunity struct {
	Types             []rawOpportunityType `json:"types"`
	CategoryCredit    map[string][]string  `json:"category_credit"`
	ROITiers          map[string]float64   `json:"roi_tiers"`
	EffortLevels      map[string]float64   `json:"effort_levels"`
	SentimentPositive []string             `json:"sentiment_positive"`
	SentimentNegative []string             `json:"sentiment_negative"`
	Weights           ComponentWeights     `json:"weights"`
}

type rawPack struct {
	Version       int                `json:"version"`
	Meta          map[string]any     `json:"meta"`
	Categories    []rawEntry         `json:"categories"`
	Context       []rawEntry         `json:"context"`
	Inference     rawInference       `json:"inference"`
	Discovery     rawDiscovery       `json:"discovery"`
	Multipliers   rawMultipliers     `json:"multipliers"`
	SourceWeights map[string]float64 `json:"source_weights"`
	Opportunity   rawOpportunity     `json:"opportunity"`
}

// Entry is one dictionary row: a label and its trigger terms
type Entry struct {
	Label    string
	Triggers []string
}

// Inference holds the fallback hints applied when no category matched
type Inference struct {
	MonitoringWords []string
	MonitoringLabel string
	YieldMarkers    []string
	YieldLabel      string
	SupplyMarkers   []string
	SupplyLabel     string
}

// DiscoveryPattern is one compiled new-project pattern
type DiscoveryPattern struct {
	ID             string
	BaseConfidence float64
	Target         PatternTarget

	re *regexp.Regexp
}

// FindNames returns the first capture group of every match in s
func (p DiscoveryPattern) FindNames(s string) [][]int {
	return p.re.FindAllStringSubmatchIndex(s, -1)
}

// Discovery holds the compiled discovery patterns and their boost parameters
type Discovery struct {
	Patterns         []DiscoveryPattern
	SignalWords      []string
	MentionBoostStep float64
	MentionBoostCap  float64
	SignalBoostStep  float64
	SignalBoostCap   float64
	Stopset          map[string]struct{}
}

// Multipliers are the priority scoring multiplier tables
type Multipliers struct {
	Context     map[string]float64
	Category    map[string]float64
	TierHigh    float64
	TierDefault float64
}

// OpportunityType is one row of the opportunity taxonomy
type OpportunityType struct {
	Name            string
	Keywords        []string
	Effort          string
	TimeSensitivity string
	ROI             string
}

// ComponentWeights are the convex weights of the opportunity rollup
type ComponentWeights struct {
	Activity  float64 `json:"activity"`
	Growth    float64 `json:"growth"`
	Sentiment float64 `json:"sentiment"`
	Urgency   float64 `json:"urgency"`
	ROI       float64 `json:"roi"`
}

// Sum returns the total of all component weights
func (w ComponentWeights) Sum() float64 {
	return w.Activity + w.Growth + w.Sentiment + w.Urgency + w.ROI
}

// Opportunity holds the taxonomy and rollup parameters
type Opportunity struct {
	Types             []OpportunityType
	TypeByName        map[string]OpportunityType
	CategoryCredit    map[string][]string
	ROITiers          map[string]float64
	EffortLevels      map[string]float64
	SentimentPositive []string
	SentimentNegative []string
	Weights           ComponentWeights
}

// Pack is the compiled lexicon consumed by the classifier, discoverer, and
// opportunity engine. Immutable after Load; safe for concurrent use
type Pack struct {
	Version int
	Meta    map[string]any

	Categories []Entry
	Context    []Entry
	Inference  Inference

	Discovery   Discovery
	Multipliers Multipliers

	// SourceWeights maps a source type ("official", "partner", ...) to its
	// trust weight. DefaultSourceType is used when a type is unknown
	SourceWeights     map[string]float64
	DefaultSourceType string

	Opportunity Opportunity
}

// DefaultSourceWeight returns the weight for unknown source types
func (p *Pack) DefaultSourceWeight() float64 {
	return p.SourceWeights[p.DefaultSourceType]
}

// Load returns the compiled pack from the embedded rules.json.
// Any structural problem is a configuration error and fails loudly
func Load() (*Pack, error) {
	return LoadBytes(embedded)
}

// LoadBytes compiles a pack from raw JSON (seam for tests and custom packs)
func LoadBytes(b []byte) (*Pack, error) {
	var rp rawPack
	if err := json.Unmarshal(b, &rp); err != nil {
		return nil, fmt.Errorf("lexicon: parse rules.json: %w", err)
	}
	if rp.Version != 1 {
		return nil, fmt.Errorf("lexicon: unsupported rules.json version %d (want 1)", rp.Version)
	}

	p := &Pack{
		Version:           rp.Version,
		Meta:              rp.Meta,
		SourceWeights:     make(map[string]float64, len(rp.SourceWeights)),
		DefaultSourceType: "general",
	}

	for _, e := range rp.Categories {
		ent, err := cleanEntry(e, "category")
		if err != nil {
			return nil, err
		}
		p.Categories = append(p.Categories, ent)
	}
	for _, e := range rp.Context {
		ent, err := cleanEntry(e, "context")
		if err != nil {
			return nil, err
		}
		p.Context = append(p.Context, ent)
	}

	p.Inference = Inference(rp.Inference)

	for st, w := range rp.SourceWeights {
		if w <= 0 || w > 1.0 {
			return nil, fmt.Errorf("lexicon: source weight %q=%v outside (0,1]", st, w)
		}
		p.SourceWeights[strings.ToLower(st)] = w
	}
	if _, ok := p.SourceWeights[p.DefaultSourceType]; !ok {
		return nil, fmt.Errorf("lexicon: missing %q source weight", p.DefaultSourceType)
	}

	d := Discovery{
		SignalWords:      lowerAll(rp.Discovery.SignalWords),
		MentionBoostStep: rp.Discovery.MentionBoostStep,
		MentionBoostCap:  rp.Discovery.MentionBoostCap,
		SignalBoostStep:  rp.Discovery.SignalBoostStep,
		SignalBoostCap:   rp.Discovery.SignalBoostCap,
		Stopset:          make(map[string]struct{}, len(rp.Discovery.Stopwords)),
	}
	for _, s := range rp.Discovery.Stopwords {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			d.Stopset[s] = struct{}{}
		}
	}
	for _, rpat := range rp.Discovery.Patterns {
		if rpat.ID == "" {
			return nil, fmt.Errorf("lexicon: discovery pattern without id")
		}
		if rpat.BaseConfidence <= 0 || rpat.BaseConfidence > 1 {
			return nil, fmt.Errorf("lexicon: pattern %q base_confidence %v outside (0,1]", rpat.ID, rpat.BaseConfidence)
		}
		tgt := PatternTarget(rpat.Target)
		if tgt != TargetRaw && tgt != TargetNormalized {
			return nil, fmt.Errorf("lexicon: pattern %q has unknown target %q", rpat.ID, rpat.Target)
		}
		re, err := regexp.Compile(rpat.Pattern)
		if err != nil {
			return nil, fmt.Errorf("lexicon: compile %q: %w", rpat.ID, err)
		}
		if re.NumSubexp() != 1 {
			return nil, fmt.Errorf("lexicon: pattern %q must have exactly one capture group", rpat.ID)
		}
		d.Patterns = append(d.Patterns, DiscoveryPattern{
			ID:             rpat.ID,
			BaseConfidence: rpat.BaseConfidence,
			Target:         tgt,
			re:             re,
		})
	}
	p.Discovery = d

	p.Multipliers = Multipliers{
		Context:     rp.Multipliers.Context,
		Category:    rp.Multipliers.Category,
		TierHigh:    rp.Multipliers.TierHigh,
		TierDefault: rp.Multipliers.TierDefault,
	}
	if p.Multipliers.TierHigh <= 0 || p.Multipliers.TierDefault <= 0 {
		return nil, fmt.Errorf("lexicon: tier multipliers must be positive")
	}

	o := Opportunity{
		TypeByName:        make(map[string]OpportunityType, len(rp.Opportunity.Types)),
		CategoryCredit:    rp.Opportunity.CategoryCredit,
		ROITiers:          rp.Opportunity.ROITiers,
		EffortLevels:      rp.Opportunity.EffortLevels,
		SentimentPositive: rp.Opportunity.SentimentPositive,
		SentimentNegative: rp.Opportunity.SentimentNegative,
		Weights:           rp.Opportunity.Weights,
	}
	for _, t := range rp.Opportunity.Types {
		ot := OpportunityType{
			Name:            t.Name,
			Keywords:        lowerAll(t.Keywords),
			Effort:          t.Effort,
			TimeSensitivity: t.TimeSensitivity,
			ROI:             t.ROI,
		}
		if _, ok := o.ROITiers[ot.ROI]; !ok {
			return nil, fmt.Errorf("lexicon: type %q has unknown roi tier %q", t.Name, t.ROI)
		}
		o.Types = append(o.Types, ot)
		o.TypeByName[ot.Name] = ot
	}
	for cat, types := range o.CategoryCredit {
		for _, ty := range types {
			if _, ok := o.TypeByName[ty]; !ok {
				return nil, fmt.Errorf("lexicon: category_credit %q points at unknown type %q", cat, ty)
			}
		}
	}
	if math.Abs(o.Weights.Sum()-1.0) > 1e-9 {
		return nil, fmt.Errorf("lexicon: component weights sum to %v (want 1.0)", o.Weights.Sum())
	}
	p.Opportunity = o

	return p, nil
}

func cleanEntry(e rawEntry, kind string) (Entry, error) {
	label := strings.TrimSpace(e.Label)
	if label == "" {
		return Entry{}, fmt.Errorf("lexicon: %s entry without label", kind)
	}
	out := Entry{Label: label}
	for _, t := range e.Triggers {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			out.Triggers = append(out.Triggers, t)
		}
	}
	if len(out.Triggers) == 0 {
		return Entry{}, fmt.Errorf("lexicon: %s %q has no triggers", kind, label)
	}
	return out, nil
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
