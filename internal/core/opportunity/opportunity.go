// Package opportunity turns a project's classified message history into a
// 0-100 opportunity score. Everything here is pure computation over in-memory
// records: the caller fetches the history, the engine partitions it into
// windows and rolls up the five component scores. Snapshots are recomputed
// from scratch every call, never incrementally updated.
package opportunity

import (
	"math"
	"sort"
	"strings"
	"time"

	"signalfarm/internal/core/lexicon"
)

const (
	// RecentWindow bounds the activity, urgency, and type-vote windows
	RecentWindow = 7 * 24 * time.Hour
	// TrendWindow bounds the growth comparison and sentiment windows
	TrendWindow = 14 * 24 * time.Hour

	// MinUrgentPriority is the priority floor for the urgency sample
	MinUrgentPriority = 1.3
	// urgency looks at the top items only
	urgencySampleLimit = 10

	// WorthThreshold is the inclusive score bound for joining
	WorthThreshold = 70.0

	// TypeUnknown is reported when no taxonomy type gets any votes
	TypeUnknown = "unknown"
)

// Record is one classified message attributed to a project
type Record struct {
	At         time.Time
	Content    string
	Categories []string
	Context    []string
	Priority   float64
}

// Components are the five rollup inputs, each in [0,1]
type Components struct {
	Activity  float64 `json:"activity"`
	Growth    float64 `json:"growth"`
	Sentiment float64 `json:"sentiment"`
	Urgency   float64 `json:"urgency"`
	ROI       float64 `json:"roi"`
}

// Snapshot is the full assessment of one project at a point in time
type Snapshot struct {
	Type            string     `json:"type"`
	TypeConfidence  float64    `json:"type_confidence"`
	Effort          string     `json:"effort"`
	TimeSensitivity string     `json:"time_sensitivity"`
	Components      Components `json:"components"`
	Score           float64    `json:"score"`
	Worth           bool       `json:"worth_participating"`
}

// Analyzer computes snapshots against an immutable lexicon
type Analyzer struct {
	lex *lexicon.Pack
}

func New(lex *lexicon.Pack) *Analyzer {
	if lex == nil {
		panic("opportunity: nil lexicon")
	}
	return &Analyzer{lex: lex}
}

// Assess rolls up recs into a snapshot relative to now. Records outside the
// trend window are ignored; an empty history yields the neutral defaults
// (activity 0, growth 0, sentiment 0.5, urgency 0) rather than an error
func (a *Analyzer) Assess(now time.Time, recs []Record) Snapshot {
	cutRecent := now.Add(-RecentWindow)
	cutTrend := now.Add(-TrendWindow)

	var recent, prior, window []Record
	for _, r := range recs {
		if r.At.Before(cutTrend) {
			continue
		}
		window = append(window, r)
		if r.At.Before(cutRecent) {
			prior = append(prior, r)
		} else {
			recent = append(recent, r)
		}
	}

	comp := Components{
		Activity:  a.Activity(len(recent)),
		Growth:    a.Growth(len(recent), len(prior)),
		Sentiment: a.Sentiment(window),
		Urgency:   a.Urgency(recent),
	}
	typ, conf := a.DetectType(recent)
	comp.ROI = a.ROI(typ, comp.Activity, comp.Sentiment)

	w := a.lex.Opportunity.Weights
	score := 100 * (comp.Activity*w.Activity +
		comp.Growth*w.Growth +
		comp.Sentiment*w.Sentiment +
		comp.Urgency*w.Urgency +
		comp.ROI*w.ROI)

	effort, sensitivity := "medium", "medium"
	if t, ok := a.lex.Opportunity.TypeByName[typ]; ok {
		effort, sensitivity = t.Effort, t.TimeSensitivity
	}

	return Snapshot{
		Type:            typ,
		TypeConfidence:  conf,
		Effort:          effort,
		TimeSensitivity: sensitivity,
		Components:      comp,
		Score:           score,
		Worth:           WorthParticipating(score),
	}
}

// WorthParticipating applies the inclusive score threshold
func WorthParticipating(score float64) bool {
	return score >= WorthThreshold
}

// Activity maps a recent mention count onto [0,1]: 5 mentions sit at the
// midpoint, 10+ approach 1. A count of zero is zero, not the logistic tail
func (a *Analyzer) Activity(count int) float64 {
	if count == 0 {
		return 0
	}
	return logistic(0.4 * (float64(count) - 5))
}

// Growth compares the recent window's mention count against the prior one.
// A ratio of 1 is the neutral 0.5; a fresh project with no prior mentions
// uses the raw recent count as the ratio so it is rewarded without blowing up
func (a *Analyzer) Growth(recent, prior int) float64 {
	if recent == 0 && prior == 0 {
		return 0
	}
	ratio := float64(recent)
	if prior > 0 {
		ratio = float64(recent) / float64(prior)
	}
	return logistic(1.5 * (ratio - 1))
}

// Sentiment scores the trend window's context labels around the 0.5 neutral
// baseline: each record with a positive context pushes up, each with a
// negative context pushes down
func (a *Analyzer) Sentiment(recs []Record) float64 {
	if len(recs) == 0 {
		return 0.5
	}

	opp := a.lex.Opportunity
	pos, neg := 0, 0
	for _, r := range recs {
		if anyOverlap(r.Context, opp.SentimentPositive) {
			pos++
		}
		if anyOverlap(r.Context, opp.SentimentNegative) {
			neg++
		}
	}

	total := float64(len(recs))
	return clamp01(0.5 + 0.5*float64(pos)/total - 0.5*float64(neg)/total)
}

// Urgency samples the highest-priority recent records and combines the share
// of time-flagged items with the normalized top priority
func (a *Analyzer) Urgency(recent []Record) float64 {
	var hi []Record
	for _, r := range recent {
		if r.Priority >= MinUrgentPriority {
			hi = append(hi, r)
		}
	}
	if len(hi) == 0 {
		return 0
	}
	sort.SliceStable(hi, func(i, j int) bool { return hi[i].Priority > hi[j].Priority })
	if len(hi) > urgencySampleLimit {
		hi = hi[:urgencySampleLimit]
	}

	flagged := 0
	maxPriority := 0.0
	for _, r := range hi {
		if r.Priority > maxPriority {
			maxPriority = r.Priority
		}
		if containsAny(r.Context, "time_sensitive") ||
			containsAny(r.Categories, "urgent_action", "upcoming_opportunity") {
			flagged++
		}
	}

	normPriority := clamp01(maxPriority - 1.0)
	return 0.6*float64(flagged)/float64(len(hi)) + 0.4*normPriority
}

// DetectType votes each recent record into the opportunity taxonomy: a full
// vote per keyword-matching type plus half a vote per credited category.
// Ties resolve in taxonomy order. Confidence is the winning vote share
func (a *Analyzer) DetectType(recent []Record) (string, float64) {
	if len(recent) == 0 {
		return TypeUnknown, 0
	}

	opp := a.lex.Opportunity
	votes := make(map[string]float64, len(opp.Types))
	for _, r := range recent {
		content := strings.ToLower(r.Content)
		if content != "" {
			for _, t := range opp.Types {
				if anySubstring(content, t.Keywords) {
					votes[t.Name]++
				}
			}
		}
		for _, cat := range r.Categories {
			for _, name := range opp.CategoryCredit[cat] {
				votes[name] += 0.5
			}
		}
	}

	best, bestVotes := TypeUnknown, 0.0
	for _, t := range opp.Types {
		if votes[t.Name] > bestVotes {
			best, bestVotes = t.Name, votes[t.Name]
		}
	}
	if best == TypeUnknown {
		return TypeUnknown, 0
	}
	return best, math.Min(1, bestVotes/float64(len(recent)))
}

// ROI starts from the winning type's tier (unknown types sit at the low
// tier), leans it by activity and sentiment, and normalizes by the top tier
func (a *Analyzer) ROI(typeName string, activity, sentiment float64) float64 {
	opp := a.lex.Opportunity
	base := 1.0
	if t, ok := opp.TypeByName[typeName]; ok {
		base = opp.ROITiers[t.ROI]
	}
	adjusted := base * (1 + 0.5*(activity-0.5) + 0.5*(sentiment-0.5))
	return clamp01(adjusted / 3.0)
}

func logistic(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

func clamp01(x float64) float64 {
	switch {
	case x < 0:
		return 0
	case x > 1:
		return 1
	}
	return x
}

func anyOverlap(have, want []string) bool {
	for _, h := range have {
		for _, w := range want {
			if h == w {
				return true
			}
		}
	}
	return false
}

func containsAny(have []string, want ...string) bool {
	return anyOverlap(have, want)
}

func anySubstring(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
