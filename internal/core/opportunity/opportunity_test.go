package opportunity

import (
	"math"
	"testing"
	"time"

	"signalfarm/internal/core/lexicon"
)

func mustAnalyzer(t *testing.T) *Analyzer {
	t.Helper()
	p, err := lexicon.Load()
	if err != nil {
		t.Fatalf("load lexicon: %v", err)
	}
	return New(p)
}

func TestAssessEmptyHistoryDefaults(t *testing.T) {
	a := mustAnalyzer(t)
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	snap := a.Assess(now, nil)
	c := snap.Components
	if c.Activity != 0 || c.Growth != 0 || c.Sentiment != 0.5 || c.Urgency != 0 {
		t.Fatalf("defaults wrong: %+v", c)
	}
	if snap.Type != TypeUnknown || snap.TypeConfidence != 0 {
		t.Fatalf("type = %q/%v, want unknown/0", snap.Type, snap.TypeConfidence)
	}
	if snap.Effort != "medium" || snap.TimeSensitivity != "medium" {
		t.Fatalf("unknown type should fall back to medium: %+v", snap)
	}
	if snap.Score < 0 || snap.Score > 100 {
		t.Fatalf("score out of range: %v", snap.Score)
	}
	if snap.Worth {
		t.Fatalf("empty history cannot be worth joining")
	}
}

func TestActivityCurve(t *testing.T) {
	a := mustAnalyzer(t)

	if got := a.Activity(0); got != 0 {
		t.Fatalf("zero mentions = %v, want 0", got)
	}
	if got := a.Activity(5); math.Abs(got-0.5) > 1e-12 {
		t.Fatalf("midpoint = %v, want 0.5", got)
	}
	if lo, hi := a.Activity(2), a.Activity(10); !(lo < 0.5 && hi > 0.85 && hi <= 1) {
		t.Fatalf("curve shape off: Activity(2)=%v Activity(10)=%v", lo, hi)
	}
}

func TestGrowthScenarios(t *testing.T) {
	a := mustAnalyzer(t)

	if got := a.Growth(12, 3); got <= 0.5 {
		t.Fatalf("12 vs 3 = %v, want > 0.5", got)
	}
	if got := a.Growth(2, 8); got >= 0.5 {
		t.Fatalf("2 vs 8 = %v, want < 0.5", got)
	}
	if got := a.Growth(5, 5); math.Abs(got-0.5) > 1e-12 {
		t.Fatalf("flat trend = %v, want 0.5", got)
	}
	if got := a.Growth(0, 0); got != 0 {
		t.Fatalf("no mentions = %v, want 0", got)
	}
	// a fresh project uses the raw count as the ratio
	if got := a.Growth(4, 0); got <= a.Growth(4, 2) {
		t.Fatalf("fresh project not rewarded: %v vs %v", got, a.Growth(4, 2))
	}
}

func TestSentimentBaseline(t *testing.T) {
	a := mustAnalyzer(t)

	if got := a.Sentiment(nil); got != 0.5 {
		t.Fatalf("empty = %v, want neutral 0.5", got)
	}

	recs := []Record{
		{Context: []string{"opportunity"}},
		{Context: []string{"alpha"}},
		{Context: []string{"risk"}},
		{Context: nil},
	}
	// 2/4 positive, 1/4 negative: 0.5 + 0.25 - 0.125
	if got := a.Sentiment(recs); math.Abs(got-0.625) > 1e-12 {
		t.Fatalf("mixed = %v, want 0.625", got)
	}

	allNeg := []Record{{Context: []string{"risk"}}, {Context: []string{"risk"}}}
	if got := a.Sentiment(allNeg); got != 0 {
		t.Fatalf("all negative = %v, want clamp to 0", got)
	}
}

func TestUrgencySample(t *testing.T) {
	a := mustAnalyzer(t)

	// below the priority floor: no urgency at all
	if got := a.Urgency([]Record{{Priority: 1.2, Context: []string{"time_sensitive"}}}); got != 0 {
		t.Fatalf("low priority = %v, want 0", got)
	}

	recs := []Record{
		{Priority: 1.5, Context: []string{"time_sensitive"}},
		{Priority: 1.4, Categories: []string{"urgent_action"}},
	}
	// both flagged, max 1.5 normalizes to 0.5
	want := 0.6*1.0 + 0.4*0.5
	if got := a.Urgency(recs); math.Abs(got-want) > 1e-12 {
		t.Fatalf("urgency = %v, want %v", got, want)
	}

	// upcoming_opportunity counts as a time flag too
	recs = []Record{{Priority: 2.5, Categories: []string{"upcoming_opportunity"}}}
	want = 0.6 + 0.4*1.0 // normalized priority caps at 1
	if got := a.Urgency(recs); math.Abs(got-want) > 1e-12 {
		t.Fatalf("urgency = %v, want %v", got, want)
	}
}

func TestUrgencyLimitsSample(t *testing.T) {
	a := mustAnalyzer(t)

	// 10 flagged high-priority records plus 20 unflagged just above the
	// floor: the sample keeps only the top 10, so the ratio stays 1
	var recs []Record
	for i := 0; i < 10; i++ {
		recs = append(recs, Record{Priority: 2.0, Context: []string{"time_sensitive"}})
	}
	for i := 0; i < 20; i++ {
		recs = append(recs, Record{Priority: 1.3})
	}
	want := 0.6*1.0 + 0.4*1.0
	if got := a.Urgency(recs); math.Abs(got-want) > 1e-12 {
		t.Fatalf("urgency = %v, want %v", got, want)
	}
}

func TestDetectTypeVoting(t *testing.T) {
	a := mustAnalyzer(t)

	recs := []Record{
		{Content: "airdrop claim open, check if you are eligible"},
		{Content: "another airdrop distribution round"},
		{Content: "validator node setup"},
	}
	typ, conf := a.DetectType(recs)
	if typ != "airdrop" {
		t.Fatalf("type = %q, want airdrop", typ)
	}
	if math.Abs(conf-2.0/3.0) > 1e-12 {
		t.Fatalf("confidence = %v, want 2/3", conf)
	}
}

func TestDetectTypeCategoryCredit(t *testing.T) {
	a := mustAnalyzer(t)

	// no keyword hits anywhere; only the category credit votes
	recs := []Record{
		{Content: "gm", Categories: []string{"testnet_participation"}},
		{Content: "gm again", Categories: []string{"testnet_participation"}},
	}
	typ, conf := a.DetectType(recs)
	if typ != "testnet" {
		t.Fatalf("type = %q, want testnet", typ)
	}
	if math.Abs(conf-0.5) > 1e-12 {
		t.Fatalf("confidence = %v, want 0.5 (two half votes over two records)", conf)
	}
}

func TestDetectTypeUnknown(t *testing.T) {
	a := mustAnalyzer(t)
	typ, conf := a.DetectType([]Record{{Content: "gm"}})
	if typ != TypeUnknown || conf != 0 {
		t.Fatalf("got %q/%v, want unknown/0", typ, conf)
	}
}

func TestROIBounds(t *testing.T) {
	a := mustAnalyzer(t)

	// high tier, max lean: 3 * 1.5 / 3 clamps to 1
	if got := a.ROI("testnet", 1, 1); got != 1 {
		t.Fatalf("max roi = %v, want clamp to 1", got)
	}
	// unknown type sits at the low tier
	if got := a.ROI("unknown", 0.5, 0.5); math.Abs(got-1.0/3.0) > 1e-12 {
		t.Fatalf("unknown roi = %v, want 1/3", got)
	}
	if got := a.ROI("community_tasks", 0, 0); got < 0 || got > 1 {
		t.Fatalf("roi out of range: %v", got)
	}
}

func TestWorthBoundaryInclusive(t *testing.T) {
	if !WorthParticipating(70) {
		t.Fatalf("exactly 70 must qualify")
	}
	if WorthParticipating(math.Nextafter(70, 0)) {
		t.Fatalf("just under 70 must not qualify")
	}
}

func TestAssessEndToEnd(t *testing.T) {
	a := mustAnalyzer(t)
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	var recs []Record
	for i := 0; i < 12; i++ {
		recs = append(recs, Record{
			At:         now.Add(-time.Duration(i+1) * time.Hour),
			Content:    "incentivized testnet validator rewards",
			Categories: []string{"testnet_participation"},
			Context:    []string{"opportunity"},
			Priority:   1.6,
		})
	}
	for i := 0; i < 3; i++ {
		recs = append(recs, Record{
			At:      now.Add(-8 * 24 * time.Hour),
			Content: "early testnet chatter",
		})
	}

	snap := a.Assess(now, recs)
	if snap.Type != "testnet" {
		t.Fatalf("type = %q, want testnet", snap.Type)
	}
	if snap.Effort != "medium" || snap.TimeSensitivity != "medium" {
		t.Fatalf("taxonomy fields: %+v", snap)
	}
	c := snap.Components
	for name, v := range map[string]float64{
		"activity": c.Activity, "growth": c.Growth, "sentiment": c.Sentiment,
		"urgency": c.Urgency, "roi": c.ROI,
	} {
		if v < 0 || v > 1 {
			t.Fatalf("%s out of [0,1]: %v", name, v)
		}
	}
	if c.Growth <= 0.5 {
		t.Fatalf("12 recent vs 3 prior should grow: %v", c.Growth)
	}
	if c.Sentiment <= 0.5 {
		t.Fatalf("all-positive context should lift sentiment: %v", c.Sentiment)
	}
	if snap.Score < 0 || snap.Score > 100 {
		t.Fatalf("score out of range: %v", snap.Score)
	}
	if snap.Worth != (snap.Score >= 70) {
		t.Fatalf("worth flag inconsistent with score %v", snap.Score)
	}
}
