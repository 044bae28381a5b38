package classifier

import (
	"math"
	"reflect"
	"testing"

	"signalfarm/internal/core/lexicon"
)

func mustLex(t *testing.T) *lexicon.Pack {
	t.Helper()
	p, err := lexicon.Load()
	if err != nil {
		t.Fatalf("load lexicon: %v", err)
	}
	return p
}

func testIndex() *Index {
	projects := []Project{
		{
			Name:      "Nimbus",
			Symbol:    "NMB",
			Tier:      TierHigh,
			Keywords:  []string{"nimbus", "nimbuschain"},
			Contracts: []string{"0x1111111111111111111111111111111111111111"},
		},
		{
			Name:     "Quietswap",
			Symbol:   "QSW",
			Tier:     TierMedium,
			Keywords: []string{"quietswap"},
		},
	}
	channels := map[string]Channel{
		"nimbus_official": {Project: "Nimbus", Weight: 1.0, Kind: "official"},
		"qsw_partners":    {Project: "Quietswap", Weight: 0.8, Kind: "partner"},
	}
	return NewIndex(projects, channels)
}

func TestClassifyDeterministic(t *testing.T) {
	c := New(mustLex(t), testIndex())
	in := "Nimbus validator node testnet rewards, claim today $NMB"
	src := Source{Channel: "nimbus_official"}

	a := c.Classify(in, src)
	b := c.Classify(in, src)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("classification not deterministic:\n%+v\n%+v", a, b)
	}
}

func TestClassifyEmptyInputDegrades(t *testing.T) {
	c := New(mustLex(t), testIndex())
	got := c.Classify("", Source{})
	if got.Text != "" || len(got.Categories) != 0 || len(got.Projects) != 0 {
		t.Fatalf("expected empty classification, got %+v", got)
	}
	if got.SourceWeight != 0.4 {
		t.Fatalf("source weight = %v, want general default 0.4", got.SourceWeight)
	}
	if got.PriorityScore <= 0 {
		t.Fatalf("priority score must stay positive, got %v", got.PriorityScore)
	}
}

func TestIdentifyProjectRules(t *testing.T) {
	c := New(mustLex(t), testIndex())

	// channel match carries the channel weight
	cl := c.Classify("gm", Source{Channel: "qsw_partners"})
	if len(cl.Projects) != 1 || cl.Projects[0].Origin != OriginChannel || cl.Projects[0].Confidence != 0.8 {
		t.Fatalf("channel rule: %+v", cl.Projects)
	}

	// keyword match: high tier 0.8, medium tier 0.6
	cl = c.Classify("nimbus and quietswap in one message", Source{})
	byName := map[string]ProjectMatch{}
	for _, pm := range cl.Projects {
		byName[pm.Name] = pm
	}
	if pm := byName["Nimbus"]; pm.Origin != OriginKeyword || pm.Confidence != 0.8 {
		t.Fatalf("high tier keyword: %+v", pm)
	}
	if pm := byName["Quietswap"]; pm.Origin != OriginKeyword || pm.Confidence != 0.6 {
		t.Fatalf("medium tier keyword: %+v", pm)
	}

	// symbol match reads raw text, confidence 0.7
	cl = c.Classify("buy $QSW now", Source{})
	if len(cl.Projects) != 1 || cl.Projects[0].Origin != OriginSymbol || cl.Projects[0].Confidence != 0.7 {
		t.Fatalf("symbol rule: %+v", cl.Projects)
	}

	// lowercase $qsw must not match the symbol pattern
	cl = c.Classify("buy $qsw now", Source{})
	if len(cl.Projects) != 0 {
		t.Fatalf("lowercase symbol should not match: %+v", cl.Projects)
	}

	// contract match, confidence 0.9
	cl = c.Classify("deposit to 0x1111111111111111111111111111111111111111", Source{})
	if len(cl.Projects) != 1 || cl.Projects[0].Origin != OriginContract || cl.Projects[0].Confidence != 0.9 {
		t.Fatalf("contract rule: %+v", cl.Projects)
	}
}

func TestIdentifyProjectsDedupeFirstWins(t *testing.T) {
	c := New(mustLex(t), testIndex())
	// channel (1.0) and keyword (0.8) both point at Nimbus; channel is rule 1
	cl := c.Classify("nimbus mainnet soon", Source{Channel: "nimbus_official"})
	count := 0
	for _, pm := range cl.Projects {
		if pm.Name == "Nimbus" {
			count++
			if pm.Origin != OriginChannel {
				t.Fatalf("first occurrence should win, got %+v", pm)
			}
		}
	}
	if count != 1 {
		t.Fatalf("expected one Nimbus match, got %d", count)
	}
}

func TestCategoryAndContextMatching(t *testing.T) {
	c := New(mustLex(t), testIndex())
	cl := c.Classify("claim the airdrop before the deadline today, free rewards", Source{})

	for _, want := range []string{"urgent_action", "upcoming_opportunity"} {
		if !cl.HasCategory(want) {
			t.Fatalf("missing category %q in %v", want, cl.Categories)
		}
	}
	for _, want := range []string{"time_sensitive", "opportunity"} {
		if !cl.HasContext(want) {
			t.Fatalf("missing context %q in %v", want, cl.Context)
		}
	}
}

func TestFallbackInference(t *testing.T) {
	c := New(mustLex(t), testIndex())

	cl := c.Classify("version 2 released", Source{})
	if !cl.HasCategory("monitoring_needed") {
		t.Fatalf("expected monitoring_needed fallback, got %v", cl.Categories)
	}

	cl = c.Classify("40% apy on deposits", Source{})
	if !cl.HasCategory("defi") {
		t.Fatalf("expected defi fallback, got %v", cl.Categories)
	}
}

func TestBilingualTriggers(t *testing.T) {
	c := New(mustLex(t), testIndex())
	cl := c.Classify("срочно клейм, раздача сегодня", Source{})
	if !cl.HasCategory("urgent_action") || !cl.HasCategory("upcoming_opportunity") {
		t.Fatalf("bilingual triggers missed: %v", cl.Categories)
	}
	if !cl.HasContext("time_sensitive") {
		t.Fatalf("bilingual context missed: %v", cl.Context)
	}
}

// A time-sensitive airdrop mention from a general source must score the
// exact product of its applicable multipliers x 0.4
func TestPriorityScoreExactProduct(t *testing.T) {
	c := New(mustLex(t), testIndex())
	cl := c.Classify("$ABC airdrop claim now, deadline today!", Source{Type: "general"})

	if !cl.HasCategory("urgent_action") || !cl.HasCategory("upcoming_opportunity") {
		t.Fatalf("categories: %v", cl.Categories)
	}
	if !cl.HasContext("time_sensitive") {
		t.Fatalf("context: %v", cl.Context)
	}
	if len(cl.Projects) != 0 {
		t.Fatalf("ABC is not tracked: %v", cl.Projects)
	}

	want := 1.0
	for _, ctx := range cl.Context {
		want *= map[string]float64{
			"high_impact": 1.3, "time_sensitive": 1.4, "alpha": 1.2, "risk": 1.5, "opportunity": 1.25,
		}[ctx]
	}
	for _, cat := range cl.Categories {
		if m, ok := map[string]float64{
			"urgent_action": 1.5, "active_investment": 1.3, "project_launch": 1.25, "upcoming_opportunity": 1.35,
		}[cat]; ok {
			want *= m
		}
	}
	want *= 0.4

	if math.Abs(cl.PriorityScore-want) > 1e-12 {
		t.Fatalf("priority = %v, want exact product %v", cl.PriorityScore, want)
	}
}

func TestPriorityScoreMonotone(t *testing.T) {
	c := New(mustLex(t), testIndex())

	base := Classification{SourceWeight: 0.6}
	more := Classification{SourceWeight: 0.6, Context: []string{"alpha"}}
	most := Classification{SourceWeight: 0.6, Context: []string{"alpha"}, Categories: []string{"urgent_action"}}

	s0, s1, s2 := c.Score(base), c.Score(more), c.Score(most)
	if !(s0 > 0 && s1 > s0 && s2 > s1) {
		t.Fatalf("scores not increasing: %v %v %v", s0, s1, s2)
	}
}

func TestProjectTierMultiplier(t *testing.T) {
	c := New(mustLex(t), testIndex())

	high := Classification{SourceWeight: 1.0, Projects: []ProjectMatch{{Name: "Nimbus", Tier: TierHigh}}}
	med := Classification{SourceWeight: 1.0, Projects: []ProjectMatch{{Name: "Quietswap", Tier: TierMedium}}}
	none := Classification{SourceWeight: 1.0}

	if got := c.Score(high); got != 1.5 {
		t.Fatalf("high tier multiplier = %v, want 1.5", got)
	}
	if got := c.Score(med); got != 1.2 {
		t.Fatalf("matched multiplier = %v, want 1.2", got)
	}
	if got := c.Score(none); got != 1.0 {
		t.Fatalf("no project multiplier = %v, want 1.0", got)
	}
}

func TestSourceWeightResolution(t *testing.T) {
	c := New(mustLex(t), testIndex())

	if w := c.SourceWeight(Source{Channel: "nimbus_official"}); w != 1.0 {
		t.Fatalf("channel weight = %v", w)
	}
	if w := c.SourceWeight(Source{Type: "partner"}); w != 0.8 {
		t.Fatalf("type weight = %v", w)
	}
	if w := c.SourceWeight(Source{Type: "does-not-exist"}); w != 0.4 {
		t.Fatalf("fallback weight = %v", w)
	}
}
