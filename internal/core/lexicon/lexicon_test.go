package lexicon

import (
	"strings"
	"testing"
)

func TestLoadCompiles(t *testing.T) {
	p, err := Load()
	if err != nil {
		t.Fatalf("Load(): %v", err)
	}
	if p.Version != 1 {
		t.Fatalf("version = %d, want 1", p.Version)
	}
	if len(p.Categories) == 0 || len(p.Context) == 0 {
		t.Fatalf("expected categories and context entries")
	}
	if len(p.Discovery.Patterns) == 0 {
		t.Fatalf("expected compiled discovery patterns")
	}
	var sawRaw bool
	for _, pat := range p.Discovery.Patterns {
		if pat.re == nil {
			t.Fatalf("pattern %q not compiled", pat.ID)
		}
		if pat.Target == TargetRaw {
			sawRaw = true
		}
	}
	if !sawRaw {
		t.Fatalf("expected at least one raw-target pattern ($SYMBOL launch)")
	}
}

func TestSourceWeightsBounded(t *testing.T) {
	p, err := Load()
	if err != nil {
		t.Fatalf("Load(): %v", err)
	}
	for st, w := range p.SourceWeights {
		if w <= 0 || w > 1.0 {
			t.Fatalf("weight %q=%v outside (0,1]", st, w)
		}
	}
	if p.DefaultSourceWeight() != 0.4 {
		t.Fatalf("default source weight = %v, want 0.4", p.DefaultSourceWeight())
	}
}

func TestComponentWeightsSumToOne(t *testing.T) {
	p, err := Load()
	if err != nil {
		t.Fatalf("Load(): %v", err)
	}
	if got := p.Opportunity.Weights.Sum(); got != 1.0 {
		t.Fatalf("weights sum = %v, want 1.0", got)
	}
}

func TestLoadBytesRejectsBadVersion(t *testing.T) {
	_, err := LoadBytes([]byte(`{"version": 99}`))
	if err == nil || !strings.Contains(err.Error(), "version") {
		t.Fatalf("expected version error, got %v", err)
	}
}

func TestLoadBytesRejectsBadPattern(t *testing.T) {
	bad := `{
		"version": 1,
		"categories": [{"label": "x", "triggers": ["y"]}],
		"context": [{"label": "c", "triggers": ["z"]}],
		"source_weights": {"general": 0.4},
		"discovery": {"patterns": [
			{"id": "broken", "pattern": "([a-z", "base_confidence": 0.6, "target": "normalized"}
		]},
		"multipliers": {"tier_high": 1.5, "tier_default": 1.2},
		"opportunity": {"weights": {"activity": 1.0}}
	}`
	if _, err := LoadBytes([]byte(bad)); err == nil {
		t.Fatalf("expected compile error for broken pattern")
	}
}

func TestTaxonomyTiersKnown(t *testing.T) {
	p, err := Load()
	if err != nil {
		t.Fatalf("Load(): %v", err)
	}
	for _, ty := range p.Opportunity.Types {
		if _, ok := p.Opportunity.ROITiers[ty.ROI]; !ok {
			t.Fatalf("type %q has unmapped roi tier %q", ty.Name, ty.ROI)
		}
	}
	if _, ok := p.Opportunity.TypeByName["airdrop"]; !ok {
		t.Fatalf("taxonomy missing airdrop")
	}
}
