package discovery

import (
	"math"
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

func approx(t *testing.T, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-12 {
		t.Fatalf("confidence = %v, want %v", got, want)
	}
}

// A single unembellished mention scores exactly the pattern base: the signal
// words inside the matched phrase itself must not count as boosts
func TestScanBareMentionScoresBase(t *testing.T) {
	d := New(mustLex(t))
	got := d.Scan("new project: zephyr", nil)
	if len(got) != 1 {
		t.Fatalf("candidates = %+v", got)
	}
	if got[0].Name != "zephyr" || got[0].Origin != "new-project" {
		t.Fatalf("candidate = %+v", got[0])
	}
	approx(t, got[0].Confidence, 0.6)
}

func TestScanMentionBoost(t *testing.T) {
	d := New(mustLex(t))
	// three extra mentions beyond the captured one
	got := d.Scan("new project: zephyr. zephyr looks solid, zephyr zephyr", nil)
	if len(got) != 1 {
		t.Fatalf("candidates = %+v", got)
	}
	approx(t, got[0].Confidence, 0.6+3*0.05)
}

func TestScanSignalBoostOutsideSpan(t *testing.T) {
	d := New(mustLex(t))
	// token, airdrop, whitelist sit outside the matched phrase
	got := d.Scan("airdrop and token and whitelist soon. new project: zephyr", nil)
	if len(got) != 1 {
		t.Fatalf("candidates = %+v", got)
	}
	approx(t, got[0].Confidence, 0.6+3*0.04)
}

func TestScanBoostsAreCapped(t *testing.T) {
	d := New(mustLex(t))
	got := d.Scan(
		"new project: zephyr zephyr zephyr zephyr zephyr zephyr zephyr "+
			"token token token airdrop airdrop whitelist launch", nil)
	var zephyr *Candidate
	for i := range got {
		if got[i].Name == "zephyr" {
			zephyr = &got[i]
		}
	}
	if zephyr == nil {
		t.Fatalf("zephyr not found in %+v", got)
	}
	// both boosts saturate at 0.2
	approx(t, zephyr.Confidence, 0.6+0.2+0.2)
}

func TestScanSkipsStopwordsAndTracked(t *testing.T) {
	d := New(mustLex(t))

	if got := d.Scan("new project: the", nil); len(got) != 0 {
		t.Fatalf("stopword candidate survived: %+v", got)
	}

	tracked := func(name string) bool { return name == "zephyr" }
	if got := d.Scan("new project: zephyr", tracked); len(got) != 0 {
		t.Fatalf("tracked candidate survived: %+v", got)
	}
}

func TestScanDedupeKeepsFirstPattern(t *testing.T) {
	d := New(mustLex(t))
	got := d.Scan("new project: zephyr and the zephyr token launch", nil)
	if len(got) != 1 {
		t.Fatalf("candidates = %+v", got)
	}
	if got[0].Origin != "new-project" {
		t.Fatalf("origin = %q, want first pattern to win", got[0].Origin)
	}
}

func TestScanRawSymbolPattern(t *testing.T) {
	d := New(mustLex(t))
	got := d.Scan("$ZEP launch is coming", nil)
	if len(got) != 1 {
		t.Fatalf("candidates = %+v", got)
	}
	if got[0].Name != "ZEP" || got[0].Origin != "symbol-launch" {
		t.Fatalf("candidate = %+v", got[0])
	}
	// "launch" belongs to the matched span, so no signal boost
	approx(t, got[0].Confidence, 0.6)
}

func TestScanEmptyInput(t *testing.T) {
	d := New(mustLex(t))
	if got := d.Scan("", nil); got != nil {
		t.Fatalf("expected nil, got %+v", got)
	}
}
