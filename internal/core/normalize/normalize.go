// Package normalize provides the deterministic text normalizer used by the
// classifier and the discoverer
// Pipeline order
// 1 UTF-8 repair drop invalid bytes
// 2 Unicode NFKC normalization and case folding
// 3 Width fold fullwidth to ASCII
// 4 Strip URLs
// 5 Neutralize token markers $ # @ to spaces
// 6 Collapse whitespace to single spaces and trim
//
// The pipeline is idempotent: Normalize(Normalize(x)) == Normalize(x)
package normalize

import (
	"regexp"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// Normalizer is concurrency safe when used with the pool below
type Normalizer struct{}

var urlRE = regexp.MustCompile(`https?://\S+`)

// pool of fresh transformer chains
var chainPool = sync.Pool{
	New: func() any {
		// order matters and mirrors the documented pipeline
		return transform.Chain(
			norm.NFKC,
			cases.Fold(),                       // unicode case folding
			runes.Remove(runes.In(unicode.Cf)), // strip format chars ZWJ ZWNJ FEFF etc
			width.Fold,                         // map fullwidth forms to ASCII
		)
	},
}

// New constructs a Normalizer
func New() *Normalizer { return &Normalizer{} }

// Normalize returns the normalized form of s following the pipeline above
func (n *Normalizer) Normalize(s string) string {
	if s == "" {
		return ""
	}

	// 1 repair UTF-8 drop invalid bytes
	s = strings.ToValidUTF8(s, "")

	// 2-3 transform via pooled chain then reset and return it
	tr := chainPool.Get().(transform.Transformer)
	ns, _, _ := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)

	// 4 strip URLs before markers so scheme separators don't leak fragments
	ns = urlRE.ReplaceAllString(ns, " ")

	// 5 neutralize symbol, hashtag, and mention markers
	ns = neutralizeMarkers(ns)

	// 6 collapse whitespace and trim
	ns = collapseSpaces(ns)

	return ns
}

// neutralizeMarkers maps $ # @ to spaces so "$abc" "#abc" "@abc" all
// tokenize to the bare word
func neutralizeMarkers(s string) string {
	if !strings.ContainsAny(s, "$#@") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '$', '#', '@':
			b.WriteByte(' ')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// collapseSpaces converts whitespace runs to a single ASCII space and trims
func collapseSpaces(s string) string {
	if s == "" {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	inWS := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			inWS = true
			continue
		}
		if inWS && b.Len() > 0 {
			b.WriteByte(' ')
		}
		inWS = false
		b.WriteRune(r)
	}
	return b.String()
}
