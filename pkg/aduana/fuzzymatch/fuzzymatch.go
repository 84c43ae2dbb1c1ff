// Package fuzzymatch corrects near-miss category values against a known-valid
// vocabulary. This is the only probabilistic step in the pipeline and the one
// most sensitive to data-quality regressions, so it is kept isolated and
// fully testable against a fixed vocabulary and threshold.
package fuzzymatch

import (
	"math"
	"sort"
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
	"github.com/xrash/smetrics"
)

// Threshold bounds. A caller-supplied sensitivity outside the valid range is
// clamped rather than rejected.
const (
	DefaultThreshold = 90
	MinThreshold     = 70
	MaxThreshold     = 100
)

// Score rates the similarity of two strings on a 0-100 scale, higher meaning
// more similar. Inputs are compared token-order-insensitively: the weighted
// fuzzy ratio covers token rearrangements and partial overlaps, while
// Jaro-Winkler catches the adjacent transpositions typical of hand-typed
// brand names ("khun" for "kuhn"), which pure edit-ratio scorers undervalue.
func Score(a, b string) int {
	s1, s2 := tokenSort(a), tokenSort(b)
	if s1 == "" || s2 == "" {
		return 0
	}
	w := fuzzy.WRatio(s1, s2)
	jw := int(math.Round(smetrics.JaroWinkler(s1, s2, 0.7, 4) * 100))
	if jw > w {
		return jw
	}
	return w
}

func tokenSort(s string) string {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(s)))
	sort.Strings(fields)
	return strings.Join(fields, " ")
}

// Resolver matches raw category values against a vocabulary.
type Resolver struct {
	vocab     []string
	members   map[string]struct{}
	threshold int
}

// New builds a resolver. The vocabulary is copied and sorted so that
// tie-breaking is deterministic regardless of input order; threshold is
// clamped to [MinThreshold, MaxThreshold].
func New(vocab []string, threshold int) *Resolver {
	if threshold < MinThreshold {
		threshold = MinThreshold
	}
	if threshold > MaxThreshold {
		threshold = MaxThreshold
	}
	r := &Resolver{
		vocab:     append([]string(nil), vocab...),
		members:   make(map[string]struct{}, len(vocab)),
		threshold: threshold,
	}
	sort.Strings(r.vocab)
	for _, v := range r.vocab {
		r.members[v] = struct{}{}
	}
	return r
}

// Enabled reports whether the resolver has a vocabulary to correct against.
// An empty vocabulary disables correction entirely.
func (r *Resolver) Enabled() bool { return len(r.vocab) > 0 }

// InVocabulary reports exact membership.
func (r *Resolver) InVocabulary(value string) bool {
	_, ok := r.members[value]
	return ok
}

// BestMatch returns the vocabulary entry most similar to value and its score.
// The vocabulary is scanned in sorted order and a candidate must score
// strictly greater to displace the incumbent, so among equal scores the
// lexicographically smallest entry wins.
func (r *Resolver) BestMatch(value string) (string, int) {
	best, bestScore := "", -1
	for _, v := range r.vocab {
		if s := Score(value, v); s > bestScore {
			best, bestScore = v, s
		}
	}
	return best, bestScore
}

// Resolve maps a raw value to its vocabulary entry: exact membership first,
// then the best fuzzy match at or above the threshold. When neither applies
// the raw value is returned unchanged with ok=false; the caller decides the
// fallback sentinel.
func (r *Resolver) Resolve(value string) (string, bool) {
	if !r.Enabled() {
		return value, false
	}
	if r.InVocabulary(value) {
		return value, true
	}
	if value == "" {
		return value, false
	}
	if match, score := r.BestMatch(value); score >= r.threshold {
		return match, true
	}
	return value, false
}

// Corrections partitions distinct raw values into "already valid" and
// "candidates", and returns the remapping for every candidate whose best
// match clears the threshold. Same input set and threshold always produce
// the same mapping.
func (r *Resolver) Corrections(values []string) map[string]string {
	out := make(map[string]string)
	if !r.Enabled() {
		return out
	}
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, done := seen[v]; done {
			continue
		}
		seen[v] = struct{}{}
		if r.InVocabulary(v) {
			continue
		}
		if match, score := r.BestMatch(v); score >= r.threshold {
			out[v] = match
		}
	}
	return out
}
