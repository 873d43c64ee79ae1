package analyzer

import (
	"time"

	"github.com/blackwell-systems/basketprune/internal/apriori"
)

// DefaultMinLength is the smallest itemset size reported as a pattern.
const DefaultMinLength = 2

// Severity tiers for a wasteful pattern, by support.
const (
	SeverityHigh   = "high"   // support >= 0.50
	SeverityMedium = "medium" // support >= 0.25
	SeverityLow    = "low"
)

// Params are the knobs of one analysis run.
type Params struct {
	MinSupport float64
	MinLength  int
	Categories []string
}

// Pattern is a frequent itemset prepared for presentation.
type Pattern struct {
	Items    []string
	Support  float64
	Wasteful bool
	Severity string
}

// Report is the outcome of one analysis run.
type Report struct {
	ID              string
	CreatedAt       time.Time
	Params          Params
	Transactions    int
	Items           []string
	Frequent        apriori.Table
	Wasteful        apriori.Table
	Levels          map[int]int
	Recommendations []string
}

// Empty reports whether the run found nothing to show: either there were no
// transactions or no itemset reached the minimum support. This is a normal
// outcome, not a failure.
func (r *Report) Empty() bool {
	return r.Transactions == 0 || r.Frequent.Len() == 0
}

// FrequentPatterns returns every frequent itemset, highest support first,
// marked with whether it was classified wasteful.
func (r *Report) FrequentPatterns() []Pattern {
	patterns := make([]Pattern, 0, r.Frequent.Len())
	for _, f := range r.Frequent.Sorted() {
		_, wasteful := r.Wasteful.Get(f.Itemset)
		patterns = append(patterns, newPattern(f, wasteful))
	}
	return patterns
}

// WastefulPatterns returns the wasteful patterns, highest support first.
func (r *Report) WastefulPatterns() []Pattern {
	return SortPatterns(r.Wasteful)
}

// SortPatterns converts a table to patterns ordered by support, highest
// first. Every pattern is marked wasteful.
func SortPatterns(t apriori.Table) []Pattern {
	patterns := make([]Pattern, 0, t.Len())
	for _, f := range t.Sorted() {
		patterns = append(patterns, newPattern(f, true))
	}
	return patterns
}

func newPattern(f apriori.Frequent, wasteful bool) Pattern {
	p := Pattern{
		Items:    f.Itemset.Items(),
		Support:  f.Support,
		Wasteful: wasteful,
	}
	if wasteful {
		p.Severity = ClassifySeverity(f.Support)
	}
	return p
}

// ClassifySeverity maps a support value to a severity tier.
func ClassifySeverity(support float64) string {
	switch {
	case support >= 0.5:
		return SeverityHigh
	case support >= 0.25:
		return SeverityMedium
	default:
		return SeverityLow
	}
}
