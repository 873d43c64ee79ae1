package analyzer

import (
	"strings"

	"github.com/blackwell-systems/basketprune/internal/apriori"
)

// Detector filters frequent itemsets down to the ones that touch a
// wasteful spending category.
type Detector struct {
	frequent   apriori.Table
	categories []string
}

// NewDetector creates a Detector over a frequent-itemset table. Categories
// are matched case-insensitively.
func NewDetector(frequent apriori.Table, categories []string) *Detector {
	lowered := make([]string, 0, len(categories))
	for _, c := range categories {
		lowered = append(lowered, strings.ToLower(c))
	}
	return &Detector{
		frequent:   frequent,
		categories: lowered,
	}
}

// Categories returns the lower-cased category list.
func (d *Detector) Categories() []string {
	out := make([]string, len(d.categories))
	copy(out, d.categories)
	return out
}

// IsWasteful reports whether any item of s contains any category as a
// substring, so "kopi" matches "kopi instan". With no categories configured
// every itemset is wasteful.
func (d *Detector) IsWasteful(s apriori.Itemset) bool {
	if len(d.categories) == 0 {
		return true
	}
	for _, item := range s.Items() {
		item = strings.ToLower(item)
		for _, c := range d.categories {
			if strings.Contains(item, c) {
				return true
			}
		}
	}
	return false
}

// Detect returns the frequent itemsets of at least minLength items that are
// wasteful. The result has no defined order; use SortPatterns to present it.
func (d *Detector) Detect(minLength int) apriori.Table {
	out := apriori.Table{}
	for key, f := range d.frequent {
		if f.Itemset.Len() >= minLength && d.IsWasteful(f.Itemset) {
			out[key] = f
		}
	}
	return out
}
