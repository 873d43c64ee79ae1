package apriori

import "sort"

// Frequent pairs an itemset with its support.
type Frequent struct {
	Itemset Itemset
	Support float64
}

// Table maps canonical itemset keys to their frequent entry. A table holds
// itemsets of every size; each itemset appears once.
type Table map[string]Frequent

// Get returns the entry for s, if present.
func (t Table) Get(s Itemset) (Frequent, bool) {
	f, ok := t[s.Key()]
	return f, ok
}

// Add inserts or replaces the entry for f.Itemset.
func (t Table) Add(f Frequent) {
	t[f.Itemset.Key()] = f
}

// Len returns the number of itemsets in the table.
func (t Table) Len() int {
	return len(t)
}

// BySize returns the number of itemsets of each size.
func (t Table) BySize() map[int]int {
	out := make(map[int]int)
	for _, f := range t {
		out[f.Itemset.Len()]++
	}
	return out
}

// Sorted returns the entries ordered by support (highest first), then by
// size (smallest first), then by items, so equal tables always sort the same.
func (t Table) Sorted() []Frequent {
	out := make([]Frequent, 0, len(t))
	for _, f := range t {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Support != b.Support {
			return a.Support > b.Support
		}
		if a.Itemset.Len() != b.Itemset.Len() {
			return a.Itemset.Len() < b.Itemset.Len()
		}
		return lessItems(a.Itemset, b.Itemset)
	})
	return out
}
