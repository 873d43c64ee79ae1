// Package apriori mines frequent itemsets from canonical transactions using
// the level-wise Apriori algorithm.
//
// Itemsets of size k are only ever counted when every one of their (k-1)
// subsets was frequent at the previous level. Support can only fall as an
// itemset grows, so this pruning never drops a frequent itemset.
package apriori

import (
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/blackwell-systems/basketprune/internal/basket"
)

// ErrInvalidParameter is returned when a miner is configured with a minimum
// support outside [0.0, 1.0].
var ErrInvalidParameter = errors.New("invalid parameter")

// Miner finds every itemset whose support meets a minimum threshold.
type Miner struct {
	minSupport float64
	logger     *zap.Logger
	levels     map[int]int
}

// Option configures a Miner.
type Option func(*Miner)

// WithLogger sets the logger used for per-level debug output.
func WithLogger(l *zap.Logger) Option {
	return func(m *Miner) {
		if l != nil {
			m.logger = l
		}
	}
}

// NewMiner creates a miner with the given minimum support.
func NewMiner(minSupport float64, opts ...Option) (*Miner, error) {
	// Written as a negated range check so NaN is rejected too.
	if !(minSupport >= 0.0 && minSupport <= 1.0) {
		return nil, fmt.Errorf("%w: min support %v must be between 0.0 and 1.0", ErrInvalidParameter, minSupport)
	}

	m := &Miner{
		minSupport: minSupport,
		logger:     zap.NewNop(),
		levels:     map[int]int{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// MinSupport returns the configured threshold.
func (m *Miner) MinSupport() float64 {
	return m.minSupport
}

// Levels returns how many frequent itemsets each level produced during the
// most recent Mine call.
func (m *Miner) Levels() map[int]int {
	out := make(map[int]int, len(m.levels))
	for k, v := range m.levels {
		out[k] = v
	}
	return out
}

// level holds the frequent itemsets of a single size.
type level map[string]Frequent

// Mine returns every itemset with support at or above the threshold, across
// all sizes, as one flat table. An empty collection yields an empty table.
func (m *Miner) Mine(transactions []basket.Transaction) Table {
	m.levels = map[int]int{}
	result := Table{}

	total := len(transactions)
	if total == 0 {
		return result
	}

	sets := make([]map[string]struct{}, total)
	for i, tx := range transactions {
		set := make(map[string]struct{}, len(tx))
		for _, item := range tx {
			set[item] = struct{}{}
		}
		sets[i] = set
	}

	prev := m.firstLevel(sets)
	m.logger.Debug("level mined",
		zap.Int("k", 1),
		zap.Int("frequent", len(prev)),
		zap.Int("transactions", total))

	for k := 2; len(prev) > 0; k++ {
		m.levels[k-1] = len(prev)
		for key, f := range prev {
			result[key] = f
		}

		candidates := generateCandidates(prev, k)
		next := level{}
		for _, c := range candidates {
			support := countSupport(c, sets)
			if support >= m.minSupport {
				next[c.Key()] = Frequent{Itemset: c, Support: support}
			}
		}

		m.logger.Debug("level mined",
			zap.Int("k", k),
			zap.Int("candidates", len(candidates)),
			zap.Int("frequent", len(next)))

		prev = next
	}

	return result
}

// firstLevel counts singletons and keeps those meeting the threshold.
func (m *Miner) firstLevel(sets []map[string]struct{}) level {
	counts := make(map[string]int)
	for _, set := range sets {
		for item := range set {
			counts[item]++
		}
	}

	total := float64(len(sets))
	l1 := level{}
	for item, count := range counts {
		support := float64(count) / total
		if support >= m.minSupport {
			s := fromSorted([]string{item})
			l1[s.Key()] = Frequent{Itemset: s, Support: support}
		}
	}
	return l1
}

// generateCandidates joins (k-1)-itemsets that share their first k-2 items
// and keeps a candidate only if every (k-1)-subset is in prev. The subset
// check looks at prev alone, not at earlier levels.
func generateCandidates(prev level, k int) []Itemset {
	sorted := make([]Itemset, 0, len(prev))
	for _, f := range prev {
		sorted = append(sorted, f.Itemset)
	}
	sort.Slice(sorted, func(i, j int) bool { return lessItems(sorted[i], sorted[j]) })

	var candidates []Itemset
	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			a, b := sorted[i], sorted[j]
			// Sorted order keeps equal prefixes adjacent.
			if !sharesPrefix(a, b, k-2) {
				break
			}

			items := make([]string, 0, k)
			items = append(items, a.items...)
			items = append(items, b.items[k-2])
			c := fromSorted(items)

			if allSubsetsFrequent(c, prev) {
				candidates = append(candidates, c)
			}
		}
	}
	return candidates
}

func allSubsetsFrequent(c Itemset, prev level) bool {
	for i := range c.items {
		if _, ok := prev[c.without(i).Key()]; !ok {
			return false
		}
	}
	return true
}

func countSupport(c Itemset, sets []map[string]struct{}) float64 {
	count := 0
	for _, set := range sets {
		if containsAll(set, c.items) {
			count++
		}
	}
	return float64(count) / float64(len(sets))
}

func containsAll(set map[string]struct{}, items []string) bool {
	for _, it := range items {
		if _, ok := set[it]; !ok {
			return false
		}
	}
	return true
}

// Support returns the fraction of transactions that contain every item of
// s. It returns 0 for an empty collection.
func Support(s Itemset, transactions []basket.Transaction) float64 {
	if len(transactions) == 0 {
		return 0
	}
	count := 0
	for _, tx := range transactions {
		if s.SubsetOf(tx) {
			count++
		}
	}
	return float64(count) / float64(len(transactions))
}
