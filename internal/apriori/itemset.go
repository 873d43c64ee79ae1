package apriori

import (
	"sort"
	"strconv"
	"strings"

	"github.com/blackwell-systems/basketprune/internal/basket"
)

// Itemset is an immutable, order-independent set of items. Equality and
// hashing go through Key, never through slice identity.
type Itemset struct {
	items []string
}

// NewItemset builds an itemset from items in any order. Duplicates collapse.
func NewItemset(items ...string) Itemset {
	sorted := make([]string, len(items))
	copy(sorted, items)
	sort.Strings(sorted)

	out := sorted[:0]
	for i, it := range sorted {
		if i > 0 && it == sorted[i-1] {
			continue
		}
		out = append(out, it)
	}
	return Itemset{items: out}
}

// fromSorted wraps an already sorted, duplicate-free slice without copying.
func fromSorted(items []string) Itemset {
	return Itemset{items: items}
}

// Key returns the canonical key of the itemset. Each item is prefixed with
// its byte length, so items may hold any text and distinct itemsets never
// share a key.
func (s Itemset) Key() string {
	var sb strings.Builder
	for _, it := range s.items {
		sb.WriteString(strconv.Itoa(len(it)))
		sb.WriteByte(':')
		sb.WriteString(it)
	}
	return sb.String()
}

// Items returns the items in ascending order. The slice is a copy.
func (s Itemset) Items() []string {
	out := make([]string, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of items.
func (s Itemset) Len() int {
	return len(s.items)
}

// Contains reports whether item is a member of the itemset.
func (s Itemset) Contains(item string) bool {
	i := sort.SearchStrings(s.items, item)
	return i < len(s.items) && s.items[i] == item
}

// Equal reports whether both itemsets hold the same items.
func (s Itemset) Equal(other Itemset) bool {
	if len(s.items) != len(other.items) {
		return false
	}
	for i := range s.items {
		if s.items[i] != other.items[i] {
			return false
		}
	}
	return true
}

// SubsetOf reports whether every item of s appears in tx.
func (s Itemset) SubsetOf(tx basket.Transaction) bool {
	if len(s.items) > len(tx) {
		return false
	}
	for _, it := range s.items {
		if !tx.Contains(it) {
			return false
		}
	}
	return true
}

// String renders the items joined with ", ".
func (s Itemset) String() string {
	return strings.Join(s.items, ", ")
}

// without returns the (k-1)-subset that omits the item at index i.
func (s Itemset) without(i int) Itemset {
	out := make([]string, 0, len(s.items)-1)
	out = append(out, s.items[:i]...)
	out = append(out, s.items[i+1:]...)
	return fromSorted(out)
}

// lessItems orders itemsets lexicographically by their sorted items.
func lessItems(a, b Itemset) bool {
	for i := 0; i < len(a.items) && i < len(b.items); i++ {
		if a.items[i] != b.items[i] {
			return a.items[i] < b.items[i]
		}
	}
	return len(a.items) < len(b.items)
}

// sharesPrefix reports whether a and b agree on their first n items.
func sharesPrefix(a, b Itemset, n int) bool {
	for i := 0; i < n; i++ {
		if a.items[i] != b.items[i] {
			return false
		}
	}
	return true
}
