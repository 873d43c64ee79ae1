package apriori

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/basketprune/internal/basket"
)

const eps = 1e-9

func mine(t *testing.T, minSupport float64, raw [][]string) Table {
	t.Helper()
	m, err := NewMiner(minSupport)
	require.NoError(t, err)
	return m.Mine(basket.Normalize(raw).Transactions)
}

func TestNewMiner_InvalidParameter(t *testing.T) {
	for _, v := range []float64{-0.01, 1.01, math.NaN(), math.Inf(1)} {
		m, err := NewMiner(v)
		assert.Nil(t, m, "min support %v", v)
		assert.True(t, errors.Is(err, ErrInvalidParameter), "min support %v: got %v", v, err)
	}

	for _, v := range []float64{0.0, 0.5, 1.0} {
		m, err := NewMiner(v)
		require.NoError(t, err)
		assert.Equal(t, v, m.MinSupport())
	}
}

func TestMine_EmptyInput(t *testing.T) {
	assert.Empty(t, mine(t, 0.5, nil))
	assert.Empty(t, mine(t, 0.0, [][]string{}))
}

func TestMine_EmptyTransactionsCount(t *testing.T) {
	// Empty records still count toward the total.
	got := mine(t, 0.0, [][]string{{"kopi"}, {}, {}, {}})
	f, ok := got.Get(NewItemset("kopi"))
	require.True(t, ok)
	assert.InDelta(t, 0.25, f.Support, eps)
}

func TestMine_NothingFrequent(t *testing.T) {
	got := mine(t, 0.9, [][]string{{"a"}, {"b"}, {"c"}})
	assert.Empty(t, got)
}

func TestMine_NormalizationExample(t *testing.T) {
	got := mine(t, 1.0, [][]string{{"Kopi ", "GULA"}, {"kopi", " gula "}})

	require.Equal(t, 3, got.Len())
	for _, s := range []Itemset{
		NewItemset("kopi"),
		NewItemset("gula"),
		NewItemset("kopi", "gula"),
	} {
		f, ok := got.Get(s)
		require.True(t, ok, "missing %s", s)
		assert.InDelta(t, 1.0, f.Support, eps)
	}
}

func TestMine_EndToEndScenario(t *testing.T) {
	got := mine(t, 0.5, [][]string{
		{"kopi", "gula", "rokok"},
		{"kopi", "gula"},
		{"rokok", "snack"},
	})

	want := map[string]float64{
		NewItemset("kopi").Key():         2.0 / 3.0,
		NewItemset("gula").Key():         2.0 / 3.0,
		NewItemset("rokok").Key():        2.0 / 3.0,
		NewItemset("kopi", "gula").Key(): 2.0 / 3.0,
	}
	require.Equal(t, len(want), got.Len())
	for key, support := range want {
		f, ok := got[key]
		require.True(t, ok, "missing %q", key)
		assert.InDelta(t, support, f.Support, eps)
	}
}

func TestMine_ThresholdOneKeepsOnlyUniversalItemsets(t *testing.T) {
	got := mine(t, 1.0, [][]string{
		{"a", "b", "c"},
		{"a", "b"},
		{"a", "b", "d"},
	})

	keys := make([]string, 0, got.Len())
	for _, f := range got.Sorted() {
		keys = append(keys, f.Itemset.String())
	}
	assert.Equal(t, []string{"a", "b", "a, b"}, keys)
}

func TestMine_ThresholdZeroAdmitsEveryObservedItemset(t *testing.T) {
	raw := [][]string{{"a", "b"}, {"b", "c"}, {"a"}}
	txs := basket.Normalize(raw).Transactions
	got := mine(t, 0.0, raw)

	// Every itemset that occurs in some transaction is present.
	for _, tx := range txs {
		for mask := 1; mask < 1<<len(tx); mask++ {
			s := subsetByMask(tx, mask)
			_, ok := got.Get(s)
			assert.True(t, ok, "observed itemset %s missing", s)
		}
	}
	// With a zero threshold the whole lattice over the vocabulary qualifies.
	assert.Equal(t, 7, got.Len())
}

func TestMine_Deterministic(t *testing.T) {
	raw := fixture()
	first := mine(t, 0.3, raw)
	second := mine(t, 0.3, raw)
	assert.Equal(t, first.Sorted(), second.Sorted())
}

func TestMine_SupportMonotonicity(t *testing.T) {
	got := mine(t, 0.0, fixture())
	for _, a := range got {
		for _, b := range got {
			if a.Itemset.Len() >= b.Itemset.Len() || !isSubset(a.Itemset, b.Itemset) {
				continue
			}
			assert.GreaterOrEqual(t, a.Support+eps, b.Support,
				"support(%s)=%v < support(%s)=%v", a.Itemset, a.Support, b.Itemset, b.Support)
		}
	}
}

func TestMine_NoItemsetWithInfrequentSubset(t *testing.T) {
	for _, threshold := range []float64{0.2, 0.34, 0.5} {
		got := mine(t, threshold, fixture())
		for _, f := range got {
			if f.Itemset.Len() < 2 {
				continue
			}
			for i := range f.Itemset.items {
				_, ok := got.Get(f.Itemset.without(i))
				assert.True(t, ok, "threshold %v: %s present but subset missing", threshold, f.Itemset)
			}
		}
	}
}

func TestMine_MatchesBruteForce(t *testing.T) {
	raw := fixture()
	n := basket.Normalize(raw)
	require.LessOrEqual(t, len(n.Items), 6)

	for _, threshold := range []float64{0.0, 0.1, 0.2, 0.25, 0.34, 0.5, 0.75, 1.0} {
		got := mine(t, threshold, raw)
		want := bruteForce(n.Items, n.Transactions, threshold)

		require.Equal(t, want.Len(), got.Len(), "threshold %v", threshold)
		for key, w := range want {
			g, ok := got[key]
			require.True(t, ok, "threshold %v: missing %s", threshold, w.Itemset)
			assert.InDelta(t, w.Support, g.Support, eps)
		}
	}
}

func TestItemset_KeyDistinguishesEmbeddedSeparators(t *testing.T) {
	sets := []Itemset{
		NewItemset("a\x1fb"),
		NewItemset("a", "b"),
		NewItemset("1:a"),
		NewItemset("a:1"),
		NewItemset("a", "1:b"),
		NewItemset(""),
		NewItemset("", "a"),
	}
	seen := make(map[string]Itemset)
	for _, s := range sets {
		if prev, ok := seen[s.Key()]; ok {
			t.Fatalf("%q and %q share key %q", prev.items, s.items, s.Key())
		}
		seen[s.Key()] = s
	}
}

func TestMine_ItemContainingSeparatorIsKept(t *testing.T) {
	raw := [][]string{{"a", "b", "a\x1fb"}, {"a", "b", "a\x1fb"}}
	n := basket.Normalize(raw)

	got := mine(t, 1.0, raw)
	want := bruteForce(n.Items, n.Transactions, 1.0)

	require.Equal(t, 7, want.Len())
	require.Equal(t, want.Len(), got.Len())
	_, ok := got.Get(NewItemset("a\x1fb"))
	assert.True(t, ok, "singleton with an embedded separator is missing")
	_, ok = got.Get(NewItemset("a", "b"))
	assert.True(t, ok, "pair {a, b} is missing")
}

func TestTable_SortedBreaksTiesByItems(t *testing.T) {
	table := Table{}
	for _, items := range [][]string{{"b", "c"}, {"ab", "c"}, {"a", "z"}} {
		table.Add(Frequent{Itemset: NewItemset(items...), Support: 0.5})
	}

	var got []string
	for _, f := range table.Sorted() {
		got = append(got, f.Itemset.String())
	}
	assert.Equal(t, []string{"a, z", "ab, c", "b, c"}, got)
}

func TestMine_Levels(t *testing.T) {
	m, err := NewMiner(0.5)
	require.NoError(t, err)
	m.Mine(basket.Normalize([][]string{
		{"kopi", "gula", "rokok"},
		{"kopi", "gula"},
		{"rokok", "snack"},
	}).Transactions)

	assert.Equal(t, map[int]int{1: 3, 2: 1}, m.Levels())
}

func TestGenerateCandidates_PrunesOnMissingSubset(t *testing.T) {
	prev := level{}
	for _, s := range []Itemset{NewItemset("a", "b"), NewItemset("a", "c")} {
		prev[s.Key()] = Frequent{Itemset: s, Support: 1}
	}
	// {a,b,c} joins from {a,b} and {a,c} but {b,c} is not frequent.
	assert.Empty(t, generateCandidates(prev, 3))

	bc := NewItemset("b", "c")
	prev[bc.Key()] = Frequent{Itemset: bc, Support: 1}
	got := generateCandidates(prev, 3)
	require.Len(t, got, 1)
	assert.True(t, got[0].Equal(NewItemset("a", "b", "c")))
}

func TestGenerateCandidates_JoinsOnSharedPrefixOnly(t *testing.T) {
	prev := level{}
	for _, s := range []Itemset{
		NewItemset("a", "b"),
		NewItemset("b", "c"),
		NewItemset("a", "c"),
		NewItemset("c", "d"),
	} {
		prev[s.Key()] = Frequent{Itemset: s, Support: 1}
	}

	got := generateCandidates(prev, 3)
	require.Len(t, got, 1)
	assert.Equal(t, []string{"a", "b", "c"}, got[0].Items())
}

func TestSupport(t *testing.T) {
	txs := basket.Normalize([][]string{{"a", "b"}, {"a"}, {"b"}, {"a", "b", "c"}}).Transactions
	assert.InDelta(t, 0.5, Support(NewItemset("a", "b"), txs), eps)
	assert.InDelta(t, 0.75, Support(NewItemset("a"), txs), eps)
	assert.Zero(t, Support(NewItemset("a"), nil))
}

func fixture() [][]string {
	return [][]string{
		{"kopi", "gula", "rokok"},
		{"kopi", "gula"},
		{"rokok", "snack"},
		{"kopi", "snack", "soda"},
		{"gula", "roti"},
		{"kopi", "gula", "roti", "rokok"},
		{"snack", "soda", "rokok"},
		{"kopi"},
	}
}

func bruteForce(items []string, txs []basket.Transaction, threshold float64) Table {
	out := Table{}
	for mask := 1; mask < 1<<len(items); mask++ {
		s := subsetByMask(items, mask)
		support := Support(s, txs)
		if support >= threshold {
			out.Add(Frequent{Itemset: s, Support: support})
		}
	}
	return out
}

func subsetByMask(items []string, mask int) Itemset {
	var picked []string
	for i, it := range items {
		if mask&(1<<i) != 0 {
			picked = append(picked, it)
		}
	}
	return NewItemset(picked...)
}

func isSubset(a, b Itemset) bool {
	for _, it := range a.items {
		if !b.Contains(it) {
			return false
		}
	}
	return true
}
