package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/basketprune/internal/apriori"
	"github.com/blackwell-systems/basketprune/internal/basket"
)

func mineTable(t *testing.T, minSupport float64, raw [][]string) apriori.Table {
	t.Helper()
	m, err := apriori.NewMiner(minSupport)
	require.NoError(t, err)
	return m.Mine(basket.Normalize(raw).Transactions)
}

func TestIsWasteful(t *testing.T) {
	tests := []struct {
		name       string
		categories []string
		itemset    apriori.Itemset
		want       bool
	}{
		{"exact match", []string{"rokok"}, apriori.NewItemset("rokok", "kopi"), true},
		{"substring match", []string{"kopi"}, apriori.NewItemset("kopi instan"), true},
		{"category case-insensitive", []string{"ROKOK"}, apriori.NewItemset("rokok"), true},
		{"no match", []string{"rokok", "snack"}, apriori.NewItemset("kopi", "gula"), false},
		{"multi-word category", []string{"minuman bersoda"}, apriori.NewItemset("minuman bersoda dingin"), true},
		{"empty vocabulary flags everything", nil, apriori.NewItemset("gula"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDetector(apriori.Table{}, tt.categories)
			assert.Equal(t, tt.want, d.IsWasteful(tt.itemset))
		})
	}
}

func TestNewDetector_LowercasesCategories(t *testing.T) {
	d := NewDetector(apriori.Table{}, []string{"Rokok", "SNACK"})
	assert.Equal(t, []string{"rokok", "snack"}, d.Categories())
}

func TestDetect_EmptyVocabularyFlagsEveryItemset(t *testing.T) {
	frequent := mineTable(t, 0.2, [][]string{
		{"kopi", "gula"},
		{"kopi", "gula", "roti"},
		{"roti"},
	})
	d := NewDetector(frequent, []string{})

	for _, f := range frequent {
		assert.True(t, d.IsWasteful(f.Itemset), "%s not flagged", f.Itemset)
	}
	assert.Equal(t, frequent.Len(), d.Detect(1).Len())
}

func TestDetect_MinLength(t *testing.T) {
	frequent := mineTable(t, 0.5, [][]string{
		{"rokok", "snack", "kopi"},
		{"rokok", "snack"},
		{"rokok"},
	})
	d := NewDetector(frequent, []string{"rokok"})

	got := d.Detect(DefaultMinLength)
	require.Equal(t, 1, got.Len())
	f, ok := got.Get(apriori.NewItemset("rokok", "snack"))
	require.True(t, ok)
	assert.InDelta(t, 2.0/3.0, f.Support, 1e-9)

	// Singletons come through once the length floor drops.
	assert.Equal(t, 2, d.Detect(1).Len())
}

func TestDetect_EndToEndScenarioHasNoPatterns(t *testing.T) {
	frequent := mineTable(t, 0.5, [][]string{
		{"kopi", "gula", "rokok"},
		{"kopi", "gula"},
		{"rokok", "snack"},
	})
	d := NewDetector(frequent, []string{"rokok", "snack"})

	got := d.Detect(DefaultMinLength)
	assert.Empty(t, got)
	assert.Equal(t, []string{NoWastefulPatternsMessage}, Recommend(got))
}

func TestClassifySeverity(t *testing.T) {
	assert.Equal(t, SeverityHigh, ClassifySeverity(0.5))
	assert.Equal(t, SeverityMedium, ClassifySeverity(0.25))
	assert.Equal(t, SeverityLow, ClassifySeverity(0.1))
}
