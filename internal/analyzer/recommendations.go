package analyzer

import (
	"fmt"

	"github.com/blackwell-systems/basketprune/internal/apriori"
)

// Fixed recommendation text.
const (
	NoWastefulPatternsMessage = "No significant wasteful spending pattern detected. Keep up your current shopping habits!"
	wastefulHeader            = "The following spending patterns were detected as wasteful:"

	// AdviceHeader introduces GeneralAdvice when it is shown to a person.
	AdviceHeader = "Suggestions to reduce wasteful spending:"
)

// GeneralAdvice is appended after the detected patterns.
var GeneralAdvice = []string{
	"1. Write a shopping list before going to the store and stick to it.",
	"2. Avoid impulse purchases, especially of items that keep showing up in wasteful patterns.",
	"3. Consider healthier or cheaper alternatives for items that are often bought together.",
	"4. Limit how often you buy items from the wasteful categories.",
}

// Recommend turns wasteful patterns into guidance lines.
//
// With no patterns it returns a single "nothing detected" message.
// Otherwise it returns a header, one line per pattern (highest support
// first), a blank separator and the general advice.
func Recommend(patterns apriori.Table) []string {
	if patterns.Len() == 0 {
		return []string{NoWastefulPatternsMessage}
	}

	lines := make([]string, 0, patterns.Len()+2+len(GeneralAdvice))
	lines = append(lines, wastefulHeader)
	for _, f := range patterns.Sorted() {
		lines = append(lines, fmt.Sprintf("- Buying '%s' happens often (support: %.2f).", f.Itemset, f.Support))
	}
	lines = append(lines, "")
	lines = append(lines, GeneralAdvice...)

	return lines
}
