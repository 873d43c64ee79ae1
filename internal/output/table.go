// Package output provides terminal output utilities for basketprune.
//
// This package includes:
//   - Table rendering for frequent itemsets, wasteful patterns, stored
//     transactions and past analysis runs
//   - A spinner for operations without a known length
//   - Human-readable formatting for counts and timestamps
//
// Tables use plain column padding. Severity colours are emitted only when
// stdout is a terminal and NO_COLOR is unset.
package output

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/blackwell-systems/basketprune/internal/analyzer"
	"github.com/blackwell-systems/basketprune/internal/apriori"
	"github.com/blackwell-systems/basketprune/internal/snapshots"
	"github.com/blackwell-systems/basketprune/internal/store"
)

// ANSI color codes for severity display
const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorRed    = "\033[31m"
	colorGray   = "\033[90m"
)

// IsColorEnabled returns true if ANSI color codes should be emitted.
// It checks that os.Stdout is a TTY and that the NO_COLOR env var is not set.
func IsColorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd())
}

// colorize wraps text in the given ANSI color code if color is enabled,
// otherwise returns the plain text.
func colorize(color, text string) string {
	if IsColorEnabled() {
		return color + text + colorReset
	}
	return text
}

// RenderFrequentTable renders every itemset of t, highest support first.
func RenderFrequentTable(t apriori.Table) string {
	if t.Len() == 0 {
		return "No frequent itemsets found.\n"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-44s %-5s %-8s %s\n", "Itemset", "Size", "Support", "Share"))
	sb.WriteString(strings.Repeat("─", 68))
	sb.WriteString("\n")

	for _, f := range t.Sorted() {
		sb.WriteString(fmt.Sprintf("%-44s %-5d %-8.2f %s\n",
			truncate(f.Itemset.String(), 44),
			f.Itemset.Len(),
			f.Support,
			formatPercent(f.Support)))
	}

	return sb.String()
}

// RenderPatternTable renders analyzed patterns in the order given. Wasteful
// patterns carry a severity label.
func RenderPatternTable(patterns []analyzer.Pattern) string {
	if len(patterns) == 0 {
		return "No patterns to display.\n"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-44s %-8s %-7s %s\n", "Pattern", "Support", "Share", "Status"))
	sb.WriteString(strings.Repeat("─", 72))
	sb.WriteString("\n")

	for _, p := range patterns {
		label := formatSeverityLabel(p)
		sb.WriteString(fmt.Sprintf("%-44s %-8.2f %-7s %s\n",
			truncate(strings.Join(p.Items, ", "), 44),
			p.Support,
			formatPercent(p.Support),
			colorize(getSeverityColor(p), label)))
	}

	return sb.String()
}

// RenderLevelSummary renders how many itemsets each mining level produced.
// Format: "1-itemsets: 3 · 2-itemsets: 1"
func RenderLevelSummary(levels map[int]int) string {
	if len(levels) == 0 {
		return "No levels mined."
	}
	sizes := make([]int, 0, len(levels))
	for k := range levels {
		sizes = append(sizes, k)
	}
	sort.Ints(sizes)

	parts := make([]string, 0, len(sizes))
	for _, k := range sizes {
		parts = append(parts, fmt.Sprintf("%d-itemsets: %s", k, FormatCount(int64(levels[k]))))
	}
	return strings.Join(parts, " · ")
}

// RenderTransactions renders stored transactions in id order.
func RenderTransactions(txs []*store.Transaction) string {
	if len(txs) == 0 {
		return "No transactions recorded.\n"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-6s %-16s %s\n", "ID", "Added", "Items"))
	sb.WriteString(strings.Repeat("─", 72))
	sb.WriteString("\n")

	for _, tx := range txs {
		items := strings.Join(tx.Items, ", ")
		if items == "" {
			items = colorize(colorGray, "(empty)")
		}
		sb.WriteString(fmt.Sprintf("%-6d %-16s %s\n",
			tx.ID,
			FormatRelativeTime(tx.CreatedAt),
			truncate(items, 48)))
	}

	return sb.String()
}

// RenderRuns renders saved analysis runs, newest first as returned by the
// store.
func RenderRuns(runs []*store.Run) string {
	if len(runs) == 0 {
		return "No analysis runs saved.\n"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-10s %-16s %-8s %-8s %-9s %s\n",
		"Run", "When", "Support", "Baskets", "Frequent", "Wasteful"))
	sb.WriteString(strings.Repeat("─", 68))
	sb.WriteString("\n")

	for _, r := range runs {
		sb.WriteString(fmt.Sprintf("%-10s %-16s %-8.2f %-8s %-9s %s\n",
			shortID(r.ID),
			FormatRelativeTime(r.CreatedAt),
			r.MinSupport,
			FormatCount(int64(r.TransactionCount)),
			FormatCount(int64(r.FrequentCount)),
			FormatCount(int64(r.WastefulCount))))
	}

	return sb.String()
}

// RenderSnapshots renders transaction snapshots, newest first.
func RenderSnapshots(snaps []*snapshots.Snapshot) string {
	if len(snaps) == 0 {
		return "No snapshots available.\n"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-30s %-16s %-8s %s\n", "Snapshot", "When", "Baskets", "Reason"))
	sb.WriteString(strings.Repeat("─", 72))
	sb.WriteString("\n")

	for _, s := range snaps {
		sb.WriteString(fmt.Sprintf("%-30s %-16s %-8s %s\n",
			truncate(s.ID, 30),
			FormatRelativeTime(s.CreatedAt),
			FormatCount(int64(s.Transactions)),
			s.Reason))
	}

	return sb.String()
}

// RenderRunDetail renders a single run with its saved patterns.
func RenderRunDetail(r *store.Run) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Run:          %s\n", r.ID))
	sb.WriteString(fmt.Sprintf("When:         %s (%s)\n", r.CreatedAt.Local().Format(time.RFC1123), FormatRelativeTime(r.CreatedAt)))
	sb.WriteString(fmt.Sprintf("Min support:  %.2f\n", r.MinSupport))
	sb.WriteString(fmt.Sprintf("Min length:   %d\n", r.MinLength))
	sb.WriteString(fmt.Sprintf("Categories:   %s\n", strings.Join(r.Categories, ", ")))
	sb.WriteString(fmt.Sprintf("Baskets:      %s\n", FormatCount(int64(r.TransactionCount))))
	sb.WriteString("\n")

	patterns := make([]analyzer.Pattern, 0, len(r.Patterns))
	for _, p := range r.Patterns {
		ap := analyzer.Pattern{Items: p.Items, Support: p.Support, Wasteful: p.Wasteful}
		if p.Wasteful {
			ap.Severity = analyzer.ClassifySeverity(p.Support)
		}
		patterns = append(patterns, ap)
	}
	sb.WriteString(RenderPatternTable(patterns))
	return sb.String()
}

// FormatCount formats n with thousands separators.
func FormatCount(n int64) string {
	return humanize.Comma(n)
}

// formatPercent renders a support fraction as a whole percentage.
func formatPercent(support float64) string {
	return fmt.Sprintf("%.0f%%", support*100)
}

// FormatRelativeTime converts a timestamp to relative time (e.g., "2 days ago").
func FormatRelativeTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	if time.Since(t) < time.Minute {
		return "just now"
	}
	return humanize.Time(t)
}

// formatSeverityLabel returns the status column text for a pattern.
func formatSeverityLabel(p analyzer.Pattern) string {
	if !p.Wasteful {
		return "ok"
	}
	switch p.Severity {
	case analyzer.SeverityHigh:
		return "⚠ wasteful (high)"
	case analyzer.SeverityMedium:
		return "~ wasteful (medium)"
	default:
		return "· wasteful (low)"
	}
}

// getSeverityColor returns the ANSI color code for a pattern's severity.
func getSeverityColor(p analyzer.Pattern) string {
	if !p.Wasteful {
		return colorGreen
	}
	switch p.Severity {
	case analyzer.SeverityHigh:
		return colorRed
	case analyzer.SeverityMedium:
		return colorYellow
	default:
		return colorGray
	}
}

func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

// truncate truncates a string to maxLen, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
