package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/basketprune/internal/analyzer"
	"github.com/blackwell-systems/basketprune/internal/ledger"
	"github.com/blackwell-systems/basketprune/internal/output"
	"github.com/blackwell-systems/basketprune/internal/store"
)

var (
	analyzeFlags    analysisFlags
	analyzeFlagJSON bool
	analyzeFlagSave bool
	analyzeFlagAll  bool
	analyzeFlagFile string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Find frequent and wasteful buying patterns",
	Long: `Mine the recorded transactions for itemsets bought together at least as
often as the minimum support, then flag the patterns that involve a
wasteful category.

Support is the share of all transactions that contain every item of the
itemset, empty baskets included. A pattern is wasteful when it has at least
--min-length items and one of them contains a category name
(case-insensitive substring match). An empty category list flags every
pattern.

Defaults for --min-support, --min-length and --categories come from the
config file and BASKETPRUNE_* environment variables.`,
	Example: `  # Analyze with the configured defaults
  basketprune analyze

  # Stricter threshold, only snacks count as wasteful
  basketprune analyze --min-support 0.5 --categories snack

  # Analyze a data file without importing it, and keep the result
  basketprune analyze --file transactions.json --save

  # Machine-readable output
  basketprune analyze --json`,
	Args: cobra.NoArgs,
	RunE: runAnalyze,
}

func init() {
	analyzeFlags.register(analyzeCmd)
	analyzeCmd.Flags().BoolVar(&analyzeFlagJSON, "json", false, "Print the report as JSON")
	analyzeCmd.Flags().BoolVar(&analyzeFlagSave, "save", false, "Save the run to the analysis history")
	analyzeCmd.Flags().BoolVar(&analyzeFlagAll, "all", false, "Also list every frequent itemset")
	analyzeCmd.Flags().StringVar(&analyzeFlagFile, "file", "", "Analyze a JSON data file instead of the database")

	RootCmd.AddCommand(analyzeCmd)
}

// staticSource serves transactions that are already in memory.
type staticSource [][]string

func (s staticSource) ListTransactions(ctx context.Context) ([][]string, error) {
	return s, nil
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	params, err := analyzeFlags.params(cmd)
	if err != nil {
		return err
	}
	ctx := commandContext(cmd)

	var source analyzer.TransactionSource
	if analyzeFlagFile != "" {
		data, err := os.ReadFile(analyzeFlagFile)
		if err != nil {
			return fmt.Errorf("failed to read data file: %w", err)
		}
		source = staticSource(ledger.Decode(data))
	}

	var st *store.Store
	if source == nil || analyzeFlagSave {
		st, err = openStore()
		if err != nil {
			return err
		}
		defer st.Close()
	}
	if source == nil {
		source = st
	}

	report, err := analyzeWithProgress(ctx, source, params)
	if err != nil {
		return err
	}

	if analyzeFlagSave {
		if err := st.SaveRun(ctx, runFromReport(report)); err != nil {
			return err
		}
	}
	return showReport(report)
}

// analyzeWithProgress runs the analysis, showing a spinner unless JSON
// output was requested.
func analyzeWithProgress(ctx context.Context, source analyzer.TransactionSource, params analyzer.Params) (*analyzer.Report, error) {
	var spinner *output.Spinner
	if !analyzeFlagJSON {
		spinner = output.NewSpinner("Mining frequent itemsets")
		spinner.Start()
	}

	report, err := newAnalyzer(source).Run(ctx, params)

	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		return nil, fmt.Errorf("analysis failed: %w", err)
	}
	return report, nil
}

func showReport(report *analyzer.Report) error {
	if analyzeFlagJSON {
		return writeReportJSON(os.Stdout, report)
	}
	printReport(report, analyzeFlagAll)
	if analyzeFlagSave {
		fmt.Printf("\n✓ Saved run %s\n", report.ID)
	}
	return nil
}

// printReport writes the human-readable report to stdout.
func printReport(report *analyzer.Report, showAll bool) {
	if report.Transactions == 0 {
		fmt.Println("No transactions recorded. Run 'basketprune add' or 'basketprune import' first.")
		return
	}

	fmt.Printf("Analyzed %s transactions (%s distinct items) at min support %.2f\n",
		output.FormatCount(int64(report.Transactions)),
		output.FormatCount(int64(len(report.Items))),
		report.Params.MinSupport)

	if report.Empty() {
		fmt.Printf("No itemset reached min support %.2f. Try a lower --min-support.\n", report.Params.MinSupport)
		return
	}
	fmt.Println(output.RenderLevelSummary(report.Levels))
	fmt.Println()

	if showAll {
		fmt.Println("Frequent itemsets:")
		fmt.Print(output.RenderFrequentTable(report.Frequent))
		fmt.Println()
	}

	if report.Wasteful.Len() > 0 {
		fmt.Println("Wasteful patterns:")
		fmt.Print(output.RenderPatternTable(report.WastefulPatterns()))
		fmt.Println()
	}

	printRecommendations(report.Recommendations)
}

// printRecommendations prints recommendation lines, titling the general
// advice that follows the blank separator.
func printRecommendations(lines []string) {
	for _, line := range lines {
		fmt.Println(line)
		if line == "" {
			fmt.Println(analyzer.AdviceHeader)
		}
	}
}

type reportJSON struct {
	ID              string        `json:"id"`
	CreatedAt       time.Time     `json:"created_at"`
	MinSupport      float64       `json:"min_support"`
	MinLength       int           `json:"min_length"`
	Categories      []string      `json:"categories"`
	Transactions    int           `json:"transactions"`
	Items           []string      `json:"items"`
	Levels          map[int]int   `json:"levels"`
	Frequent        []patternJSON `json:"frequent"`
	Wasteful        []patternJSON `json:"wasteful"`
	Recommendations []string      `json:"recommendations"`
}

type patternJSON struct {
	Items    []string `json:"items"`
	Support  float64  `json:"support"`
	Wasteful bool     `json:"wasteful"`
	Severity string   `json:"severity,omitempty"`
}

func toPatternJSON(patterns []analyzer.Pattern) []patternJSON {
	out := make([]patternJSON, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, patternJSON{
			Items:    p.Items,
			Support:  p.Support,
			Wasteful: p.Wasteful,
			Severity: p.Severity,
		})
	}
	return out
}

// writeReportJSON encodes report for scripts.
func writeReportJSON(w io.Writer, report *analyzer.Report) error {
	if report == nil {
		return errors.New("no report to encode")
	}

	categories := report.Params.Categories
	if categories == nil {
		categories = []string{}
	}
	levels := report.Levels
	if levels == nil {
		levels = map[int]int{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(reportJSON{
		ID:              report.ID,
		CreatedAt:       report.CreatedAt.UTC(),
		MinSupport:      report.Params.MinSupport,
		MinLength:       report.Params.MinLength,
		Categories:      categories,
		Transactions:    report.Transactions,
		Items:           report.Items,
		Levels:          levels,
		Frequent:        toPatternJSON(report.FrequentPatterns()),
		Wasteful:        toPatternJSON(report.WastefulPatterns()),
		Recommendations: report.Recommendations,
	})
}
