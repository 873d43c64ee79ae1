package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/blackwell-systems/basketprune/internal/analyzer"
	"github.com/blackwell-systems/basketprune/internal/config"
	"github.com/blackwell-systems/basketprune/internal/snapshots"
	"github.com/blackwell-systems/basketprune/internal/store"
)

// snapshotRetention is how long automatic snapshots are kept.
const snapshotRetention = 90 * 24 * time.Hour

// getSnapshotDir returns the directory for snapshot storage, next to the
// database file.
func getSnapshotDir() (string, error) {
	path, err := getDBPath()
	if err != nil {
		return "", fmt.Errorf("failed to get database path: %w", err)
	}
	return filepath.Join(filepath.Dir(path), "snapshots"), nil
}

// snapshotTransactions backs up the current transactions before a
// destructive change. Old snapshots are pruned on the way.
func snapshotTransactions(ctx context.Context, st *store.Store, reason string) (*snapshots.Snapshot, error) {
	dir, err := getSnapshotDir()
	if err != nil {
		return nil, err
	}
	records, err := st.ListTransactions(ctx)
	if err != nil {
		return nil, err
	}

	mgr := snapshots.New(dir)
	snap, err := mgr.Create(records, reason)
	if err != nil {
		return nil, fmt.Errorf("failed to create snapshot: %w", err)
	}

	if n, err := mgr.Cleanup(snapshotRetention); err != nil {
		currentLogger().Warn("snapshot cleanup failed", zap.String("dir", dir), zap.Error(err))
	} else if n > 0 {
		currentLogger().Debug("removed old snapshots", zap.Int("count", n))
	}
	return snap, nil
}

// commandContext returns the command's context, or a background context
// when the command was not started through Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if cmd != nil && cmd.Context() != nil {
		return cmd.Context()
	}
	return context.Background()
}

// openStore opens the database and makes sure the schema exists.
func openStore() (*store.Store, error) {
	path, err := getDBPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get database path: %w", err)
	}

	st, err := store.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := st.CreateSchema(); err != nil {
		st.Close()
		return nil, fmt.Errorf("failed to create database schema: %w", err)
	}
	return st, nil
}

// loadAliases reads the user's alias file from the config directory. A
// missing file yields no aliases.
func loadAliases() *config.AliasConfig {
	dir, err := config.Dir()
	if err != nil {
		return nil
	}
	aliases, err := config.LoadAliases(dir)
	if err != nil {
		currentLogger().Warn("ignoring unreadable aliases file", zap.String("dir", dir), zap.Error(err))
		return nil
	}
	return aliases
}

// aliasedSource rewrites aliased items before they reach the analyzer.
type aliasedSource struct {
	src     analyzer.TransactionSource
	aliases *config.AliasConfig
}

func (a aliasedSource) ListTransactions(ctx context.Context) ([][]string, error) {
	raw, err := a.src.ListTransactions(ctx)
	if err != nil {
		return nil, err
	}
	return a.aliases.Apply(raw), nil
}

// newAnalyzer builds an analyzer over src with aliases applied.
func newAnalyzer(src analyzer.TransactionSource) *analyzer.Analyzer {
	return analyzer.New(
		aliasedSource{src: src, aliases: loadAliases()},
		analyzer.WithLogger(currentLogger().Named("analyzer")),
	)
}

// analysisFlags holds the per-command analysis knobs. Values left unset on
// the command line come from the config.
type analysisFlags struct {
	minSupport float64
	minLength  int
	categories string
}

func (f *analysisFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.minSupport, "min-support", 0.1, "Minimum support threshold, 0.0 to 1.0 (default from config)")
	cmd.Flags().IntVar(&f.minLength, "min-length", analyzer.DefaultMinLength, "Smallest itemset size reported as a pattern")
	cmd.Flags().StringVar(&f.categories, "categories", "", "Comma-separated wasteful categories (default from config)")
}

// params merges the command line over the config and validates the result.
func (f *analysisFlags) params(cmd *cobra.Command) (analyzer.Params, error) {
	c := currentConfig()
	p := analyzer.Params{
		MinSupport: c.MinSupport,
		MinLength:  c.MinLength,
		Categories: c.Categories,
	}

	if cmd.Flags().Changed("min-support") {
		p.MinSupport = f.minSupport
	}
	if cmd.Flags().Changed("min-length") {
		p.MinLength = f.minLength
	}
	if cmd.Flags().Changed("categories") {
		p.Categories = splitList(f.categories)
	}

	if p.MinLength < 1 {
		return p, fmt.Errorf("invalid min-length: %d (must be at least 1)", p.MinLength)
	}
	return p, nil
}

// splitList splits a comma-separated list, trimming entries and dropping
// blanks.
func splitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// runFromReport converts a report into a storable run.
func runFromReport(r *analyzer.Report) *store.Run {
	run := &store.Run{
		ID:               r.ID,
		CreatedAt:        r.CreatedAt,
		MinSupport:       r.Params.MinSupport,
		MinLength:        r.Params.MinLength,
		Categories:       r.Params.Categories,
		TransactionCount: r.Transactions,
		FrequentCount:    r.Frequent.Len(),
		WastefulCount:    r.Wasteful.Len(),
	}
	for _, p := range r.FrequentPatterns() {
		run.Patterns = append(run.Patterns, store.RunPattern{
			Items:    p.Items,
			Support:  p.Support,
			Wasteful: p.Wasteful,
		})
	}
	return run
}

// confirm asks a yes/no question on in. Anything but "y" or "yes" is no.
func confirm(in io.Reader, prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	reader := bufio.NewReader(in)
	response, err := reader.ReadString('\n')
	if err != nil && response == "" {
		fmt.Println()
		return false
	}
	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes"
}
