package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/blackwell-systems/basketprune/internal/config"
	"github.com/blackwell-systems/basketprune/internal/logging"
)

var (
	dbPath     string
	configPath string
	logLevel   string

	// Loaded once per invocation by RootCmd's PersistentPreRunE.
	cfg    *config.Config
	logger *zap.Logger

	// RootCmd is the root command for basketprune
	RootCmd = &cobra.Command{
		Use:   "basketprune",
		Short: "Find wasteful spending habits in your shopping baskets",
		Long: `basketprune records shopping transactions and mines them for items that
are frequently bought together (Apriori frequent itemsets). Patterns that
involve a wasteful category, such as cigarettes, snacks or soft drinks, are
reported with suggestions for cutting back.

Quick Start:
  1. basketprune add "rokok, kopi, snack"
  2. basketprune import transactions.json
  3. basketprune analyze --min-support 0.3

Features:
  • Frequent itemset mining with a configurable minimum support
  • Wasteful pattern detection by category
  • Saved analysis history
  • JSON data file import, export and live re-analysis

Examples:
  # Record a basket
  basketprune add "Rokok, Kopi"

  # Analyze with a stricter threshold
  basketprune analyze --min-support 0.5

  # Only flag patterns involving snacks
  basketprune analyze --categories snack

  # Re-run the analysis whenever the data file changes
  basketprune watch transactions.json`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setup,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("basketprune: shopping basket analysis")
			fmt.Println()
			fmt.Println("Tip: Run 'basketprune add \"item, item\"' to record a basket.")
			fmt.Println("     Run 'basketprune analyze' to find wasteful patterns.")
			fmt.Println("     Run 'basketprune --help' for all commands.")
			return nil
		},
	}
)

func init() {
	// Global flags
	RootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database path (default: ~/.basketprune/basketprune.db)")
	RootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: ~/.config/basketprune/config.yaml)")
	RootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")

	// Enable cobra's built-in suggestion feature for unknown subcommands
	RootCmd.SuggestionsMinimumDistance = 2
}

// Execute runs the root command
func Execute() error {
	defer func() {
		if logger != nil {
			_ = logger.Sync()
		}
	}()
	return RootCmd.ExecuteContext(context.Background())
}

// setup loads configuration and builds the logger before any subcommand runs.
func setup(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if logLevel != "" {
		loaded.Log.Level = logLevel
	}

	l, err := logging.New(logging.Config{
		Level:  loaded.Log.Level,
		Format: loaded.Log.Format,
	})
	if err != nil {
		return err
	}

	cfg = loaded
	logger = l
	return nil
}

// currentConfig returns the loaded config, or the defaults when setup has
// not run.
func currentConfig() *config.Config {
	if cfg == nil {
		return config.Default()
	}
	return cfg
}

// currentLogger returns the loaded logger, or a no-op logger when setup has
// not run.
func currentLogger() *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

// getDBPath returns the database path from the flag, then the config file,
// then the default under the home directory.
func getDBPath() (string, error) {
	if dbPath != "" {
		return dbPath, nil
	}
	if p := currentConfig().DBPath; p != "" {
		return p, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	// Create .basketprune directory if it doesn't exist
	dataDir := filepath.Join(home, ".basketprune")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create basketprune directory: %w", err)
	}

	return filepath.Join(dataDir, "basketprune.db"), nil
}
