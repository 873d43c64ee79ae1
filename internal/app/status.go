package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/basketprune/internal/config"
	"github.com/blackwell-systems/basketprune/internal/output"
	"github.com/blackwell-systems/basketprune/internal/store"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show database, configuration and last analysis",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	RootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	path, err := getDBPath()
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := commandContext(cmd)
	count, err := st.CountTransactions(ctx)
	if err != nil {
		return err
	}

	c := currentConfig()

	fmt.Printf("Database:      %s\n", path)
	fmt.Printf("Transactions:  %s\n", output.FormatCount(int64(count)))

	latest, err := st.LatestRun(ctx)
	switch {
	case errors.Is(err, store.ErrNotFound):
		fmt.Println("Last analysis: never (run 'basketprune analyze --save')")
	case err != nil:
		return err
	default:
		fmt.Printf("Last analysis: %s (run %s, %d wasteful of %d frequent)\n",
			output.FormatRelativeTime(latest.CreatedAt),
			latest.ID,
			latest.WastefulCount,
			latest.FrequentCount)
	}

	fmt.Println()
	fmt.Printf("Config file:   %s\n", describeConfigFile())
	fmt.Printf("Min support:   %.2f\n", c.MinSupport)
	fmt.Printf("Min length:    %d\n", c.MinLength)
	if len(c.Categories) == 0 {
		fmt.Println("Categories:    (none: every pattern is flagged)")
	} else {
		fmt.Printf("Categories:    %s\n", strings.Join(c.Categories, ", "))
	}

	if count == 0 {
		fmt.Println()
		fmt.Println("Tip: Run 'basketprune add \"item, item\"' or 'basketprune import <file.json>' to get started.")
	}
	return nil
}

// describeConfigFile names the config file in use and whether it exists.
func describeConfigFile() string {
	path := configPath
	if path == "" {
		dir, err := config.Dir()
		if err != nil {
			return "unavailable"
		}
		path = filepath.Join(dir, "config.yaml")
	}
	if _, err := os.Stat(path); err != nil {
		return path + " (not found, using defaults)"
	}
	return path
}
