package app

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/basketprune/internal/output"
	"github.com/blackwell-systems/basketprune/internal/store"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history [run-id|latest]",
	Short: "Show saved analysis runs",
	Long: `Without an argument, list saved analysis runs, newest first. With a run
id, or "latest", show that run's parameters and patterns.

Runs are saved by 'basketprune analyze --save' and 'basketprune watch --save'.`,
	Example: `  # Last 10 runs
  basketprune history

  # Details of the most recent run
  basketprune history latest`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 10, "Maximum number of runs to list")

	RootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	if historyLimit <= 0 {
		return fmt.Errorf("invalid limit: %d (must be positive)", historyLimit)
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := commandContext(cmd)

	if len(args) == 0 {
		runs, err := st.ListRuns(ctx, historyLimit)
		if err != nil {
			return err
		}
		fmt.Print(output.RenderRuns(runs))
		return nil
	}

	var run *store.Run
	if args[0] == "latest" {
		run, err = st.LatestRun(ctx)
	} else {
		run, err = st.GetRun(ctx, args[0])
	}
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("run %q not found (run 'basketprune history' to list runs)", args[0])
	}
	if err != nil {
		return err
	}

	fmt.Print(output.RenderRunDetail(run))
	return nil
}
