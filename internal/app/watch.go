package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/blackwell-systems/basketprune/internal/analyzer"
	"github.com/blackwell-systems/basketprune/internal/ledger"
	"github.com/blackwell-systems/basketprune/internal/store"
	"github.com/blackwell-systems/basketprune/internal/watcher"
)

var (
	watchFlags        analysisFlags
	watchFlagSave     bool
	watchFlagDebounce time.Duration

	watchCmd = &cobra.Command{
		Use:   "watch <file.json>",
		Short: "Re-analyze whenever a JSON data file changes",
		Long: `Keep a JSON data file and the database in sync, and re-run the analysis
every time the file changes.

On start and after each change the file's baskets replace the recorded
transactions, then the analysis runs with the given parameters. Bursts of
writes are coalesced: the analysis runs once the file has been quiet for
the debounce period.

The file is created with an empty list if it does not exist. Press Ctrl+C
to stop.`,
		Example: `  # Watch a file with the configured defaults
  basketprune watch transactions.json

  # Keep every re-analysis in the history
  basketprune watch transactions.json --save --min-support 0.3`,
		Args: cobra.ExactArgs(1),
		RunE: runWatch,
	}
)

func init() {
	watchFlags.register(watchCmd)
	watchCmd.Flags().BoolVar(&watchFlagSave, "save", false, "Save every re-analysis to the history")
	watchCmd.Flags().DurationVar(&watchFlagDebounce, "debounce", watcher.DefaultDebounce, "Quiet period before re-analyzing (default from config)")

	RootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	params, err := watchFlags.params(cmd)
	if err != nil {
		return err
	}

	debounce := currentConfig().Watch.Debounce
	if cmd.Flags().Changed("debounce") {
		debounce = watchFlagDebounce
	}

	file, err := ledger.Open(args[0])
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	handler := newWatchHandler(st, file, params, watchFlagSave)
	if err := handler(ctx); err != nil {
		return err
	}

	w, err := watcher.New(file.Path(), handler,
		watcher.WithDebounce(debounce),
		watcher.WithLogger(currentLogger().Named("watcher")))
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := w.Start(ctx); err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	fmt.Printf("\nWatching %s (Ctrl+C to stop)\n", w.Path())
	<-ctx.Done()

	if err := w.Stop(); err != nil {
		return fmt.Errorf("failed to stop watcher: %w", err)
	}
	fmt.Printf("\nStopped after %d re-analyses\n", w.Runs())
	return nil
}

// newWatchHandler returns the work done on every change: load the file,
// replace the stored transactions with it, analyze, print, and optionally
// save the run.
func newWatchHandler(st *store.Store, file *ledger.File, params analyzer.Params, save bool) watcher.Handler {
	log := currentLogger().Named("watch")

	return func(ctx context.Context) error {
		records, err := file.Load()
		if err != nil {
			return err
		}
		if err := st.ReplaceTransactions(ctx, records); err != nil {
			return err
		}

		report, err := newAnalyzer(st).Run(ctx, params)
		if err != nil {
			return fmt.Errorf("analysis failed: %w", err)
		}

		fmt.Printf("── %s · %s ──\n", time.Now().Format("15:04:05"), file.Path())
		printReport(report, false)

		if save {
			if err := st.SaveRun(ctx, runFromReport(report)); err != nil {
				return err
			}
			log.Debug("run saved", zap.String("run_id", report.ID))
		}
		return nil
	}
}
