package app

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/blackwell-systems/basketprune/internal/output"
	"github.com/blackwell-systems/basketprune/internal/snapshots"
)

var (
	undoFlagList bool
	undoFlagYes  bool

	// undoInput is read for the confirmation prompt.
	undoInput io.Reader = os.Stdin
)

var undoCmd = &cobra.Command{
	Use:   "undo [snapshot-id | latest]",
	Short: "Restore transactions from a snapshot",
	Long: `Restore the transaction collection from a snapshot.

Snapshots are created automatically before 'basketprune clear' and
'basketprune import --replace'. Restoring replaces the current transactions
with the snapshot's content. Saved analysis runs are not touched.

Arguments:
  snapshot-id  The ID shown by 'basketprune undo --list'
  latest       Restore the most recent snapshot`,
	Example: `  basketprune undo --list      # List all snapshots
  basketprune undo latest      # Restore latest snapshot
  basketprune undo latest --yes`,
	Args: cobra.MaximumNArgs(1),
	RunE: runUndo,
}

func init() {
	undoCmd.Flags().BoolVar(&undoFlagList, "list", false, "List available snapshots")
	undoCmd.Flags().BoolVar(&undoFlagYes, "yes", false, "Skip confirmation prompt")

	RootCmd.AddCommand(undoCmd)
}

func runUndo(cmd *cobra.Command, args []string) error {
	dir, err := getSnapshotDir()
	if err != nil {
		return err
	}
	mgr := snapshots.New(dir)

	if undoFlagList {
		snaps, err := mgr.List()
		if err != nil {
			return err
		}
		fmt.Print(output.RenderSnapshots(snaps))
		return nil
	}

	if len(args) == 0 {
		return fmt.Errorf("snapshot ID or 'latest' required\n\nUsage: basketprune undo [snapshot-id | latest]\n\nUse 'basketprune undo --list' to see available snapshots")
	}

	id := args[0]
	if strings.ToLower(id) == "latest" {
		latest, err := mgr.Latest()
		if errors.Is(err, snapshots.ErrNotFound) {
			return fmt.Errorf("no snapshots available\n\nSnapshots are created automatically by 'basketprune clear' and 'basketprune import --replace'")
		}
		if err != nil {
			return err
		}
		id = latest.ID
		fmt.Printf("Using latest snapshot: %s\n", id)
	}

	data, err := mgr.Load(id)
	if errors.Is(err, snapshots.ErrNotFound) {
		return fmt.Errorf("snapshot %s not found\n\nRun 'basketprune undo --list' to see available snapshots", id)
	}
	if err != nil {
		return err
	}

	fmt.Printf("\nSnapshot Details:\n")
	fmt.Printf("  ID:           %s\n", id)
	fmt.Printf("  Created:      %s\n", data.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Printf("  Reason:       %s\n", data.Reason)
	fmt.Printf("  Transactions: %s\n", output.FormatCount(int64(len(data.Transactions))))
	fmt.Println()

	if !undoFlagYes {
		if !confirm(undoInput, "Replace current transactions with this snapshot?") {
			fmt.Println("Restoration cancelled.")
			return nil
		}
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	restored, err := mgr.Restore(commandContext(cmd), st, id)
	if err != nil {
		return err
	}

	currentLogger().Info("restored snapshot", zap.String("id", id), zap.Int("transactions", restored))
	fmt.Printf("✓ Restored %s transactions from snapshot %s\n", output.FormatCount(int64(restored)), id)
	return nil
}
