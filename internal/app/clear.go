package app

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/basketprune/internal/output"
)

var (
	clearFlagYes        bool
	clearFlagNoSnapshot bool

	// clearInput is read for the confirmation prompt.
	clearInput io.Reader = os.Stdin
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all recorded transactions",
	Long: `Delete every recorded transaction. Saved analysis runs are kept.

You are asked to confirm unless --yes is given. A snapshot of the
transactions is taken first so 'basketprune undo' can bring them back.`,
	Example: `  # Clear without prompting
  basketprune clear --yes

  # Changed your mind
  basketprune undo latest`,
	Args: cobra.NoArgs,
	RunE: runClear,
}

func init() {
	clearCmd.Flags().BoolVar(&clearFlagYes, "yes", false, "Skip confirmation prompt")
	clearCmd.Flags().BoolVar(&clearFlagNoSnapshot, "no-snapshot", false, "Skip the automatic snapshot")

	RootCmd.AddCommand(clearCmd)
}

func runClear(cmd *cobra.Command, args []string) error {
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
	if count == 0 {
		fmt.Println("No transactions to clear.")
		return nil
	}

	if !clearFlagYes {
		prompt := fmt.Sprintf("Delete all %s transactions?", output.FormatCount(int64(count)))
		if !confirm(clearInput, prompt) {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	var snapID string
	if !clearFlagNoSnapshot {
		snap, err := snapshotTransactions(ctx, st, "clear")
		if err != nil {
			return err
		}
		snapID = snap.ID
	}

	deleted, err := st.ClearTransactions(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("✓ Cleared %s transactions\n", output.FormatCount(deleted))
	if snapID != "" {
		fmt.Printf("  Snapshot: %s (restore with 'basketprune undo %s')\n", snapID, snapID)
	}
	return nil
}
