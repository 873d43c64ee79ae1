package app

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/blackwell-systems/basketprune/internal/ledger"
	"github.com/blackwell-systems/basketprune/internal/output"
)

var (
	importFlagReplace    bool
	importFlagNoSnapshot bool
)

var importCmd = &cobra.Command{
	Use:   "import <file.json>",
	Short: "Import transactions from a JSON data file",
	Long: `Import transactions from a JSON data file: a list of baskets, each a list
of item names.

  [["rokok", "kopi"], ["snack", "soda"]]

Content that is not a JSON list imports nothing. Entries that are not lists
of strings import as empty baskets, which still count toward the total when
computing support.

By default the imported baskets are added to the ones already recorded. Use
--replace to swap the whole collection. A snapshot of the previous
collection is taken before replacing, so 'basketprune undo' can restore it.`,
	Example: `  # Add baskets from a file
  basketprune import transactions.json

  # Replace everything with the file's content
  basketprune import transactions.json --replace`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().BoolVar(&importFlagReplace, "replace", false, "Replace recorded transactions instead of appending")
	importCmd.Flags().BoolVar(&importFlagNoSnapshot, "no-snapshot", false, "Skip the automatic snapshot before --replace")

	RootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	path := args[0]
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("data file %s does not exist", path)
	}

	file, err := ledger.Open(path)
	if err != nil {
		return err
	}
	records, err := file.Load()
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := commandContext(cmd)
	if importFlagReplace {
		if !importFlagNoSnapshot {
			snap, err := snapshotTransactions(ctx, st, "import --replace")
			if err != nil {
				return err
			}
			currentLogger().Debug("snapshot taken", zap.String("id", snap.ID), zap.Int("transactions", snap.Transactions))
		}
		if err := st.ReplaceTransactions(ctx, records); err != nil {
			return err
		}
	} else if len(records) > 0 {
		if _, err := st.InsertTransactions(ctx, records); err != nil {
			return err
		}
	}

	currentLogger().Info("imported data file",
		zap.String("path", path),
		zap.Int("transactions", len(records)),
		zap.Bool("replace", importFlagReplace))

	if len(records) == 0 && !importFlagReplace {
		fmt.Printf("No transactions found in %s\n", path)
		return nil
	}
	fmt.Printf("✓ Imported %s transactions from %s\n", output.FormatCount(int64(len(records))), path)
	return nil
}
