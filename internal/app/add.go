package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/blackwell-systems/basketprune/internal/basket"
	"github.com/blackwell-systems/basketprune/internal/ledger"
)

var addFlagFile string

var addCmd = &cobra.Command{
	Use:   "add <items>",
	Short: "Record a shopping basket",
	Long: `Record one shopping transaction. Items are separated by commas; several
arguments are joined as if they were one list.

Items are stored exactly as typed. Case and surrounding spaces are ignored
at analysis time, so "Rokok" and " rokok " count as the same item.

With --file the basket is appended to a JSON data file instead of the
database. A running 'basketprune watch' on that file picks it up.`,
	Example: `  # Record a basket
  basketprune add "rokok, kopi, snack"

  # Same basket, one argument per item
  basketprune add rokok kopi snack

  # Append to a watched data file
  basketprune add "rokok, kopi" --file transactions.json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringVar(&addFlagFile, "file", "", "Append to this JSON data file instead of the database")

	RootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	items := basket.ParseItems(strings.Join(args, ","))
	if len(items) == 0 {
		return errors.New("no items given: pass a comma-separated list such as \"rokok, kopi\"")
	}

	if addFlagFile != "" {
		file, err := ledger.Open(addFlagFile)
		if err != nil {
			return err
		}
		if err := file.Append(items); err != nil {
			return fmt.Errorf("failed to append to %s: %w", file.Path(), err)
		}
		currentLogger().Debug("transaction appended", zap.String("path", file.Path()), zap.Int("items", len(items)))
		fmt.Printf("✓ Added to %s: %s\n", file.Path(), strings.Join(items, ", "))
		return nil
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	id, err := st.InsertTransaction(commandContext(cmd), items)
	if err != nil {
		return err
	}

	currentLogger().Debug("transaction added", zap.Int64("id", id), zap.Int("items", len(items)))
	fmt.Printf("✓ Added transaction %d: %s\n", id, strings.Join(items, ", "))
	return nil
}
