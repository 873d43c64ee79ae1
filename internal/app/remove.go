package app

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/basketprune/internal/store"
)

var removeCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a recorded transaction",
	Long: `Remove one transaction by id. Run 'basketprune list' to see ids.

Saved analysis runs are not changed; run 'basketprune analyze' again to see
the effect of the removal.`,
	Example: `  basketprune remove 12`,
	Args:    cobra.ExactArgs(1),
	RunE:    runRemove,
}

func init() {
	RootCmd.AddCommand(removeCmd)
}

func runRemove(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return fmt.Errorf("invalid transaction id %q: must be a positive number", args[0])
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.DeleteTransaction(commandContext(cmd), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("transaction %d not found (run 'basketprune list' to see ids)", id)
		}
		return err
	}

	fmt.Printf("✓ Removed transaction %d\n", id)
	return nil
}
