package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/basketprune/internal/output"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded transactions",
	Long: `List every recorded transaction with its id, when it was added and its
items as entered. Use the id with 'basketprune remove'.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	RootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	records, err := st.ListTransactionRecords(commandContext(cmd))
	if err != nil {
		return err
	}

	fmt.Print(output.RenderTransactions(records))
	if len(records) > 0 {
		fmt.Printf("\n%s transactions\n", output.FormatCount(int64(len(records))))
	}
	return nil
}
