package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/basketprune/internal/ledger"
	"github.com/blackwell-systems/basketprune/internal/output"
)

var exportCmd = &cobra.Command{
	Use:   "export <file.json>",
	Short: "Export transactions to a JSON data file",
	Long: `Write every recorded transaction to a JSON data file, replacing its
content. Items are written as entered. The file can be read back with
'basketprune import' or watched with 'basketprune watch'.`,
	Example: `  basketprune export transactions.json`,
	Args:    cobra.ExactArgs(1),
	RunE:    runExport,
}

func init() {
	RootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	records, err := st.ListTransactions(commandContext(cmd))
	if err != nil {
		return err
	}

	file, err := ledger.Open(args[0])
	if err != nil {
		return err
	}
	if err := file.Save(records); err != nil {
		return err
	}

	fmt.Printf("✓ Exported %s transactions to %s\n", output.FormatCount(int64(len(records))), file.Path())
	return nil
}
