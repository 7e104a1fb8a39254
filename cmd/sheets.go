package cmd

import (
	"fmt"

	"crmimport/importer"

	"github.com/spf13/cobra"
)

var (
	sheetsInput  string
	sheetsFormat string
)

var sheetsCmd = &cobra.Command{
	Use:   "sheets",
	Short: "List the sheet names of a workbook",
	Long: `Print the ordered sheet names of an input file.

Multi-sheet workbooks require an explicit --sheet choice before mapping can
run; sheet order and meaning vary by exporting tool, so none is ever picked
silently.`,
	Example: `
  # List sheets of an Excel workbook
  crmimport sheets -i orders.xlsx
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		reader, err := importer.ReaderForPath(sheetsInput, sheetsFormat)
		if err != nil {
			return err
		}
		source, err := reader.Read(sheetsInput)
		if err != nil {
			return err
		}

		for _, sheet := range source.Sheets {
			fmt.Printf("%s (%d columns, %d rows)\n", sheet.Name, len(sheet.Headers), len(sheet.Rows))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sheetsCmd)

	sheetsCmd.Flags().StringVarP(&sheetsInput, "input", "i", "", "Input file path")
	sheetsCmd.Flags().StringVarP(&sheetsFormat, "format", "f", "", "Input format: csv|excel (optional, inferred from extension when omitted)")

	_ = sheetsCmd.MarkFlagRequired("input")
}
