package cmd

import (
	"fmt"

	"crmimport/storage"

	"github.com/spf13/cobra"
)

var runsDBPath string

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Show the import history",
	Example: `
  # Show all recorded imports, newest first
  crmimport runs --db ./crmimport.db
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := storage.OpenSQLite(runsDBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		runs, err := store.ListRuns()
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("No imports recorded.")
			return nil
		}

		for _, run := range runs {
			sheet := run.Sheet
			if sheet != "" {
				sheet = " sheet " + sheet
			}
			fmt.Printf("#%d %s %s%s: %d succeeded, %d failed (%s)\n",
				run.ID, run.Kind, run.SourceFile, sheet, run.Successful, run.Failed, run.CreatedAt)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runsCmd)

	runsCmd.Flags().StringVar(&runsDBPath, "db", "./crmimport.db", "Path to local SQLite database")
}
