package cmd

import (
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage crmimport configuration",
	Long: `Manage the configuration file holding the import field schemas.

Field lists are configuration, not code: each import kind (leads, fire_doors,
...) declares the fields it can populate with key, label, required flag,
value type, and optional validation.`,
}

func init() {
	rootCmd.AddCommand(configCmd)
}
