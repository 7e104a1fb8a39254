package cmd

import (
	"fmt"
	"os"
	"sort"

	"crmimport/config"

	"github.com/spf13/cobra"
)

var configValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Validate a configuration file without installing it.",
	Example: `
  # Check a config file before copying it into place
  crmimport config validate ./crmimport-draft.yaml
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read config file %s: %w", args[0], err)
		}

		cfg, err := config.ValidateYAMLContent(content)
		if err != nil {
			return err
		}

		kinds := make([]string, 0, len(cfg.Imports))
		for kind := range cfg.Imports {
			kinds = append(kinds, kind)
		}
		sort.Strings(kinds)

		fmt.Printf("Config OK. Date format: %s\n", cfg.DateFormat)
		for _, kind := range kinds {
			fmt.Printf("  %s: %d fields\n", kind, len(cfg.Imports[kind].Fields))
		}
		return nil
	},
}

func init() {
	configCmd.AddCommand(configValidateCmd)
}
