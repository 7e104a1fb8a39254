package cmd

import (
	"fmt"
	"os"

	"crmimport/config"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "crmimport",
	Short: "Reconcile spreadsheet columns against CRM schemas and import rows.",
	Long: `This CLI takes uploaded CSV/Excel files with unpredictable, user-authored
column headers, proposes a mapping onto a configured target schema (leads,
fire-door orders, ...), lets you correct it, and executes a row-by-row import
into a local SQLite database with partial-failure reporting.

Supported input formats:
- Excel: .xlsx, .xlsm, .xls
- CSV: .csv
`,
	Example: `
  # Create configuration file
  crmimport config create

  # List sheets of a workbook
  crmimport sheets -i orders.xlsx

  # Preview the proposed column mapping for a lead export
  crmimport map -i leads.csv --kind leads

  # Import a lead export, fixing one column by hand
  crmimport import -i leads.csv --kind leads --assign email="E-Mail Adr."

  # Import one sheet of a fire-door workbook and save a failure report
  crmimport import -i orders.xlsx --kind fire_doors --sheet "2024" --report failures.csv

  # Show import history
  crmimport runs

  # Start the local mapping API
  crmimport serve
`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	config.SetDefaults()

	rootCmd.PersistentFlags().StringVar(&cfgFile, "configFile", "", "Config file override (default discovery: $HOME/.crmimport.yaml, then ./.crmimport.yaml)")

	rootCmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		if !requiresConfig(cmd) {
			return nil
		}

		_, err := config.LoadAndValidate()
		return err
	}
}

func requiresConfig(cmd *cobra.Command) bool {
	if cmd == nil {
		return false
	}
	switch cmd.Name() {
	case "map", "import", "serve":
		return true
	default:
		return false
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".crmimport")
	}

	viper.AutomaticEnv() // read in environment variables that match

	if err := viper.ReadInConfig(); err != nil {
		fmt.Fprintln(os.Stderr, "No config file found. Create one first with: crmimport config create")
	}
}
