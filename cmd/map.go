package cmd

import (
	"fmt"
	"strings"

	"crmimport/config"
	"crmimport/importer"
	"crmimport/mapping"

	"github.com/spf13/cobra"
)

var (
	mapInput  string
	mapFormat string
	mapKind   string
	mapSheet  string
)

var mapCmd = &cobra.Command{
	Use:   "map",
	Short: "Propose a column mapping without importing",
	Long: `Read an input file, run the auto-mapper against the configured field schema
of the given import kind, and print the proposed mapping with per-field
confidence plus any required fields still unmapped.

Nothing is written; use "import" to execute.`,
	Example: `
  # Propose a mapping for a lead CSV export
  crmimport map -i leads.csv --kind leads

  # Propose a mapping for one sheet of a workbook
  crmimport map -i orders.xlsx --kind fire_doors --sheet "2024"
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}

		session, err := openSession(*cfg, mapInput, mapFormat, mapKind, mapSheet)
		if err != nil {
			return err
		}

		printProposal(session)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(mapCmd)

	mapCmd.Flags().StringVarP(&mapInput, "input", "i", "", "Input file path")
	mapCmd.Flags().StringVarP(&mapFormat, "format", "f", "", "Input format: csv|excel (optional, inferred from extension when omitted)")
	mapCmd.Flags().StringVarP(&mapKind, "kind", "k", "leads", "Configured import kind (e.g. leads, fire_doors)")
	mapCmd.Flags().StringVar(&mapSheet, "sheet", "", "Sheet name for multi-sheet workbooks")

	_ = mapCmd.MarkFlagRequired("input")
}

// openSession reads the input and creates a mapping session, selecting the
// sheet when one is named. A multi-sheet workbook without --sheet fails with
// the available names.
func openSession(cfg config.Config, input, format, kind, sheet string) (*mapping.Session, error) {
	fields, err := cfg.FieldsFor(kind)
	if err != nil {
		return nil, err
	}

	reader, err := importer.ReaderForPath(input, format)
	if err != nil {
		return nil, err
	}
	source, err := reader.Read(input)
	if err != nil {
		return nil, err
	}

	session := mapping.NewSession(source, fields)
	if sheet != "" {
		if err := session.SelectSheet(sheet); err != nil {
			return nil, err
		}
	}
	if session.State() == mapping.StateAwaitingSheet {
		return nil, fmt.Errorf(
			"%w: pass --sheet with one of: %s",
			mapping.ErrSelectionRequired,
			strings.Join(session.SheetNames(), ", "),
		)
	}

	return session, nil
}

func printProposal(session *mapping.Session) {
	fmt.Printf("Sheet: %s\n", session.SheetName())
	for _, field := range session.Fields() {
		header, ok := session.Mapping()[field.Key]
		marker := ""
		if field.Required {
			marker = " (required)"
		}
		if !ok {
			fmt.Printf("  %s%s -> <unmapped>\n", field.Key, marker)
			continue
		}
		fmt.Printf("  %s%s -> %q (confidence %.2f)\n", field.Key, marker, header, session.Confidence(field.Key))
	}

	if missing := session.Validate(); len(missing) > 0 {
		fmt.Printf("Missing required fields: %s\n", strings.Join(missing, ", "))
		return
	}
	fmt.Println("All required fields mapped.")
}
