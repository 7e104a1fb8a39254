package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"crmimport/config"
	"crmimport/executor"
	"crmimport/output"
	"crmimport/schema"
	"crmimport/storage"

	"crmimport/importer"

	"github.com/spf13/cobra"
)

var (
	importInput    string
	importFormat   string
	importKind     string
	importSheet    string
	importAssigns  []string
	importUnassign []string
	importDBPath   string
	importReport   string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a CSV/Excel file into the local SQLite database",
	Long: `Read the input file, auto-map its columns onto the configured field schema,
apply manual corrections, then execute the import row by row.

A single bad row never aborts the batch: coercion and persistence failures are
collected per row, and "90 succeeded, 10 failed" is a normal outcome. Failed
rows keep their 1-based position in the uploaded file, so the summary (and the
optional --report file) stays addressable.`,
	Example: `
  # Import a lead CSV export
  crmimport import -i leads.csv --kind leads

  # Fix up two columns the auto-mapper got wrong or missed
  crmimport import -i leads.csv --kind leads --assign email="E-Mail Adr." --assign phone=Telefon

  # Drop a column from the import entirely
  crmimport import -i leads.csv --kind leads --unassign custom.source

  # Import one sheet of a workbook and write a failure report
  crmimport import -i orders.xlsx --kind fire_doors --sheet "2024" --report failures.xlsx

  # Import with custom config file
  crmimport --configFile ./custom-crmimport.yaml import -i leads.csv --kind leads
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}

		session, err := openSession(*cfg, importInput, importFormat, importKind, importSheet)
		if err != nil {
			return err
		}

		for _, assign := range importAssigns {
			fieldKey, header, err := splitAssign(assign)
			if err != nil {
				return err
			}
			if err := session.Assign(fieldKey, header); err != nil {
				return err
			}
		}
		for _, fieldKey := range importUnassign {
			if err := session.Unassign(strings.TrimSpace(fieldKey)); err != nil {
				return err
			}
		}

		mapped, err := session.Commit()
		if err != nil {
			return err
		}

		store, err := storage.OpenSQLite(importDBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		headers, err := session.Headers()
		if err != nil {
			return err
		}
		rows, err := session.Rows()
		if err != nil {
			return err
		}
		sheet := &importer.Sheet{Name: session.SheetName(), Headers: headers, Rows: rows}

		sourceFile := filepath.Base(importInput)
		result := executor.Execute(
			mapped,
			sheet,
			session.Fields(),
			schema.DefaultCoercer(cfg.DateFormat),
			store.RecordWriter(importKind, sourceFile),
		)

		if _, err := store.InsertRun(importKind, sourceFile, sheet.Name, result); err != nil {
			return err
		}

		fmt.Printf("Import completed. Rows succeeded: %d, Rows failed: %d\n", result.Successful, result.Failed)
		for _, failure := range result.Errors {
			fmt.Printf("  row %d: %s\n", failure.Row, strings.Join(failure.Errors, "; "))
		}

		if importReport != "" && len(result.Errors) > 0 {
			writer, err := output.WriterForPath(importReport)
			if err != nil {
				return err
			}
			if err := writer.Write(importReport, result); err != nil {
				return err
			}
			fmt.Printf("Failure report written to %s\n", importReport)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringVarP(&importInput, "input", "i", "", "Input file path")
	importCmd.Flags().StringVarP(&importFormat, "format", "f", "", "Input format: csv|excel (optional, inferred from extension when omitted)")
	importCmd.Flags().StringVarP(&importKind, "kind", "k", "leads", "Configured import kind (e.g. leads, fire_doors)")
	importCmd.Flags().StringVar(&importSheet, "sheet", "", "Sheet name for multi-sheet workbooks")
	importCmd.Flags().StringArrayVar(&importAssigns, "assign", nil, "Manual mapping correction, field=header (repeatable)")
	importCmd.Flags().StringArrayVar(&importUnassign, "unassign", nil, "Field key to drop from the mapping (repeatable)")
	importCmd.Flags().StringVar(&importDBPath, "db", "./crmimport.db", "Path to local SQLite database")
	importCmd.Flags().StringVar(&importReport, "report", "", "Write failed rows to this .csv or .xlsx file")

	_ = importCmd.MarkFlagRequired("input")
}

func splitAssign(value string) (string, string, error) {
	fieldKey, header, found := strings.Cut(value, "=")
	fieldKey = strings.TrimSpace(fieldKey)
	if !found || fieldKey == "" {
		return "", "", fmt.Errorf("invalid --assign value %q (expected field=header)", value)
	}
	return fieldKey, header, nil
}
