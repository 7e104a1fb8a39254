package output

import (
	"fmt"
	"strings"

	"crmimport/executor"

	"github.com/xuri/excelize/v2"
)

type ExcelWriter struct{}

func (w *ExcelWriter) Write(path string, result executor.Result) error {
	file := excelize.NewFile()
	defer file.Close()

	sheet := file.GetSheetName(0)
	headers := []string{"Row", "Errors"}

	for col, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := file.SetCellValue(sheet, cell, header); err != nil {
			return fmt.Errorf("set excel report header %s: %w", cell, err)
		}
	}

	for i, failure := range result.Errors {
		row := i + 2

		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := file.SetCellValue(sheet, cell, failure.Row); err != nil {
			return fmt.Errorf("set excel report value %s: %w", cell, err)
		}
		cell, _ = excelize.CoordinatesToCellName(2, row)
		if err := file.SetCellValue(sheet, cell, strings.Join(failure.Errors, "; ")); err != nil {
			return fmt.Errorf("set excel report value %s: %w", cell, err)
		}
	}

	if err := file.SaveAs(path); err != nil {
		return fmt.Errorf("save excel report %s: %w", path, err)
	}

	return nil
}
