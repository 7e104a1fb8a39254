package output

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"crmimport/executor"
)

type CSVWriter struct{}

func (w *CSVWriter) Write(path string, result executor.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv report %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"Row", "Errors"}); err != nil {
		return fmt.Errorf("write csv report headers: %w", err)
	}

	for _, failure := range result.Errors {
		row := []string{
			strconv.Itoa(failure.Row),
			strings.Join(failure.Errors, "; "),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write csv report row: %w", err)
		}
	}

	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv report: %w", err)
	}

	return nil
}
