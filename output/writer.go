package output

import (
	"fmt"
	"path/filepath"
	"strings"

	"crmimport/executor"
)

// Writer saves a failure report so large partial imports stay actionable.
type Writer interface {
	Write(path string, result executor.Result) error
}

// WriterForPath picks a report writer from the target file extension.
func WriterForPath(path string) (Writer, error) {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")) {
	case "csv":
		return &CSVWriter{}, nil
	case "xlsx", "xlsm":
		return &ExcelWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported report format for %s", path)
	}
}
