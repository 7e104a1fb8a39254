package importer

import (
	"fmt"
	"path/filepath"
	"strings"
)

type Reader interface {
	Read(path string) (*Source, error)
}

// ReaderForPath picks a reader from the explicit format when given, otherwise
// from the file extension.
func ReaderForPath(path, format string) (Reader, error) {
	resolved := strings.ToLower(strings.TrimSpace(format))
	if resolved == "" {
		resolved = strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	}

	switch resolved {
	case "csv":
		return &CSVReader{}, nil
	case "excel", "xlsx", "xlsm", "xls":
		return &ExcelReader{}, nil
	default:
		return nil, fmt.Errorf("unsupported input format for %s", path)
	}
}
