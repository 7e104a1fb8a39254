package importer

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

type ExcelReader struct{}

func (r *ExcelReader) Read(path string) (*Source, error) {
	file, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open excel file %s: %w", path, err)
	}
	defer file.Close()

	names := file.GetSheetList()
	if len(names) == 0 {
		return nil, fmt.Errorf("excel file has no sheets: %s", path)
	}

	source := &Source{FilePath: path, Sheets: make([]Sheet, 0, len(names))}
	for _, name := range names {
		raw, err := file.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("read rows from sheet %s: %w", name, err)
		}
		source.Sheets = append(source.Sheets, buildSheet(name, raw))
	}

	return source, nil
}
