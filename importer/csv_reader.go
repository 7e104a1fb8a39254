package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

type CSVReader struct{}

func (r *CSVReader) Read(path string) (*Source, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv file %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	raw := make([][]string, 0, 128)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row %d: %w", len(raw)+1, err)
		}
		raw = append(raw, row)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("csv file %s is empty", path)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return &Source{
		FilePath: path,
		Sheets:   []Sheet{buildSheet(name, raw)},
	}, nil
}
