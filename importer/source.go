package importer

import "strings"

// Row is one data row of a sheet. Number is the 1-based position among the
// sheet's data rows in the original, unfiltered order, so error messages stay
// addressable even after blank rows are dropped.
type Row struct {
	Number int
	Cells  []string
}

// Sheet holds one worksheet's ordered headers and its non-blank data rows.
type Sheet struct {
	Name    string
	Headers []string
	Rows    []Row
}

// Source is a parsed upload. CSV files yield exactly one sheet; workbooks
// yield one per worksheet in workbook order.
type Source struct {
	FilePath string
	Sheets   []Sheet
}

func (s *Source) SheetNames() []string {
	names := make([]string, 0, len(s.Sheets))
	for _, sheet := range s.Sheets {
		names = append(names, sheet.Name)
	}
	return names
}

func (s *Source) Sheet(name string) (*Sheet, bool) {
	for i := range s.Sheets {
		if s.Sheets[i].Name == name {
			return &s.Sheets[i], true
		}
	}
	return nil, false
}

// buildSheet pads every row to the header width, numbers data rows from 1,
// and drops rows whose every cell is blank. Numbering counts dropped rows so
// it always matches the uploaded file.
func buildSheet(name string, raw [][]string) Sheet {
	sheet := Sheet{Name: name}
	if len(raw) == 0 {
		return sheet
	}

	sheet.Headers = append([]string(nil), raw[0]...)
	sheet.Rows = make([]Row, 0, len(raw)-1)
	for i, cells := range raw[1:] {
		padded := make([]string, len(sheet.Headers))
		blank := true
		for col := range padded {
			if col < len(cells) {
				padded[col] = cells[col]
				if strings.TrimSpace(cells[col]) != "" {
					blank = false
				}
			}
		}
		for col := len(padded); col < len(cells); col++ {
			if strings.TrimSpace(cells[col]) != "" {
				blank = false
			}
		}
		if blank {
			continue
		}

		sheet.Rows = append(sheet.Rows, Row{Number: i + 1, Cells: padded})
	}

	return sheet
}
