package importer

import "testing"

func TestBuildSheet_SkipsBlankRowsButKeepsNumbering(t *testing.T) {
	t.Parallel()

	raw := [][]string{
		{"Full Name", "Email Address"},
		{"Jo", "jo@x.com"},
		{"", ""},
		{"Al", "bad-email"},
	}

	sheet := buildSheet("leads", raw)

	if len(sheet.Rows) != 2 {
		t.Fatalf("expected 2 data rows, got %d", len(sheet.Rows))
	}
	if sheet.Rows[0].Number != 1 || sheet.Rows[1].Number != 3 {
		t.Fatalf("blank row must keep numbering: got %d and %d", sheet.Rows[0].Number, sheet.Rows[1].Number)
	}
	if sheet.Rows[1].Cells[0] != "Al" {
		t.Fatalf("unexpected row content: %v", sheet.Rows[1].Cells)
	}
}

func TestBuildSheet_PadsShortRowsToHeaderWidth(t *testing.T) {
	t.Parallel()

	raw := [][]string{
		{"A", "B", "C"},
		{"1"},
		{"1", "2", "3", "4"},
	}

	sheet := buildSheet("data", raw)

	if len(sheet.Rows) != 2 {
		t.Fatalf("expected 2 data rows, got %d", len(sheet.Rows))
	}
	for _, row := range sheet.Rows {
		if len(row.Cells) != 3 {
			t.Fatalf("row %d: expected 3 cells, got %d", row.Number, len(row.Cells))
		}
	}
	if sheet.Rows[0].Cells[1] != "" || sheet.Rows[0].Cells[2] != "" {
		t.Fatalf("short row must read as empty cells: %v", sheet.Rows[0].Cells)
	}
}

func TestBuildSheet_WhitespaceOnlyRowIsBlank(t *testing.T) {
	t.Parallel()

	raw := [][]string{
		{"A"},
		{"   "},
		{"x"},
	}

	sheet := buildSheet("data", raw)

	if len(sheet.Rows) != 1 {
		t.Fatalf("expected 1 data row, got %d", len(sheet.Rows))
	}
	if sheet.Rows[0].Number != 2 {
		t.Fatalf("expected row number 2, got %d", sheet.Rows[0].Number)
	}
}

func TestSource_SheetLookup(t *testing.T) {
	t.Parallel()

	source := &Source{
		Sheets: []Sheet{
			{Name: "2024"},
			{Name: "2023"},
		},
	}

	names := source.SheetNames()
	if len(names) != 2 || names[0] != "2024" || names[1] != "2023" {
		t.Fatalf("unexpected sheet names: %v", names)
	}

	if _, ok := source.Sheet("2023"); !ok {
		t.Fatalf("expected to find sheet 2023")
	}
	if _, ok := source.Sheet("2022"); ok {
		t.Fatalf("did not expect to find sheet 2022")
	}
}
