package executor

import (
	"crmimport/importer"
	"crmimport/schema"
)

// EntityWriter persists one coerced record and returns the new entity id. A
// writer failure is captured as a row-level error, never rethrown.
type EntityWriter interface {
	Write(record schema.Record) (int64, error)
}

// RowFailure describes one failed row by its 1-based data-row number in the
// original sheet.
type RowFailure struct {
	Row    int      `json:"row"`
	Errors []string `json:"errors"`
}

// Result summarizes one executed import. Partial success is the normal,
// expected outcome: Successful+Failed always equals the number of non-blank
// rows processed.
type Result struct {
	Successful int          `json:"successful"`
	Failed     int          `json:"failed"`
	Errors     []RowFailure `json:"errors"`
	EntityIDs  []int64      `json:"-"`
}

// Execute runs a committed mapping over a sheet's data rows, independently
// and in order. Column indexes are resolved once per mapping, not per row.
// Each mapped field's raw cell reaches the coercer unaltered; coercion and
// writer failures are collected per row and never stop the batch.
func Execute(mapped map[string]string, sheet *importer.Sheet, fields []schema.Field, coerce schema.Coercer, writer EntityWriter) Result {
	result := Result{Errors: make([]RowFailure, 0)}
	columns := resolveColumns(mapped, sheet.Headers, fields)

	for _, row := range sheet.Rows {
		record := make(schema.Record, len(columns))
		rowErrors := make([]string, 0)

		for _, column := range columns {
			raw := ""
			if column.index < len(row.Cells) {
				raw = row.Cells[column.index]
			}

			value, err := coerce(column.field, raw)
			if err != nil {
				rowErrors = append(rowErrors, err.Error())
				continue
			}
			if value == nil {
				continue
			}
			record[column.field.Key] = value
		}

		if len(rowErrors) == 0 {
			id, err := writer.Write(record)
			if err != nil {
				rowErrors = append(rowErrors, err.Error())
			} else {
				result.EntityIDs = append(result.EntityIDs, id)
			}
		}

		if len(rowErrors) > 0 {
			result.Failed++
			result.Errors = append(result.Errors, RowFailure{Row: row.Number, Errors: rowErrors})
			continue
		}
		result.Successful++
	}

	return result
}

type boundColumn struct {
	field schema.Field
	index int
}

// resolveColumns binds each mapped field to the first column carrying its
// header. Later duplicate headers never supply values.
func resolveColumns(mapped map[string]string, headers []string, fields []schema.Field) []boundColumn {
	columns := make([]boundColumn, 0, len(mapped))
	for _, field := range fields {
		header, ok := mapped[field.Key]
		if !ok || header == "" {
			continue
		}
		for index, candidate := range headers {
			if candidate == header {
				columns = append(columns, boundColumn{field: field, index: index})
				break
			}
		}
	}
	return columns
}
