package workbook

import "github.com/ukaji3/workbook-go/pkg/workbook/models"

// ImportedRow is the type tag carried by records produced by import.
const ImportedRow = "workbook.ImportedRow"

// NormalizeRow converts a codec row into a record tagged ImportedRow,
// keeping column order. It returns false for rows to skip: rows without
// columns always, and rows whose values are all nil unless includeEmpty.
func NormalizeRow(row models.Row, includeEmpty bool) (*models.Record, bool) {
	if len(row) == 0 {
		return nil, false
	}
	if !includeEmpty && row.IsBlank() {
		return nil, false
	}
	return models.RecordFromRow(row, ImportedRow), true
}
