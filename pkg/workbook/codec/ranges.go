package codec

import (
	"fmt"
	"strings"

	"github.com/ukaji3/workbook-go/pkg/workbook/models"
	"github.com/xuri/excelize/v2"
)

// DefaultStartCell is the cell reading starts from when none is given.
const DefaultStartCell = "A1"

// ParseRange parses a start and optional end cell reference (A1 or $A$1
// style) into a CellRange. An empty start means A1; an empty end leaves
// the range open.
func ParseRange(startCell, endCell string) (models.CellRange, error) {
	if strings.TrimSpace(startCell) == "" {
		startCell = DefaultStartCell
	}
	startCol, startRow, err := parseCell(startCell)
	if err != nil {
		return models.CellRange{}, err
	}
	area := models.CellRange{R1: startRow, C1: startCol}
	if strings.TrimSpace(endCell) == "" {
		return area, nil
	}

	endCol, endRow, err := parseCell(endCell)
	if err != nil {
		return models.CellRange{}, err
	}
	if endCol < startCol || endRow < startRow {
		return models.CellRange{}, fmt.Errorf("%w: %s:%s ends before it starts", ErrInvalidRange, startCell, endCell)
	}
	area.R2, area.C2 = endRow, endCol
	return area, nil
}

// parseCell converts a cell reference to 1-based coordinates.
func parseCell(ref string) (col, row int, err error) {
	// Remove $ signs
	ref = strings.ReplaceAll(strings.TrimSpace(ref), "$", "")
	col, row, err = excelize.CellNameToCoordinates(ref)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q: %v", ErrInvalidRange, ref, err)
	}
	return col, row, nil
}

// columnName returns the letter name of a 1-based column.
func columnName(col int) string {
	name, err := excelize.ColumnNumberToName(col)
	if err != nil {
		return fmt.Sprintf("C%d", col)
	}
	return name
}
