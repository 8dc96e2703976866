package codec

import (
	"context"
	"fmt"
	"iter"
	"strings"

	"github.com/ukaji3/workbook-go/pkg/workbook/models"
)

// cell is one raw cell: its text, used for header names, and its typed
// value, nil for an empty cell.
type cell struct {
	text  string
	value any
}

// scanFunc walks the raw rows of one sheet. fn receives the 1-based row
// number and the cells of that row (index 0 = column A); returning false
// stops the walk.
type scanFunc func(fn func(rowNum int, cells []cell) (bool, error)) error

// textCells wraps cell texts whose values are inferred from the text.
func textCells(texts []string) []cell {
	cells := make([]cell, len(texts))
	for i, t := range texts {
		cells[i] = cell{text: t, value: parseValue(t)}
	}
	return cells
}

// shaper turns raw cell rows into named rows within a range.
type shaper struct {
	area   models.CellRange
	header bool
	names  []string
}

func newShaper(q Query) (*shaper, error) {
	area, err := ParseRange(q.StartCell, q.EndCell)
	if err != nil {
		return nil, err
	}
	return &shaper{area: area, header: q.HasHeader}, nil
}

// width returns the number of columns covered by cells within the range.
func (s *shaper) width(cells []cell) int {
	if s.area.C2 != 0 {
		return s.area.C2 - s.area.C1 + 1
	}
	return max(len(cells)-s.area.C1+1, 0)
}

// at returns the cell at the 1-based column, or an empty cell when absent.
func at(cells []cell, col int) cell {
	if col-1 < len(cells) {
		return cells[col-1]
	}
	return cell{}
}

// nameColumns derives column names from the first row in range.
func (s *shaper) nameColumns(cells []cell) {
	n := s.width(cells)
	names := make([]string, 0, n)
	seen := make(map[string]bool, n)
	for i := range n {
		col := s.area.C1 + i
		name := columnName(col)
		if s.header {
			if text := strings.TrimSpace(at(cells, col).text); text != "" {
				name = text
			}
		}
		// Field names must be unique within a record
		unique := name
		for k := 2; seen[unique]; k++ {
			unique = fmt.Sprintf("%s_%d", name, k)
		}
		seen[unique] = true
		names = append(names, unique)
	}
	s.names = names
}

// row builds a named row from raw cells.
func (s *shaper) row(cells []cell) models.Row {
	row := make(models.Row, len(s.names))
	for i, name := range s.names {
		row[i] = models.Field{Name: name, Value: at(cells, s.area.C1+i).value}
	}
	return row
}

// columns returns the column names of the first row in range.
func columns(scan scanFunc, q Query) ([]string, error) {
	s, err := newShaper(q)
	if err != nil {
		return nil, err
	}
	found := false
	err = scan(func(rowNum int, cells []cell) (bool, error) {
		if rowNum < s.area.R1 {
			return true, nil
		}
		if s.area.PastEnd(rowNum) {
			return false, nil
		}
		s.nameColumns(cells)
		found = true
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNoRows
	}
	return s.names, nil
}

// rows streams named data rows in range. The first row in range names the
// columns and is only yielded as data when there is no header.
func rows(ctx context.Context, scan scanFunc, q Query) iter.Seq2[models.Row, error] {
	return func(yield func(models.Row, error) bool) {
		s, err := newShaper(q)
		if err != nil {
			yield(nil, err)
			return
		}
		stopped := false
		err = scan(func(rowNum int, cells []cell) (bool, error) {
			if err := ctx.Err(); err != nil {
				return false, err
			}
			if rowNum < s.area.R1 {
				return true, nil
			}
			if s.area.PastEnd(rowNum) {
				return false, nil
			}
			if s.names == nil {
				s.nameColumns(cells)
				if s.header {
					return true, nil
				}
			}
			if !yield(s.row(cells), nil) {
				stopped = true
				return false, nil
			}
			return true, nil
		})
		if err != nil && !stopped {
			yield(nil, err)
		}
	}
}
