package codec

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"
	"unicode/utf8"

	"github.com/ukaji3/workbook-go/pkg/workbook/models"
	"github.com/xuri/excelize/v2"
)

// Excel reads and writes .xlsx workbooks with excelize.
//
// Cell values follow the stored cell type: text cells stay strings,
// boolean cells become bool, numeric cells become int64 or float64, and
// numeric cells with a date number format become time.Time.
type Excel struct {
	// Formatted returns every cell as its display text, with number
	// formats applied, instead of typed values.
	Formatted bool
}

// open opens a workbook, narrowing container errors to ErrUnknownContainer.
func (Excel) open(path string) (*excelize.File, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		if errors.Is(err, zip.ErrFormat) || errors.Is(err, excelize.ErrWorkbookFileFormat) {
			return nil, fmt.Errorf("%w %s: %v", ErrUnknownContainer, path, err)
		}
		return nil, err
	}
	return f, nil
}

// SheetNames implements Codec.
func (x Excel) SheetNames(path string) (names []string, err error) {
	f, err := x.open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()
	return f.GetSheetList(), nil
}

// scanner returns a scanFunc over one sheet; an empty sheet name selects
// the first sheet.
func (x Excel) scanner(path, sheet string) scanFunc {
	return func(fn func(int, []cell) (bool, error)) (err error) {
		f, err := x.open(path)
		if err != nil {
			return err
		}
		defer func() {
			err = errors.Join(err, f.Close())
		}()

		if sheet == "" {
			sheet = f.GetSheetName(0)
			if sheet == "" {
				return ErrNoRows
			}
		}
		rows, err := f.Rows(sheet)
		if err != nil {
			return err
		}
		defer func() {
			err = errors.Join(err, rows.Close())
		}()

		opts := excelize.Options{RawCellValue: !x.Formatted}
		typer := newCellTyper(f, sheet)
		for rowNum := 1; rows.Next(); rowNum++ {
			texts, err := rows.Columns(opts)
			if err != nil {
				return err
			}
			cells := make([]cell, len(texts))
			for i, text := range texts {
				cells[i] = cell{text: text}
				if x.Formatted {
					if text != "" {
						cells[i].value = text
					}
					continue
				}
				if cells[i].value, err = typer.value(i+1, rowNum, text); err != nil {
					return err
				}
			}
			more, err := fn(rowNum, cells)
			if err != nil || !more {
				return err
			}
		}
		return rows.Error()
	}
}

// Columns implements Codec.
func (x Excel) Columns(path string, q Query) ([]string, error) {
	names, err := columns(x.scanner(path, q.Sheet), q)
	if err != nil {
		return nil, NewSheetError(path, q.Sheet, "columns", err)
	}
	return names, nil
}

// Rows implements Codec.
func (x Excel) Rows(ctx context.Context, path string, q Query) iter.Seq2[models.Row, error] {
	return func(yield func(models.Row, error) bool) {
		for row, err := range rows(ctx, x.scanner(path, q.Sheet), q) {
			if err != nil {
				err = NewSheetError(path, q.Sheet, "rows", err)
			}
			if !yield(row, err) {
				return
			}
		}
	}
}

// CheckSheetName reports whether name is usable as an .xlsx sheet name,
// returning the matching excelize sheet-name error when it is not.
func CheckSheetName(name string) error {
	switch {
	case name == "":
		return excelize.ErrSheetNameBlank
	case utf8.RuneCountInString(name) > excelize.MaxSheetNameLength:
		return excelize.ErrSheetNameLength
	case strings.HasPrefix(name, "'"), strings.HasSuffix(name, "'"):
		return excelize.ErrSheetNameSingleQuote
	case strings.ContainsAny(name, `:\/?*[]`):
		return excelize.ErrSheetNameInvalid
	}
	return nil
}

// SaveAll implements Codec. Every sheet is streamed into one in-memory
// workbook which is then written in a single batch.
func (x Excel) SaveAll(path string, sheets []models.Sheet, overwrite bool) error {
	if len(sheets) == 0 {
		return ErrNoSheets
	}
	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range sheets {
		if err := x.writeSheet(f, i, sheet); err != nil {
			return NewSheetError(path, sheet.Name, "save", err)
		}
	}
	f.SetActiveSheet(0)

	return writeAtomic(path, overwrite, func(w io.Writer) error {
		_, err := f.WriteTo(w)
		return err
	})
}

func (Excel) writeSheet(f *excelize.File, index int, sheet models.Sheet) error {
	// A new file already holds one default sheet
	if index == 0 {
		if err := f.SetSheetName(f.GetSheetName(0), sheet.Name); err != nil {
			return err
		}
	} else if _, err := f.NewSheet(sheet.Name); err != nil {
		return err
	}

	sw, err := f.NewStreamWriter(sheet.Name)
	if err != nil {
		return err
	}
	header := make([]any, len(sheet.Columns))
	for i, name := range sheet.Columns {
		header[i] = name
	}
	if err := sw.SetRow("A1", header); err != nil {
		return err
	}
	for i, values := range sheet.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, values); err != nil {
			return err
		}
	}
	return sw.Flush()
}

// Resave implements Resaver.
func (x Excel) Resave(src, dst string) (err error) {
	f, err := x.open(src)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()
	if dst == "" {
		dst = src
	}
	return writeAtomic(dst, true, func(w io.Writer) error {
		_, err := f.WriteTo(w)
		return err
	})
}
