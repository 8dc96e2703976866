package codec

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"iter"
	"os"

	"github.com/ukaji3/workbook-go/pkg/workbook/models"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// CSVSheetName is the name reported for the single sheet of a CSV file.
const CSVSheetName = "Sheet1"

// CSV reads and writes comma separated files as single-sheet workbooks.
type CSV struct {
	// Comma is the field delimiter (default ',').
	Comma rune
}

func (c CSV) comma() rune {
	if c.Comma == 0 {
		return ','
	}
	return c.Comma
}

// SheetNames implements Codec.
func (CSV) SheetNames(path string) ([]string, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	return []string{CSVSheetName}, nil
}

func (c CSV) scanner(path string) scanFunc {
	return func(fn func(int, []cell) (bool, error)) (err error) {
		file, err := os.Open(path)
		if err != nil {
			return err
		}
		defer func() {
			err = errors.Join(err, file.Close())
		}()

		// Honour a UTF-8 or UTF-16 byte order mark, defaulting to UTF-8
		decoded := transform.NewReader(file, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
		reader := csv.NewReader(decoded)
		reader.Comma = c.comma()
		reader.FieldsPerRecord = -1
		reader.LazyQuotes = true

		for rowNum := 1; ; rowNum++ {
			record, err := reader.Read()
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return err
			}
			more, err := fn(rowNum, textCells(record))
			if err != nil || !more {
				return err
			}
		}
	}
}

// Columns implements Codec.
func (c CSV) Columns(path string, q Query) ([]string, error) {
	names, err := columns(c.scanner(path), q)
	if err != nil {
		return nil, NewSheetError(path, CSVSheetName, "columns", err)
	}
	return names, nil
}

// Rows implements Codec.
func (c CSV) Rows(ctx context.Context, path string, q Query) iter.Seq2[models.Row, error] {
	return func(yield func(models.Row, error) bool) {
		for row, err := range rows(ctx, c.scanner(path), q) {
			if err != nil {
				err = NewSheetError(path, CSVSheetName, "rows", err)
			}
			if !yield(row, err) {
				return
			}
		}
	}
}

// SaveAll implements Codec. A CSV file holds exactly one sheet.
func (c CSV) SaveAll(path string, sheets []models.Sheet, overwrite bool) error {
	switch {
	case len(sheets) == 0:
		return ErrNoSheets
	case len(sheets) > 1:
		return ErrTooManySheets
	}
	sheet := sheets[0]

	return writeAtomic(path, overwrite, func(w io.Writer) error {
		cw := csv.NewWriter(w)
		cw.Comma = c.comma()
		if err := cw.Write(sheet.Columns); err != nil {
			return err
		}
		record := make([]string, len(sheet.Columns))
		for _, values := range sheet.Rows {
			record = record[:0]
			for _, v := range values {
				record = append(record, formatValue(v))
			}
			if err := cw.Write(record); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	})
}

// Resave implements Resaver by copying the file.
func (CSV) Resave(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, in.Close())
	}()
	if dst == "" {
		// Rewriting a CSV file in place leaves it unchanged
		return nil
	}
	return writeAtomic(dst, true, func(w io.Writer) error {
		_, err := io.Copy(w, in)
		return err
	})
}
