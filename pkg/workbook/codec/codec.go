// Package codec reads and writes spreadsheet files. It hides the container
// format behind Codec so the pipeline only deals with named rows.
package codec

import (
	"context"
	"fmt"
	"iter"
	"path/filepath"
	"slices"
	"strings"

	"github.com/ukaji3/workbook-go/pkg/workbook/models"
)

// AcceptedExtensions lists the file extensions the codecs understand.
var AcceptedExtensions = []string{".xlsx", ".csv"}

// Query selects the part of a sheet to read.
type Query struct {
	// Sheet is the sheet name; empty selects the first sheet.
	Sheet string
	// HasHeader uses the first row in range as column names.
	// Without it columns are named by letter (A, B, ...).
	HasHeader bool
	// StartCell is the top-left cell of the range (default A1).
	StartCell string
	// EndCell is the optional bottom-right cell of the range.
	EndCell string
}

// Codec is a spreadsheet file format.
type Codec interface {
	// SheetNames lists the sheets of the file in workbook order.
	SheetNames(path string) ([]string, error)
	// Columns returns the column names of the queried range.
	Columns(path string, q Query) ([]string, error)
	// Rows lazily streams the data rows of the queried range.
	// The file stays open until iteration ends.
	Rows(ctx context.Context, path string, q Query) iter.Seq2[models.Row, error]
	// SaveAll writes every sheet to path in a single batch.
	SaveAll(path string, sheets []models.Sheet, overwrite bool) error
}

// Resaver is implemented by codecs that can rewrite an existing file,
// either in place (empty dst) or to a new destination.
type Resaver interface {
	Resave(src, dst string) error
}

// Extension returns the lower-cased extension of path if it is accepted.
func Extension(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !slices.Contains(AcceptedExtensions, ext) {
		return ext, fmt.Errorf("%w %q for %q", ErrUnsupportedFileType, ext, path)
	}
	return ext, nil
}

// Auto dispatches to Excel or CSV by file extension.
type Auto struct {
	Excel Excel
	CSV   CSV
}

// For returns the codec handling path.
func (a Auto) For(path string) (Codec, error) {
	ext, err := Extension(path)
	if err != nil {
		return nil, err
	}
	if ext == ".csv" {
		return a.CSV, nil
	}
	return a.Excel, nil
}

// SheetNames implements Codec.
func (a Auto) SheetNames(path string) ([]string, error) {
	c, err := a.For(path)
	if err != nil {
		return nil, err
	}
	return c.SheetNames(path)
}

// Columns implements Codec.
func (a Auto) Columns(path string, q Query) ([]string, error) {
	c, err := a.For(path)
	if err != nil {
		return nil, err
	}
	return c.Columns(path, q)
}

// Rows implements Codec.
func (a Auto) Rows(ctx context.Context, path string, q Query) iter.Seq2[models.Row, error] {
	c, err := a.For(path)
	if err != nil {
		return func(yield func(models.Row, error) bool) { yield(nil, err) }
	}
	return c.Rows(ctx, path, q)
}

// SaveAll implements Codec.
func (a Auto) SaveAll(path string, sheets []models.Sheet, overwrite bool) error {
	c, err := a.For(path)
	if err != nil {
		return err
	}
	return c.SaveAll(path, sheets, overwrite)
}

// Resave implements Resaver. The source and destination must share a format.
func (a Auto) Resave(src, dst string) error {
	c, err := a.For(src)
	if err != nil {
		return err
	}
	if dst != "" {
		srcExt, _ := Extension(src)
		dstExt, err := Extension(dst)
		if err != nil {
			return err
		}
		if srcExt != dstExt {
			return fmt.Errorf("%w: cannot convert %s to %s", ErrUnsupportedFileType, srcExt, dstExt)
		}
	}
	r, ok := c.(Resaver)
	if !ok {
		return fmt.Errorf("resave %s: %w", src, ErrUnsupportedFileType)
	}
	return r.Resave(src, dst)
}
