// Package workbook imports spreadsheet rows as ordered records and exports
// records into spreadsheet sheets.
package workbook

import (
	"strings"

	"github.com/ukaji3/workbook-go/pkg/workbook/codec"
)

// ImportRequest configures an import run.
type ImportRequest struct {
	// Paths are the files to import, in order.
	Paths []string
	// Sheet is the sheet to import, matched case-insensitively.
	// Empty imports the first sheet.
	Sheet string
	// NoHeaders names columns by letter instead of using the first row.
	NoHeaders bool
	// StartCell is the top-left cell to read from (default A1).
	StartCell string
	// EndCell optionally bounds the range at the bottom-right.
	EndCell string
	// IncludeEmptyRows keeps rows whose values are all empty.
	IncludeEmptyRows bool
}

// query returns the codec query for one resolved sheet.
func (r ImportRequest) query(sheet string) codec.Query {
	return codec.Query{
		Sheet:     sheet,
		HasHeader: !r.NoHeaders,
		StartCell: r.StartCell,
		EndCell:   r.EndCell,
	}
}

// ExportRequest configures an export run.
type ExportRequest struct {
	// Destination is the file to write.
	Destination string
	// SheetName is the base name of the written sheets.
	// If empty, defaults to DefaultSheetName.
	SheetName string
	// Force allows replacing an existing file and creating missing
	// parent directories.
	Force bool
}

// BaseSheetName returns the base sheet name to use.
func (r ExportRequest) BaseSheetName() string {
	if r.SheetName == "" {
		return DefaultSheetName
	}
	return r.SheetName
}

// SaveRequest configures a save run.
type SaveRequest struct {
	// Sources are the workbooks to save.
	Sources []string
	// Destination is an optional target path. If empty, every source is
	// saved in place. Only valid with a single source.
	Destination string
	// Force allows replacing an existing destination and creating missing
	// parent directories.
	Force bool
}

// blank reports whether s is empty or whitespace.
func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
