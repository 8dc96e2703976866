package codec

import (
	"errors"
	"fmt"
)

// ErrUnsupportedFileType indicates a path whose extension is not one of
// AcceptedExtensions.
var ErrUnsupportedFileType = errors.New("unsupported file type")

// ErrNoRows indicates a sheet without any row inside the requested range.
var ErrNoRows = errors.New("no rows found")

// ErrUnknownContainer indicates content that is not a readable workbook
// even though the extension is accepted.
var ErrUnknownContainer = errors.New("cannot determine container type from stream")

// ErrTooManySheets indicates a multi-sheet save to a single-sheet format.
var ErrTooManySheets = errors.New("csv destination holds a single sheet")

// ErrNoSheets indicates a save without any sheet.
var ErrNoSheets = errors.New("no sheets to save")

// ErrDestinationExists indicates a save that would replace a file without
// the overwrite option.
var ErrDestinationExists = errors.New("destination already exists")

// ErrInvalidRange indicates a malformed or inverted start/end cell pair.
var ErrInvalidRange = errors.New("invalid cell range")

// SheetError represents an error while reading or writing one sheet.
type SheetError struct {
	Path      string
	SheetName string
	Op        string // "columns", "rows", "save"
	Err       error
}

func (e *SheetError) Error() string {
	return fmt.Sprintf("%s sheet %q in %s: %v", e.Op, e.SheetName, e.Path, e.Err)
}

func (e *SheetError) Unwrap() error {
	return e.Err
}

// NewSheetError creates a new SheetError.
func NewSheetError(path, sheetName, op string, err error) *SheetError {
	return &SheetError{
		Path:      path,
		SheetName: sheetName,
		Op:        op,
		Err:       err,
	}
}
