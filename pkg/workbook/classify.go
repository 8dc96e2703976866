package workbook

// classify.go maps raw failures to diagnostics.
//
// A failure carries a Kind from a closed set, which selects the Category,
// and a message, which may refine the identifier: the codec reports
// unreadable files through several generic errors that are narrowed to
// UnknownFileContent here. Failures no rule identifies are blamed on the
// spreadsheet codec (CodecError) when reading and on the destination
// (ExportFailed) when writing.

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/xuri/excelize/v2"

	"github.com/ukaji3/workbook-go/pkg/workbook/codec"
)

// Kind is the closed set of failure kinds.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindInvalidArgument
	KindIO
	KindUnsupported
	KindPermission
	KindTimeout
	KindResourceExhausted
	KindNotImplemented
	KindCanceled
	KindTypeMismatch
	KindInvalidData
	KindInvalidOperation
)

// Direction tells whether a failure happened while reading or writing.
type Direction int

const (
	Read Direction = iota
	Write
)

// Category returns the diagnostic category for a failure kind.
func (k Kind) Category(dir Direction) Category {
	switch k {
	case KindNotFound:
		return CategoryObjectNotFound
	case KindInvalidArgument:
		return CategoryInvalidArgument
	case KindIO:
		if dir == Write {
			return CategoryWriteError
		}
		return CategoryReadError
	case KindPermission:
		return CategorySecurityError
	case KindTimeout:
		return CategoryOperationTimeout
	case KindResourceExhausted:
		return CategoryResourceUnavailable
	case KindNotImplemented:
		return CategoryNotImplemented
	case KindCanceled:
		return CategoryOperationStopped
	case KindTypeMismatch:
		return CategoryInvalidType
	case KindInvalidData:
		return CategoryInvalidData
	case KindInvalidOperation:
		return CategoryInvalidOperation
	default:
		// KindUnsupported included
		return CategoryNotSpecified
	}
}

// Diagnostic identifiers.
const (
	IDFileNotFound           = "FileNotFound"
	IDUnsupportedFileType    = "UnsupportedFileType"
	IDInvalidSheetName       = "InvalidSheetName"
	IDInvalidRange           = "InvalidRange"
	IDUnknownFileContent     = "UnknownFileContent"
	IDPathRequiresForce      = "PathRequiresForce"
	IDFileAlreadyExists      = "FileAlreadyExists"
	IDDirectoryNotFound      = "DirectoryNotFound"
	IDCodecError             = "CodecError"
	IDExportFailed           = "ExportFailed"
	IDSaveFailed             = "SaveFailed"
	IDMultipleWorkbooks      = "MultipleWorkbooksWithDestination"
	IDOperationNotSupported  = "OperationNotSupported"
	IDOperationStopped       = "OperationStopped"
	IDInvalidInput           = "InvalidInput"
	IDSchemaDrift            = "SchemaDrift"
	IDNoInput                = "NoInput"
	IDSheetFieldsNotInHeader = "FieldsNotInHeader"
	IDInvalidParameter       = "InvalidParameter"
	IDResaveNotSupported     = "ResaveNotSupported"
)

// remediation holds the recommended action for each identifier.
var remediation = map[string]string{
	IDFileNotFound:           "Check the file path and try again.",
	IDUnsupportedFileType:    "Use one of the supported file types: " + strings.Join(codec.AcceptedExtensions, ", "),
	IDInvalidSheetName:       "Check the sheet name and try again.",
	IDInvalidRange:           "Use cell references such as A1 or C10, with the end cell below and right of the start cell.",
	IDUnknownFileContent:     "The file may be corrupted or not a supported spreadsheet content type. Try opening the file in a spreadsheet application. If it opens, please file an issue in the workbook-go repository.",
	IDPathRequiresForce:      "Use --force to proceed with the operation.",
	IDFileAlreadyExists:      "Use --force to overwrite the existing file.",
	IDDirectoryNotFound:      "Use --force to create the directory path.",
	IDCodecError:             "Something went wrong in the underlying excelize spreadsheet codec. Please file an issue in the workbook-go repository.",
	IDExportFailed:           "Check file permissions and ensure the file is not locked by another process.",
	IDSaveFailed:             "Check file permissions and ensure the file is not locked by another process.",
	IDMultipleWorkbooks:      "Use --destination with a single workbook or save each workbook separately.",
	IDOperationNotSupported:  "CSV files hold a single sheet. Export to .xlsx to write several sheets.",
	IDOperationStopped:       "Run the operation again to completion.",
	IDInvalidInput:           "Provide records as JSON objects, one per value or line.",
	IDSchemaDrift:            "Import sheets with matching columns separately to keep the output shape consistent.",
	IDNoInput:                "Provide at least one record to export.",
	IDSheetFieldsNotInHeader: "Columns are taken from the first record of each sheet. Give every record the same fields.",
	IDInvalidParameter:       "Check the command parameters and try again.",
	IDResaveNotSupported:     "Save workbooks with a codec that can rewrite files, such as codec.Auto.",
}

// messagePattern narrows an unidentified failure by message text.
type messagePattern struct {
	pattern string
	id      string
}

// messagePatterns are matched case-insensitively with strings.Contains;
// the first match wins.
var messagePatterns = []messagePattern{
	// Empty result from the codec
	{pattern: "no rows found", id: IDUnknownFileContent},
	{pattern: "sequence contains no elements", id: IDUnknownFileContent},
	// Content the codec cannot open as a workbook
	{pattern: "cannot determine container type", id: IDUnknownFileContent},
	{pattern: "not a valid zip file", id: IDUnknownFileContent},
	{pattern: "unsupported workbook file format", id: IDUnknownFileContent},
}

// Failure is a raw failure awaiting classification.
type Failure struct {
	Kind      Kind
	Direction Direction
	// ID overrides the derived identifier when set.
	ID      string
	Message string
	Target  string
	Err     error
}

// Classify maps a failure to an Error diagnostic.
func Classify(f Failure) Diagnostic {
	msg := f.Message
	if msg == "" && f.Err != nil {
		msg = f.Err.Error()
	}

	id := f.ID
	category := f.Kind.Category(f.Direction)
	if id == "" {
		id = identify(f.Err, msg)
	}
	switch id {
	case IDUnknownFileContent:
		category = CategoryInvalidData
		msg = fmt.Sprintf("%s has a supported spreadsheet extension but the content is not recognized or unreadable (%s).", f.Target, msg)
	case "":
		if f.Direction == Write {
			id = IDExportFailed
		} else {
			id = IDCodecError
			msg = fmt.Sprintf("error reading %q: spreadsheet codec failed: %s", f.Target, msg)
		}
	}

	return Diagnostic{
		Level:    LevelError,
		ID:       id,
		Category: category,
		Message:  msg,
		Action:   remediation[id],
		Target:   f.Target,
		Err:      f.Err,
	}
}

// ClassifyError classifies err, deriving its kind from the error chain.
// id may be empty to let the error decide.
func ClassifyError(err error, dir Direction, id, target string) Diagnostic {
	return Classify(Failure{
		Kind:      KindOf(err),
		Direction: dir,
		ID:        id,
		Target:    target,
		Err:       err,
	})
}

// identify picks an identifier from well-known errors, then message patterns.
func identify(err error, msg string) string {
	var sheetErr excelize.ErrSheetNotExist
	switch {
	case err == nil:
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return IDOperationStopped
	case errors.Is(err, fs.ErrNotExist):
		return IDFileNotFound
	case errors.Is(err, codec.ErrUnsupportedFileType):
		return IDUnsupportedFileType
	case errors.Is(err, codec.ErrInvalidRange):
		return IDInvalidRange
	case errors.Is(err, codec.ErrDestinationExists):
		return IDPathRequiresForce
	case errors.Is(err, codec.ErrTooManySheets):
		return IDOperationNotSupported
	case errors.As(err, &sheetErr), isSheetNameError(err):
		return IDInvalidSheetName
	}

	lower := strings.ToLower(msg)
	for _, p := range messagePatterns {
		if strings.Contains(lower, p.pattern) {
			return p.id
		}
	}
	return ""
}

func isSheetNameError(err error) bool {
	return errors.Is(err, excelize.ErrSheetNameBlank) ||
		errors.Is(err, excelize.ErrSheetNameInvalid) ||
		errors.Is(err, excelize.ErrSheetNameLength) ||
		errors.Is(err, excelize.ErrSheetNameSingleQuote)
}

// KindOf derives the failure kind of err.
func KindOf(err error) Kind {
	var (
		sheetErr excelize.ErrSheetNotExist
		numErr   *strconv.NumError
		parseErr *csv.ParseError
		pathErr  *fs.PathError
	)
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, context.Canceled):
		return KindCanceled
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, os.ErrDeadlineExceeded):
		return KindTimeout
	case errors.Is(err, fs.ErrNotExist):
		return KindNotFound
	case errors.Is(err, fs.ErrPermission):
		return KindPermission
	case errors.Is(err, syscall.ENOSPC):
		return KindResourceExhausted
	case errors.Is(err, fs.ErrExist), errors.Is(err, codec.ErrDestinationExists):
		return KindIO
	case errors.Is(err, codec.ErrUnsupportedFileType), errors.Is(err, codec.ErrInvalidRange),
		errors.As(err, &sheetErr), isSheetNameError(err):
		return KindInvalidArgument
	case errors.Is(err, codec.ErrNoRows), errors.Is(err, codec.ErrNoSheets):
		return KindInvalidOperation
	case errors.Is(err, codec.ErrUnknownContainer), errors.Is(err, codec.ErrTooManySheets):
		return KindUnsupported
	case errors.Is(err, errors.ErrUnsupported):
		return KindNotImplemented
	case errors.As(err, &numErr), errors.As(err, &parseErr):
		return KindInvalidData
	case errors.As(err, &pathErr):
		return KindIO
	default:
		return KindUnknown
	}
}
