package workbook

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"time"

	"github.com/ukaji3/workbook-go/pkg/workbook/codec"
	"github.com/ukaji3/workbook-go/pkg/workbook/models"
)

const sourceExport = "export"

// ExportResult describes a completed export.
type ExportResult struct {
	// Path is the absolute destination, empty when nothing was written.
	Path string
	// Sheets lists the written sheet names in order.
	Sheets []string
	// Rows is the number of data rows written across all sheets.
	Rows int
}

// Written reports whether the export wrote a file.
func (r ExportResult) Written() bool {
	return r.Path != ""
}

// Export collects every item, splits them into sheets and writes all
// sheets to the destination in one batch. Nested collections in the input
// start sheets of their own. Without any record Export warns and writes
// nothing. Validation failures stop the export before anything is written.
func (p *Pipeline) Export(ctx context.Context, req ExportRequest, items iter.Seq2[Item, error]) (ExportResult, error) {
	if req.SheetName != "" && blank(req.SheetName) {
		return ExportResult{}, p.terminate(sourceExport, fail(KindInvalidArgument, Write, IDInvalidSheetName, req.SheetName,
			"sheet name %q is blank", req.SheetName))
	}

	var part Partitioner
	for item, err := range items {
		if err != nil {
			if ctx.Err() != nil {
				return ExportResult{}, p.terminate(sourceExport, ClassifyError(ctx.Err(), Write, IDOperationStopped, req.Destination))
			}
			return ExportResult{}, p.terminate(sourceExport, Classify(Failure{
				Kind: KindInvalidData, Direction: Read, ID: IDInvalidInput, Target: req.Destination, Err: err,
			}))
		}
		if !part.Add(item) {
			p.debugf(sourceExport, "Skipping null input object.")
		}
	}

	groups := part.Flush()
	if len(groups) == 0 {
		p.emit(Diagnostic{
			Level:   LevelWarning,
			Source:  sourceExport,
			ID:      IDNoInput,
			Message: "No objects to export.",
			Action:  remediation[IDNoInput],
			Target:  req.Destination,
		})
		return ExportResult{}, nil
	}

	path, err := filepath.Abs(req.Destination)
	if err != nil {
		return ExportResult{}, p.terminate(sourceExport, ClassifyError(err, Write, IDInvalidParameter, req.Destination))
	}
	p.debugf(sourceExport, "Exporting to spreadsheet file: %s", path)

	ext, d, ok := checkExtension(path, Write)
	if !ok {
		return ExportResult{}, p.terminate(sourceExport, d)
	}
	if ext == ".csv" && len(groups) > 1 {
		return ExportResult{}, p.terminate(sourceExport, fail(KindUnsupported, Write, IDOperationNotSupported, path,
			"%d sheets cannot be written to CSV file %q", len(groups), path))
	}

	base := req.BaseSheetName()
	names := make([]string, len(groups))
	for i := range groups {
		names[i] = SheetName(base, i)
		if ext != ".xlsx" {
			continue
		}
		if err := codec.CheckSheetName(names[i]); err != nil {
			return ExportResult{}, p.terminate(sourceExport, ClassifyError(
				fmt.Errorf("sheet name %q: %w", names[i], err), Write, IDInvalidSheetName, names[i]))
		}
	}

	// Check every precondition before touching the file system
	dir := filepath.Dir(path)
	haveDir := dirExists(dir)
	if !req.Force && (!haveDir || fileExists(path)) {
		return ExportResult{}, p.terminate(sourceExport, fail(KindIO, Write, IDPathRequiresForce, path,
			"path %q already exists or requires directory creation", path))
	}

	sheets := make([]models.Sheet, len(groups))
	result := ExportResult{Sheets: names}
	for i, group := range groups {
		name := names[i]
		sheet, dropped := toSheet(name, group)
		if dropped {
			p.emit(Diagnostic{
				Level:   LevelWarning,
				Source:  sourceExport,
				ID:      IDSheetFieldsNotInHeader,
				Message: "Records in sheet " + name + " have fields not present in its first record. Those fields are not exported.",
				Action:  remediation[IDSheetFieldsNotInHeader],
				Target:  name,
			})
		}
		sheets[i] = sheet
		result.Rows += len(sheet.Rows)
	}

	if err := ctx.Err(); err != nil {
		return ExportResult{}, p.terminate(sourceExport, ClassifyError(err, Write, IDOperationStopped, path))
	}
	if !haveDir {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return ExportResult{}, p.terminate(sourceExport, ClassifyError(err, Write, IDExportFailed, dir))
		}
	}
	if err := p.Codec.SaveAll(path, sheets, req.Force); err != nil {
		return ExportResult{}, p.terminate(sourceExport, ClassifyError(err, Write, "", path))
	}

	result.Path = path
	p.verbosef(sourceExport, "Successfully exported data to %q across %d sheets.", path, len(sheets))
	return result, nil
}

// toSheet converts a group of records into the codec's row shape. Columns
// come from the first record; missing fields become empty cells. dropped
// is true when a later record has fields outside those columns.
func toSheet(name string, group []*models.Record) (sheet models.Sheet, dropped bool) {
	columns := group[0].Names()
	known := make(map[string]bool, len(columns))
	for _, c := range columns {
		known[c] = true
	}

	rows := make([][]any, len(group))
	for i, rec := range group {
		values := make([]any, len(columns))
		for j, c := range columns {
			v, _ := rec.Get(c)
			values[j] = cellValue(v)
		}
		rows[i] = values
		if !dropped && hasUnknown(rec, known) {
			dropped = true
		}
	}
	return models.Sheet{Name: name, Columns: columns, Rows: rows}, dropped
}

func hasUnknown(rec *models.Record, known map[string]bool) bool {
	for _, n := range rec.Names() {
		if !known[n] {
			return true
		}
	}
	return false
}

// cellValue converts a record value to a value the codecs can store.
// Nil becomes an empty cell; JSON numbers become int64 or float64;
// structured values are stored as JSON text.
func cellValue(v any) any {
	switch val := v.(type) {
	case nil:
		return ""
	case string, bool, int, int64, float64, time.Time:
		return val
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return i
		}
		if f, err := val.Float64(); err == nil {
			return f
		}
		return val.String()
	default:
		data, err := json.Marshal(val)
		if err != nil {
			return ""
		}
		return string(data)
	}
}
