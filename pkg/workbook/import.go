package workbook

import (
	"context"
	"fmt"
	"iter"
	"strings"

	"github.com/ukaji3/workbook-go/pkg/workbook/codec"
	"github.com/ukaji3/workbook-go/pkg/workbook/models"
)

const sourceImport = "import"

// source is one sheet ready to stream.
type source struct {
	path  string
	label string
	query codec.Query
}

// Import streams the rows of every requested file to emit, one record at a
// time. Failures of a single file are reported to the sink and the next
// file is tried. Import returns an error only for invalid requests,
// cancellation, or an error returned by emit.
func (p *Pipeline) Import(ctx context.Context, req ImportRequest, emit func(*models.Record) error) error {
	return p.eachSource(ctx, req, func(src source) error {
		rowNum := 0
		for row, err := range p.Codec.Rows(ctx, src.path, src.query) {
			if err != nil {
				if ctx.Err() != nil {
					return p.terminate(sourceImport, ClassifyError(ctx.Err(), Read, IDOperationStopped, src.path))
				}
				p.report(sourceImport, ClassifyError(err, Read, "", src.path))
				return nil
			}
			rowNum++

			rec, ok := NormalizeRow(row, req.IncludeEmptyRows)
			if !ok {
				p.debugf(sourceImport, "Row %d in %s is empty. Skipping. Include empty rows to keep it.", rowNum, src.label)
				continue
			}
			if err := emit(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// ImportRaw hands each file's unnormalized row stream to emit. Rows are
// neither filtered nor tagged; the stream reads lazily as emit consumes it.
func (p *Pipeline) ImportRaw(ctx context.Context, req ImportRequest, emit func(path string, rows iter.Seq2[models.Row, error]) error) error {
	return p.eachSource(ctx, req, func(src source) error {
		return emit(src.path, p.Codec.Rows(ctx, src.path, src.query))
	})
}

// eachSource prepares every requested file and calls fn for the ones that
// pass validation.
func (p *Pipeline) eachSource(ctx context.Context, req ImportRequest, fn func(source) error) error {
	if _, err := codec.ParseRange(req.StartCell, req.EndCell); err != nil {
		return p.terminate(sourceImport, ClassifyError(err, Read, IDInvalidRange, req.StartCell+":"+req.EndCell))
	}

	for _, path := range req.Paths {
		if err := ctx.Err(); err != nil {
			return p.terminate(sourceImport, ClassifyError(err, Read, IDOperationStopped, path))
		}
		src, ok := p.prepare(path, req)
		if !ok {
			continue
		}
		if err := fn(src); err != nil {
			return err
		}
	}
	return nil
}

// prepare resolves and validates one file, checks its columns against the
// schema tracker, and returns the source to stream.
func (p *Pipeline) prepare(path string, req ImportRequest) (source, bool) {
	resolved, d, ok := resolveFile(path)
	if !ok {
		p.report(sourceImport, d)
		return source{}, false
	}
	p.debugf(sourceImport, "Importing workbook: %s", resolved)

	if _, d, ok := checkExtension(resolved, Read); !ok {
		p.report(sourceImport, d)
		return source{}, false
	}

	sheet := ""
	if blank(req.Sheet) {
		p.debugf(sourceImport, "No sheet name provided. Importing the first sheet from %q.", resolved)
	} else {
		names, err := p.Codec.SheetNames(resolved)
		if err != nil {
			p.report(sourceImport, ClassifyError(err, Read, "", resolved))
			return source{}, false
		}
		var found bool
		if sheet, found = matchSheet(names, req.Sheet); !found {
			p.report(sourceImport, fail(KindInvalidArgument, Read, IDInvalidSheetName, req.Sheet,
				"sheet %q does not exist in the %q workbook", req.Sheet, resolved))
			return source{}, false
		}
	}

	src := source{
		path:  resolved,
		label: fmt.Sprintf("sheet %q in %q", sheet, resolved),
		query: req.query(sheet),
	}
	if sheet == "" {
		src.label = fmt.Sprintf("first sheet in %q", resolved)
	}

	columns, err := p.Codec.Columns(resolved, src.query)
	if err != nil {
		p.report(sourceImport, ClassifyError(err, Read, "", resolved))
		return source{}, false
	}
	if warn := p.schema.Observe(src.label, columns); warn != nil {
		p.emit(*warn)
	}
	return src, true
}

// matchSheet finds name among names ignoring case and returns the stored
// spelling.
func matchSheet(names []string, name string) (string, bool) {
	for _, n := range names {
		if strings.EqualFold(n, name) {
			return n, true
		}
	}
	return "", false
}
