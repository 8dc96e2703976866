package workbook

import (
	"context"
	"os"
	"path/filepath"

	"github.com/ukaji3/workbook-go/pkg/workbook/codec"
)

const sourceSave = "save"

// Save rewrites each source workbook through the codec, in place or to
// req.Destination. A failing source is reported and the next is tried.
func (p *Pipeline) Save(ctx context.Context, req SaveRequest) error {
	if req.Destination != "" && len(req.Sources) > 1 {
		return p.terminate(sourceSave, fail(KindUnsupported, Write, IDMultipleWorkbooks, req.Destination,
			"cannot save %d workbooks to a single destination", len(req.Sources)))
	}
	resaver, ok := p.Codec.(codec.Resaver)
	if !ok {
		return p.terminate(sourceSave, fail(KindNotImplemented, Write, IDResaveNotSupported, req.Destination,
			"the codec does not support saving workbooks"))
	}

	for _, path := range req.Sources {
		if err := ctx.Err(); err != nil {
			return p.terminate(sourceSave, ClassifyError(err, Write, IDOperationStopped, path))
		}
		src, d, ok := resolveFile(path)
		if !ok {
			p.report(sourceSave, d)
			continue
		}
		if _, d, ok := checkExtension(src, Read); !ok {
			p.report(sourceSave, d)
			continue
		}

		if req.Destination == "" {
			p.debugf(sourceSave, "Saving workbook in place: %s", src)
			if err := resaver.Resave(src, ""); err != nil {
				p.report(sourceSave, ClassifyError(err, Write, IDSaveFailed, src))
				continue
			}
			p.verbosef(sourceSave, "Workbook saved to its current location: %s", src)
			continue
		}

		if err := p.saveAs(resaver, src, req); err != nil {
			p.report(sourceSave, *err)
			continue
		}
	}
	return nil
}

// saveAs writes src to the request destination after checking the force
// policy.
func (p *Pipeline) saveAs(resaver codec.Resaver, src string, req SaveRequest) *Diagnostic {
	dst, err := filepath.Abs(req.Destination)
	if err != nil {
		d := ClassifyError(err, Write, IDInvalidParameter, req.Destination)
		return &d
	}
	if _, d, ok := checkExtension(dst, Write); !ok {
		return &d
	}

	dir := filepath.Dir(dst)
	switch {
	case fileExists(dst) && !req.Force:
		d := fail(KindIO, Write, IDFileAlreadyExists, dst, "file %q already exists", dst)
		return &d
	case !dirExists(dir) && !req.Force:
		d := fail(KindNotFound, Write, IDDirectoryNotFound, dir, "directory %q does not exist", dir)
		return &d
	case !dirExists(dir):
		if err := os.MkdirAll(dir, 0755); err != nil {
			d := ClassifyError(err, Write, IDSaveFailed, dir)
			return &d
		}
	}

	p.debugf(sourceSave, "Saving workbook %s to %s", src, dst)
	if err := resaver.Resave(src, dst); err != nil {
		d := ClassifyError(err, Write, IDSaveFailed, dst)
		return &d
	}
	p.verbosef(sourceSave, "Workbook saved to: %s", dst)
	return nil
}
