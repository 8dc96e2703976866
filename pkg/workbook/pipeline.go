package workbook

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/ukaji3/workbook-go/pkg/workbook/codec"
)

// Pipeline runs imports, exports and saves against a codec and reports
// diagnostics to a sink. A Pipeline is one run: the schema tracker it
// holds spans every import made through it. It is not safe for
// concurrent use.
type Pipeline struct {
	// Codec reads and writes spreadsheet files.
	Codec codec.Codec
	// Sink receives diagnostics. Nil discards them.
	Sink Sink
	// RunID identifies the run in diagnostics and logs.
	RunID string

	schema SchemaTracker
}

// New returns a pipeline using c, or codec.Auto when c is nil.
func New(c codec.Codec, sink Sink) *Pipeline {
	if c == nil {
		c = codec.Auto{}
	}
	return &Pipeline{
		Codec: c,
		Sink:  sink,
		RunID: uuid.NewString(),
	}
}

func (p *Pipeline) emit(d Diagnostic) {
	if p.Sink != nil {
		p.Sink.Emit(d)
	}
}

func (p *Pipeline) debugf(source, format string, args ...any) {
	p.emit(Diagnostic{Level: LevelDebug, Source: source, Message: fmt.Sprintf(format, args...)})
}

func (p *Pipeline) verbosef(source, format string, args ...any) {
	p.emit(Diagnostic{Level: LevelVerbose, Source: source, Message: fmt.Sprintf(format, args...)})
}

// report emits a non-terminating error diagnostic.
func (p *Pipeline) report(source string, d Diagnostic) {
	d.Source = source
	d.Level = LevelError
	p.emit(d)
}

// terminate emits a terminating error diagnostic and returns it as an error.
func (p *Pipeline) terminate(source string, d Diagnostic) error {
	d.Source = source
	d.Level = LevelError
	d.Terminating = true
	p.emit(d)
	return &Error{Diagnostic: d}
}

// fail classifies a failure identified by id.
func fail(kind Kind, dir Direction, id, target, format string, args ...any) Diagnostic {
	msg := fmt.Sprintf(format, args...)
	return Classify(Failure{
		Kind:      kind,
		Direction: dir,
		ID:        id,
		Message:   msg,
		Target:    target,
		Err:       errors.New(msg),
	})
}

// resolveFile returns the absolute path of an existing regular file.
func resolveFile(path string) (string, Diagnostic, bool) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", ClassifyError(err, Read, IDInvalidParameter, path), false
	}
	info, err := os.Stat(abs)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return "", fail(KindNotFound, Read, IDFileNotFound, abs, "spreadsheet file not found: %s", abs), false
	case err != nil:
		return "", ClassifyError(err, Read, "", abs), false
	case info.IsDir():
		return "", fail(KindInvalidArgument, Read, IDInvalidParameter, abs, "%s is a directory, not a spreadsheet file", abs), false
	}
	return abs, Diagnostic{}, true
}

// checkExtension classifies an unsupported extension.
func checkExtension(path string, dir Direction) (string, Diagnostic, bool) {
	ext, err := codec.Extension(path)
	if err != nil {
		return ext, Classify(Failure{
			Kind:      KindInvalidArgument,
			Direction: dir,
			ID:        IDUnsupportedFileType,
			Message:   fmt.Sprintf("unsupported file type %q for %q", ext, path),
			Target:    path,
			Err:       err,
		}), false
	}
	return ext, Diagnostic{}, true
}

// dirExists reports whether dir exists and is a directory.
func dirExists(dir string) bool {
	info, err := os.Stat(dir)
	return err == nil && info.IsDir()
}

// fileExists reports whether anything exists at path.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
