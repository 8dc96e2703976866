package workbook

import (
	"slices"
	"strings"

	"github.com/ukaji3/workbook-go/pkg/workbook/codec"
)

const sourceSheets = "sheets"

// SheetNames lists the sheets of a workbook in workbook order.
func (p *Pipeline) SheetNames(path string) ([]string, error) {
	resolved, d, ok := resolveFile(path)
	if !ok {
		return nil, p.terminate(sourceSheets, d)
	}
	if _, d, ok := checkExtension(resolved, Read); !ok {
		return nil, p.terminate(sourceSheets, d)
	}
	names, err := p.Codec.SheetNames(resolved)
	if err != nil {
		return nil, p.terminate(sourceSheets, ClassifyError(err, Read, "", resolved))
	}
	return names, nil
}

// CompleteSheetNames returns the sheet names of the workbook at path that
// start with prefix, ignoring case. Names containing spaces are quoted.
// Any failure yields no candidates.
func CompleteSheetNames(c codec.Codec, path, prefix string) []string {
	if c == nil || path == "" || !fileExists(path) {
		return nil
	}
	if _, err := codec.Extension(path); err != nil {
		return nil
	}
	names, err := c.SheetNames(path)
	if err != nil {
		return nil
	}

	prefix = strings.ToLower(strings.Trim(prefix, `'"`))
	var out []string
	for _, n := range names {
		if !strings.HasPrefix(strings.ToLower(n), prefix) {
			continue
		}
		if strings.Contains(n, " ") {
			n = "'" + n + "'"
		}
		out = append(out, n)
	}
	return slices.Clip(out)
}
