package workbook

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ukaji3/workbook-go/pkg/workbook/models"
)

// recorder collects every diagnostic a pipeline emits.
type recorder struct {
	diags []Diagnostic
}

func (r *recorder) Emit(d Diagnostic) { r.diags = append(r.diags, d) }

// ids returns the identifiers of diagnostics at level.
func (r *recorder) ids(level Level) []string {
	var out []string
	for _, d := range r.diags {
		if d.Level == level {
			out = append(out, d.ID)
		}
	}
	return out
}

func newTestPipeline() (*Pipeline, *recorder) {
	rec := &recorder{}
	return New(nil, rec), rec
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// writeXLSX saves a workbook with one sheet per name, in order.
func writeXLSX(t *testing.T, sheets map[string][][]any, order ...string) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, name := range order {
		if i == 0 {
			require.NoError(t, f.SetSheetName("Sheet1", name))
		} else {
			_, err := f.NewSheet(name)
			require.NoError(t, err)
		}
		for r, values := range sheets[name] {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			require.NoError(t, err)
			row := values
			require.NoError(t, f.SetSheetRow(name, cell, &row))
		}
	}
	path := filepath.Join(t.TempDir(), "book.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func record(pairs ...any) *models.Record {
	rec := models.NewRecord(len(pairs) / 2)
	for i := 0; i+1 < len(pairs); i += 2 {
		rec.Set(pairs[i].(string), pairs[i+1])
	}
	return rec
}

// importAll runs an import and returns the emitted records as field lists.
func importAll(t *testing.T, p *Pipeline, req ImportRequest) [][]models.Field {
	t.Helper()
	var out [][]models.Field
	err := p.Import(context.Background(), req, func(rec *models.Record) error {
		out = append(out, rec.Fields())
		return nil
	})
	require.NoError(t, err)
	return out
}
