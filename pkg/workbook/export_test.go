package workbook

import (
	"context"
	"encoding/json"
	"errors"
	"iter"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ukaji3/workbook-go/pkg/workbook/models"
)

func itemsOf(items ...Item) iter.Seq2[Item, error] {
	return func(yield func(Item, error) bool) {
		for _, it := range items {
			if !yield(it, nil) {
				return
			}
		}
	}
}

func TestExportNoRecords(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "out.xlsx")
	p, rec := newTestPipeline()

	res, err := p.Export(context.Background(), ExportRequest{Destination: dest}, itemsOf(Item{}, NestedItem(nil)))

	require.NoError(t, err)
	assert.False(t, res.Written())
	assert.Equal(t, []string{IDNoInput}, rec.ids(LevelWarning))
	assert.NoFileExists(t, dest)
}

func TestExportSheetsRoundTrip(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "out.xlsx")
	p, _ := newTestPipeline()

	items := itemsOf(
		RecordItem(record("name", "a", "qty", int64(1))),
		RecordItem(record("name", "b", "qty", int64(2))),
		NestedItem([]any{record("id", int64(7)), "loose"}),
	)
	res, err := p.Export(context.Background(), ExportRequest{Destination: dest, SheetName: "Q4"}, items)
	require.NoError(t, err)
	assert.Equal(t, []string{"Q4", "Q5"}, res.Sheets)
	assert.Equal(t, 4, res.Rows)
	assert.Equal(t, dest, res.Path)

	names, err := p.SheetNames(dest)
	require.NoError(t, err)
	assert.Equal(t, []string{"Q4", "Q5"}, names)

	got := importAll(t, p, ImportRequest{Paths: []string{dest}, Sheet: "Q4"})
	assert.Equal(t, [][]models.Field{
		{{Name: "name", Value: "a"}, {Name: "qty", Value: int64(1)}},
		{{Name: "name", Value: "b"}, {Name: "qty", Value: int64(2)}},
	}, got)

	// The plain value has no "id" field and leaves an empty cell
	got = importAll(t, p, ImportRequest{Paths: []string{dest}, Sheet: "Q5", IncludeEmptyRows: true})
	assert.Equal(t, [][]models.Field{{{Name: "id", Value: int64(7)}}, {{Name: "id"}}}, got)
}

func TestExportRequiresForce(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "out.csv")
	require.NoError(t, os.WriteFile(dest, []byte("keep\n"), 0644))
	p, _ := newTestPipeline()

	_, err := p.Export(context.Background(), ExportRequest{Destination: dest}, itemsOf(RecordItem(record("a", 1))))
	var diagErr *Error
	require.ErrorAs(t, err, &diagErr)
	assert.Equal(t, IDPathRequiresForce, diagErr.ID)
	assert.Equal(t, CategoryWriteError, diagErr.Category)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "keep\n", string(data))

	nested := filepath.Join(dir, "sub", "out.csv")
	_, err = p.Export(context.Background(), ExportRequest{Destination: nested}, itemsOf(RecordItem(record("a", 1))))
	require.ErrorAs(t, err, &diagErr)
	assert.Equal(t, IDPathRequiresForce, diagErr.ID)
	assert.NoDirExists(t, filepath.Join(dir, "sub"))
}

func TestExportForceIsDeterministic(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "sub", "out.csv")
	p, _ := newTestPipeline()
	req := ExportRequest{Destination: dest, Force: true}
	items := func() iter.Seq2[Item, error] {
		return itemsOf(RecordItem(record("a", "x, y", "b", nil)), RecordItem(record("a", true, "b", 2.5)))
	}

	_, err := p.Export(context.Background(), req, items())
	require.NoError(t, err)
	first, err := os.ReadFile(dest)
	require.NoError(t, err)

	_, err = p.Export(context.Background(), req, items())
	require.NoError(t, err)
	second, err := os.ReadFile(dest)
	require.NoError(t, err)

	assert.Equal(t, "a,b\n\"x, y\",\ntrue,2.5\n", string(first))
	assert.Equal(t, first, second)
}

func TestExportCSVRefusesSeveralSheets(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "out.csv")
	p, _ := newTestPipeline()

	_, err := p.Export(context.Background(), ExportRequest{Destination: dest},
		itemsOf(RecordItem(record("a", 1)), NestedItem([]any{record("b", 2)})))

	var diagErr *Error
	require.ErrorAs(t, err, &diagErr)
	assert.Equal(t, IDOperationNotSupported, diagErr.ID)
	assert.NoFileExists(t, dest)
}

func TestExportFieldsNotInHeader(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "out.csv")
	p, rec := newTestPipeline()

	_, err := p.Export(context.Background(), ExportRequest{Destination: dest},
		itemsOf(RecordItem(record("a", 1)), RecordItem(record("a", 2, "extra", 3)), RecordItem(record("z", 4))))
	require.NoError(t, err)

	assert.Equal(t, []string{IDSheetFieldsNotInHeader}, rec.ids(LevelWarning))
	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "a\n1\n2\n\n", string(data))
}

func TestExportStructuredValues(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "out.csv")
	p, _ := newTestPipeline()

	_, err := p.Export(context.Background(), ExportRequest{Destination: dest},
		itemsOf(RecordItem(record("tags", []any{"a", "b"}, "meta", map[string]any{"k": 1}))))
	require.NoError(t, err)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "tags,meta\n\"[\"\"a\"\",\"\"b\"\"]\",\"{\"\"k\"\":1}\"\n", string(data))
}

func TestExportValidation(t *testing.T) {
	dir := t.TempDir()
	p, _ := newTestPipeline()
	one := itemsOf(RecordItem(record("a", 1)))
	var diagErr *Error

	_, err := p.Export(context.Background(), ExportRequest{Destination: filepath.Join(dir, "out.txt")}, one)
	require.ErrorAs(t, err, &diagErr)
	assert.Equal(t, IDUnsupportedFileType, diagErr.ID)

	_, err = p.Export(context.Background(), ExportRequest{Destination: filepath.Join(dir, "out.xlsx"), SheetName: "  "}, one)
	require.ErrorAs(t, err, &diagErr)
	assert.Equal(t, IDInvalidSheetName, diagErr.ID)

	bad := func(yield func(Item, error) bool) { yield(Item{}, errors.New("invalid character")) }
	_, err = p.Export(context.Background(), ExportRequest{Destination: filepath.Join(dir, "out.xlsx")}, bad)
	require.ErrorAs(t, err, &diagErr)
	assert.Equal(t, IDInvalidInput, diagErr.ID)
}

func TestExportJSONNumbersAreNumeric(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "out.xlsx")
	p, _ := newTestPipeline()

	items := ReadItems(strings.NewReader(`{"n":1}` + "\n" + `[1,2.5,"3"]`))
	_, err := p.Export(context.Background(), ExportRequest{Destination: dest}, items)
	require.NoError(t, err)

	f, err := excelize.OpenFile(dest)
	require.NoError(t, err)
	defer f.Close()

	for _, ref := range []struct{ sheet, cell string }{{"Sheet1", "A2"}, {"Sheet2", "A2"}, {"Sheet2", "A3"}} {
		typ, err := f.GetCellType(ref.sheet, ref.cell)
		require.NoError(t, err)
		assert.Contains(t, []excelize.CellType{excelize.CellTypeUnset, excelize.CellTypeNumber}, typ, "%s!%s", ref.sheet, ref.cell)
	}
	typ, err := f.GetCellType("Sheet2", "A4")
	require.NoError(t, err)
	assert.NotContains(t, []excelize.CellType{excelize.CellTypeUnset, excelize.CellTypeNumber}, typ)

	got := importAll(t, p, ImportRequest{Paths: []string{dest}, Sheet: "Sheet2"})
	assert.Equal(t, [][]models.Field{
		{{Name: ValueField, Value: int64(1)}},
		{{Name: ValueField, Value: 2.5}},
		{{Name: ValueField, Value: "3"}},
	}, got)
}

func TestCellValueJSONNumber(t *testing.T) {
	assert.Equal(t, int64(7), cellValue(json.Number("7")))
	assert.Equal(t, 1.5, cellValue(json.Number("1.5")))
	assert.Equal(t, 1e300, cellValue(json.Number("1e300")))
}

func TestExportInvalidSheetNameCreatesNothing(t *testing.T) {
	dir := t.TempDir()
	p, _ := newTestPipeline()

	for _, name := range []string{"Bad:Name", strings.Repeat("x", 32), "'quoted'"} {
		dest := filepath.Join(dir, "sub", "out.xlsx")
		_, err := p.Export(context.Background(), ExportRequest{Destination: dest, SheetName: name, Force: true},
			itemsOf(RecordItem(record("a", 1))))

		var diagErr *Error
		require.ErrorAs(t, err, &diagErr, name)
		assert.Equal(t, IDInvalidSheetName, diagErr.ID, name)
		assert.NoDirExists(t, filepath.Join(dir, "sub"), name)
	}

	// A later generated name may be the one that breaks the rules
	dest := filepath.Join(dir, "sub", "out.xlsx")
	base := strings.Repeat("x", 30) + "9"
	_, err := p.Export(context.Background(), ExportRequest{Destination: dest, SheetName: base, Force: true},
		itemsOf(RecordItem(record("a", 1)), NestedItem([]any{record("b", 2)})))
	var diagErr *Error
	require.ErrorAs(t, err, &diagErr)
	assert.Equal(t, strings.Repeat("x", 30)+"10", diagErr.Target)
	assert.NoDirExists(t, filepath.Join(dir, "sub"))
}

func TestExportXLSXForceIsDeterministic(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "out.xlsx")
	p, _ := newTestPipeline()
	req := ExportRequest{Destination: dest, SheetName: "Data9", Force: true}
	items := func() iter.Seq2[Item, error] {
		return itemsOf(
			RecordItem(record("name", "a", "qty", int64(1))),
			RecordItem(record("name", "b", "qty", nil)),
			NestedItem([]any{record("id", 2.5, "ok", true)}),
			RecordItem(record("name", "c", "qty", int64(3))),
		)
	}

	snapshot := func() ([]string, map[string][][]string) {
		f, err := excelize.OpenFile(dest)
		require.NoError(t, err)
		defer f.Close()
		names := f.GetSheetList()
		cells := make(map[string][][]string, len(names))
		for _, name := range names {
			rows, err := f.GetRows(name)
			require.NoError(t, err)
			cells[name] = rows
		}
		return names, cells
	}

	first, err := p.Export(context.Background(), req, items())
	require.NoError(t, err)
	names1, cells1 := snapshot()

	second, err := p.Export(context.Background(), req, items())
	require.NoError(t, err)
	names2, cells2 := snapshot()

	assert.Equal(t, []string{"Data9", "Data10", "Data11"}, names1)
	assert.Equal(t, first.Sheets, second.Sheets)
	assert.Equal(t, names1, names2)
	assert.Equal(t, cells1, cells2)
	require.Len(t, cells1["Data9"], 3)
	assert.Equal(t, [][]string{{"name", "qty"}, {"a", "1"}}, cells1["Data9"][:2])
	assert.Equal(t, [][]string{{"id", "ok"}, {"2.5", "TRUE"}}, cells1["Data10"])
}
