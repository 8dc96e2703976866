package codec

import (
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// cellTyper converts raw cell text to a value according to the cell's
// stored type and number format.
type cellTyper struct {
	f        *excelize.File
	sheet    string
	date1904 bool
	// dates caches whether a style id carries a date number format
	dates map[int]bool
}

func newCellTyper(f *excelize.File, sheet string) *cellTyper {
	t := &cellTyper{f: f, sheet: sheet, dates: make(map[int]bool)}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		t.date1904 = *props.Date1904
	}
	return t
}

// value returns the typed value of the cell at col, row holding the raw
// text. Empty cells are nil.
func (t *cellTyper) value(col, row int, text string) (any, error) {
	if text == "" {
		return nil, nil
	}
	ref, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return nil, err
	}
	typ, err := t.f.GetCellType(t.sheet, ref)
	if err != nil {
		return nil, err
	}

	switch typ {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString,
		excelize.CellTypeFormula, excelize.CellTypeError:
		return text, nil
	case excelize.CellTypeBool:
		return text == "1" || strings.EqualFold(text, "true"), nil
	case excelize.CellTypeDate:
		if tm, err := time.Parse(time.RFC3339Nano, text); err == nil {
			return tm, nil
		}
		return text, nil
	}

	// Unset or numeric: a number, possibly formatted as a date
	v := parseValue(text)
	var serial float64
	switch n := v.(type) {
	case int64:
		serial = float64(n)
	case float64:
		serial = n
	default:
		return v, nil
	}
	isDate, err := t.isDate(ref)
	if err != nil || !isDate {
		return v, err
	}
	tm, err := excelize.ExcelDateToTime(serial, t.date1904)
	if err != nil {
		return v, nil
	}
	return tm, nil
}

// isDate reports whether the cell's number format displays a date or time.
func (t *cellTyper) isDate(ref string) (bool, error) {
	styleID, err := t.f.GetCellStyle(t.sheet, ref)
	if err != nil {
		return false, err
	}
	if isDate, ok := t.dates[styleID]; ok {
		return isDate, nil
	}
	style, err := t.f.GetStyle(styleID)
	if err != nil {
		return false, err
	}
	isDate := false
	switch {
	case style.CustomNumFmt != nil:
		isDate = isDateFormat(*style.CustomNumFmt)
	default:
		isDate = isBuiltInDateFormat(style.NumFmt)
	}
	t.dates[styleID] = isDate
	return isDate, nil
}

// isBuiltInDateFormat reports whether a built-in number format id is a
// date or time format, including the CJK ranges.
func isBuiltInDateFormat(id int) bool {
	switch {
	case id >= 14 && id <= 22, id >= 27 && id <= 36, id >= 45 && id <= 47, id >= 50 && id <= 58:
		return true
	default:
		return false
	}
}

// isDateFormat reports whether a custom number format code contains date
// or time tokens outside quoted literals and bracketed sections.
func isDateFormat(code string) bool {
	// Only the positive section decides
	if i := strings.IndexByte(code, ';'); i >= 0 {
		code = code[:i]
	}
	quoted, bracket := false, false
	for i := 0; i < len(code); i++ {
		c := code[i]
		switch {
		case c == '"':
			quoted = !quoted
		case quoted:
		case c == '\\':
			i++
		case c == '[':
			bracket = true
		case c == ']':
			bracket = false
		case bracket:
		default:
			switch c | 0x20 {
			case 'y', 'd', 'h', 's', 'm':
				return true
			}
		}
	}
	return false
}
