// Package models defines the data structures that flow through the
// workbook import and export pipeline.
package models

// Field is a single named cell value.
type Field struct {
	// Name is the column name (header text, or column letter without headers).
	Name string `json:"name"`
	// Value is nil, string, int64, float64, bool or time.Time.
	Value any `json:"value"`
}

// Row is one row as produced by a codec, in column order.
type Row []Field

// Names returns the column names of the row in order.
func (r Row) Names() []string {
	names := make([]string, len(r))
	for i, f := range r {
		names[i] = f.Name
	}
	return names
}

// IsBlank reports whether every value in the row is nil.
// A row without columns is blank.
func (r Row) IsBlank() bool {
	for _, f := range r {
		if f.Value != nil {
			return false
		}
	}
	return true
}
