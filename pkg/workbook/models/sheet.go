package models

// Sheet is the shape handed to a codec when saving: a named table with a
// header row and data rows aligned to it.
type Sheet struct {
	// Name is the sheet name.
	Name string `json:"name"`
	// Columns is the header row.
	Columns []string `json:"columns"`
	// Rows contains one value per column for every data row.
	Rows [][]any `json:"rows"`
}
