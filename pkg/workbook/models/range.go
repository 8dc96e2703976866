package models

// CellRange represents 1-based cell coordinate bounds within a sheet.
// A zero R2 or C2 means the range is open in that direction.
type CellRange struct {
	// R1 is the start row (1-based).
	R1 int `json:"r1"`
	// C1 is the start column (1-based).
	C1 int `json:"c1"`
	// R2 is the end row (1-based, inclusive, 0 = unbounded).
	R2 int `json:"r2"`
	// C2 is the end column (1-based, inclusive, 0 = unbounded).
	C2 int `json:"c2"`
}

// PastEnd reports whether row r lies beyond a bounded end row.
func (a CellRange) PastEnd(r int) bool {
	return a.R2 != 0 && r > a.R2
}
