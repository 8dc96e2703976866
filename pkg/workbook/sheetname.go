package workbook

import (
	"math"
	"strconv"
)

// DefaultSheetName is the base sheet name used by export.
const DefaultSheetName = "Sheet1"

// SheetName returns the name of the sheet at a zero-based index for the
// given base name. Index 0 is the base itself. Later sheets continue the
// base's trailing number, or count from 1 when it has none:
//
//	SheetName("Data9", 1) == "Data10"
//	SheetName("Sheet", 1) == "Sheet2"
//
// Each name is derived from the base alone, so the result does not depend
// on call order.
func SheetName(base string, index int) string {
	if index == 0 {
		return base
	}
	prefix, start := splitNumericSuffix(base)
	if start > math.MaxInt-index {
		// The continued number does not fit; count from 1 instead
		prefix, start = base, 1
	}
	return prefix + strconv.Itoa(start+index)
}

// splitNumericSuffix splits the maximal run of trailing decimal digits off
// name. Without a usable suffix the prefix is name and the start is 1.
func splitNumericSuffix(name string) (prefix string, start int) {
	i := len(name)
	for i > 0 && name[i-1] >= '0' && name[i-1] <= '9' {
		i--
	}
	if i < len(name) {
		if n, err := strconv.Atoi(name[i:]); err == nil {
			return name[:i], n
		}
	}
	return name, 1
}
