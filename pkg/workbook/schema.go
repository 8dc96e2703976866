package workbook

import (
	"fmt"
	"slices"
)

// SchemaTracker remembers the column sets seen during one pipeline run and
// warns when a sheet presents a set not seen before. Once a column set has
// been seen it is accepted for the rest of the run.
type SchemaTracker struct {
	seen [][]string
}

// Observe records columns and returns a warning when they match none of the
// previously observed sets. Matching is order sensitive. The first call
// never warns. source describes the sheet for the warning text.
func (t *SchemaTracker) Observe(source string, columns []string) *Diagnostic {
	if len(t.seen) == 0 {
		t.seen = append(t.seen, slices.Clone(columns))
		return nil
	}
	for _, known := range t.seen {
		if slices.Equal(known, columns) {
			return nil
		}
	}
	t.seen = append(t.seen, slices.Clone(columns))
	return &Diagnostic{
		Level:    LevelWarning,
		Source:   "schema",
		ID:       IDSchemaDrift,
		Category: CategoryInvalidData,
		Message:  fmt.Sprintf("%s has different columns than previously imported sheets. The resultant output may be inconsistent and not displayed correctly.", source),
		Action:   remediation[IDSchemaDrift],
		Target:   source,
	}
}

// Len returns the number of distinct column sets recorded.
func (t *SchemaTracker) Len() int {
	return len(t.seen)
}
