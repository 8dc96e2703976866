package codec

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// parseValue attempts to parse a raw cell string as a number.
// Returns nil for an empty cell, int64 for integers, float64 for decimals,
// or the original string.
func parseValue(s string) any {
	if s == "" {
		return nil
	}
	// Try integer first
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	// Try float; "NaN" and "Inf" spelled out in a cell stay text
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return f
	}
	return s
}

// formatValue renders a record value as cell text for text-only formats.
func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case time.Time:
		return val.Format(time.RFC3339)
	default:
		return fmt.Sprint(val)
	}
}
