// Package query turns tabular rows into Gremlin mutation queries and builds the id-lookup and
// drop queries used against the remote store.
package query

import (
	"fmt"
	"strconv"
	"strings"
)

// Escape renders v as text safe to embed in a quoted query segment.
// Strings get every double quote prefixed with a backslash; other values are rendered in
// their canonical string form. Nothing else is escaped: single quotes and control
// characters pass through unchanged.
func Escape(v any) string {
	switch x := v.(type) {
	case string:
		return strings.ReplaceAll(x, `"`, `\"`)
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int8, int16, int32, int64:
		return fmt.Sprint(x)
	case uint, uint8, uint16, uint32, uint64:
		return fmt.Sprint(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}
