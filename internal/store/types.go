package store

import (
	"fmt"

	"gremlinbridge/internal/table"
)

type sqlType string

const (
	typeBoolean sqlType = "BOOLEAN"
	typeBigint  sqlType = "BIGINT"
	typeDouble  sqlType = "DOUBLE"
	typeVarchar sqlType = "VARCHAR"
)

// inferType picks the narrowest type holding every non-null value. Integers mixed with
// floats widen to DOUBLE; anything else mixed falls back to VARCHAR.
func inferType(values []any) sqlType {
	var bools, ints, floats, other int
	for _, v := range values {
		if table.IsNull(v) {
			continue
		}
		switch v.(type) {
		case bool:
			bools++
		case int, int32, int64:
			ints++
		case float32, float64:
			floats++
		default:
			other++
		}
	}
	switch {
	case other > 0:
		return typeVarchar
	case bools > 0 && ints+floats == 0:
		return typeBoolean
	case bools > 0:
		return typeVarchar
	case floats > 0:
		return typeDouble
	case ints > 0:
		return typeBigint
	default:
		return typeVarchar
	}
}

func (t sqlType) convert(v any) any {
	if table.IsNull(v) {
		return nil
	}
	switch t {
	case typeBigint:
		switch x := v.(type) {
		case int:
			return int64(x)
		case int32:
			return int64(x)
		}
	case typeDouble:
		switch x := v.(type) {
		case int:
			return float64(x)
		case int32:
			return float64(x)
		case int64:
			return float64(x)
		case float32:
			return float64(x)
		}
	case typeVarchar:
		if s, ok := v.(string); ok {
			return s
		}
		return fmt.Sprint(v)
	}
	return v
}
