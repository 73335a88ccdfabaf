// Package table provides the ordered rows and tables that back a graph's node and edge data.
//
// Tables are treated as immutable: every transforming method returns a new *Table and leaves
// the receiver untouched. A nil cell value is the null marker.
package table

import (
	"fmt"
	"math"
)

// Record is an ordered column→value mapping. The zero value is an empty record ready for use.
type Record struct {
	keys   []string
	values map[string]any
}

// NewRecord builds a record from alternating key/value arguments.
// It panics on an odd argument count or a non-string key; it is meant for literals.
func NewRecord(pairs ...any) Record {
	if len(pairs)%2 != 0 {
		panic("table.NewRecord: odd number of arguments")
	}
	var r Record
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			panic(fmt.Sprintf("table.NewRecord: key %v is %T, not string", pairs[i], pairs[i]))
		}
		r.Set(key, pairs[i+1])
	}
	return r
}

// Set stores v under key. New keys are appended; existing keys keep their position.
func (r *Record) Set(key string, v any) {
	if r.values == nil {
		r.values = make(map[string]any)
	}
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = v
}

// SetDefault stores v under key only when key is absent.
func (r *Record) SetDefault(key string, v any) {
	if !r.Has(key) {
		r.Set(key, v)
	}
}

// Get returns the value stored under key.
func (r Record) Get(key string) (any, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Has reports whether key is present (even with a null value).
func (r Record) Has(key string) bool {
	_, ok := r.values[key]
	return ok
}

// Keys returns the record's keys in insertion order.
func (r Record) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Len returns the number of keys.
func (r Record) Len() int {
	return len(r.keys)
}

// Map returns an unordered copy of the record.
func (r Record) Map() map[string]any {
	out := make(map[string]any, len(r.keys))
	for _, k := range r.keys {
		out[k] = r.values[k]
	}
	return out
}

// IsNull reports whether v is a null marker: nil or a NaN float.
func IsNull(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case float64:
		return math.IsNaN(x)
	case float32:
		return math.IsNaN(float64(x))
	default:
		return false
	}
}
