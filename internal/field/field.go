// Package field provides total accessors over untyped values decoded from
// third-party payloads. Every function returns a value of the requested type
// and never panics, whatever shape the input has.
package field

import (
	"encoding/json"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// AsString returns v when it is a string, otherwise fallback.
func AsString(v any, fallback string) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fallback
}

// AsNumber coerces v to a finite float64. Numeric kinds convert directly,
// strings are parsed after trimming, and booleans map to 1 and 0. Anything
// that does not yield a finite number returns fallback.
func AsNumber(v any, fallback float64) float64 {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int8:
		f = float64(n)
	case int16:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint8:
		f = float64(n)
	case uint16:
		f = float64(n)
	case uint32:
		f = float64(n)
	case uint64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return fallback
		}
		f = parsed
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return fallback
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fallback
		}
		f = parsed
	case bool:
		if n {
			return 1
		}
		return 0
	default:
		return fallback
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fallback
	}
	return f
}

// AsInt is AsNumber truncated toward zero.
func AsInt(v any, fallback int) int {
	f := AsNumber(v, math.NaN())
	if math.IsNaN(f) || f > math.MaxInt32 || f < math.MinInt32 {
		return fallback
	}
	return int(f)
}

// AsList returns v as a []T when it already is one, or when it is a slice
// or array of any element type whose elements are all of type T. Any other
// input yields an empty slice.
func AsList[T any](v any) []T {
	switch l := v.(type) {
	case nil:
		return []T{}
	case []T:
		return l
	case []any:
		out := make([]T, 0, len(l))
		for _, e := range l {
			t, ok := e.(T)
			if !ok {
				return []T{}
			}
			out = append(out, t)
		}
		return out
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return []T{}
	}
	out := make([]T, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		t, ok := rv.Index(i).Interface().(T)
		if !ok {
			return []T{}
		}
		out = append(out, t)
	}
	return out
}

// AsListItem returns list[index], or nil when index is out of range.
func AsListItem(list []any, index int) any {
	if index < 0 || index >= len(list) {
		return nil
	}
	return list[index]
}

// AsListItemString returns list[index] when it exists and is a string,
// otherwise fallback.
func AsListItemString(list []any, index int, fallback string) string {
	return AsString(AsListItem(list, index), fallback)
}
