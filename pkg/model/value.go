package model

import (
	"encoding/json"
	"math"
	"reflect"
)

// Value is a normalized option key: string, bool, int64 or float64.
// Integral numbers are always int64 so 1 decoded from YAML and 1.0 decoded
// from JSON compare equal.
type Value = any

// NormalizeValue converts a raw scalar into a Value. ok is false for nil and
// for non-scalar inputs (maps, slices, structs).
func NormalizeValue(raw any) (Value, bool) {
	switch v := raw.(type) {
	case nil:
		return nil, false
	case string:
		return v, true
	case bool:
		return v, true
	case int:
		return int64(v), true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case uint:
		return normalizeUint(uint64(v))
	case uint8:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint64:
		return normalizeUint(v)
	case float32:
		return normalizeFloat(float64(v))
	case float64:
		return normalizeFloat(v)
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i, true
		}
		f, err := v.Float64()
		if err != nil {
			return nil, false
		}
		return normalizeFloat(f)
	}
	return nil, false
}

func normalizeUint(u uint64) (Value, bool) {
	if u > math.MaxInt64 {
		return float64(u), true
	}
	return int64(u), true
}

func normalizeFloat(f float64) (Value, bool) {
	if math.IsNaN(f) {
		return nil, false
	}
	if f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64 {
		return int64(f), true
	}
	return f, true
}

// SameValue compares two values without panicking on uncomparable inputs.
// Scalars are normalized first.
func SameValue(a, b Value) bool {
	if na, ok := NormalizeValue(a); ok {
		a = na
	}
	if nb, ok := NormalizeValue(b); ok {
		b = nb
	}
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if !reflect.TypeOf(a).Comparable() || !reflect.TypeOf(b).Comparable() {
		return false
	}
	return a == b
}
