package formcheck

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/tidwall/gjson"
)

// Value is the canonical shape of a submitted value. Only Null, String,
// Number, Bool, List and Map implement it; every rule and condition works on
// a Value produced by FromAny, never on the raw submitted representation.
type Value interface {
	value() // sealed
}

// Null is an absent value.
type Null struct{}

func (Null) value() {}

// MarshalJSON implements json.Marshaler.
func (Null) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}

// String is a text value.
type String string

func (String) value() {}

// Number is a numeric value. Integers and floats share one representation so
// comparisons behave the same regardless of how the wire encoded them.
type Number float64

func (Number) value() {}

// Bool is a boolean value.
type Bool bool

func (Bool) value() {}

// List is an ordered list of values, such as the rows of a table field.
type List []Value

func (List) value() {}

// Map is a keyed map of values, such as a phone composite or a grid row.
type Map map[string]Value

func (Map) value() {}

// Get returns the value under key, or Null when the key is missing.
func (m Map) Get(key string) Value {
	if m == nil {
		return Null{}
	}
	v, ok := m[key]
	if !ok || v == nil {
		return Null{}
	}
	return v
}

// FromAny normalizes a native Go value or a wire-decoded value into a Value.
//
// Supported inputs include nil, Value, every scalar kind, json.Number,
// json.RawMessage, gjson.Result, and arbitrary slices and string-keyed maps.
// Anything else is rendered with fmt and treated as a String.
func FromAny(v any) Value {
	switch x := v.(type) {
	case nil:
		return Null{}
	case Value:
		return normalize(x)
	case string:
		return String(x)
	case bool:
		return Bool(x)
	case int:
		return Number(x)
	case int8:
		return Number(x)
	case int16:
		return Number(x)
	case int32:
		return Number(x)
	case int64:
		return Number(x)
	case uint:
		return Number(x)
	case uint8:
		return Number(x)
	case uint16:
		return Number(x)
	case uint32:
		return Number(x)
	case uint64:
		return Number(x)
	case float32:
		return Number(x)
	case float64:
		return Number(x)
	case json.Number:
		if f, err := x.Float64(); err == nil {
			return Number(f)
		}
		return String(x.String())
	case json.RawMessage:
		return FromJSON(x)
	case gjson.Result:
		return FromResult(x)
	case []any:
		out := make(List, len(x))
		for i, item := range x {
			out[i] = FromAny(item)
		}
		return out
	case []string:
		out := make(List, len(x))
		for i, item := range x {
			out[i] = String(item)
		}
		return out
	case []map[string]any:
		out := make(List, len(x))
		for i, item := range x {
			out[i] = FromAny(item)
		}
		return out
	case map[string]any:
		out := make(Map, len(x))
		for k, item := range x {
			out[k] = FromAny(item)
		}
		return out
	case map[string]string:
		out := make(Map, len(x))
		for k, item := range x {
			out[k] = String(item)
		}
		return out
	}
	return fromReflect(reflect.ValueOf(v))
}

// FromJSON decodes raw JSON into a Value. Invalid JSON is Null.
func FromJSON(raw []byte) Value {
	if !gjson.ValidBytes(raw) {
		return Null{}
	}
	return FromResult(gjson.ParseBytes(raw))
}

// FromResult converts a gjson result into a Value.
func FromResult(r gjson.Result) Value {
	switch r.Type {
	case gjson.Null:
		return Null{}
	case gjson.False:
		return Bool(false)
	case gjson.True:
		return Bool(true)
	case gjson.Number:
		return Number(r.Float())
	case gjson.String:
		return String(r.String())
	case gjson.JSON:
		if r.IsArray() {
			items := r.Array()
			out := make(List, len(items))
			for i, item := range items {
				out[i] = FromResult(item)
			}
			return out
		}
		out := make(Map)
		r.ForEach(func(key, item gjson.Result) bool {
			out[key.String()] = FromResult(item)
			return true
		})
		return out
	}
	return Null{}
}

func normalize(v Value) Value {
	switch x := v.(type) {
	case nil:
		return Null{}
	case List:
		if x == nil {
			return List{}
		}
	case Map:
		if x == nil {
			return Map{}
		}
	}
	return v
}

func fromReflect(rv reflect.Value) Value {
	switch rv.Kind() {
	case reflect.Invalid:
		return Null{}
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Null{}
		}
		return FromAny(rv.Elem().Interface())
	case reflect.String:
		return String(rv.String())
	case reflect.Bool:
		return Bool(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Number(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return Number(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return Number(rv.Float())
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return Null{}
		}
		out := make(List, rv.Len())
		for i := range out {
			out[i] = FromAny(rv.Index(i).Interface())
		}
		return out
	case reflect.Map:
		if rv.IsNil() {
			return Null{}
		}
		if rv.Type().Key().Kind() != reflect.String {
			break
		}
		out := make(Map, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = FromAny(iter.Value().Interface())
		}
		return out
	}
	return String(fmt.Sprint(rv.Interface()))
}

// IsEmpty reports whether v counts as empty. Null is empty, a String is empty
// when it is blank after trimming whitespace and a List is empty when it has
// no elements. Maps, numbers and booleans are never empty.
func IsEmpty(v Value) bool {
	switch x := normalize(v).(type) {
	case Null:
		return true
	case String:
		return strings.TrimSpace(string(x)) == ""
	case List:
		return len(x) == 0
	}
	return false
}

// AsString coerces v to text. Lists, maps and Null cannot be coerced.
func AsString(v Value) (string, bool) {
	switch x := normalize(v).(type) {
	case String:
		return string(x), true
	case Number:
		return formatNumber(float64(x)), true
	case Bool:
		return strconv.FormatBool(bool(x)), true
	}
	return "", false
}

// AsNumber coerces v to a number. Strings are parsed after trimming; blank or
// non-numeric strings, booleans, lists, maps and Null cannot be coerced.
func AsNumber(v Value) (float64, bool) {
	switch x := normalize(v).(type) {
	case Number:
		return float64(x), true
	case String:
		s := strings.TrimSpace(string(x))
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// textLength counts UTF-16 code units, which is how browser runtimes measure
// string length.
func textLength(s string) int {
	return len(utf16.Encode([]rune(s)))
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// looseEqual compares two values the way a loosely-typed runtime would:
// numbers match numeric strings, booleans match "true"/"false" and Null only
// matches Null or a blank string.
func looseEqual(a, b Value) bool {
	a, b = normalize(a), normalize(b)

	switch x := a.(type) {
	case Null:
		return IsEmpty(b) && !isList(b)
	case String:
		switch y := b.(type) {
		case String:
			return x == y
		case Number:
			n, ok := AsNumber(x)
			return ok && n == float64(y)
		case Bool:
			return strings.EqualFold(strings.TrimSpace(string(x)), strconv.FormatBool(bool(y)))
		case Null:
			return IsEmpty(x)
		}
	case Number:
		switch y := b.(type) {
		case Number:
			return x == y
		case String, Null, Bool:
			return looseEqual(y, x)
		}
	case Bool:
		switch y := b.(type) {
		case Bool:
			return x == y
		case String:
			return looseEqual(y, x)
		}
	case List:
		y, ok := b.(List)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !looseEqual(x[i], y[i]) {
				return false
			}
		}
		return true
	case Map:
		y, ok := b.(Map)
		if !ok || len(x) != len(y) {
			return false
		}
		for k, xv := range x {
			yv, ok := y[k]
			if !ok || !looseEqual(xv, yv) {
				return false
			}
		}
		return true
	}
	return false
}

func isList(v Value) bool {
	_, ok := v.(List)
	return ok
}
