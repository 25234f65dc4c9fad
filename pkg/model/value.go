package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
)

// ValueKind tags the active member of a Value.
type ValueKind uint8

const (
	KindNull ValueKind = iota
	KindString
	KindNumber
)

func (k ValueKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	default:
		return "null"
	}
}

// Value is a field value: null, a string, or a number. The zero Value is
// null. Values are comparable with ==.
type Value struct {
	kind ValueKind
	str  string
	num  float64
}

// Null returns the unset value.
func Null() Value {
	return Value{}
}

// String wraps s.
func String(s string) Value {
	return Value{kind: KindString, str: s}
}

// Number wraps n.
func Number(n float64) Value {
	return Value{kind: KindNumber, num: n}
}

// Int wraps n as a number.
func Int(n int) Value {
	return Number(float64(n))
}

func (v Value) Kind() ValueKind { return v.kind }

func (v Value) IsNull() bool { return v.kind == KindNull }

// Str returns the string member and whether it is active.
func (v Value) Str() (string, bool) {
	return v.str, v.kind == KindString
}

// Num returns the number member and whether it is active.
func (v Value) Num() (float64, bool) {
	return v.num, v.kind == KindNumber
}

// Equal reports whether both values hold the same member and payload.
func (v Value) Equal(other Value) bool {
	return v == other
}

// Text renders the value the way an input control displays it: null becomes
// the empty string and whole numbers drop their fraction.
func (v Value) Text() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return formatNumber(v.num)
	default:
		return ""
	}
}

// Interface returns nil, string or float64.
func (v Value) Interface() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return v.num
	default:
		return nil
	}
}

func (v Value) GoString() string {
	switch v.kind {
	case KindString:
		return fmt.Sprintf("model.String(%q)", v.str)
	case KindNumber:
		return fmt.Sprintf("model.Number(%s)", formatNumber(v.num))
	default:
		return "model.Null()"
	}
}

// MarshalJSON encodes null, a JSON string or a JSON number.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.str)
	case KindNumber:
		if math.IsNaN(v.num) || math.IsInf(v.num, 0) {
			return []byte("null"), nil
		}
		return json.Marshal(v.num)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts null, strings and numbers.
func (v *Value) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*v = Null()
		return nil
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return fmt.Errorf("model: decode string value: %w", err)
		}
		*v = String(s)
		return nil
	default:
		var n float64
		if err := json.Unmarshal(trimmed, &n); err != nil {
			return fmt.Errorf("model: value must be null, string or number: %s", trimmed)
		}
		*v = Number(n)
		return nil
	}
}

// ValueOf converts decoded JSON/YAML scalars into a Value.
func ValueOf(raw any) (Value, error) {
	switch typed := raw.(type) {
	case nil:
		return Null(), nil
	case Value:
		return typed, nil
	case string:
		return String(typed), nil
	case float64:
		return Number(typed), nil
	case float32:
		return Number(float64(typed)), nil
	case int:
		return Number(float64(typed)), nil
	case int64:
		return Number(float64(typed)), nil
	case json.Number:
		n, err := typed.Float64()
		if err != nil {
			return Null(), fmt.Errorf("model: parse number %q: %w", typed, err)
		}
		return Number(n), nil
	default:
		return Null(), fmt.Errorf("model: unsupported value type %T", raw)
	}
}

func formatNumber(n float64) string {
	if n == math.Trunc(n) && math.Abs(n) < 1e15 {
		return strconv.FormatInt(int64(n), 10)
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// Values maps field keys to their current value. The form core never mutates
// a Values it did not create; use With to derive updated copies.
type Values map[string]Value

// Get returns the value stored for key, or null when absent.
func (v Values) Get(key string) Value {
	if v == nil {
		return Null()
	}
	return v[key]
}

// Has reports whether key has an entry, null entries included.
func (v Values) Has(key string) bool {
	_, ok := v[key]
	return ok
}

// Clone returns a shallow copy. Values hold no references so the copy is
// independent of the receiver.
func (v Values) Clone() Values {
	out := make(Values, len(v)+1)
	for key, value := range v {
		out[key] = value
	}
	return out
}

// With returns a copy of the mapping with key set to value.
func (v Values) With(key string, value Value) Values {
	out := v.Clone()
	out[key] = value
	return out
}

// Keys returns the keys in sorted order.
func (v Values) Keys() []string {
	keys := make([]string, 0, len(v))
	for key := range v {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Plain converts the mapping into map[string]any for serialisation.
func (v Values) Plain() map[string]any {
	out := make(map[string]any, len(v))
	for key, value := range v {
		out[key] = value.Interface()
	}
	return out
}

// ValuesFromMap converts decoded JSON/YAML into Values.
func ValuesFromMap(raw map[string]any) (Values, error) {
	out := make(Values, len(raw))
	for key, item := range raw {
		value, err := ValueOf(item)
		if err != nil {
			return nil, fmt.Errorf("model: value for %q: %w", key, err)
		}
		out[key] = value
	}
	return out, nil
}
