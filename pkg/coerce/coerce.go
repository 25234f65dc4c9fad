// Package coerce turns raw widget change events into the values stored in the
// form's values mapping.
package coerce

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-formkit/pkg/model"
)

// Text stores the raw input verbatim. A nil input yields null.
func Text(raw *string) model.Value {
	if raw == nil {
		return model.Null()
	}
	return model.String(*raw)
}

// Number strips every '-' from the input and parses the leading decimal
// digits. Empty input, nil input, input without leading digits and digit runs
// beyond the float64 range yield null, so the result is always a finite
// non-negative integer or null.
func Number(raw *string) model.Value {
	if raw == nil || *raw == "" {
		return model.Null()
	}
	digits := leadingDigits(strings.ReplaceAll(*raw, "-", ""))
	if digits == "" {
		return model.Null()
	}
	n, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		return model.Null()
	}
	return model.Number(n)
}

// Rating stores the reported number, or null when the rating was cleared.
func Rating(raw *float64) model.Value {
	if raw == nil {
		return model.Null()
	}
	return model.Number(*raw)
}

// For coerces an untyped raw event according to the field type. Strings feed
// text, password and number fields; numbers feed ratings. Unsupported
// combinations yield null.
func For(fieldType model.FieldType, raw any) model.Value {
	switch fieldType {
	case model.FieldTypeText, model.FieldTypePassword:
		return Text(stringPtr(raw))
	case model.FieldTypeNumber:
		return Number(stringPtr(raw))
	case model.FieldTypeRating:
		return Rating(floatPtr(raw))
	default:
		return model.Null()
	}
}

func leadingDigits(s string) string {
	s = strings.TrimLeft(s, " \t\n\r\v\f")
	s = strings.TrimPrefix(s, "+")
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	return s[:end]
}

func stringPtr(raw any) *string {
	switch typed := raw.(type) {
	case string:
		return &typed
	case *string:
		return typed
	default:
		return nil
	}
}

func floatPtr(raw any) *float64 {
	switch typed := raw.(type) {
	case float64:
		return &typed
	case *float64:
		return typed
	case int:
		f := float64(typed)
		return &f
	default:
		return nil
	}
}
