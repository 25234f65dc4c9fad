package model

import "strings"

// FieldType identifies which widget and coercion rule a field uses. The set is
// open: unknown types are rendered as an inline marker rather than rejected.
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypePassword FieldType = "password"
	FieldTypeNumber   FieldType = "number"
	FieldTypeRating   FieldType = "rating"
)

// KnownFieldTypes lists the field kinds with a dedicated widget.
var KnownFieldTypes = []FieldType{
	FieldTypeText,
	FieldTypePassword,
	FieldTypeNumber,
	FieldTypeRating,
}

// Known reports whether the type has a dedicated widget.
func (t FieldType) Known() bool {
	for _, known := range KnownFieldTypes {
		if t == known {
			return true
		}
	}
	return false
}

// FieldDefinition describes one form input. Definitions are supplied by the
// host and treated as immutable for the duration of a render pass.
type FieldDefinition struct {
	Key      string    `json:"key" yaml:"key"`
	Type     FieldType `json:"type" yaml:"type"`
	Label    string    `json:"label,omitempty" yaml:"label,omitempty"`
	Required bool      `json:"required,omitempty" yaml:"required,omitempty"`
	Disabled bool      `json:"disabled,omitempty" yaml:"disabled,omitempty"`
	ReadOnly bool      `json:"readOnly,omitempty" yaml:"readOnly,omitempty"`
	// UpperBound configures the rating widget maximum. Nil keeps the widget
	// default.
	UpperBound *int `json:"upperBound,omitempty" yaml:"upperBound,omitempty"`
	// Placeholder is forwarded to text-like widgets when set.
	Placeholder string `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	// EmptyLabel is the accessible text announced by the rating widget when
	// no value is selected.
	EmptyLabel string `json:"emptyLabel,omitempty" yaml:"emptyLabel,omitempty"`
}

// DisplayLabel returns the label, falling back to the key.
func (f FieldDefinition) DisplayLabel() string {
	if label := strings.TrimSpace(f.Label); label != "" {
		return label
	}
	return f.Key
}

// Keys returns the definition keys in list order.
func Keys(fields []FieldDefinition) []string {
	if len(fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for _, field := range fields {
		keys = append(keys, field.Key)
	}
	return keys
}

// IntPtr is a helper for populating UpperBound in literals.
func IntPtr(v int) *int {
	return &v
}
