package model

import (
	"encoding/json"
	"fmt"
)

// NonFieldErrorsKey is the reserved errors key holding form-level messages.
const NonFieldErrorsKey = "non_field_errors"

// Errors is validation feedback split into per-field messages keyed by field
// key and form-level messages. A field has errors only when its key is
// present in Fields, even if the slice is empty.
type Errors struct {
	Fields map[string][]string
	Form   []string
	// FormPresent records that the form-level entry exists, which is what
	// decides whether any alert is rendered.
	FormPresent bool
}

// For returns the messages for key and whether an entry exists.
func (e *Errors) For(key string) ([]string, bool) {
	if e == nil || e.Fields == nil {
		return nil, false
	}
	messages, ok := e.Fields[key]
	return messages, ok
}

// Empty reports whether no field or form entries exist.
func (e *Errors) Empty() bool {
	return e == nil || (len(e.Fields) == 0 && !e.FormPresent)
}

// ParseErrors converts a decoded errors payload where each entry is a string
// or a list of strings. The NonFieldErrorsKey entry becomes form-level. Null
// entries are treated as absent.
func ParseErrors(raw map[string]any) (*Errors, error) {
	if raw == nil {
		return nil, nil
	}
	out := &Errors{Fields: make(map[string][]string, len(raw))}
	for key, entry := range raw {
		if entry == nil {
			continue
		}
		messages, err := messageList(entry)
		if err != nil {
			return nil, fmt.Errorf("model: errors entry %q: %w", key, err)
		}
		if key == NonFieldErrorsKey {
			out.Form = messages
			out.FormPresent = true
			continue
		}
		out.Fields[key] = messages
	}
	return out, nil
}

// UnmarshalJSON decodes the wire shape accepted by ParseErrors.
func (e *Errors) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("model: decode errors: %w", err)
	}
	parsed, err := ParseErrors(raw)
	if err != nil {
		return err
	}
	if parsed == nil {
		*e = Errors{}
		return nil
	}
	*e = *parsed
	return nil
}

// MarshalJSON encodes field entries as lists and the form entry under
// NonFieldErrorsKey when present.
func (e Errors) MarshalJSON() ([]byte, error) {
	out := make(map[string][]string, len(e.Fields)+1)
	for key, messages := range e.Fields {
		out[key] = nonNil(messages)
	}
	if e.FormPresent {
		out[NonFieldErrorsKey] = nonNil(e.Form)
	}
	return json.Marshal(out)
}

func messageList(entry any) ([]string, error) {
	switch typed := entry.(type) {
	case string:
		return []string{typed}, nil
	case []string:
		return append([]string(nil), typed...), nil
	case []any:
		out := make([]string, 0, len(typed))
		for idx, item := range typed {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("element %d is %T, want string", idx, item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported type %T", entry)
	}
}

func nonNil(messages []string) []string {
	if messages == nil {
		return []string{}
	}
	return messages
}
