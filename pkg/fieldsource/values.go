package fieldsource

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formkit/pkg/model"
)

// ParseValues decodes a flat key/value document into Values. Only strings,
// numbers and null are accepted.
func ParseValues(data []byte, source string) (model.Values, error) {
	raw, err := decodeObject(data, source)
	if err != nil {
		return nil, err
	}
	values, err := model.ValuesFromMap(raw)
	if err != nil {
		return nil, fmt.Errorf("fieldsource: %s: %w", source, err)
	}
	return values, nil
}

// ParseErrors decodes a server errors document: field keys map to a message
// or a list of messages and non_field_errors carries form-level messages.
func ParseErrors(data []byte, source string) (*model.Errors, error) {
	raw, err := decodeObject(data, source)
	if err != nil {
		return nil, err
	}
	errs, err := model.ParseErrors(raw)
	if err != nil {
		return nil, fmt.Errorf("fieldsource: %s: %w", source, err)
	}
	return errs, nil
}

func decodeObject(data []byte, source string) (map[string]any, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyDocument, source)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err == nil {
		return raw, nil
	}
	if err := yaml.Unmarshal(data, &raw); err == nil {
		if raw == nil {
			return nil, fmt.Errorf("fieldsource: parse %s: %w", source, errors.New("expected a mapping"))
		}
		return raw, nil
	}
	return nil, fmt.Errorf("fieldsource: parse %s: invalid JSON or YAML", source)
}
