package fieldsource

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formkit/pkg/model"
)

// ErrEmptyDocument is returned when a document has no content.
var ErrEmptyDocument = errors.New("fieldsource: document is empty")

type definitionsFile struct {
	Fields []model.FieldDefinition `json:"fields" yaml:"fields"`
}

// ParseDefinitions decodes an ordered list of field definitions. The
// document is either a bare list or an object with a "fields" list; JSON is
// tried first, then YAML. source only labels errors.
func ParseDefinitions(data []byte, source string) ([]model.FieldDefinition, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyDocument, source)
	}

	fields, err := decodeDefinitions(data)
	if err != nil {
		return nil, fmt.Errorf("fieldsource: parse %s: %w", source, err)
	}
	if err := validateDefinitions(fields); err != nil {
		return nil, fmt.Errorf("fieldsource: %s: %w", source, err)
	}
	return fields, nil
}

// LoadDefinitionsFS reads and parses the definitions file at path.
func LoadDefinitionsFS(fsys fs.FS, path string) ([]model.FieldDefinition, error) {
	if fsys == nil {
		return nil, errors.New("fieldsource: filesystem is nil")
	}
	if !isDocumentFile(path) {
		return nil, fmt.Errorf("fieldsource: %s: unsupported extension", path)
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("fieldsource: read %s: %w", path, err)
	}
	return ParseDefinitions(data, path)
}

func decodeDefinitions(data []byte) ([]model.FieldDefinition, error) {
	var list []model.FieldDefinition
	if err := json.Unmarshal(data, &list); err == nil {
		return list, nil
	}
	var wrapped definitionsFile
	if err := json.Unmarshal(data, &wrapped); err == nil {
		return wrapped.Fields, nil
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, errors.New("invalid JSON or YAML")
	}
	root := &node
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	switch root.Kind {
	case yaml.SequenceNode:
		if err := root.Decode(&list); err != nil {
			return nil, err
		}
		return list, nil
	case yaml.MappingNode:
		if err := root.Decode(&wrapped); err != nil {
			return nil, err
		}
		return wrapped.Fields, nil
	default:
		return nil, errors.New("expected a list of fields or a fields mapping")
	}
}

func validateDefinitions(fields []model.FieldDefinition) error {
	seen := make(map[string]struct{}, len(fields))
	for idx, def := range fields {
		key := strings.TrimSpace(def.Key)
		if key == "" {
			return fmt.Errorf("field %d has no key", idx)
		}
		if _, dup := seen[key]; dup {
			return fmt.Errorf("duplicate field key %q", key)
		}
		seen[key] = struct{}{}
		if def.UpperBound != nil && *def.UpperBound < 1 {
			return fmt.Errorf("field %q: upperBound must be positive", key)
		}
	}
	return nil
}

func isDocumentFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
