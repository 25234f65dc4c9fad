package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formkit/pkg/model"
)

// Transformer rewrites field definitions before rendering. Implementations
// can relabel, retype, reorder or drop fields.
type Transformer interface {
	Transform(ctx context.Context, fields []model.FieldDefinition) ([]model.FieldDefinition, error)
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, fields []model.FieldDefinition) ([]model.FieldDefinition, error)

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, fields []model.FieldDefinition) ([]model.FieldDefinition, error) {
	if fn == nil {
		return fields, nil
	}
	return fn(ctx, fields)
}

// PresetTransformer applies declarative overrides loaded from a JSON or YAML
// document:
//
//	{
//	  "order": ["name", "stars"],
//	  "fields": {
//	    "name": {"label": "Full name", "required": true},
//	    "stars": {"upperBound": 10, "emptyLabel": "No rating"},
//	    "legacy": {"hidden": true}
//	  }
//	}
//
// Listed keys in order come first; the rest keep their relative order.
type PresetTransformer struct {
	document presetDocument
}

type presetDocument struct {
	Order  []string              `json:"order" yaml:"order"`
	Fields map[string]fieldPatch `json:"fields" yaml:"fields"`
}

type fieldPatch struct {
	Label       string `json:"label" yaml:"label"`
	Placeholder string `json:"placeholder" yaml:"placeholder"`
	Rename      string `json:"rename" yaml:"rename"`
	Type        string `json:"type" yaml:"type"`
	EmptyLabel  string `json:"emptyLabel" yaml:"emptyLabel"`
	Required    *bool  `json:"required" yaml:"required"`
	Disabled    *bool  `json:"disabled" yaml:"disabled"`
	ReadOnly    *bool  `json:"readOnly" yaml:"readOnly"`
	Hidden      bool   `json:"hidden" yaml:"hidden"`
	UpperBound  *int   `json:"upperBound" yaml:"upperBound"`
}

// NewPresetTransformer constructs a transformer from raw JSON or YAML bytes.
func NewPresetTransformer(data []byte) (*PresetTransformer, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("preset transformer: document is empty")
	}
	var document presetDocument
	if err := json.Unmarshal(data, &document); err != nil {
		document = presetDocument{}
		if yamlErr := yaml.Unmarshal(data, &document); yamlErr != nil {
			return nil, fmt.Errorf("preset transformer: parse document: %w", yamlErr)
		}
	}
	return &PresetTransformer{document: document}, nil
}

// NewPresetTransformerFromFS loads a preset document from the provided
// filesystem path.
func NewPresetTransformerFromFS(fsys fs.FS, path string) (*PresetTransformer, error) {
	if fsys == nil {
		return nil, errors.New("preset transformer: filesystem is nil")
	}
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("preset transformer: path is required")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("preset transformer: read %s: %w", path, err)
	}
	return NewPresetTransformer(data)
}

// Transform applies the patches and ordering to a copy of fields.
func (t *PresetTransformer) Transform(ctx context.Context, fields []model.FieldDefinition) ([]model.FieldDefinition, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	index := make(map[string]int, len(fields))
	for idx, def := range fields {
		index[def.Key] = idx
	}
	for key, patch := range t.document.Fields {
		if _, ok := index[key]; !ok {
			return nil, fmt.Errorf("preset transformer: field %q not found", key)
		}
		if patch.UpperBound != nil && *patch.UpperBound < 1 {
			return nil, fmt.Errorf("preset transformer: field %q: upperBound must be at least 1", key)
		}
	}

	patched := make([]model.FieldDefinition, 0, len(fields))
	for _, key := range orderedKeys(fields, t.document.Order) {
		def := fields[index[key]]
		patch, ok := t.document.Fields[key]
		if ok && patch.Hidden {
			continue
		}
		if ok {
			applyFieldPatch(&def, patch)
		}
		patched = append(patched, def)
	}
	return patched, nil
}

func orderedKeys(fields []model.FieldDefinition, order []string) []string {
	keys := make([]string, 0, len(fields))
	placed := make(map[string]struct{}, len(fields))
	known := make(map[string]struct{}, len(fields))
	for _, def := range fields {
		known[def.Key] = struct{}{}
	}
	for _, key := range order {
		key = strings.TrimSpace(key)
		if _, ok := known[key]; !ok {
			continue
		}
		if _, dup := placed[key]; dup {
			continue
		}
		placed[key] = struct{}{}
		keys = append(keys, key)
	}
	for _, def := range fields {
		if _, ok := placed[def.Key]; ok {
			continue
		}
		keys = append(keys, def.Key)
	}
	return keys
}

func applyFieldPatch(def *model.FieldDefinition, patch fieldPatch) {
	if patch.Label != "" {
		def.Label = patch.Label
	}
	if patch.Placeholder != "" {
		def.Placeholder = patch.Placeholder
	}
	if patch.Type != "" {
		def.Type = model.FieldType(strings.TrimSpace(patch.Type))
	}
	if patch.EmptyLabel != "" {
		def.EmptyLabel = patch.EmptyLabel
	}
	if patch.Required != nil {
		def.Required = *patch.Required
	}
	if patch.Disabled != nil {
		def.Disabled = *patch.Disabled
	}
	if patch.ReadOnly != nil {
		def.ReadOnly = *patch.ReadOnly
	}
	if patch.UpperBound != nil {
		def.UpperBound = model.IntPtr(*patch.UpperBound)
	}
	if strings.TrimSpace(patch.Rename) != "" {
		def.Key = strings.TrimSpace(patch.Rename)
	}
}
